// Package compiler lowers a syntactic expression tree into a code array
// (spec.md §4.6). The tree shape it consumes is deliberately generic —
// expr nodes carrying an operator kind, a small fixed set of typed
// fields, and child expressions — since the surface-syntax lexer/parser
// that builds such a tree is an external collaborator (spec.md §1, §6)
// and not part of this core. This package depends on no parser package.
package compiler

import (
	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// Kind selects how an Expr is compiled. Most kinds use at most the two
// children spec.md §4.6 describes ("expr nodes ... up to two children");
// IndexAssign and If take three, For takes four, and Call and Block take
// a variable-length list (call arguments, statement sequences), so
// Children is a slice rather than a fixed [2]*Expr pair.
type Kind uint8

const (
	KLiteral Kind = iota
	KName
	KAssign     // Name, Children[0]=value
	KAssignBase // Name, Children[0]=value
	KIndex      // Children[0]=aggregate, Children[1]=key
	KIndexAssign // Children[0]=aggregate, Children[1]=key, Children[2]=value
	KMkPtr       // Children[0]=aggregate, Children[1]=key
	KDeref       // Children[0]=ptr expr
	KPtrAssign   // Children[0]=ptr expr, Children[1]=value
	KBinary      // Sub set, Children[0], Children[1]
	KUnaryMinus  // Children[0]
	KNot         // Children[0]
	KAnd         // Children[0], Children[1] (short-circuit)
	KOr          // Children[0], Children[1] (short-circuit)
	KIf          // Children[0]=cond, Children[1]=then, Children[2]=else (optional)
	KWhile       // Children[0]=cond, Children[1]=body
	KFor         // Children[0]=init, Children[1]=cond, Children[2]=step, Children[3]=body
	KBreak
	KContinue
	KCall  // Children[0]=callee, Children[1:]=args
	KBlock // Children = statements, sequentially evaluated
	KFuncLit // Params set, Children[0]=body
	KReturn  // Children[0]=value (optional)
	KTry     // Children[0]=try block, Children[1]=catch block
	KLoadError
)

// Expr is one node of the input tree.
type Expr struct {
	Kind     Kind
	Line     int
	Literal  types.Object  // for KLiteral
	Name     string        // for KName/KAssign/KAssignBase
	Sub      code.OpSubtype // for KBinary
	Params   []string      // for KFuncLit
	FnName   string        // for KFuncLit, diagnostic only
	Children []*Expr
}

// loopCtx tracks the jump patches a break/continue inside the
// currently-compiling loop must resolve once the loop's extent is known.
type loopCtx struct {
	continueTarget   int32
	continueKnown    bool
	continuePatches  []int // continue instructions awaiting a known target (for's step clause)
	breakPatches     []int
}

// Compiler emits one function body's worth of code into a CodeArray. A
// fresh Compiler is used per function literal (including the top-level
// program, treated as a zero-argument function).
type Compiler struct {
	code  *code.CodeArray
	atoms *atom.Table // literal atoms are interned via atom_probe/store, per spec.md §4.6 tie-breaks
	loops []loopCtx
}

// New returns a compiler that emits into a fresh code array for file,
// interning literals through atoms (may be nil to skip interning, e.g.
// in tests that don't care about literal sharing).
func New(file string, atoms *atom.Table) *Compiler {
	return &Compiler{code: code.NewCodeArray(file), atoms: atoms}
}

// Compile lowers root (a program body, itself a KBlock) into a complete
// code array ending in an implicit return of the block's value.
func Compile(file string, atoms *atom.Table, root *Expr) (*code.CodeArray, error) {
	c := New(file, atoms)
	if err := c.compile(root); err != nil {
		return nil, err
	}
	c.code.Emit(code.OpReturn, 0, 0, root.Line)
	return c.code, nil
}

func (c *Compiler) intern(o types.Object) types.Object {
	if c.atoms == nil {
		return o
	}
	return c.atoms.Atom(o, false)
}

func (c *Compiler) literal(o types.Object) int32 {
	return c.code.AddLiteral(c.intern(o))
}

func (c *Compiler) emit(op code.Ecode, a, b int32, line int) int {
	return c.code.Emit(op, a, b, line)
}

func (c *Compiler) here() int32 { return int32(len(c.code.Instructions)) }

func (c *Compiler) patch(idx int) { c.code.Patch(idx, c.here()) }

func (c *Compiler) compile(e *Expr) error {
	switch e.Kind {
	case KLiteral:
		c.emit(code.OpPush, c.literal(e.Literal), 0, e.Line)
		return nil

	case KName:
		idx := c.literal(object.NewStr(e.Name))
		c.emit(code.OpName, idx, 0, e.Line)
		return nil

	case KAssign, KAssignBase:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		idx := c.literal(object.NewStr(e.Name))
		op := code.OpAssign
		if e.Kind == KAssignBase {
			op = code.OpAssignBase
		}
		c.emit(op, idx, 0, e.Line)
		return nil

	case KIndex:
		if err := c.compileChildren(e); err != nil {
			return err
		}
		c.emit(code.OpFetch, 0, 0, e.Line)
		return nil

	case KIndexAssign:
		if err := c.compile(e.Children[0]); err != nil { // aggregate
			return err
		}
		if err := c.compile(e.Children[1]); err != nil { // key
			return err
		}
		if err := c.compile(e.Children[2]); err != nil { // value
			return err
		}
		c.emit(code.OpAssign, 0, 1, e.Line) // B==1: aggregate write
		return nil

	case KMkPtr:
		if err := c.compileChildren(e); err != nil {
			return err
		}
		c.emit(code.OpMkPtr, 0, 0, e.Line)
		return nil

	case KDeref:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpDeref, 0, 0, e.Line)
		return nil

	case KPtrAssign:
		if err := c.compile(e.Children[0]); err != nil { // ptr
			return err
		}
		if err := c.compile(e.Children[1]); err != nil { // value
			return err
		}
		c.emit(code.OpAssignPtr, 0, 0, e.Line)
		return nil

	case KBinary:
		if err := c.compileChildren(e); err != nil {
			return err
		}
		c.emit(code.OpBinop, 0, int32(e.Sub), e.Line)
		return nil

	case KUnaryMinus:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpUnaryMinus, 0, 0, e.Line)
		return nil

	case KNot:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpNot, 0, 0, e.Line)
		return nil

	case KAnd:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpDup, 0, 0, e.Line)
		jmp := c.emit(code.OpJumpFalse, 0, 0, e.Line)
		c.emit(code.OpPop, 0, 0, e.Line)
		if err := c.compile(e.Children[1]); err != nil {
			return err
		}
		c.patch(jmp)
		return nil

	case KOr:
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpDup, 0, 0, e.Line)
		jmp := c.emit(code.OpJumpTrue, 0, 0, e.Line)
		c.emit(code.OpPop, 0, 0, e.Line)
		if err := c.compile(e.Children[1]); err != nil {
			return err
		}
		c.patch(jmp)
		return nil

	case KIf:
		return c.compileIf(e)

	case KWhile:
		return c.compileWhile(e)

	case KFor:
		return c.compileFor(e)

	case KBreak:
		if len(c.loops) == 0 {
			return errNoLoop("break")
		}
		idx := c.emit(code.OpBreak, 0, 0, e.Line)
		top := len(c.loops) - 1
		c.loops[top].breakPatches = append(c.loops[top].breakPatches, idx)
		return nil

	case KContinue:
		if len(c.loops) == 0 {
			return errNoLoop("continue")
		}
		top := len(c.loops) - 1
		if c.loops[top].continueKnown {
			c.emit(code.OpContinue, c.loops[top].continueTarget, 0, e.Line)
		} else {
			idx := c.emit(code.OpContinue, 0, 0, e.Line)
			c.loops[top].continuePatches = append(c.loops[top].continuePatches, idx)
		}
		return nil

	case KCall:
		c.emit(code.OpMark, 0, 0, e.Line)
		for _, arg := range e.Children[1:] {
			if err := c.compile(arg); err != nil {
				return err
			}
		}
		if err := c.compile(e.Children[0]); err != nil {
			return err
		}
		c.emit(code.OpCall, 0, 0, e.Line)
		return nil

	case KBlock:
		return c.compileBlock(e)

	case KFuncLit:
		return c.compileFuncLit(e)

	case KReturn:
		if len(e.Children) > 0 {
			if err := c.compile(e.Children[0]); err != nil {
				return err
			}
		} else {
			c.emit(code.OpPush, c.literal(object.TheNull()), 0, e.Line)
		}
		c.emit(code.OpReturn, 0, 0, e.Line)
		return nil

	case KTry:
		return c.compileTry(e)

	case KLoadError:
		c.emit(code.OpLoadError, 0, 0, e.Line)
		return nil

	default:
		return errUnknownKind(e.Kind)
	}
}

func (c *Compiler) compileChildren(e *Expr) error {
	for _, child := range e.Children {
		if err := c.compile(child); err != nil {
			return err
		}
	}
	return nil
}

// compileBlock evaluates statements left to right, discarding every
// result but the last (spec.md §4.6 "conventional left-to-right
// post-order emission"); an empty block pushes null.
func (c *Compiler) compileBlock(e *Expr) error {
	if len(e.Children) == 0 {
		c.emit(code.OpPush, c.literal(object.TheNull()), 0, e.Line)
		return nil
	}
	for i, stmt := range e.Children {
		if err := c.compile(stmt); err != nil {
			return err
		}
		if i < len(e.Children)-1 {
			c.emit(code.OpPop, 0, 0, stmt.Line)
		}
	}
	return nil
}

func (c *Compiler) compileIf(e *Expr) error {
	if err := c.compile(e.Children[0]); err != nil {
		return err
	}
	jumpToElse := c.emit(code.OpJumpFalse, 0, 0, e.Line)
	if err := c.compile(e.Children[1]); err != nil {
		return err
	}
	jumpToEnd := c.emit(code.OpJump, 0, 0, e.Line)
	c.patch(jumpToElse)
	if len(e.Children) > 2 {
		if err := c.compile(e.Children[2]); err != nil {
			return err
		}
	} else {
		c.emit(code.OpPush, c.literal(object.TheNull()), 0, e.Line)
	}
	c.patch(jumpToEnd)
	return nil
}

// compileWhile/compileFor emit conventional jump-based loops rather than
// the spec's runtime loop-continuation-frame object on xs: both are
// observationally identical from script code, and this keeps xs holding
// only the two kinds of frame (Pc, Catcher) that genuinely need stack
// discipline for correctness. See DESIGN.md.
func (c *Compiler) compileWhile(e *Expr) error {
	top := c.here()
	c.loops = append(c.loops, loopCtx{continueTarget: top, continueKnown: true})
	if err := c.compile(e.Children[0]); err != nil {
		return err
	}
	exitJump := c.emit(code.OpJumpFalse, 0, 0, e.Line)
	if err := c.compile(e.Children[1]); err != nil {
		return err
	}
	c.emit(code.OpPop, 0, 0, e.Line) // discard body value; while is not expression-valued
	c.emit(code.OpLoop, top, 0, e.Line)

	end := c.here()
	c.code.Patch(exitJump, end)
	c.resolveLoop(end)
	c.emit(code.OpPush, c.literal(object.TheNull()), 0, e.Line)
	return nil
}

func (c *Compiler) compileFor(e *Expr) error {
	if err := c.compile(e.Children[0]); err != nil { // init
		return err
	}
	c.emit(code.OpPop, 0, 0, e.Line)
	condPc := c.here()
	if err := c.compile(e.Children[1]); err != nil { // cond
		return err
	}
	exitJump := c.emit(code.OpJumpFalse, 0, 0, e.Line)
	c.loops = append(c.loops, loopCtx{})
	if err := c.compile(e.Children[3]); err != nil { // body
		return err
	}
	c.emit(code.OpPop, 0, 0, e.Line)
	stepPc := c.here()
	top := len(c.loops) - 1
	c.loops[top].continueTarget = stepPc
	c.loops[top].continueKnown = true
	for _, idx := range c.loops[top].continuePatches {
		c.code.Patch(idx, stepPc)
	}
	if err := c.compile(e.Children[2]); err != nil { // step
		return err
	}
	c.emit(code.OpPop, 0, 0, e.Line)
	c.emit(code.OpLoop, condPc, 0, e.Line)

	end := c.here()
	c.code.Patch(exitJump, end)
	c.resolveLoop(end)
	c.emit(code.OpPush, c.literal(object.TheNull()), 0, e.Line)
	return nil
}

func (c *Compiler) resolveLoop(end int32) {
	top := len(c.loops) - 1
	for _, idx := range c.loops[top].breakPatches {
		c.code.Patch(idx, end)
	}
	c.loops = c.loops[:top]
}

// compileFuncLit compiles the body eagerly into its own code array (a
// recursive Compiler instance), per spec.md §4.6, and emits a
// MakeClosure referencing the resulting template; the captured scope is
// bound at MakeClosure's execution time, not compile time.
func (c *Compiler) compileFuncLit(e *Expr) error {
	inner := New(c.code.File, c.atoms)
	if err := inner.compile(e.Children[0]); err != nil {
		return err
	}
	inner.emit(code.OpReturn, 0, 0, e.Line)

	// Not interned: two func literals are never the same value even with
	// identical bodies, so atom_probe would only waste a table slot.
	tmpl := object.NewFunc(inner.code, e.Params, object.NewMap(), nil, e.FnName)
	idx := c.code.AddLiteral(tmpl)
	c.emit(code.OpMakeClosure, idx, 0, e.Line)
	return nil
}

func (c *Compiler) compileTry(e *Expr) error {
	pushCatcher := c.emit(code.OpPushCatcher, 0, 0, e.Line)
	if err := c.compile(e.Children[0]); err != nil {
		return err
	}
	c.emit(code.OpPopCatcher, 0, 0, e.Line)
	jumpOverCatch := c.emit(code.OpJump, 0, 0, e.Line)
	c.patch(pushCatcher)
	if err := c.compile(e.Children[1]); err != nil {
		return err
	}
	c.patch(jumpOverCatch)
	return nil
}
