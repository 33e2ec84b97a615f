// Package code defines the bytecode format the compiler emits and the VM
// executes: opcodes and the flat code array they live in (spec.md §4.5,
// §4.6, GLOSSARY "Code array"). It deliberately knows nothing about
// object representation — constants and literals are carried as opaque
// types.Object values — so it has no import-cycle exposure to package
// object, which itself defines the Op/Pc/Src/Catcher heap types that
// wrap a *CodeArray.
package code

// Ecode is the small integer selecting a VM dispatch case, analogous to
// the teacher's bytecode.Opcode but grouped by sub-switch the way
// spec.md §9 asks (arithmetic, comparison, logical, assignment,
// control-flow, call).
type Ecode uint8

const (
	// Stack / literal
	OpPush Ecode = iota
	OpPop
	OpDup
	OpMark // push the Mark sentinel

	// Name lookup / assignment
	OpName // A: constant index of a name string; look up via the vs chain
	// OpAssign: B==0 is a bare-name write ("x = v"), A the name's
	// constant index — pops v, resolves the binding by walking the vs
	// chain (redefining it where it already exists, per ScopeLike's
	// AssignSuper), and pushes v back. B==1 is an aggregate write
	// ("a[k] = v") — pops v, k, a from os and performs an Indexable
	// assign.
	OpAssign
	// OpAssignBase: A: constant index of a name string. Pops v, binds it
	// in the innermost scope unconditionally (no chain walk) — a local
	// declaration, as opposed to OpAssign's possibly-outer rebind.
	OpAssignBase
	OpFetch // pop aggregate, key; push fetched value (or null)
	OpMkPtr // pop aggregate, key; push a Ptr
	OpDeref // pop a Ptr; push its addressed value (or null)
	OpAssignPtr // pop value, Ptr; perform the addressed Indexable assign, push value back

	// Arithmetic / comparison / logical (binary op sub-switch keyed by
	// the operand as an OpSubtype)
	OpBinop
	OpUnaryMinus
	OpNot

	// Control flow
	OpJump
	OpJumpFalse
	OpJumpTrue
	OpLoop      // backward jump to A (a loop's back-edge)
	OpBreak
	OpContinue

	// Calls
	OpCall
	OpReturn
	// OpMakeClosure: A indexes a literal *object.Func template (Code,
	// ArgNames, Autos set, Captured nil, compiled eagerly at the
	// definition site per spec.md §4.6); pushes a fresh Func with
	// Captured bound to the scope active right now.
	OpMakeClosure

	// Scopes
	OpPushScope
	OpPopScope

	// Exceptions
	OpPushCatcher
	OpPopCatcher
	OpFail
	// OpLoadError pushes the message string most recently caught by the
	// enclosing catcher (or null outside one), resolving the global
	// "error" symbol of spec.md §4.7 without a real per-thread global.
	OpLoadError

	// Debug
	OpSrc // no-op marker recording source position
)

// OpSubtype distinguishes the concrete operator a generic OpBinop,
// OpUnaryMinus, etc. instruction performs; the VM's binop table is keyed
// on (tcode_lhs, tcode_rhs, OpSubtype), per spec.md §4.5.
type OpSubtype uint8

const (
	SubAdd OpSubtype = iota
	SubSub
	SubMul
	SubDiv
	SubMod
	SubEq
	SubNeq
	SubLt
	SubLe
	SubGt
	SubGe
	SubAnd
	SubOr
	SubAddAssign
	SubSubAssign
	SubMulAssign
	SubDivAssign
)

func (e Ecode) String() string {
	names := [...]string{
		"PUSH", "POP", "DUP", "MARK",
		"NAME", "ASSIGN", "ASSIGN_BASE", "FETCH", "MKPTR", "DEREF", "ASSIGN_PTR",
		"BINOP", "UNARY_MINUS", "NOT",
		"JUMP", "JUMP_FALSE", "JUMP_TRUE", "LOOP", "BREAK", "CONTINUE",
		"CALL", "RETURN", "MAKE_CLOSURE",
		"PUSH_SCOPE", "POP_SCOPE",
		"PUSH_CATCHER", "POP_CATCHER", "FAIL", "LOAD_ERROR",
		"SRC",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "UNKNOWN"
}
