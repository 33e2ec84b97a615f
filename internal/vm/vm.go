// Package vm implements the stack-based bytecode interpreter (spec.md
// §4.5): three object-managed stacks (vs/os/xs), opcode dispatch grouped
// into arithmetic/comparison/logical/assignment/control-flow/call
// sub-switches, and the Evaluating/Returning/Raising exec-frame state
// machine that unwinds to the nearest installed catcher instead of using
// a Go panic.
//
// The dispatch loop itself follows the teacher's pkg/vm/vm.go shape — an
// instruction-pointer `for` loop over a flat instruction array with one
// `switch inst.Op` — rather than the spec's alternative description of
// xs as a literal stack of to-be-evaluated continuation objects; xs here
// holds exactly what a call or catcher needs to resume a suspended
// frame (a Pc to return to, a Catcher to unwind to), which is the part
// of that design that is actually load-bearing for correctness
// (reentrant calls, try/onerror unwinding) and participates in GC
// marking like any other object per spec.md invariant 7.
package vm

import (
	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/errs"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// State is the exec frame's state (spec.md §4.5, "State machine — exec
// frame").
type State int

const (
	Evaluating State = iota
	Returning
	Raising
)

// VM is one thread's execution context: its own vs/os/xs and error
// buffer (spec.md §4.8, "independent exec records"). A Collector and a
// shared Registry are injected so every VM in a process marks/dispatches
// through the same tables.
type VM struct {
	VS *object.Array // value (scope) stack: top is the current scope
	OS *object.Array // operand stack
	XS *object.Array // execution stack: return Pcs and installed Catchers

	Err errs.State

	reg  *types.Registry
	coll *gc.Collector
	log  *zap.Logger

	cur   *code.CodeArray
	ip    int32
	state State

	// lastCaught holds the message of the error a catcher most recently
	// unwound to, for OpLoadError to resolve spec.md §4.7's per-thread
	// "error" symbol without a real global.
	lastCaught string

	// Signals is called before every instruction, so at every loop
	// back-edge and call boundary too (spec.md §4.8's deferred signal
	// delivery); an error it returns is raised like any other. nil means
	// no hook is installed.
	Signals func() error
}

func New(reg *types.Registry, coll *gc.Collector, log *zap.Logger) *VM {
	if log == nil {
		log = zap.NewNop()
	}
	vm := &VM{
		VS:   object.NewArray(8),
		OS:   object.NewArray(64),
		XS:   object.NewArray(64),
		reg:  reg,
		coll: coll,
		log:  log,
	}
	coll.AddRootSource(vm.Roots)
	return vm
}

// Roots is a gc.RootSource exposing this VM's three stacks and current
// scope as GC roots (spec.md §4.4).
func (vm *VM) Roots() []types.Object {
	roots := make([]types.Object, 0, vm.VS.Len()+vm.OS.Len()+vm.XS.Len())
	for i := 0; i < vm.VS.Len(); i++ {
		roots = append(roots, vm.VS.At(i))
	}
	for i := 0; i < vm.OS.Len(); i++ {
		roots = append(roots, vm.OS.At(i))
	}
	for i := 0; i < vm.XS.Len(); i++ {
		roots = append(roots, vm.XS.At(i))
	}
	return roots
}

func (vm *VM) scope() *object.Map {
	top, ok := vm.VS.Back()
	if !ok {
		return nil
	}
	return top.(*object.Map)
}

// CurrentSrc reports the most recently executed file:line, for error
// messages and the debugger (spec.md §4.5 "src → update current source
// location").
func (vm *VM) CurrentSrc() (string, int) {
	if vm.cur == nil {
		return "", 0
	}
	return vm.cur.File, vm.cur.Lines[clampIdx(int(vm.ip)-1, len(vm.cur.Lines))]
}

func clampIdx(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Run executes code starting at instruction 0 in a fresh scope chained
// to captured, and returns whatever is left on OS, or the terminal
// error if Raising never found a catcher (spec.md §4.5, "Raising with
// no catcher: terminal; the error string propagates to the host").
func (vm *VM) Run(c *code.CodeArray, captured *object.Map) (types.Object, error) {
	vm.cur = c
	vm.ip = 0
	vm.VS.PushBack(object.NewScope(captured))
	vm.state = Evaluating

	for {
		if vm.Signals != nil {
			if err := vm.Signals(); err != nil {
				vm.beginRaise(err)
			}
		}

		switch vm.state {
		case Evaluating:
			if int(vm.ip) >= vm.cur.Len() {
				return vm.finish()
			}
			instr := vm.cur.Instructions[vm.ip]
			vm.ip++
			if err := vm.exec(instr); err != nil {
				vm.beginRaise(err)
			}
		case Raising:
			if !vm.unwindOnce() {
				return nil, vm.Err.GetError()
			}
		case Returning:
			return vm.finish()
		}
	}
}

func (vm *VM) finish() (types.Object, error) {
	v, _ := vm.OS.Back()
	return v, nil
}

// beginRaise transitions Evaluating -> Raising (spec.md §4.5).
func (vm *VM) beginRaise(err error) {
	vm.Err.SetCause(err, "runtime error")
	vm.state = Raising
}

// unwindOnce pops one frame off xs looking for a Catcher. It returns
// false when xs is exhausted with no catcher found, matching "Raising
// with no catcher: terminal."
func (vm *VM) unwindOnce() bool {
	top, ok := vm.XS.PopBack()
	if !ok {
		return false
	}
	switch frame := top.(type) {
	case *object.Catcher:
		vm.OS.Truncate(int(frame.OsDepth))
		vm.VS.Truncate(int(frame.VsDepth))
		vm.cur = frame.Target.Code
		vm.ip = frame.Target.Off
		if err := vm.Err.GetError(); err != nil {
			vm.lastCaught = err.Error()
		} else {
			vm.lastCaught = ""
		}
		vm.Err.ClearError()
		vm.state = Evaluating
		return true
	case *object.Pc:
		// An unhandled call frame unwinds past without restoring state;
		// its scope was already pushed onto vs by the call that created
		// it and gets dropped with it by the next catcher's VsDepth
		// truncation (or by Run returning, at top level).
		return true
	default:
		return true
	}
}
