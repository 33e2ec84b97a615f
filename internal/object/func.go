package object

import (
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/types"
)

// Func is an ember-level callable: a compiled code array, its formal
// argument names, an "autos" template scope cloned per call for locals,
// and a diagnostic name (spec.md §3.3).
type Func struct {
	Base
	Code      *code.CodeArray
	ArgNames  []string
	Autos     *Map // template scope cloned per invocation
	Name      string
	Captured  *Map // the lexical scope active at the definition point
}

func NewFunc(c *code.CodeArray, argNames []string, autos, captured *Map, name string) *Func {
	f := &Func{Code: c, ArgNames: argNames, Autos: autos, Captured: captured, Name: name}
	f.Tcode = TcodeFunc
	return f
}

type funcType struct{}

func (funcType) Name() string { return "func" }

func (funcType) Mark(o types.Object) uintptr {
	f := o.(*Func)
	f.SetFlag(types.FlagMark)
	size := uintptr(64)
	for _, lit := range f.Code.Literals {
		size += markChild(lit)
	}
	size += markChild(f.Autos)
	size += markChild(f.Captured)
	return size
}

func (funcType) Free(types.Object) {}

func (funcType) Hash(o types.Object) uint64 {
	return uint64(uintptr(0x46554e43)) ^ uint64(len(o.(*Func).Code.Instructions))
}

func (funcType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}

func (funcType) Copy(o types.Object) types.Object {
	f := o.(*Func)
	return NewFunc(f.Code, f.ArgNames, f.Autos, f.Captured, f.Name)
}

// CallEntry is what Func.Entry returns to prepare a Func call. Entry does
// not itself run the VM loop — that would require importing package vm,
// which already imports object — it builds the fresh locals scope and
// returns it plus an entry Pc; the VM's call sequence (spec.md §4.5 step
// 4) does the rest. The VM's callFunc and Engine.Call call through it.
type CallEntry struct {
	Scope *Map
	Pc    *Pc
}

func (f *Func) Entry(subject types.Object, args []types.Object) (*CallEntry, error) {
	if len(args) > len(f.ArgNames) {
		return nil, errWrongType("call", "func (too many arguments)")
	}
	scope := NewScope(f.Captured)
	if f.Autos != nil {
		f.Autos.table.Iter(func(k, v types.Object) bool {
			scope.table.Put(k, v)
			return false
		})
	}
	for i, name := range f.ArgNames {
		var v types.Object = TheNull()
		if i < len(args) {
			v = args[i]
		}
		// Interned: OpName/OpAssign look this argument up later via the
		// compiler's interned literal for the same name, and swiss.Map
		// compares keys by Go identity, not Type.Cmp — a fresh, un-interned
		// *String here would never match that lookup.
		scope.table.Put(Intern(NewStr(name)), v)
	}
	return &CallEntry{Scope: scope, Pc: NewPc(f.Code, 0)}, nil
}

// funcType does not implement types.Callable directly (Call needs a VM
// to actually execute); instead the VM type-switches on *Func and calls
// Entry. Cfunc and Method, below, hold genuinely native dispatch and do
// implement types.Callable.
