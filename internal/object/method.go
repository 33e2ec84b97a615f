package object

import "github.com/emberlang/ember/internal/types"

// Method is a bound-method value: a (subject, callable) pair (spec.md
// §3.3). Calling it calls the underlying callable with subject already
// bound, so the caller need not supply it again.
type Method struct {
	Base
	Subject  types.Object
	Callable types.Object // its type must implement types.Callable; Call fails for a *Func
}

func NewMethod(subject, callable types.Object) *Method {
	m := &Method{Subject: subject, Callable: callable}
	m.Tcode = TcodeMethod
	return m
}

type methodType struct{}

func (methodType) Name() string { return "method" }

func (methodType) Mark(o types.Object) uintptr {
	m := o.(*Method)
	m.SetFlag(types.FlagMark)
	return 32 + markChild(m.Subject) + markChild(m.Callable)
}

func (methodType) Free(types.Object) {}

func (methodType) Hash(o types.Object) uint64 {
	m := o.(*Method)
	return Reg.TypeOf(m.Subject).Hash(m.Subject) ^ Reg.TypeOf(m.Callable).Hash(m.Callable)
}

func (methodType) Cmp(a, b types.Object) int {
	am, bm := a.(*Method), b.(*Method)
	if am.Subject == bm.Subject && am.Callable == bm.Callable {
		return 0
	}
	return 1
}

func (methodType) Copy(o types.Object) types.Object {
	m := o.(*Method)
	return NewMethod(m.Subject, m.Callable)
}

func (methodType) Call(o, _ types.Object, args []types.Object) (types.Object, error) {
	m := o.(*Method)
	if cb, ok := Reg.TypeOf(m.Callable).(types.Callable); ok {
		return cb.Call(m.Callable, m.Subject, args)
	}
	return nil, errWrongType("call", "method (non-callable target)")
}
