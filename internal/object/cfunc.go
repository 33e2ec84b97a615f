package object

import "github.com/emberlang/ember/internal/types"

// NativeFunc is a cfunc's native implementation. It receives the
// arguments already popped off the operand stack (spec.md §4.5 step 3)
// plus the two arbitrary auxiliary values the spec's Cfunc entity
// carries, and returns exactly one result or an error.
type NativeFunc func(args []types.Object, aux1, aux2 any) (types.Object, error)

// Cfunc is a native-code callable exposed to script code (spec.md §3.3).
type Cfunc struct {
	Base
	FnName string
	Fn     NativeFunc
	Aux1   any
	Aux2   any
}

func NewCfunc(name string, fn NativeFunc, aux1, aux2 any) *Cfunc {
	c := &Cfunc{FnName: name, Fn: fn, Aux1: aux1, Aux2: aux2}
	c.Tcode = TcodeCfunc
	c.SetFlag(types.FlagAtom) // cfuncs are stateless and safely shared
	return c
}

type cfuncType struct{}

func (cfuncType) Name() string                { return "cfunc" }
func (cfuncType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 56 }
func (cfuncType) Free(types.Object)           {}
func (cfuncType) Hash(o types.Object) uint64 {
	c := o.(*Cfunc)
	var h uint64 = 14695981039346656037
	for _, ch := range c.FnName {
		h ^= uint64(ch)
		h *= 1099511628211
	}
	return h
}
func (cfuncType) Cmp(a, b types.Object) int {
	if a.(*Cfunc).FnName == b.(*Cfunc).FnName {
		return 0
	}
	return 1
}
func (cfuncType) Copy(o types.Object) types.Object { return o } // cfuncs are effectively immutable

func (cfuncType) Call(o, subject types.Object, args []types.Object) (types.Object, error) {
	c := o.(*Cfunc)
	return c.Fn(args, c.Aux1, c.Aux2)
}
