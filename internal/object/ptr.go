package object

import "github.com/emberlang/ember/internal/types"

// Ptr is an (aggregate, key) pair representing an assignable l-value,
// used by the compiler for *p dereference/assignment targets (spec.md
// §3.3, §4.6).
type Ptr struct {
	Base
	Aggregate types.Object
	Key       types.Object
}

func NewPtr(aggregate, key types.Object) *Ptr {
	p := &Ptr{Aggregate: aggregate, Key: key}
	p.Tcode = TcodePtr
	return p
}

type ptrType struct{}

func (ptrType) Name() string { return "ptr" }

func (ptrType) Mark(o types.Object) uintptr {
	p := o.(*Ptr)
	p.SetFlag(types.FlagMark)
	return 32 + markChild(p.Aggregate) + markChild(p.Key)
}

func (ptrType) Free(types.Object) {}

func (ptrType) Hash(o types.Object) uint64 {
	p := o.(*Ptr)
	return Reg.TypeOf(p.Aggregate).Hash(p.Aggregate) ^ Reg.TypeOf(p.Key).Hash(p.Key)
}

func (ptrType) Cmp(a, b types.Object) int {
	ap, bp := a.(*Ptr), b.(*Ptr)
	if Reg.TypeOf(ap.Aggregate).Cmp(ap.Aggregate, bp.Aggregate) == 0 &&
		Reg.TypeOf(ap.Key).Cmp(ap.Key, bp.Key) == 0 {
		return 0
	}
	return 1
}

func (ptrType) Copy(o types.Object) types.Object {
	p := o.(*Ptr)
	return NewPtr(p.Aggregate, p.Key)
}

// Deref fetches the value the pointer addresses.
func (p *Ptr) Deref() (types.Object, bool) {
	idx, ok := Reg.TypeOf(p.Aggregate).(types.Indexable)
	if !ok {
		return nil, false
	}
	return idx.Fetch(p.Aggregate, p.Key)
}

// Store assigns through the pointer.
func (p *Ptr) Store(val types.Object) error {
	idx, ok := Reg.TypeOf(p.Aggregate).(types.Indexable)
	if !ok {
		return errWrongType("assign through pointer", "non-indexable aggregate")
	}
	return idx.Assign(p.Aggregate, p.Key, val)
}
