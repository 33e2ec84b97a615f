package object

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/emberlang/ember/internal/types"
)

// Set is an open-addressed hash of object keys (spec.md §3.3). Ember
// requires set elements to already be atoms, so two equal values share a
// canonical pointer (invariant 3) and Go's native comparable equality —
// which is what mapset.Set relies on — is exactly the equality the spec
// wants. No custom hash/cmp indirection is needed for this type the way
// it is for the atom table itself.
type Set struct {
	Base
	members mapset.Set[types.Object]
}

func NewSet() *Set {
	s := &Set{members: mapset.NewSet[types.Object]()}
	s.Tcode = TcodeSet
	return s
}

func (s *Set) Len() int                 { return s.members.Cardinality() }
func (s *Set) Add(o types.Object)       { s.members.Add(o) }
func (s *Set) Remove(o types.Object)    { s.members.Remove(o) }
func (s *Set) Contains(o types.Object) bool { return s.members.Contains(o) }
func (s *Set) Each(f func(types.Object) bool) {
	for v := range s.members.Iter() {
		if !f(v) {
			break
		}
	}
}

type setType struct{}

func (setType) Name() string { return "set" }

func (setType) Mark(o types.Object) uintptr {
	s := o.(*Set)
	s.SetFlag(types.FlagMark)
	size := uintptr(48 + s.Len()*16)
	s.Each(func(m types.Object) bool {
		size += markChild(m)
		return true
	})
	return size
}

func (setType) Free(types.Object) {}

func (setType) Hash(o types.Object) uint64 {
	s := o.(*Set)
	var h uint64
	s.Each(func(m types.Object) bool {
		h ^= Reg.TypeOf(m).Hash(m) // xor: order-independent, matches set equality
		return true
	})
	return h
}

func (setType) Cmp(a, b types.Object) int {
	as, bs := a.(*Set), b.(*Set)
	if as.members.Equal(bs.members) {
		return 0
	}
	return 1
}

func (setType) Copy(o types.Object) types.Object {
	n := NewSet()
	o.(*Set).Each(func(m types.Object) bool {
		n.Add(m)
		return true
	})
	return n
}

func (setType) Assign(o, key, val types.Object) error {
	s := o.(*Set)
	if s.IsAtom() {
		return errAssignAtomic("set")
	}
	s.Add(key)
	return nil
}

func (setType) Fetch(o, key types.Object) (types.Object, bool) {
	s := o.(*Set)
	if s.Contains(key) {
		return key, true
	}
	return nil, false
}
