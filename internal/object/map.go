package object

import (
	"github.com/dolthub/swiss"

	"github.com/emberlang/ember/internal/types"
)

// Map is ember's "struct": an open-addressed hash table from object keys
// to object values, with an optional Super link for lexical-scope
// chaining (spec.md §3.3). Keys are expected to be atoms — once interned,
// two equal values share one canonical pointer (invariant 3), so a
// dolthub/swiss table keyed on the types.Object interface gets correct
// value semantics from Go's native interface equality without ember
// needing to re-implement its own hash/cmp probe for this type; the atom
// table is where that probe actually lives (internal/atom).
type Map struct {
	Base
	table *swiss.Map[types.Object, types.Object]
	Super *Map
}

// NewMap returns an empty, non-atomic map with no super scope.
func NewMap() *Map {
	m := &Map{table: swiss.NewMap[types.Object, types.Object](8)}
	m.Tcode = TcodeMap
	return m
}

// NewScope returns an empty map whose super link is parent, marking
// FlagSuper per spec.md §3.1.
func NewScope(parent *Map) *Map {
	m := NewMap()
	if parent != nil {
		m.Super = parent
		m.SetFlag(types.FlagSuper)
	}
	return m
}

func (m *Map) Len() int { return int(m.table.Count()) }

type mapType struct{}

func (mapType) Name() string { return "struct" }

func (mapType) Mark(o types.Object) uintptr {
	m := o.(*Map)
	m.SetFlag(types.FlagMark)
	size := uintptr(56 + m.table.Count()*24)
	m.table.Iter(func(k, v types.Object) bool {
		size += markChild(k)
		size += markChild(v)
		return false
	})
	if m.Super != nil {
		size += markChild(m.Super)
	}
	return size
}

func (mapType) Free(types.Object) {}

func (mapType) Hash(o types.Object) uint64 {
	m := o.(*Map)
	var h uint64 = 14695981039346656037
	m.table.Iter(func(k, v types.Object) bool {
		h ^= Reg.TypeOf(k).Hash(k) ^ Reg.TypeOf(v).Hash(v)
		return false
	})
	return h
}

func (mapType) Cmp(a, b types.Object) int {
	am, bm := a.(*Map), b.(*Map)
	if am == bm {
		return 0
	}
	if am.Len() != bm.Len() {
		return 1
	}
	mismatch := false
	am.table.Iter(func(k, v types.Object) bool {
		bv, ok := bm.table.Get(k)
		if !ok || Reg.TypeOf(v).Cmp(v, bv) != 0 {
			mismatch = true
			return true // stop iterating
		}
		return false
	})
	if mismatch {
		return 1
	}
	return 0
}

func (mapType) Copy(o types.Object) types.Object {
	m := o.(*Map)
	n := NewScope(m.Super)
	m.table.Iter(func(k, v types.Object) bool {
		n.table.Put(k, v)
		return false
	})
	return n
}

// Assign/Fetch (types.Indexable): base-level only, no super-chain walk —
// plain indexed access like m["k"].
func (mapType) Assign(o, key, val types.Object) error {
	m := o.(*Map)
	if m.IsAtom() {
		return errAssignAtomic("struct")
	}
	m.table.Put(key, val)
	return nil
}

func (mapType) Fetch(o, key types.Object) (types.Object, bool) {
	return o.(*Map).table.Get(key)
}

// ScopeLike: the super-chain-aware hooks the VM uses for name lookup and
// lexical assignment (spec.md §3.2, §4.5).
func (mapType) AssignSuper(o, key, val types.Object) error {
	m := o.(*Map)
	for cur := m; cur != nil; cur = cur.Super {
		if _, ok := cur.table.Get(key); ok {
			if cur.IsAtom() {
				return errAssignAtomic("struct")
			}
			cur.table.Put(key, val)
			return nil
		}
	}
	return mapType{}.AssignBase(o, key, val)
}

func (mapType) FetchSuper(o, key types.Object) (types.Object, bool) {
	for cur := o.(*Map); cur != nil; cur = cur.Super {
		if v, ok := cur.table.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

func (mapType) AssignBase(o, key, val types.Object) error {
	m := o.(*Map)
	if m.IsAtom() {
		return errAssignAtomic("struct")
	}
	m.table.Put(key, val)
	return nil
}

func (mapType) FetchBase(o, key types.Object) (types.Object, bool) {
	return o.(*Map).table.Get(key)
}

func (mapType) Keys(o types.Object) []types.Object {
	m := o.(*Map)
	keys := make([]types.Object, 0, m.Len())
	m.table.Iter(func(k, v types.Object) bool {
		keys = append(keys, k)
		return false
	})
	return keys
}

func (mapType) Len(o types.Object) int { return o.(*Map).Len() }
