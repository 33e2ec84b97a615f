package object

import "github.com/emberlang/ember/internal/types"

// Int is a 64-bit signed integer, an atomisable type (spec.md §3.3):
// values 0..255 are pre-made atoms, others become atoms once interned.
type Int struct {
	Base
	Value int64
}

// smallInts pre-allocates the singletons for [0, 255] so that
// NewInt(i) is NewInt(i) holds for every i in range, per the testable
// property in spec.md §8.
var smallInts [256]*Int

func init() {
	for i := range smallInts {
		v := &Int{Value: int64(i)}
		v.Tcode = TcodeInt
		v.SetFlag(types.FlagAtom)
		v.Leafz = 24
		smallInts[i] = v
	}
}

// NewInt returns the canonical atom for v when v is a pre-allocated
// small int, otherwise a fresh non-atomic Int the caller must intern via
// the atom table if it wants atom semantics.
func NewInt(v int64) *Int {
	if v >= 0 && v < int64(len(smallInts)) {
		return smallInts[v]
	}
	n := &Int{Value: v}
	n.Tcode = TcodeInt
	n.Leafz = 24
	return n
}

type intType struct{}

func (intType) Name() string                { return "int" }
func (intType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 24 }
func (intType) Free(types.Object)           {}
func (intType) Hash(o types.Object) uint64  { return uint64(o.(*Int).Value) }
func (intType) Cmp(a, b types.Object) int {
	av, bv := a.(*Int).Value, b.(*Int).Value
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
func (intType) Copy(o types.Object) types.Object {
	n := &Int{Value: o.(*Int).Value}
	n.Tcode = TcodeInt
	n.Leafz = 24
	return n
}
