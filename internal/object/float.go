package object

import (
	"math"

	"github.com/emberlang/ember/internal/types"
)

// Float is an IEEE-754 double, an atomisable type: a Float becomes an
// atom once interned through the atom table.
type Float struct {
	Base
	Value float64
}

// NewFloat returns a fresh, non-atomic Float. Callers wanting atom
// semantics intern it through the atom table.
func NewFloat(v float64) *Float {
	n := &Float{Value: v}
	n.Tcode = TcodeFloat
	n.Leafz = 24
	return n
}

type floatType struct{}

func (floatType) Name() string                { return "float" }
func (floatType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 24 }
func (floatType) Free(types.Object)           {}

// Hash hashes the bit pattern. Go's Float64bits already yields a
// platform-independent big-endian-ordered integer, so no manual byte
// swap is needed the way the original's endian-sensitive C union did.
func (floatType) Hash(o types.Object) uint64 {
	return math.Float64bits(o.(*Float).Value)
}

func (floatType) Cmp(a, b types.Object) int {
	av, bv := a.(*Float).Value, b.(*Float).Value
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func (floatType) Copy(o types.Object) types.Object {
	return NewFloat(o.(*Float).Value)
}
