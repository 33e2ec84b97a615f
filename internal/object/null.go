package object

import "github.com/emberlang/ember/internal/types"

// Null is ember's singleton null value (spec.md §3.3).
type Null struct{ Base }

var theNull = &Null{}

func init() {
	theNull.Tcode = TcodeNull
	theNull.SetFlag(types.FlagAtom)
	theNull.Leafz = 8
}

// TheNull returns the one Null instance. There is never a second one:
// constructing it again would violate invariant 3 (equal atoms are
// pointer-equal).
func TheNull() *Null { return theNull }

type nullType struct{}

func (nullType) Name() string                  { return "null" }
func (nullType) Mark(o types.Object) uintptr   { o.Hdr().SetFlag(types.FlagMark); return 8 }
func (nullType) Free(types.Object)             {}
func (nullType) Hash(types.Object) uint64      { return 0x4e554c4c }
func (nullType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}
func (nullType) Copy(o types.Object) types.Object { return o } // singleton: copy is a no-op
