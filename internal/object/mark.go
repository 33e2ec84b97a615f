package object

import "github.com/emberlang/ember/internal/types"

// Mark is the single process-wide sentinel the VM pushes onto the
// operand stack to delimit a variable-length argument list (spec.md
// §3.3, §4.5 "uses mark sentinels to delimit argument counts").
type Mark struct{ Base }

var theMark = &Mark{}

func init() {
	theMark.Tcode = TcodeMark
	theMark.SetFlag(types.FlagAtom)
	theMark.Leafz = 8
}

func TheMark() *Mark { return theMark }

type markType struct{}

func (markType) Name() string                { return "mark" }
func (markType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 8 }
func (markType) Free(types.Object)           {}
func (markType) Hash(types.Object) uint64    { return 0x4d41524b }
func (markType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}
func (markType) Copy(o types.Object) types.Object { return o }
