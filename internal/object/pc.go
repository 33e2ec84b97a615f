package object

import (
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/types"
)

// Pc is a program counter: a code array plus an offset into it. Every
// exec-frame (spec.md §4.5) carries one, and the xs stack holds Pc
// values across nested calls so a return instruction knows where to
// resume.
type Pc struct {
	Base
	Code *code.CodeArray
	Off  int32
}

func NewPc(c *code.CodeArray, off int32) *Pc {
	p := &Pc{Code: c, Off: off}
	p.Tcode = TcodePc
	return p
}

// Next returns a Pc advanced by one instruction, leaving the receiver
// untouched, so a captured Pc (e.g. a catcher's resume point) stays
// valid. The VM loop itself steps with its own code/offset fields, not
// with Pc values.
func (p *Pc) Next() *Pc { return NewPc(p.Code, p.Off+1) }

func (p *Pc) Instruction() (code.Instruction, bool) {
	if p.Code == nil || int(p.Off) < 0 || int(p.Off) >= len(p.Code.Instructions) {
		return code.Instruction{}, false
	}
	return p.Code.Instructions[p.Off], true
}

func (p *Pc) Line() int {
	if p.Code == nil || int(p.Off) >= len(p.Code.Lines) {
		return 0
	}
	return p.Code.Lines[p.Off]
}

type pcType struct{}

func (pcType) Name() string                { return "pc" }
func (pcType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 32 }
func (pcType) Free(types.Object)           {}
func (pcType) Hash(o types.Object) uint64 {
	p := o.(*Pc)
	return uint64(uintptr(0x50432020)) ^ uint64(p.Off)
}
func (pcType) Cmp(a, b types.Object) int {
	pa, pb := a.(*Pc), b.(*Pc)
	if pa.Code == pb.Code && pa.Off == pb.Off {
		return 0
	}
	return 1
}
func (pcType) Copy(o types.Object) types.Object {
	p := o.(*Pc)
	return NewPc(p.Code, p.Off)
}
