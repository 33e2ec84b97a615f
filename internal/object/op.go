package object

import "github.com/emberlang/ember/internal/types"

// Op is a reified opcode/subtype pair (spec.md §3.3). Neither the binop
// code nor the disassembler uses it: binop switches on operand types and
// the disassembler prints raw instructions.
type Op struct {
	Base
	Code    int32
	Subtype int32
}

func NewOp(op, subtype int32) *Op {
	o := &Op{Code: op, Subtype: subtype}
	o.Tcode = TcodeOp
	o.SetFlag(types.FlagAtom)
	o.Leafz = 24
	return o
}

type opType struct{}

func (opType) Name() string                { return "op" }
func (opType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 24 }
func (opType) Free(types.Object)           {}
func (opType) Hash(o types.Object) uint64 {
	op := o.(*Op)
	return uint64(op.Code)<<32 | uint64(uint32(op.Subtype))
}
func (opType) Cmp(a, b types.Object) int {
	oa, ob := a.(*Op), b.(*Op)
	if oa.Code == ob.Code && oa.Subtype == ob.Subtype {
		return 0
	}
	return 1
}
func (opType) Copy(o types.Object) types.Object { return o }
