package object

import "github.com/emberlang/ember/internal/types"

// Src is a debug marker object recording a file and line (spec.md §4.6,
// GLOSSARY "Src marker"). The VM does not create or push one: OpSrc is a
// no-op, and error locations come from CodeArray.Lines.
type Src struct {
	Base
	File string
	Line int
}

func NewSrc(file string, line int) *Src {
	s := &Src{File: file, Line: line}
	s.Tcode = TcodeSrc
	return s
}

type srcType struct{}

func (srcType) Name() string                { return "src" }
func (srcType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 40 }
func (srcType) Free(types.Object)           {}
func (srcType) Hash(o types.Object) uint64 {
	s := o.(*Src)
	var h uint64 = 14695981039346656037
	for _, c := range s.File {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h ^ uint64(s.Line)
}
func (srcType) Cmp(a, b types.Object) int {
	sa, sb := a.(*Src), b.(*Src)
	if sa.File == sb.File && sa.Line == sb.Line {
		return 0
	}
	return 1
}
func (srcType) Copy(o types.Object) types.Object {
	s := o.(*Src)
	return NewSrc(s.File, s.Line)
}
