package object

import "github.com/emberlang/ember/internal/types"

// Mem is a pointer+length+element-size window over externally-owned
// memory with an optional release callback, used to expose foreign
// buffers (e.g. memory-mapped data) without copying (spec.md §3.3).
type Mem struct {
	Base
	Data     []byte
	ElemSize int
	Release  func()
}

func NewMem(data []byte, elemSize int, release func()) *Mem {
	m := &Mem{Data: data, ElemSize: elemSize, Release: release}
	m.Tcode = TcodeMem
	return m
}

func (m *Mem) Len() int {
	if m.ElemSize <= 0 {
		return 0
	}
	return len(m.Data) / m.ElemSize
}

type memType struct{}

func (memType) Name() string                { return "mem" }
func (memType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 40 }

func (memType) Free(o types.Object) {
	if m := o.(*Mem); m.Release != nil {
		m.Release()
	}
}

func (memType) Hash(o types.Object) uint64 {
	m := o.(*Mem)
	var h uint64 = 14695981039346656037
	for _, b := range m.Data {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h
}

func (memType) Cmp(a, b types.Object) int {
	am, bm := a.(*Mem), b.(*Mem)
	if string(am.Data) == string(bm.Data) && am.ElemSize == bm.ElemSize {
		return 0
	}
	return 1
}

func (memType) Copy(o types.Object) types.Object {
	m := o.(*Mem)
	cp := make([]byte, len(m.Data))
	copy(cp, m.Data)
	return NewMem(cp, m.ElemSize, nil)
}
