package object

import (
	"github.com/google/uuid"

	"github.com/emberlang/ember/internal/types"
)

// Handle is a generic wrapper over a foreign pointer with a name, an
// optional per-instance member map, and an optional pre-free callback
// (spec.md §3.3). Every handle also gets a uuid (see ID), whatever its
// TypeName, so two distinct handles never collide in logs or error
// messages.
type Handle struct {
	Base
	Ptr      any
	TypeName string
	Members  *Map
	PreFree  func(any)
	id       string
}

func NewHandle(ptr any, typeName string, preFree func(any)) *Handle {
	h := &Handle{Ptr: ptr, TypeName: typeName, PreFree: preFree, id: uuid.NewString()}
	h.Tcode = TcodeHandle
	return h
}

// ID returns the handle's stable identifier for diagnostics.
func (h *Handle) ID() string { return h.id }

// Close marks the handle as closed, invoking PreFree exactly once.
// Spec.md §3.1: CLOSED marks a handle's lifecycle as ended.
func (h *Handle) Close() {
	if h.HasFlag(types.FlagClosed) {
		return
	}
	if h.PreFree != nil {
		h.PreFree(h.Ptr)
	}
	h.SetFlag(types.FlagClosed)
}

type handleType struct{}

func (handleType) Name() string                { return "handle" }
func (handleType) Mark(o types.Object) uintptr {
	h := o.(*Handle)
	h.SetFlag(types.FlagMark)
	return 48 + markChild(h.Members)
}
func (handleType) Free(o types.Object) { o.(*Handle).Close() }

func (handleType) Hash(o types.Object) uint64 {
	h := o.(*Handle)
	var v uint64 = 14695981039346656037
	for _, c := range h.id {
		v ^= uint64(c)
		v *= 1099511628211
	}
	return v
}

func (handleType) Cmp(a, b types.Object) int {
	if a.(*Handle).id == b.(*Handle).id {
		return 0
	}
	return 1
}

func (handleType) Copy(o types.Object) types.Object { return o } // handles wrap identity, not value

func (handleType) Fetch(o, key types.Object) (types.Object, bool) {
	h := o.(*Handle)
	if h.Members == nil {
		return nil, false
	}
	return h.Members.table.Get(key)
}

func (handleType) Assign(o, key, val types.Object) error {
	h := o.(*Handle)
	if h.Members == nil {
		h.Members = NewMap()
	}
	h.Members.table.Put(key, val)
	return nil
}
