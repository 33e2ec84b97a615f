package object

import "github.com/emberlang/ember/internal/types"

// Array is a circular-buffer-backed deque of object references with O(1)
// push/pop at both ends (spec.md §3.3). The VM's three global stacks
// (value, operand, execution) are ordinary Arrays, which is why growth
// must preserve every existing slot (spec.md §8, "stack-growth
// re-allocation of os/vs/xs preserves all values") and why Array
// participates in GC marking like any other object (invariant 7).
type Array struct {
	Base
	buf   []types.Object // astart..astart+count-1 (mod len(buf)) are live
	start int            // astart
	count int
}

// NewArray returns an empty array with room for at least capHint
// elements before it must grow.
func NewArray(capHint int) *Array {
	if capHint < 4 {
		capHint = 4
	}
	a := &Array{buf: make([]types.Object, capHint)}
	a.Tcode = TcodeArray
	return a
}

func (a *Array) Len() int { return a.count }

// anext advances a raw buffer index by one slot, wrapping at alimit.
func (a *Array) anext(i int) int { return (i + 1) % len(a.buf) }

// aprev retreats a raw buffer index by one slot, wrapping at alimit.
func (a *Array) aprev(i int) int { return (i - 1 + len(a.buf)) % len(a.buf) }

func (a *Array) grow() {
	newBuf := make([]types.Object, len(a.buf)*2)
	for i := 0; i < a.count; i++ {
		newBuf[i] = a.buf[(a.start+i)%len(a.buf)]
	}
	a.buf = newBuf
	a.start = 0
}

func (a *Array) PushBack(o types.Object) {
	if a.count == len(a.buf) {
		a.grow()
	}
	a.buf[(a.start+a.count)%len(a.buf)] = o
	a.count++
}

func (a *Array) PushFront(o types.Object) {
	if a.count == len(a.buf) {
		a.grow()
	}
	a.start = a.aprev(a.start)
	a.buf[a.start] = o
	a.count++
}

func (a *Array) PopBack() (types.Object, bool) {
	if a.count == 0 {
		return nil, false
	}
	idx := (a.start + a.count - 1) % len(a.buf)
	o := a.buf[idx]
	a.buf[idx] = nil
	a.count--
	return o, true
}

func (a *Array) PopFront() (types.Object, bool) {
	if a.count == 0 {
		return nil, false
	}
	o := a.buf[a.start]
	a.buf[a.start] = nil
	a.start = a.anext(a.start)
	a.count--
	return o, true
}

func (a *Array) Back() (types.Object, bool) {
	if a.count == 0 {
		return nil, false
	}
	return a.buf[(a.start+a.count-1)%len(a.buf)], true
}

// At returns the i'th logical element (0-based from the front).
func (a *Array) At(i int) types.Object {
	if i < 0 || i >= a.count {
		return nil
	}
	return a.buf[(a.start+i)%len(a.buf)]
}

// SetAt overwrites the i'th logical element.
func (a *Array) SetAt(i int, v types.Object) bool {
	if i < 0 || i >= a.count {
		return false
	}
	a.buf[(a.start+i)%len(a.buf)] = v
	return true
}

// Truncate shrinks the array to n logical elements, dropping the tail.
// Used by the VM to unwind os/vs to a catcher's recorded depth.
func (a *Array) Truncate(n int) {
	for a.count > n {
		a.PopBack()
	}
}

type arrayType struct{}

func (arrayType) Name() string { return "array" }

func (arrayType) Mark(o types.Object) uintptr {
	a := o.(*Array)
	a.SetFlag(types.FlagMark)
	size := uintptr(48 + len(a.buf)*8)
	for i := 0; i < a.count; i++ {
		size += markChild(a.At(i))
	}
	return size
}

func (arrayType) Free(types.Object) {}

func (arrayType) Hash(o types.Object) uint64 {
	a := o.(*Array)
	var h uint64 = 14695981039346656037
	for i := 0; i < a.count; i++ {
		h ^= Reg.TypeOf(a.At(i)).Hash(a.At(i))
		h *= 1099511628211
	}
	return h
}

func (arrayType) Cmp(a, b types.Object) int {
	av, bv := a.(*Array), b.(*Array)
	if av.count != bv.count {
		if av.count < bv.count {
			return -1
		}
		return 1
	}
	for i := 0; i < av.count; i++ {
		if c := Reg.TypeOf(av.At(i)).Cmp(av.At(i), bv.At(i)); c != 0 {
			return c
		}
	}
	return 0
}

func (arrayType) Copy(o types.Object) types.Object {
	a := o.(*Array)
	n := NewArray(a.count)
	for i := 0; i < a.count; i++ {
		n.PushBack(a.At(i))
	}
	return n
}

func (arrayType) Assign(o, key, val types.Object) error {
	a := o.(*Array)
	idx, ok := key.(*Int)
	if !ok {
		return errNotIndexable("array", key)
	}
	if !a.SetAt(int(idx.Value), val) {
		return errIndexRange("array", int(idx.Value))
	}
	return nil
}

func (arrayType) Fetch(o, key types.Object) (types.Object, bool) {
	a := o.(*Array)
	idx, ok := key.(*Int)
	if !ok {
		return nil, false
	}
	v := a.At(int(idx.Value))
	if v == nil {
		return nil, false
	}
	return v, true
}
