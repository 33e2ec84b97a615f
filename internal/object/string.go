package object

import (
	"hash/fnv"

	"github.com/emberlang/ember/internal/types"
)

// String is a length-prefixed byte sequence with a NUL guard one byte
// past its last character (spec.md §3.3, invariant 6). It is atomic by
// default; Mutable marks the "string buffer" variant, a separately
// growable buffer that is never atomic. Atomic strings cache their hash.
type String struct {
	Base
	// data holds len(chars)+1 bytes; data[len(data)-1] is always 0.
	data    []byte
	Mutable bool
	hash    uint64
	hashed  bool
}

func newStringData(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// NewStr returns a fresh, non-atomic immutable string candidate. Intern
// it through the atom table to get atom semantics.
func NewStr(s string) *String {
	n := &String{data: newStringData(s)}
	n.Tcode = TcodeString
	if len(s) <= 56 {
		n.Leafz = uint32(40 + len(n.data))
	}
	return n
}

// NewStrBuffer returns a mutable string buffer. It is never atomic: §3.4
// forbids mutating an atomic object.
func NewStrBuffer(s string) *String {
	n := &String{data: newStringData(s), Mutable: true}
	n.Tcode = TcodeString
	return n
}

// NewStrNulTerm wraps an externally NUL-terminated byte slice without
// copying, matching the spec's str_alloc/new_str_nul_term pair (§6): the
// caller guarantees b[len(b)-1]==0.
func NewStrNulTerm(b []byte) *String {
	if len(b) == 0 || b[len(b)-1] != 0 {
		panic("ember: NewStrNulTerm requires a trailing NUL")
	}
	n := &String{data: b}
	n.Tcode = TcodeString
	return n
}

func (s *String) Len() int      { return len(s.data) - 1 }
func (s *String) Bytes() []byte { return s.data[:len(s.data)-1] }
func (s *String) String() string { return string(s.Bytes()) }

// Append grows a mutable string buffer. Assigning to an atomic string is
// a programmer error the caller must check with Mutable first.
func (s *String) Append(more string) {
	if !s.Mutable {
		panic("ember: Append on atomic string")
	}
	s.data = append(s.data[:len(s.data)-1], append([]byte(more), 0)...)
	s.hashed = false
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Mark(o types.Object) uintptr {
	s := o.(*String)
	s.SetFlag(types.FlagMark)
	return uintptr(40 + len(s.data))
}

func (stringType) Free(types.Object) {}

func (stringType) Hash(o types.Object) uint64 {
	s := o.(*String)
	if !s.Mutable && s.hashed {
		return s.hash
	}
	h := fnv.New64a()
	h.Write(s.Bytes())
	v := h.Sum64()
	if !s.Mutable {
		s.hash = v
		s.hashed = true
	}
	return v
}

func (stringType) Cmp(a, b types.Object) int {
	as, bs := a.(*String).Bytes(), b.(*String).Bytes()
	switch {
	case string(as) < string(bs):
		return -1
	case string(as) > string(bs):
		return 1
	default:
		return 0
	}
}

func (stringType) Copy(o types.Object) types.Object {
	s := o.(*String)
	return NewStr(s.String())
}
