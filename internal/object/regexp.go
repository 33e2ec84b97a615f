package object

import (
	"regexp"

	"github.com/emberlang/ember/internal/types"
)

// Regexp wraps a compiled pattern plus its source string; atomic on the
// pair (source, flags) per spec.md §3.3.
type Regexp struct {
	Base
	Source  string
	Flags   string
	Pattern *regexp.Regexp
}

// NewRegexp compiles source, prepending "(?flags)" when flags is non-empty
// (e.g. flags "i" for case-insensitive), and returns a fresh, non-atomic
// Regexp.
func NewRegexp(source, flags string) (*Regexp, error) {
	pattern := source
	if flags != "" {
		pattern = "(?" + flags + ")" + source
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	r := &Regexp{Source: source, Flags: flags, Pattern: re}
	r.Tcode = TcodeRegexp
	return r, nil
}

type regexpType struct{}

func (regexpType) Name() string                { return "regexp" }
func (regexpType) Mark(o types.Object) uintptr { o.Hdr().SetFlag(types.FlagMark); return 96 }
func (regexpType) Free(types.Object)           {}

func (regexpType) Hash(o types.Object) uint64 {
	r := o.(*Regexp)
	var h uint64 = 14695981039346656037
	for _, c := range r.Source + "\x00" + r.Flags {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}

func (regexpType) Cmp(a, b types.Object) int {
	ar, br := a.(*Regexp), b.(*Regexp)
	if ar.Source == br.Source && ar.Flags == br.Flags {
		return 0
	}
	return 1
}

func (regexpType) Copy(o types.Object) types.Object {
	r := o.(*Regexp)
	n, _ := NewRegexp(r.Source, r.Flags)
	return n
}
