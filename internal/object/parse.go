package object

import (
	"github.com/emberlang/ember/internal/types"
	"github.com/emberlang/ember/pkg/lexer"
)

// Parse wraps an in-progress lexical scan over a source string (spec.md
// §3.3). It is a thin heap handle around a *lexer.Lexer so script code
// that wants to tokenize incrementally (a REPL's "read one form at a
// time" loop) can hold a live cursor as an ordinary ember value instead
// of the engine exposing the whole compiler pipeline as a callable.
type Parse struct {
	Base
	Source string
	Lx     *lexer.Lexer
}

func NewParse(source string) *Parse {
	p := &Parse{Source: source, Lx: lexer.New(source)}
	p.Tcode = TcodeParse
	return p
}

type parseType struct{}

func (parseType) Name() string { return "parse" }

func (parseType) Mark(o types.Object) uintptr {
	o.Hdr().SetFlag(types.FlagMark)
	p := o.(*Parse)
	return 40 + uintptr(len(p.Source))
}

func (parseType) Free(types.Object) {}

func (parseType) Hash(o types.Object) uint64 {
	p := o.(*Parse)
	var h uint64 = 14695981039346656037
	for _, c := range p.Source {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}

func (parseType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}

func (parseType) Copy(o types.Object) types.Object {
	p := o.(*Parse)
	return NewParse(p.Source)
}
