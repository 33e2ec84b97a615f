// Package object implements ember's core heap value types: the tagged
// objects every other subsystem (allocator, atom table, GC, VM) operates
// on (spec.md §3.3). Every concrete type embeds Base so it satisfies
// types.Object for free.
package object

import (
	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/types"
)

// Base is embedded at the front of every object in this package and
// supplies the Header spec.md §3.1 requires every heap value to carry.
type Base struct {
	types.Header
}

func (b *Base) Hdr() *types.Header { return &b.Header }

// Reg is the process-wide type registry, wired once by engine.New before
// any object is constructed. Compound types' Mark implementations use it
// to recurse into children without this package importing the gc package
// (which would create gc -> object -> gc).
var Reg *types.Registry

// Atoms is the process-wide atom table, wired once by engine.New
// alongside Reg. Map and scope keys are only equal to a prior insertion
// if they are the same interned pointer (map.go: swiss.Map compares the
// types.Object interface by Go identity, not Type.Cmp), so anywhere this
// package builds a fresh key object intended to match a compiler- or
// caller-supplied atom (function-call argument binding, most notably),
// it must route the key through Intern first.
var Atoms *atom.Table

// Intern returns o's canonical atom, or o itself if the atom table has
// not been wired (e.g. a test constructing objects without an engine).
func Intern(o types.Object) types.Object {
	if Atoms == nil {
		return o
	}
	return Atoms.Atom(o, false)
}

// markChild marks o (which may be nil) and returns the bytes it
// contributed to this GC cycle. It takes the leafz fast path directly
// when possible instead of paying for an indirect call into Type.Mark.
func markChild(o types.Object) uintptr {
	if o == nil {
		return 0
	}
	h := o.Hdr()
	if h.HasFlag(types.FlagMark) {
		return 0
	}
	if h.Leafz != 0 {
		h.SetFlag(types.FlagMark)
		return uintptr(h.Leafz)
	}
	return Reg.TypeOf(o).Mark(o)
}
