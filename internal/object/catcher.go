package object

import "github.com/emberlang/ember/internal/types"

// Catcher is the exec-frame's record of an active try/onerror block
// (spec.md §4.5, GLOSSARY "Catcher"): the stack depths to unwind the
// vs/os/xs stacks back to, and the Pc to resume at once they have been
// restored. Raising an error walks the xs stack looking for the
// nearest Catcher instead of unwinding via a Go panic, so an ember
// error never crosses the Go call stack.
type Catcher struct {
	Base
	VsDepth int32
	OsDepth int32
	XsDepth int32
	Target  *Pc
}

func NewCatcher(vsDepth, osDepth, xsDepth int32, target *Pc) *Catcher {
	c := &Catcher{VsDepth: vsDepth, OsDepth: osDepth, XsDepth: xsDepth, Target: target}
	c.Tcode = TcodeCatcher
	return c
}

type catcherType struct{}

func (catcherType) Name() string { return "catcher" }

func (catcherType) Mark(o types.Object) uintptr {
	c := o.(*Catcher)
	c.SetFlag(types.FlagMark)
	return 48 + markChild(c.Target)
}

func (catcherType) Free(types.Object) {}

func (catcherType) Hash(o types.Object) uint64 {
	c := o.(*Catcher)
	return uint64(c.VsDepth)<<32 | uint64(c.OsDepth)<<16 | uint64(c.XsDepth)
}

func (catcherType) Cmp(a, b types.Object) int {
	if a == b {
		return 0
	}
	return 1
}

func (catcherType) Copy(o types.Object) types.Object {
	c := o.(*Catcher)
	return NewCatcher(c.VsDepth, c.OsDepth, c.XsDepth, c.Target)
}
