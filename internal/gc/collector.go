// Package gc implements the stop-the-world, precise mark-and-sweep
// collector (spec.md §4.4). It cooperates with internal/alloc (which
// calls back into Collect when the live-byte threshold is crossed) and
// internal/atom (whose table is walked, not treated as an unconditional
// root, so an atom reachable only by being interned is still
// collectible — see TestCollectPrunesUnreferencedAtoms).
//
// Go's own runtime already reclaims the backing memory of a value no
// longer referenced from any Go variable, so this package does not
// maintain a registry of every object ever allocated the way the
// spec's C original does. What it does manage explicitly is the two
// populations the spec's free/close side effects actually matter for:
// interned atoms (internal/atom.Table) and "finalizable" objects that
// own an external resource (object.Handle, object.File, object.Mem,
// object.Channel) and must run their pre-free hook promptly rather than
// whenever a Go finalizer happens to fire, or never.
package gc

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/types"
)

// RootSource returns the set of objects directly reachable from one GC
// root (spec.md §4.4 "Roots: vs/os/xs, the atom table, per-thread exec
// records ..."). vm and thread register one each at startup.
type RootSource func() []types.Object

// Finalizer is a resource-owning type's Type.Free, invoked on an
// unmarked finalizable object during sweep.
type Finalizer interface {
	Free(types.Object)
}

type Collector struct {
	reg   *types.Registry
	atoms *atom.Table
	log   *zap.Logger

	mu          chan struct{} // binary mutex so Collect can select against Pause
	roots       []RootSource
	finalizable []types.Object

	pauseDepth int32 // atomic; Pause/unpause nest, enforced lexically via defer

	onThreshold func(survivorBytes int64) // alloc.RecomputeThreshold, wired by engine
}

func New(reg *types.Registry, atoms *atom.Table, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Collector{reg: reg, atoms: atoms, log: log, mu: make(chan struct{}, 1)}
	c.mu <- struct{}{}
	return c
}

// AddRootSource registers fn as a GC root, called at the start of every
// mark phase.
func (c *Collector) AddRootSource(fn RootSource) { c.roots = append(c.roots, fn) }

// Track registers o as finalizable: sweep will call its type's Free
// exactly once, the first cycle in which o is unreachable from every
// root (spec.md §3.2 "Destruction: never direct. An object survives
// until a GC cycle finds no reachable reference from the roots").
func (c *Collector) Track(o types.Object) {
	<-c.mu
	c.finalizable = append(c.finalizable, o)
	c.mu <- struct{}{}
}

// Pause returns an unpause function; while any Pause is outstanding,
// Collect is a no-op. This is the REDESIGN-FLAG replacement for the
// spec's shared "supress_collect" counter: callers use it lexically
// (`defer gc.Pause()()`) while building a multi-step atomic object
// whose intermediate state would confuse the mark phase, instead of
// manually incrementing/decrementing a package-global counter.
func (c *Collector) Pause() func() {
	atomic.AddInt32(&c.pauseDepth, 1)
	return func() { atomic.AddInt32(&c.pauseDepth, -1) }
}

func (c *Collector) paused() bool { return atomic.LoadInt32(&c.pauseDepth) > 0 }

// SetThresholdFunc wires the allocator's threshold recompute so Collect
// can report the post-sweep figure back (spec.md §4.4 "the
// memory-pressure threshold is recomputed as roughly 2 × mem_in_use +
// small_floor").
func (c *Collector) SetThresholdFunc(fn func(survivorBytes int64)) { c.onThreshold = fn }

// Stats summarizes one completed collection cycle. Reachable counts only
// the root-level objects newly marked this cycle (Type.Mark reports
// bytes, not a count, for everything beneath a root), so it is a lower
// bound on total live objects, useful as a trend signal rather than an
// exact census.
type Stats struct {
	AtomsSwept        int
	FinalizablesSwept int
	Reachable         int
}

// Collect runs one full mark-sweep cycle. It is always safe to call —
// concurrent callers serialize on the internal mutex, and a call made
// while paused returns a zero Stats immediately (spec.md §4.4 "it is
// safe to invoke at any allocation point").
func (c *Collector) Collect() Stats {
	if c.paused() {
		return Stats{}
	}
	<-c.mu
	defer func() { c.mu <- struct{}{} }()

	c.log.Debug("gc: cycle start", zap.Int("finalizable", len(c.finalizable)), zap.Int("atoms", c.atoms.Count()))

	c.clearMarks()
	reachable := c.markPhase()
	stats := c.sweepPhase()
	stats.Reachable = reachable

	if c.onThreshold != nil {
		c.onThreshold(int64(reachable))
	}
	c.log.Debug("gc: cycle done",
		zap.Int("reachable", stats.Reachable),
		zap.Int("atoms_swept", stats.AtomsSwept),
		zap.Int("finalizables_swept", stats.FinalizablesSwept))
	return stats
}

// clearMarks resets the MARK bit on every object this package manages
// directly (interned atoms and tracked finalizables) before a fresh
// mark phase. Everything else in the live graph either gets remarked
// this cycle by reachability or was never marked to begin with — its
// storage is Go's own GC's concern, not this collector's.
func (c *Collector) clearMarks() {
	c.atoms.Walk(func(o types.Object) { o.Hdr().ClearFlag(types.FlagMark) })
	for _, o := range c.finalizable {
		o.Hdr().ClearFlag(types.FlagMark)
	}
}

func (c *Collector) markPhase() int {
	visited := 0
	for _, src := range c.roots {
		for _, o := range src() {
			visited += c.mark(o)
		}
	}
	return visited
}

// mark implements spec.md §4.4's mark contract directly (rather than
// reusing object.markChild, which this package cannot import without
// creating object -> gc -> object): it must set MARK once and only
// once, take the leafz fast path when available, and otherwise recurse
// through the type's own Mark.
func (c *Collector) mark(o types.Object) int {
	if o == nil {
		return 0
	}
	h := o.Hdr()
	if h.IsMarked() {
		return 0
	}
	if h.Leafz != 0 {
		h.SetFlag(types.FlagMark)
		return 1
	}
	c.reg.TypeOf(o).Mark(o)
	return 1
}

func (c *Collector) sweepPhase() Stats {
	var stats Stats

	var freedAtoms []types.Object
	c.atoms.Walk(func(o types.Object) {
		if !o.Hdr().IsMarked() {
			freedAtoms = append(freedAtoms, o)
		}
	})
	for _, o := range freedAtoms {
		c.reg.TypeOf(o).Free(o)
		c.atoms.Remove(o)
		stats.AtomsSwept++
	}

	live := c.finalizable[:0]
	for _, o := range c.finalizable {
		if o.Hdr().IsMarked() {
			live = append(live, o)
			continue
		}
		c.reg.TypeOf(o).Free(o)
		stats.FinalizablesSwept++
	}
	c.finalizable = live

	return stats
}
