// Package alloc implements the sized small-block free-lists that sit
// atop a chunk arena, with large blocks falling through to the system
// allocator (spec.md §4.1).
//
// The size-class function is fixed by the spec: size_class(z) =
// floor((z-1)/8), giving eight class widths (8, 16, 24, ..., 64); anything
// above 64 bytes falls through to Go's allocator directly. Unlike the C original,
// Go's runtime already owns real memory safety and its own GC, so this
// package does not manage raw bytes — it manages an approximate live-byte
// counter and a trigger callback, and the "free lists" are a pool of
// same-shaped Go values recycled to avoid repeated escape-driven
// allocation when a caller's working set is dominated by one size class.
package alloc

import "sync"

// classWidths is the largest block handled by the free-list fast path.
// size_class(z) = floor((z-1)/8) yields 8 classes (widths 8,16,...,64).
const classWidths = 64

func sizeClass(z int) (int, bool) {
	if z <= 0 || z > classWidths {
		return 0, false
	}
	return (z - 1) / 8, true
}

// classOf exists for tests asserting the boundary behaviour in
// spec.md §8 ("allocating a block of exactly 64 bytes goes through the
// free-list fast path; 65 bytes goes through the raw allocator").
func classOf(z int) (int, bool) { return sizeClass(z) }

// Trigger is called when the live-byte counter crosses the current
// threshold. The allocator does not import the gc package directly (that
// would create a cycle: gc triggers collection, which frees back through
// this allocator); instead it holds a callback wired by the engine at
// startup.
type Trigger func()

// Allocator tracks an approximate live-byte total and fires the trigger
// when it crosses the threshold. It holds no pools itself: a Pool
// (pool.go) charges its Get and Put to an Allocator. The core object
// constructors (NewInt, NewStr, NewArray, ...) do not go through it, so
// their allocations are not counted and do not fire the trigger.
type Allocator struct {
	mu sync.Mutex

	inUse     int64
	threshold int64

	// debugBypass routes every allocation through the raw path, skipping
	// the free lists (spec.md §4.1, "a debug mode bypasses the free-lists").
	debugBypass bool
	// debugForceGC forces a collection before every allocation.
	debugForceGC bool

	onTrigger Trigger
}

// New returns an allocator with a small initial threshold; the engine
// recomputes it after every collection to roughly double the survivor
// set (spec.md §4.1, §4.4).
func New(trigger Trigger) *Allocator {
	return &Allocator{threshold: 64 << 10, onTrigger: trigger}
}

func (a *Allocator) SetDebugBypass(v bool)  { a.debugBypass = v }
func (a *Allocator) SetDebugForceGC(v bool) { a.debugForceGC = v }

// InUse reports the advisory byte counter. It is an approximation: Free
// does not always know the original size, so under-counting is possible
// and is compensated for by the threshold recompute after each GC.
func (a *Allocator) InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Alloc accounts for z freshly-allocated bytes and triggers a collection
// if the running total has crossed the threshold. It does not itself
// return memory — Go's allocator does that — it exists to drive the GC
// trigger and the accounting invariants the spec requires.
func (a *Allocator) Alloc(z int) {
	a.mu.Lock()
	a.inUse += int64(z)
	over := a.inUse > a.threshold
	forceGC := a.debugForceGC
	a.mu.Unlock()

	if forceGC || over {
		if a.onTrigger != nil {
			a.onTrigger()
		}
	}
}

// Free de-accounts z bytes. Called by a Type.Free implementation once a
// GC sweep reclaims an object; the caller usually only knows the exact
// size if the type is fixed-width (the common case for leaf types).
func (a *Allocator) Free(z int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= int64(z)
	if a.inUse < 0 {
		a.inUse = 0
	}
}

// RecomputeThreshold is called by the GC after every sweep with the
// survivor byte count, per spec.md §4.4: "roughly 2 × mem_in_use +
// small_floor".
func (a *Allocator) RecomputeThreshold(survivorBytes int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	const floor = 64 << 10
	a.threshold = 2*survivorBytes + floor
}

// Recycling of small fixed-shape values lives in pool.go: NewPool builds a
// Pool for one Go type, and its Get/Put account through this Allocator.
