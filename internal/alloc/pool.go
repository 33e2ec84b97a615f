package alloc

import "sync"

// Pool is the generic equivalent of the original's talloc<T>()/tfree<T>(p)
// inline specialization: one pool per concrete Go type, back-ending the
// sized free-list path for z <= 64 bytes (spec.md §4.1). Go cannot carve
// raw bytes into arbitrary typed blocks the way the C allocator did, so
// Pool wraps sync.Pool keyed by the zero value's shape; the Allocator's
// byte accounting (Alloc/Free) still runs alongside every Get/Put so the
// GC trigger and threshold math stay faithful to the spec regardless of
// how the underlying storage is actually recycled.
type Pool[T any] struct {
	alloc *Allocator
	size  int
	pool  sync.Pool
}

// NewPool creates a pool of *T, charging size bytes per live instance to
// alloc's accounting. size is normally unsafe.Sizeof(T{}) rounded by the
// caller to the allocator's size class.
func NewPool[T any](a *Allocator, size int) *Pool[T] {
	return &Pool[T]{
		alloc: a,
		size:  size,
		pool:  sync.Pool{New: func() any { return new(T) }},
	}
}

// Get returns a recycled or freshly-allocated *T and accounts for it.
func (p *Pool[T]) Get() *T {
	p.alloc.Alloc(p.size)
	if p.alloc.debugBypass {
		return new(T)
	}
	return p.pool.Get().(*T)
}

// Put returns v to the pool and de-accounts it. Called by a Type.Free
// implementation once the GC sweep has determined v is unreachable.
func (p *Pool[T]) Put(v *T) {
	p.alloc.Free(p.size)
	if p.alloc.debugBypass {
		return
	}
	var zero T
	*v = zero
	p.pool.Put(v)
}
