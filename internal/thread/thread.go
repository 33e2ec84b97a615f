// Package thread implements the concurrency glue of spec.md §4.8 and §5:
// multiple OS threads cooperatively multiplexed over one global
// interpreter lock, with independent per-thread exec records (their own
// vs/os/xs, error buffer, scope chain) and deferred signal delivery
// checked at VM back-edges.
package thread

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
	"github.com/emberlang/ember/internal/vm"
)

// GIL is the global interpreter lock spec.md §5 describes: "exactly one
// thread is in the VM at any moment". It does not guard the collector:
// Engine.Uninit and Engine.CollectGarbageCycles call Collect without
// taking it, and Collect serializes concurrent callers on its own mutex.
type GIL struct {
	mu sync.Mutex
}

func NewGIL() *GIL { return &GIL{} }

// Exec is one thread's independent execution record (spec.md §4.8): its
// own VM (which already carries vs/os/xs and an error buffer) plus the
// bookkeeping Leave/Enter needs to suspend and resume it across a
// blocking call without holding the GIL.
type Exec struct {
	ID   int
	VM   *vm.VM
	gil  *GIL
	held bool
}

// Group runs a fixed set of Execs concurrently, propagating the first
// error and cancelling the rest — the teacher's errgroup-per-fan-out
// shape, generalized from "spawn N request handlers" to "spawn N ember
// threads sharing one process".
type Group struct {
	gil     *GIL
	reg     *types.Registry
	coll    *gc.Collector
	log     *zap.Logger
	aborted int32 // atomic; spec.md §5 "aborted: a process-global flag consulted at back-edges"
	nextID  int32
}

func NewGroup(reg *types.Registry, coll *gc.Collector, log *zap.Logger) *Group {
	if log == nil {
		log = zap.NewNop()
	}
	return &Group{gil: NewGIL(), reg: reg, coll: coll, log: log}
}

// Abort sets the process-global abort flag; every thread's Signals hook
// observes it at its next back-edge and terminates with an error.
func (g *Group) Abort() { atomic.StoreInt32(&g.aborted, 1) }

func (g *Group) Aborted() bool { return atomic.LoadInt32(&g.aborted) != 0 }

// NewExec builds one thread's exec record, wiring Signals to check the
// group's abort flag at every back-edge per spec.md §4.8.
func (g *Group) NewExec() *Exec {
	id := int(atomic.AddInt32(&g.nextID, 1))
	m := vm.New(g.reg, g.coll, g.log.With(zap.Int("thread", id)))
	e := &Exec{ID: id, VM: m, gil: g.gil}
	m.Signals = func() error {
		if g.Aborted() {
			return errAborted
		}
		return nil
	}
	return e
}

// Enter re-acquires the GIL, restoring this thread as the one running in
// the VM (spec.md §4.8 "enter(exec) re-acquires it and restores the
// state"). Exec already holds its own state (the VM struct itself), so
// there is nothing to restore beyond the lock.
func (e *Exec) Enter() {
	if e.held {
		return
	}
	e.gil.mu.Lock()
	e.held = true
}

// Leave publishes the current exec state (implicit: it already lives on
// e.VM) and releases the GIL, bracketing a blocking system call per
// spec.md §4.8 and §5's suspension-point list.
func (e *Exec) Leave() {
	if !e.held {
		return
	}
	e.gil.mu.Unlock()
	e.held = false
}

// Run executes c on this thread's VM, holding the GIL for the duration
// (spec.md §5: "exactly one thread is in the VM at any moment").
func (e *Exec) Run(c *code.CodeArray, captured *object.Map) (types.Object, error) {
	e.Enter()
	defer e.Leave()
	return e.VM.Run(c, captured)
}

// RunAll runs one program per Exec concurrently via errgroup, returning
// the first error encountered (spec.md §4.8's multi-thread model, with
// the teacher's fan-out-and-join shape).
func (g *Group) RunAll(ctx context.Context, programs []*code.CodeArray, captured *object.Map) ([]types.Object, error) {
	results := make([]types.Object, len(programs))
	eg, _ := errgroup.WithContext(ctx)
	for i, prog := range programs {
		i, prog := i, prog
		exec := g.NewExec()
		eg.Go(func() error {
			result, err := exec.Run(prog, captured)
			if err != nil {
				g.Abort()
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var errAborted = abortError{}

type abortError struct{}

func (abortError) Error() string { return "ember: process aborted" }
