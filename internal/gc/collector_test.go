package gc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

func newWorld(t *testing.T) (*types.Registry, *atom.Table, *gc.Collector) {
	t.Helper()
	reg := types.NewRegistry()
	object.RegisterBuiltins(reg)
	object.Reg = reg
	atoms := atom.New()
	atom.SetRegistry(reg)
	return reg, atoms, gc.New(reg, atoms, nil)
}

// TestCollectPrunesUnreferencedAtoms is the scenario from spec.md §8:
// 1000 interned strings, dropped, then GC removes exactly those 1000.
func TestCollectPrunesUnreferencedAtoms(t *testing.T) {
	_, atoms, coll := newWorld(t)

	var roots []types.Object
	for i := 0; i < 1000; i++ {
		interned := atoms.Atom(object.NewStr(fmt.Sprintf("s%d", i)), true)
		roots = append(roots, interned)
	}
	require.Equal(t, 1000, atoms.Count())

	coll.AddRootSource(func() []types.Object { return roots })
	coll.Collect()
	assert.Equal(t, 1000, atoms.Count(), "every atom is still referenced by roots")

	roots = nil
	stats := coll.Collect()
	assert.Equal(t, 0, atoms.Count())
	assert.Equal(t, 1000, stats.AtomsSwept)
}

func TestTrackedFinalizableFreedOnceUnreachable(t *testing.T) {
	_, _, coll := newWorld(t)

	freed := 0
	h := object.NewHandle(nil, "resource", func(any) { freed++ })
	coll.Track(h)

	coll.AddRootSource(func() []types.Object { return nil })
	coll.Collect()
	assert.Equal(t, 1, freed, "handle.Close runs exactly once when unreachable")

	stats := coll.Collect()
	assert.Equal(t, 0, stats.FinalizablesSwept, "already-swept handle is not tracked twice")
	assert.Equal(t, 1, freed)
}

func TestPauseSuppressesCollection(t *testing.T) {
	_, atoms, coll := newWorld(t)

	interned := atoms.Atom(object.NewStr("paused"), true)
	_ = interned
	coll.AddRootSource(func() []types.Object { return nil })

	unpause := coll.Pause()
	stats := coll.Collect()
	assert.Equal(t, gc.Stats{}, stats)
	assert.Equal(t, 1, atoms.Count())
	unpause()

	coll.Collect()
	assert.Equal(t, 0, atoms.Count())
}

func TestMarkedHandleSurvivesSweep(t *testing.T) {
	_, _, coll := newWorld(t)

	h := object.NewHandle(nil, "resource", func(any) { t.Fatal("should not be freed while rooted") })
	coll.Track(h)
	coll.AddRootSource(func() []types.Object { return []types.Object{h} })

	coll.Collect()
	assert.True(t, h.Hdr().IsMarked())
}
