package atom_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

func newRegistry(t *testing.T) *types.Registry {
	t.Helper()
	r := types.NewRegistry()
	object.RegisterBuiltins(r)
	object.Reg = r
	atom.SetRegistry(r)
	return r
}

func TestAtomInternsEqualValuesToOnePointer(t *testing.T) {
	newRegistry(t)
	tbl := atom.New()

	a := object.NewStr("hello")
	b := object.NewStr("hello")
	require.NotSame(t, a, b)

	ia := tbl.Atom(a, true)
	ib := tbl.Atom(b, true)

	assert.Same(t, ia, ib)
	assert.True(t, ia.Hdr().IsAtom())
	assert.Equal(t, 1, tbl.Count())
}

func TestAtomIdempotentOnAlreadyAtomicValue(t *testing.T) {
	newRegistry(t)
	tbl := atom.New()

	a := object.NewStr("x")
	once := tbl.Atom(a, true)
	twice := tbl.Atom(once, true)

	assert.Same(t, once, twice)
	assert.Equal(t, 1, tbl.Count())
}

func TestProbeDoesNotInsert(t *testing.T) {
	newRegistry(t)
	tbl := atom.New()

	_, found := tbl.Probe(object.NewStr("ghost"))
	assert.False(t, found)
	assert.Equal(t, 0, tbl.Count())
}

func TestRemoveDropsExactlyOneEntry(t *testing.T) {
	newRegistry(t)
	tbl := atom.New()

	a := tbl.Atom(object.NewStr("s0"), true)
	tbl.Atom(object.NewStr("s1"), true)
	require.Equal(t, 2, tbl.Count())

	tbl.Remove(a)
	assert.Equal(t, 1, tbl.Count())
	_, found := tbl.Probe(object.NewStr("s0"))
	assert.False(t, found)
}

func TestWalkVisitsEveryAtom(t *testing.T) {
	newRegistry(t)
	tbl := atom.New()
	for i := 0; i < 1000; i++ {
		tbl.Atom(object.NewStr(fmt.Sprintf("s%d", i)), true)
	}
	seen := 0
	tbl.Walk(func(types.Object) { seen++ })
	assert.Equal(t, tbl.Count(), seen)
}
