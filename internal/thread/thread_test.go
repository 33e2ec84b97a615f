package thread_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/thread"
	"github.com/emberlang/ember/internal/types"
)

func newGroup(t *testing.T) *thread.Group {
	t.Helper()
	reg := types.NewRegistry()
	object.RegisterBuiltins(reg)
	object.Reg = reg
	atoms := atom.New()
	atom.SetRegistry(reg)
	object.Atoms = atoms
	coll := gc.New(reg, atoms, nil)
	return thread.NewGroup(reg, coll, nil)
}

func constProgram(v int64) *code.CodeArray {
	c := code.NewCodeArray("test")
	idx := c.AddLiteral(object.NewInt(v))
	c.Emit(code.OpPush, idx, 0, 1)
	c.Emit(code.OpReturn, 0, 0, 1)
	return c
}

func TestRunAllExecutesEachProgramOnItsOwnExec(t *testing.T) {
	g := newGroup(t)
	programs := []*code.CodeArray{constProgram(1), constProgram(2), constProgram(3)}

	results, err := g.RunAll(context.Background(), programs, object.NewMap())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, int64(i+1), r.(*object.Int).Value)
	}
}

func TestAbortIsObservedByEveryExec(t *testing.T) {
	g := newGroup(t)
	assert.False(t, g.Aborted())
	g.Abort()
	assert.True(t, g.Aborted())

	exec := g.NewExec()
	_, err := exec.Run(constProgram(1), object.NewMap())
	require.Error(t, err)
}

func TestLeaveEnterRoundTripsWithoutDeadlock(t *testing.T) {
	g := newGroup(t)
	exec := g.NewExec()
	exec.Enter()
	exec.Leave()
	exec.Enter()
	exec.Leave()
}
