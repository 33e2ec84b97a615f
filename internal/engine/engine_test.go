package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/engine"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

func TestNewSeedsNativeContractFunctions(t *testing.T) {
	e := engine.New(nil)
	v, ok := e.Fetch(e.Globals, object.NewStr("new_int"))
	require.True(t, ok)
	_, isCfunc := v.(*object.Cfunc)
	assert.True(t, isCfunc)
}

func TestCallInvokesNativeNewArray(t *testing.T) {
	e := engine.New(nil)
	newArray, ok := e.Fetch(e.Globals, object.NewStr("new_array"))
	require.True(t, ok)

	result, err := e.Call(newArray, object.NewInt(1), object.NewInt(2), object.NewInt(3))
	require.NoError(t, err)
	arr := result.(*object.Array)
	assert.Equal(t, 3, arr.Len())
}

func TestRunExecutesACompiledProgram(t *testing.T) {
	e := engine.New(nil)
	c := code.NewCodeArray("test")
	idx := c.AddLiteral(object.NewInt(9))
	c.Emit(code.OpPush, idx, 0, 1)
	c.Emit(code.OpReturn, 0, 0, 1)

	result, err := e.Run(c)
	require.NoError(t, err)
	assert.Equal(t, int64(9), result.(*object.Int).Value)
}

func TestAtomInternsThroughEngine(t *testing.T) {
	e := engine.New(nil)
	a := e.Atom(object.NewStr("hello"))
	b := e.Atom(object.NewStr("hello"))
	assert.Same(t, a, b)
}

func TestTypecheckRejectsWrongArgType(t *testing.T) {
	e := engine.New(nil)
	err := e.Typecheck("is", []types.Object{object.NewInt(1), object.NewInt(2)})
	assert.Error(t, err)

	require.NoError(t, e.Typecheck("is", []types.Object{object.NewInt(1), object.NewStr("ok")}))
}

func TestUninitRunsWithoutError(t *testing.T) {
	e := engine.New(nil)
	require.NoError(t, e.Uninit())
}
