package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
	"github.com/emberlang/ember/internal/vm"
)

func newMachine(t *testing.T) *vm.VM {
	t.Helper()
	reg := types.NewRegistry()
	object.RegisterBuiltins(reg)
	object.Reg = reg
	atoms := atom.New()
	atom.SetRegistry(reg)
	object.Atoms = atoms
	coll := gc.New(reg, atoms, nil)
	return vm.New(reg, coll, nil)
}

func TestPushAndArithmetic(t *testing.T) {
	m := newMachine(t)
	c := code.NewCodeArray("test")
	a := c.AddLiteral(object.NewInt(2))
	b := c.AddLiteral(object.NewInt(3))
	c.Emit(code.OpPush, a, 0, 1)
	c.Emit(code.OpPush, b, 0, 1)
	c.Emit(code.OpBinop, 0, int32(code.SubAdd), 1)

	result, err := m.Run(c, object.NewMap())
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.(*object.Int).Value)
}

func TestDivisionByZeroRaisesAndPropagates(t *testing.T) {
	m := newMachine(t)
	c := code.NewCodeArray("test")
	a := c.AddLiteral(object.NewInt(1))
	b := c.AddLiteral(object.NewInt(0))
	c.Emit(code.OpPush, a, 0, 1)
	c.Emit(code.OpPush, b, 0, 1)
	c.Emit(code.OpBinop, 0, int32(code.SubDiv), 1)

	_, err := m.Run(c, object.NewMap())
	require.Error(t, err)
}

func TestNameAssignAndFetch(t *testing.T) {
	m := newMachine(t)
	c := code.NewCodeArray("test")
	name := c.AddLiteral(object.NewStr("x"))
	val := c.AddLiteral(object.NewInt(42))
	c.Emit(code.OpPush, val, 0, 1)
	c.Emit(code.OpAssignBase, name, 0, 1)
	c.Emit(code.OpPop, 0, 0, 1)
	c.Emit(code.OpName, name, 0, 2)

	result, err := m.Run(c, object.NewMap())
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(*object.Int).Value)
}

func TestCallOfNativeCfunc(t *testing.T) {
	m := newMachine(t)
	double := object.NewCfunc("double", func(args []types.Object, aux1, aux2 any) (types.Object, error) {
		n := args[0].(*object.Int)
		return object.NewInt(n.Value * 2), nil
	}, nil, nil)

	c := code.NewCodeArray("test")
	fnLit := c.AddLiteral(double)
	argLit := c.AddLiteral(object.NewInt(21))
	c.Emit(code.OpMark, 0, 0, 1)
	c.Emit(code.OpPush, argLit, 0, 1)
	c.Emit(code.OpPush, fnLit, 0, 1)
	c.Emit(code.OpCall, 0, 0, 1)

	result, err := m.Run(c, object.NewMap())
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(*object.Int).Value)
}

func TestCatcherCatchesFailAndResumes(t *testing.T) {
	m := newMachine(t)
	c := code.NewCodeArray("test")

	msgLit := c.AddLiteral(object.NewStr("boom"))
	recoveredLit := c.AddLiteral(object.NewInt(-1))

	pushCatcher := c.Emit(code.OpPushCatcher, 0, 0, 1)
	c.Emit(code.OpPush, msgLit, 0, 2)
	c.Emit(code.OpFail, 0, 0, 2)
	jumpOverHandler := c.Emit(code.OpJump, 0, 0, 2)
	handlerTarget := int32(len(c.Instructions))
	c.Emit(code.OpPush, recoveredLit, 0, 3)
	afterHandler := int32(len(c.Instructions))

	c.Patch(pushCatcher, handlerTarget)
	c.Patch(jumpOverHandler, afterHandler)

	result, err := m.Run(c, object.NewMap())
	require.NoError(t, err)
	assert.Equal(t, int64(-1), result.(*object.Int).Value)
}

func TestComparisonLessThan(t *testing.T) {
	m := newMachine(t)
	c := code.NewCodeArray("test")
	one := c.AddLiteral(object.NewInt(1))
	two := c.AddLiteral(object.NewInt(2))
	c.Emit(code.OpPush, one, 0, 1)
	c.Emit(code.OpPush, two, 0, 1)
	c.Emit(code.OpBinop, 0, int32(code.SubLt), 1)

	result, err := m.Run(c, object.NewMap())
	require.NoError(t, err)
	assert.NotEqual(t, int64(0), result.(*object.Int).Value)
}
