package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/compiler"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
	"github.com/emberlang/ember/internal/vm"
)

func run(t *testing.T, root *compiler.Expr) (types.Object, error) {
	t.Helper()
	reg := types.NewRegistry()
	object.RegisterBuiltins(reg)
	object.Reg = reg
	atoms := atom.New()
	atom.SetRegistry(reg)
	object.Atoms = atoms
	coll := gc.New(reg, atoms, nil)
	m := vm.New(reg, coll, nil)
	c, err := compiler.Compile("test", atoms, root)
	require.NoError(t, err)
	return m.Run(c, object.NewMap())
}

func block(stmts ...*compiler.Expr) *compiler.Expr {
	return &compiler.Expr{Kind: compiler.KBlock, Children: stmts}
}

func lit(o types.Object) *compiler.Expr {
	return &compiler.Expr{Kind: compiler.KLiteral, Literal: o}
}

func TestCompileAndRunIntegerLiteral(t *testing.T) {
	result, err := run(t, block(lit(object.NewInt(42))))
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(*object.Int).Value)
}

func TestCompileAndRunArithmetic(t *testing.T) {
	expr := &compiler.Expr{
		Kind: compiler.KBinary,
		Sub:  code.SubMul,
		Children: []*compiler.Expr{
			lit(object.NewInt(6)),
			lit(object.NewInt(7)),
		},
	}
	result, err := run(t, block(expr))
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(*object.Int).Value)
}

func TestCompileAssignThenReadBack(t *testing.T) {
	assign := &compiler.Expr{Kind: compiler.KAssignBase, Name: "x", Children: []*compiler.Expr{lit(object.NewInt(7))}}
	read := &compiler.Expr{Kind: compiler.KName, Name: "x"}
	result, err := run(t, block(assign, read))
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.(*object.Int).Value)
}

func TestCompileIfElse(t *testing.T) {
	ifExpr := &compiler.Expr{
		Kind: compiler.KIf,
		Children: []*compiler.Expr{
			lit(object.NewInt(0)), // falsy condition
			block(lit(object.NewInt(1))),
			block(lit(object.NewInt(2))),
		},
	}
	result, err := run(t, block(ifExpr))
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.(*object.Int).Value)
}

func TestCompileWhileAccumulates(t *testing.T) {
	// x = 0; while (x < 3) { x = x + 1 }; x
	initX := &compiler.Expr{Kind: compiler.KAssignBase, Name: "x", Children: []*compiler.Expr{lit(object.NewInt(0))}}
	cond := &compiler.Expr{
		Kind: compiler.KBinary, Sub: code.SubLt,
		Children: []*compiler.Expr{{Kind: compiler.KName, Name: "x"}, lit(object.NewInt(3))},
	}
	increment := &compiler.Expr{
		Kind: compiler.KAssign, Name: "x",
		Children: []*compiler.Expr{{
			Kind: compiler.KBinary, Sub: code.SubAdd,
			Children: []*compiler.Expr{{Kind: compiler.KName, Name: "x"}, lit(object.NewInt(1))},
		}},
	}
	loop := &compiler.Expr{Kind: compiler.KWhile, Children: []*compiler.Expr{cond, block(increment)}}
	readX := &compiler.Expr{Kind: compiler.KName, Name: "x"}

	result, err := run(t, block(initX, loop, readX))
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.(*object.Int).Value)
}

func TestCompileFuncLitCallAndClosure(t *testing.T) {
	// make_adder = func(n) { func(m) { m + n } }; add5 = make_adder(5); add5(3)
	inner := &compiler.Expr{
		Kind:   compiler.KFuncLit,
		Params: []string{"m"},
		Children: []*compiler.Expr{block(&compiler.Expr{
			Kind: compiler.KBinary, Sub: code.SubAdd,
			Children: []*compiler.Expr{{Kind: compiler.KName, Name: "m"}, {Kind: compiler.KName, Name: "n"}},
		})},
	}
	outer := &compiler.Expr{
		Kind:     compiler.KFuncLit,
		Params:   []string{"n"},
		Children: []*compiler.Expr{block(inner)},
	}
	makeAdder := &compiler.Expr{Kind: compiler.KAssignBase, Name: "make_adder", Children: []*compiler.Expr{outer}}
	callOuter := &compiler.Expr{Kind: compiler.KCall, Children: []*compiler.Expr{{Kind: compiler.KName, Name: "make_adder"}, lit(object.NewInt(5))}}
	add5 := &compiler.Expr{Kind: compiler.KAssignBase, Name: "add5", Children: []*compiler.Expr{callOuter}}
	callInner := &compiler.Expr{Kind: compiler.KCall, Children: []*compiler.Expr{{Kind: compiler.KName, Name: "add5"}, lit(object.NewInt(3))}}

	result, err := run(t, block(makeAdder, add5, callInner))
	require.NoError(t, err)
	assert.Equal(t, int64(8), result.(*object.Int).Value)
}

func TestCompileTryCatchRecoversFromFail(t *testing.T) {
	tryExpr := &compiler.Expr{
		Kind: compiler.KTry,
		Children: []*compiler.Expr{
			block(&compiler.Expr{
				Kind: compiler.KBinary, Sub: code.SubDiv,
				Children: []*compiler.Expr{lit(object.NewInt(1)), lit(object.NewInt(0))},
			}),
			block(lit(object.NewInt(-1))),
		},
	}
	result, err := run(t, block(tryExpr))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), result.(*object.Int).Value)
}

func TestBreakOutsideLoopIsACompileError(t *testing.T) {
	_, err := compiler.Compile("test", nil, block(&compiler.Expr{Kind: compiler.KBreak}))
	require.Error(t, err)
}
