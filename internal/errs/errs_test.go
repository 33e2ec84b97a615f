package errs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/errs"
)

func TestSetErrorThenClear(t *testing.T) {
	var s errs.State
	assert.False(t, s.Pending())

	err := s.SetError("bad thing %d", 7)
	require.Error(t, err)
	assert.True(t, s.Pending())
	assert.Equal(t, "bad thing 7", s.GetError().Error())
	assert.NotEmpty(t, s.Trace())

	s.ClearError()
	assert.False(t, s.Pending())
	assert.Nil(t, s.GetError())
}

func TestArgErrorAndArgCount(t *testing.T) {
	var s errs.State
	s.ArgError(2)
	assert.Equal(t, "argument 2 is wrong type", s.GetError().Error())

	s.ArgCount(3, 1)
	assert.Equal(t, "wrong number of arguments: expected 3, got 1", s.GetError().Error())
}

func TestSetCausePreservesCauseChain(t *testing.T) {
	var s errs.State
	root := assert.AnError
	s.SetCause(root, "opening file")
	assert.ErrorIs(t, errs.Cause(s.GetError()), root)
}

func TestTwoStatesAreIndependent(t *testing.T) {
	var a, b errs.State
	a.SetError("a failed")
	assert.False(t, b.Pending())
}
