package object

import (
	"fmt"

	"github.com/emberlang/ember/internal/types"
	pkgerrors "github.com/pkg/errors"
)

// errNotIndexable and errIndexRange back the "attempt to do X with a
// <typename>" taxonomy from spec.md §4.7. They're kept local to this
// package (rather than importing internal/errs, which would cycle back
// through object for its own Object-typed error values) and wrapped with
// github.com/pkg/errors so the per-thread error buffer in internal/errs
// can still recover the underlying cause with errors.Cause.
func errNotIndexable(typeName string, key types.Object) error {
	return pkgerrors.Errorf("attempt to index %s with a non-integer key", typeName)
}

func errIndexRange(typeName string, idx int) error {
	return pkgerrors.Errorf("index %d out of range for %s", idx, typeName)
}

func errWrongType(op, typeName string) error {
	return pkgerrors.Errorf("attempt to %s with a %s", op, typeName)
}

func errAssignAtomic(typeName string) error {
	return pkgerrors.New(fmt.Sprintf("attempt to assign to an atomic %s", typeName))
}
