// Package errs implements the per-thread error buffer of spec.md §4.7:
// set_error/clear_error/get_error plus the argument-error helpers
// primitives use to report a bad call. Unlike smog's pkg/vm/errors.go,
// where RuntimeError/StackFrame are built and returned directly, this
// state lives on an exec record so concurrently-running threads never
// share one "current error" (spec.md §4.8: "have independent exec
// records (their own vs/os/xs, error buffer, and scope chain)").
package errs

import (
	"fmt"

	"github.com/go-stack/stack"
	pkgerrors "github.com/pkg/errors"
)

// State is one thread's error buffer. The zero value is a clear state.
// It is intentionally not safe for concurrent use — exactly one thread
// owns its own exec record's State at a time, per the interpreter lock
// in spec.md §4.8.
type State struct {
	err   error
	trace stack.CallStack
}

// SetError formats msg and args into the buffer and returns a sentinel
// value primitives can return directly: `return nil, errs.SetError(...)`
// reads the same as the spec's `return set_error(...)` idiom. The
// go-stack/stack frame captures the Go call site that raised it, a
// diagnostic distinct from the script-level position the VM derives from
// CodeArray.Lines.
func (s *State) SetError(format string, args ...any) error {
	s.err = pkgerrors.Errorf(format, args...)
	s.trace = stack.Trace().TrimRuntime()
	return s.err
}

// SetCause wraps an existing error (e.g. one surfaced from a Cfunc's
// native call) into the buffer, preserving it for errors.Cause.
func (s *State) SetCause(cause error, context string) error {
	s.err = pkgerrors.Wrap(cause, context)
	s.trace = stack.Trace().TrimRuntime()
	return s.err
}

// ClearError zeroes the per-thread error pointer (spec.md §4.7).
func (s *State) ClearError() {
	s.err = nil
	s.trace = nil
}

// GetError resolves the global "error" symbol for the active exec
// record (spec.md §4.7 "the global 'error' symbol resolves per-thread
// via the active exec record").
func (s *State) GetError() error { return s.err }

// Pending reports whether the thread is currently in the Raising state
// per the exec-frame state machine of spec.md §4.5.
func (s *State) Pending() bool { return s.err != nil }

// Trace returns the Go-level call stack captured when the error was set,
// formatted as one bracketed, space-separated list of file:line frames, for diagnostics that go beyond the
// script-level error message.
func (s *State) Trace() string {
	if s.trace == nil {
		return ""
	}
	return fmt.Sprintf("%+v", s.trace)
}

// ArgError formats the taxonomy's argument-error shape (spec.md §4.7:
// "argerror(i) formats 'argument i is wrong type'").
func (s *State) ArgError(i int) error {
	return s.SetError("argument %d is wrong type", i)
}

// ArgCount formats a wrong-arity error for a callable expecting want
// arguments but given got.
func (s *State) ArgCount(want, got int) error {
	return s.SetError("wrong number of arguments: expected %d, got %d", want, got)
}

// Fail implements script-level `fail(msg)` (spec.md §4.7 "User errors:
// raised by fail(msg) in script code").
func (s *State) Fail(msg string) error {
	return s.SetError("%s", msg)
}

// OutOfMemory formats the fixed out-of-memory taxonomy entry.
func (s *State) OutOfMemory() error {
	return s.SetError("ran out of memory")
}

// TypeMismatch formats the fixed type-mismatch taxonomy entry (spec.md
// §4.7: `"attempt to do X with a <typename>"`).
func (s *State) TypeMismatch(op, typeName string) error {
	return s.SetError("attempt to %s with a %s", op, typeName)
}

// Cause unwraps to the innermost error, mirroring github.com/pkg/errors'
// Cause so callers need not import that package directly just to
// recover the original failure beneath SetCause's wrapping.
func Cause(err error) error { return pkgerrors.Cause(err) }
