// Package invariant defines the error kind raised when the merge engine
// detects a state that must never occur.
//
// An invariant violation points at a defect in the transform code or in the
// container codec, not at bad input. Callers abort the run on the first one
// and never retry; the CLI reports it with a distinct prefix so it can be told
// apart from ordinary I/O or decode failures.
package invariant

import (
	"errors"
	"fmt"
)

// Error reports a broken internal invariant.
type Error struct {
	Component string
	Detail    string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Component, e.Detail)
}

// ErrorKind lets callers classify the failure alongside other classified errors.
func (e *Error) ErrorKind() string { return "invariant" }

// Violation constructs an *Error with a formatted detail message.
func Violation(component, format string, args ...any) *Error {
	return &Error{Component: component, Detail: fmt.Sprintf(format, args...)}
}

// Is reports whether err wraps an invariant violation.
func Is(err error) bool {
	var target *Error
	return errors.As(err, &target)
}
