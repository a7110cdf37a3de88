package loader

import (
	"errors"
	"fmt"
	"time"
)

// ErrPanic is wrapped by RenderFailure when a producer panicked with a
// value that is not itself an error.
var ErrPanic = errors.New("view panicked")

// RenderFailure is the single error kind raised by view construction.
type RenderFailure struct {
	View     string
	Cause    error
	Panicked bool
	Stack    string
}

func (f *RenderFailure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("render %s: panic: %v", f.View, f.Cause)
	}
	return fmt.Sprintf("render %s: %v", f.View, f.Cause)
}

func (f *RenderFailure) Unwrap() error { return f.Cause }

// panicCause turns a recovered value into an error chain that still
// matches the original error when there was one.
func panicCause(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPanic, r)
}

// CapturedFailure is what the loader remembers about the failure that moved
// it into StateFailed. It is meant for diagnostics only and is never shown
// to the user.
type CapturedFailure struct {
	ID         string
	View       string
	OccurredAt time.Time
	Err        *RenderFailure
}

// Message returns the cause text without the view prefix.
func (c CapturedFailure) Message() string {
	if c.Err == nil || c.Err.Cause == nil {
		return ""
	}
	return c.Err.Cause.Error()
}
