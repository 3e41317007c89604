package checkers

import (
	"errors"
	"fmt"
)

var (
	// ErrAssertion marks failures that classify a test case as FAILED.
	ErrAssertion = errors.New("assertion failed")
	// ErrNotSupported is returned for requests the engine refuses to serve.
	ErrNotSupported = errors.New("not supported")
	// ErrMissingVariable is returned when a required test variable is absent.
	ErrMissingVariable = errors.New("missing variable")
)

// AssertionError is a failed expectation.
type AssertionError struct {
	Message string
}

// NewAssertionError formats a failure message.
func NewAssertionError(format string, args ...any) *AssertionError {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return ErrAssertion.Error()
	}
	return e.Message
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// MissingVariableError names a variable a test needs but no context provides.
type MissingVariableError struct {
	Name string
	Test string
}

func (e *MissingVariableError) Error() string {
	if e.Test == "" {
		return fmt.Sprintf("missing variable %q", e.Name)
	}
	return fmt.Sprintf("%s: missing variable %q", e.Test, e.Name)
}

func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// NotSupportedError reports an operation the engine refuses.
type NotSupportedError struct {
	Op     string
	Reason string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// PanicError is a recovered panic. It unwraps to the panic value when that
// value is an error, so a panicking assertion still classifies as FAILED.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
