package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for the checkers CLI
const (
	// ExitSuccess indicates all test cases passed
	ExitSuccess = 0

	// ExitTestFailure indicates a failed or errored test case, or a run
	// whose setup or teardown failed
	ExitTestFailure = 1

	// ExitDataError indicates an invalid data or env file
	ExitDataError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsageError
}
