package checkers

import (
	"errors"
	"time"
)

// Status classifies a finished test case.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

// Phase names the step of a test case a failure came from.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseTest     Phase = "test"
	PhaseTeardown Phase = "teardown"
)

// TestResult is the outcome of one TestCase run.
type TestResult struct {
	Context  *Context
	Status   Status
	Message  string
	Err      error
	Phase    Phase
	Step     string
	Stack    []byte
	Duration time.Duration
}

func newTestResult(ctx *Context, fail *failure, duration time.Duration) *TestResult {
	r := &TestResult{
		Context:  ctx,
		Status:   StatusPassed,
		Duration: duration,
	}
	if fail == nil {
		return r
	}
	r.Status = classify(fail.err)
	r.Message = fail.message()
	r.Err = fail.err
	r.Phase = fail.phase
	r.Step = fail.step
	r.Stack = fail.stack
	return r
}

func classify(err error) Status {
	switch {
	case err == nil:
		return StatusPassed
	case errors.Is(err, ErrAssertion):
		return StatusFailed
	default:
		return StatusError
	}
}

func (r *TestResult) Passed() bool { return r.Status == StatusPassed }

func (r *TestResult) TestCase() *TestCase {
	if r.Context == nil {
		return nil
	}
	return r.Context.testCase
}
