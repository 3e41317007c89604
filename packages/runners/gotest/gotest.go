// Package gotest reports test runs through the go test framework.
//
// Each run is executed once. The results are then replayed as subtests,
// one per suite group and one per case inside it, so go test shows every
// case as its own unit without invoking it again:
//
//	func TestMath(t *testing.T) {
//		run, _ := checkers.NewTestRunFromModule(mathtests.Module)
//		gotest.Run(t, run)
//	}
package gotest

import (
	"fmt"
	"testing"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
)

// Host is the part of *testing.T the adapter reports through.
type Host interface {
	Helper()
	Run(name string, fn func(Host)) bool
	Error(args ...any)
	Skip(args ...any)
	Log(args ...any)
}

type testingHost struct {
	t *testing.T
}

func (h testingHost) Helper() { h.t.Helper() }

func (h testingHost) Run(name string, fn func(Host)) bool {
	return h.t.Run(name, func(t *testing.T) { fn(testingHost{t: t}) })
}

func (h testingHost) Error(args ...any) { h.t.Error(args...) }
func (h testingHost) Skip(args ...any)  { h.t.Skip(args...) }
func (h testingHost) Log(args ...any)   { h.t.Log(args...) }

// Run executes runs with the default runner and reports them on t.
func Run(t *testing.T, runs ...*checkers.TestRun) {
	t.Helper()
	Report(testingHost{t: t}, runner.NewRunner(nil), runs...)
}

// RunWith is Run with a runner configuration.
func RunWith(t *testing.T, cfg *runner.Config, runs ...*checkers.TestRun) {
	t.Helper()
	Report(testingHost{t: t}, runner.NewRunner(cfg), runs...)
}

// Report executes each run with r and replays the results on h.
func Report(h Host, r *runner.Runner, runs ...*checkers.TestRun) {
	h.Helper()
	for _, run := range runs {
		result, err := r.Run(run)
		if err != nil {
			h.Error(fmt.Sprintf("run %s: %v", run.Name, err))
		}
		if result == nil {
			continue
		}
		Replay(h, result)
	}
}

// Replay reports an executed run result on h, one subtest per suite group.
func Replay(h Host, result *runner.RunResult) {
	h.Helper()
	for key, suite := range result.Suites.All() {
		h.Run(key, func(sh Host) {
			if suite.Description != "" {
				sh.Log(suite.Description)
			}
			for _, c := range suite.Cases {
				sh.Run(c.Name, func(ch Host) {
					reportCase(ch, c)
				})
			}
		})
	}
}

func reportCase(h Host, c *runner.CaseResult) {
	h.Helper()
	if c.Description != "" {
		h.Log(c.Description)
	}
	switch {
	case c.Skipped:
		h.Skip(c.SkipReason)
	case c.Status == checkers.StatusPassed:
	default:
		h.Error(Failure(c))
	}
}

// Failure renders a failed or errored case the way it is reported.
func Failure(c *runner.CaseResult) string {
	msg := c.Message
	if msg == "" && c.Err != nil {
		msg = c.Err.Error()
	}
	out := fmt.Sprintf("%s %s during %s: %s", c.FullName, c.Status, c.Phase, msg)
	if len(c.Stack) > 0 {
		out += "\n" + string(c.Stack)
	}
	return out
}
