// Package notify posts test run summaries to chat webhooks.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when cases fail or error
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every case passes
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and when a failing
	// build turns green again
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn validates a policy name; an empty name means failure.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch n := NotifyOn(strings.ToLower(s)); n {
	case "":
		return NotifyFailure, nil
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return n, nil
	}
	return "", fmt.Errorf("unknown notify policy %q (want always, failure, success or recovery)", s)
}

// RunSummary is the notification payload for one invocation.
type RunSummary struct {
	Runs        []string      `json:"runs"`
	TotalCases  int           `json:"total_cases"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Errored     int           `json:"errored"`
	Skipped     int           `json:"skipped"`
	Duration    time.Duration `json:"duration"`
	FailedCases []FailedCase  `json:"failed_cases,omitempty"`
	IsRecovery  bool          `json:"is_recovery,omitempty"`
}

// FailedCase is a failed or errored case in a summary.
type FailedCase struct {
	FullName string `json:"full_name"`
	Status   string `json:"status"`
	Phase    string `json:"phase,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Success reports whether no case failed or errored.
func (s *RunSummary) Success() bool {
	return s.Failed == 0 && s.Errored == 0
}

// Title is the one-line headline used by every notifier.
func (s *RunSummary) Title() string {
	switch {
	case !s.Success():
		return fmt.Sprintf("%d case(s) failed, %d errored", s.Failed, s.Errored)
	case s.IsRecovery:
		return "Tests recovered!"
	default:
		return "All tests passed!"
	}
}

// Summarize builds a summary from executed runs.
func Summarize(results []*runner.RunResult) *RunSummary {
	s := &RunSummary{}
	for _, r := range results {
		s.Runs = append(s.Runs, r.Name)
		s.TotalCases += r.Total()
		s.Passed += r.Passed
		s.Failed += r.Failed
		s.Errored += r.Errored
		s.Skipped += r.Skipped
		s.Duration += r.Duration

		for _, c := range r.Cases {
			if c.Skipped || c.Passed() {
				continue
			}
			fc := FailedCase{FullName: c.FullName, Status: string(c.Status), Message: c.Message}
			if c.Phase != checkers.PhaseTest {
				fc.Phase = string(c.Phase)
			}
			s.FailedCases = append(s.FailedCases, fc)
		}
	}
	return s
}

// Notifier is the interface for notification services
type Notifier interface {
	Notify(summary *RunSummary) error
	Name() string
}

// Manager applies a NotifyOn policy across notifiers.
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
	lastState bool
}

// NewManager creates a manager. The previous run is assumed successful.
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
		lastState: true,
	}
}

// AddNotifier adds a notifier to the manager
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Len returns the number of notifiers.
func (m *Manager) Len() int {
	return len(m.notifiers)
}

// Notify sends summary when the policy asks for it and returns every
// notifier error joined.
func (m *Manager) Notify(summary *RunSummary) error {
	ok := summary.Success()

	var send bool
	switch m.notifyOn {
	case NotifyAlways:
		send = true
	case NotifyFailure:
		send = !ok
	case NotifySuccess:
		send = ok
	case NotifyRecovery:
		summary.IsRecovery = ok && !m.lastState
		send = !ok || summary.IsRecovery
	}
	m.lastState = ok

	if !send {
		return nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
