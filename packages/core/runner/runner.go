package runner

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	subsystem = "Runner"

	SkipFiltered = "filtered out"
	SkipBail     = "bail"
)

// Runner executes test runs and collects their results.
type Runner struct {
	config   *Config
	progress *rate.Sometimes
}

// Config controls filtering, bail behavior and hooks.
type Config struct {
	Verbose      bool
	Bail         bool
	NameFilter   string
	SuitesFilter []string

	// BeforeRun and AfterRun are shell commands run around each test run.
	BeforeRun []string
	AfterRun  []string
	HookDir   string

	// ContextFactory overrides how test case contexts are built.
	ContextFactory checkers.RunContextFactory
}

// NewRunner returns a runner for cfg. A nil cfg uses defaults.
func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Runner{
		config:   cfg,
		progress: &rate.Sometimes{Interval: time.Second},
	}
}

// RunResult is the outcome of one test run.
type RunResult struct {
	ID        string
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Cases     []*CaseResult
	Suites    *registry.Registry[string, *SuiteResult]
	Passed    int
	Failed    int
	Errored   int
	Skipped   int
}

// Success reports whether no case failed or errored.
func (r *RunResult) Success() bool {
	return r.Failed == 0 && r.Errored == 0
}

func (r *RunResult) Total() int {
	return len(r.Cases)
}

// CaseResult is the outcome of one test case, including skipped ones.
type CaseResult struct {
	Name        string
	FullName    string
	Description string
	Status      checkers.Status
	Skipped     bool
	SkipReason  string
	Message     string
	Err         error
	Phase       checkers.Phase
	Stack       []byte
	Duration    time.Duration
	Result      *checkers.TestResult

	// Suites lists the "<run>.<suite>" keys the case is reported under.
	Suites []string
}

// Passed reports whether the case ran and passed.
func (c *CaseResult) Passed() bool {
	return !c.Skipped && c.Status == checkers.StatusPassed
}

// SuiteResult aggregates the cases reported under one suite group.
type SuiteResult struct {
	Name        string
	Description string
	Cases       []*CaseResult
	Passed      int
	Failed      int
	Errored     int
	Skipped     int
}

// SuiteKey names the result group of a suite within a run.
func SuiteKey(runName, suiteName string) string {
	if suiteName == "" {
		return runName
	}
	return runName + "." + suiteName
}

// Run invokes run setup, every generated test case once, and run teardown.
// A failing setup aborts the run; teardown runs regardless.
func (r *Runner) Run(run *checkers.TestRun) (result *RunResult, err error) {
	start := time.Now()
	r.installHooks(run)

	logging.Debug(subsystem, "starting run %s", run.Name)
	defer func() {
		if tdErr := run.RunTeardown(); tdErr != nil {
			logging.Error(subsystem, tdErr, "teardown of run %s failed", run.Name)
			err = errors.Join(err, tdErr)
		}
	}()

	if setupErr := run.RunSetup(); setupErr != nil {
		logging.Error(subsystem, setupErr, "setup of run %s failed", run.Name)
		return nil, setupErr
	}

	result = &RunResult{
		ID:        uuid.New().String(),
		Name:      run.Name,
		StartedAt: start,
		Suites:    registry.New[string, *SuiteResult](),
	}

	cases := run.GenerateTestCasesWith(r.config.ContextFactory)
	total := cases.Len()
	logging.Info(subsystem, "running %d test cases in %s", total, run.Name)

	bailed := false
	for i, tc := range cases.Values() {
		cr := r.newCaseResult(run, tc)

		switch {
		case bailed:
			cr.Skipped = true
			cr.SkipReason = SkipBail
		case !r.shouldRun(tc):
			cr.Skipped = true
			cr.SkipReason = SkipFiltered
		default:
			r.invoke(tc, cr)
			if r.config.Bail && !cr.Passed() {
				bailed = true
			}
		}

		result.add(run, tc, cr)
		r.progress.Do(func() {
			logging.Debug(subsystem, "%s: %d/%d test cases done", run.Name, i+1, total)
		})
	}

	result.Duration = time.Since(start)
	logging.Info(subsystem, "run %s finished: %d passed, %d failed, %d errors, %d skipped",
		run.Name, result.Passed, result.Failed, result.Errored, result.Skipped)
	return result, nil
}

// RunAll runs each test run in order. It stops at the first run whose
// setup fails.
func (r *Runner) RunAll(runs ...*checkers.TestRun) ([]*RunResult, error) {
	var results []*RunResult
	var errs []error
	for _, run := range runs {
		res, err := r.Run(run)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("run %s: %w", run.Name, err))
			if res == nil {
				break
			}
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) newCaseResult(run *checkers.TestRun, tc *checkers.TestCase) *CaseResult {
	cr := &CaseResult{
		Name:        tc.Name(),
		FullName:    tc.FullName(),
		Description: tc.Description(),
	}
	for _, s := range tc.TestSuites().Values() {
		cr.Suites = append(cr.Suites, SuiteKey(run.Name, s.Name()))
	}
	return cr
}

func (r *Runner) invoke(tc *checkers.TestCase, cr *CaseResult) {
	if r.config.Verbose {
		logging.Info(subsystem, "running %s", tc.FullName())
	}
	res := tc.Run()

	cr.Result = res
	cr.Status = res.Status
	cr.Message = res.Message
	cr.Err = res.Err
	cr.Phase = res.Phase
	cr.Stack = res.Stack
	cr.Duration = res.Duration

	if !res.Passed() {
		logging.Debug(subsystem, "%s %s: %s", tc.FullName(), res.Status, res.Message)
	}
}

func (r *Runner) shouldRun(tc *checkers.TestCase) bool {
	if r.config.NameFilter != "" {
		if !matchesPattern(tc.Name(), r.config.NameFilter) && !matchesPattern(tc.FullName(), r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.SuitesFilter) > 0 {
		if !hasAnySuite(tc.TestSuites().Keys(), r.config.SuitesFilter) {
			return false
		}
	}

	return true
}

func (res *RunResult) add(run *checkers.TestRun, tc *checkers.TestCase, cr *CaseResult) {
	res.Cases = append(res.Cases, cr)
	res.count(cr, &res.Passed, &res.Failed, &res.Errored, &res.Skipped)

	for _, s := range tc.TestSuites().Values() {
		key := SuiteKey(run.Name, s.Name())
		group, ok := res.Suites.Get(key)
		if !ok {
			group = &SuiteResult{Name: key, Description: s.Description()}
			res.Suites.Register(key, group)
		}
		group.Cases = append(group.Cases, cr)
		res.count(cr, &group.Passed, &group.Failed, &group.Errored, &group.Skipped)
	}
}

func (res *RunResult) count(cr *CaseResult, passed, failed, errored, skipped *int) {
	switch {
	case cr.Skipped:
		*skipped++
	case cr.Status == checkers.StatusPassed:
		*passed++
	case cr.Status == checkers.StatusFailed:
		*failed++
	default:
		*errored++
	}
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}

func hasAnySuite(suites []string, filters []string) bool {
	for _, filter := range filters {
		if slices.Contains(suites, filter) {
			return true
		}
	}
	return false
}
