package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/checkers/packages/assertions"
	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMathRun(t *testing.T) *checkers.TestRun {
	t.Helper()
	m := checkers.NewModule("math_test", "Math checks.")
	m.MustTest("add", func(x, y, total int) error {
		return assertions.AreEqual(x+y, total)
	},
		checkers.WithArgs("x", "y", "total"),
		checkers.WithSuites("arithmetic"),
		checkers.WithParams(map[string]map[string]any{
			"1_1_2": {"x": 1, "y": 1, "total": 2},
			"1_1_3": {"x": 1, "y": 1, "total": 3},
		}),
	)
	m.MustTest("divide", func(x, y int) error {
		_ = x / y
		return nil
	},
		checkers.WithArgs("x", "y"),
		checkers.WithParams(map[string]map[string]any{
			"by_zero": {"x": 1, "y": 0},
		}),
	)

	run, err := checkers.NewTestRunFromModule(m)
	require.NoError(t, err)
	return run
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.config)
		assert.NotNil(t, r.progress)
	})

	t.Run("with custom config", func(t *testing.T) {
		r := NewRunner(&Config{Verbose: true, Bail: true})
		assert.True(t, r.config.Verbose)
		assert.True(t, r.config.Bail)
	})
}

func TestRunner_Run(t *testing.T) {
	run := newMathRun(t)

	result, err := NewRunner(nil).Run(run)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "math_test", result.Name)
	assert.Equal(t, 3, result.Total())
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Errored)
	assert.Equal(t, 0, result.Skipped)
	assert.False(t, result.Success())

	names := make([]string, 0, len(result.Cases))
	for _, c := range result.Cases {
		names = append(names, c.FullName)
	}
	assert.Equal(t, []string{"math_test.add_1_1_2", "math_test.add_1_1_3", "math_test.divide_by_zero"}, names)

	failed := result.Cases[1]
	assert.Equal(t, checkers.StatusFailed, failed.Status)
	assert.Equal(t, "expected equality; <2> != <3>", failed.Message)
	assert.ErrorIs(t, failed.Err, checkers.ErrAssertion)
	assert.NotNil(t, failed.Result)

	errored := result.Cases[2]
	assert.Equal(t, checkers.StatusError, errored.Status)
	assert.NotEmpty(t, errored.Stack)
}

func TestRunner_RunGroupsBySuite(t *testing.T) {
	result, err := NewRunner(nil).Run(newMathRun(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"math_test.all", "math_test.arithmetic"}, result.Suites.Keys())

	all, ok := result.Suites.Get("math_test.all")
	require.True(t, ok)
	assert.Len(t, all.Cases, 3)
	assert.Equal(t, "Suite containing all tests.", all.Description)
	assert.Equal(t, 1, all.Errored)

	arithmetic, ok := result.Suites.Get("math_test.arithmetic")
	require.True(t, ok)
	assert.Len(t, arithmetic.Cases, 2)
	assert.Equal(t, 1, arithmetic.Passed)
	assert.Equal(t, 1, arithmetic.Failed)

	assert.Equal(t, []string{"math_test.all", "math_test.arithmetic"}, result.Cases[0].Suites)
	assert.Equal(t, []string{"math_test.all"}, result.Cases[2].Suites)
}

func TestRunner_RunFilters(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		skipped []string
	}{
		{
			name:    "name prefix",
			config:  &Config{NameFilter: "add*"},
			skipped: []string{"math_test.divide_by_zero"},
		},
		{
			name:    "full name",
			config:  &Config{NameFilter: "math_test.divide_by_zero"},
			skipped: []string{"math_test.add_1_1_2", "math_test.add_1_1_3"},
		},
		{
			name:    "suite",
			config:  &Config{SuitesFilter: []string{"arithmetic"}},
			skipped: []string{"math_test.divide_by_zero"},
		},
		{
			name:    "bail",
			config:  &Config{Bail: true},
			skipped: []string{"math_test.divide_by_zero"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewRunner(tt.config).Run(newMathRun(t))
			require.NoError(t, err)

			var skipped []string
			for _, c := range result.Cases {
				if c.Skipped {
					skipped = append(skipped, c.FullName)
					assert.False(t, c.Passed())
					assert.Nil(t, c.Result)
				}
			}
			assert.Equal(t, tt.skipped, skipped)
			assert.Equal(t, len(tt.skipped), result.Skipped)
		})
	}
}

func TestRunner_RunSetupFailure(t *testing.T) {
	run := newMathRun(t)
	tornDown := false
	run.Setup.Register(checkers.NewRunFixture("db", func(*checkers.TestRun) error {
		return errors.New("no database")
	}))
	run.Teardown.Register(checkers.NewRunFixture("cleanup", func(*checkers.TestRun) error {
		tornDown = true
		return nil
	}))

	result, err := NewRunner(nil).Run(run)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
	assert.True(t, tornDown)
}

func TestRunner_RunTeardownFailure(t *testing.T) {
	run := newMathRun(t)
	run.Teardown.Register(checkers.NewRunFixture("cleanup", func(*checkers.TestRun) error {
		return errors.New("cleanup failed")
	}))

	result, err := NewRunner(nil).Run(run)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Total())
}

func TestRunner_RunAll(t *testing.T) {
	broken := checkers.NewTestRun("broken")
	broken.Setup.Register(checkers.NewRunFixture("fail", func(*checkers.TestRun) error {
		return errors.New("boom")
	}))

	results, err := NewRunner(nil).RunAll(newMathRun(t), broken, newMathRun(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run broken")
	assert.Len(t, results, 1)
}

func TestRunner_ShellHooks(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "hooks.log")

	run := checkers.NewTestRun("hooked")
	run.Variables.Register("base-url", "http://localhost")
	run.Tests.Register(checkers.MustTest("m", "t", func() {}))

	r := NewRunner(&Config{
		BeforeRun: []string{`echo "before $CHECKERS_RUN $CHECKERS_BASE_URL" >> hooks.log`},
		AfterRun:  []string{`echo after >> hooks.log`},
		HookDir:   dir,
	})
	result, err := r.Run(run)
	require.NoError(t, err)
	assert.True(t, result.Success())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "before hooked http://localhost\nafter\n", string(data))
}

func TestRunner_ShellHookFailure(t *testing.T) {
	run := checkers.NewTestRun("hooked")
	r := NewRunner(&Config{BeforeRun: []string{"exit 3"}})

	_, err := r.Run(run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"exit 3" failed`)
}

func TestSuiteKey(t *testing.T) {
	assert.Equal(t, "run.suite", SuiteKey("run", "suite"))
	assert.Equal(t, "run", SuiteKey("run", ""))
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{"anything", "", true},
		{"add_1_1_2", "add_1_1_2", true},
		{"add_1_1_2", "add*", true},
		{"add_1_1_2", "*1_2", true},
		{"add_1_1_2", "*_1_*", true},
		{"add_1_1_2", "sub*", false},
		{"add", "*", true},
		{"add", "add_", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, matchesPattern(tt.name, tt.pattern), "%s ~ %s", tt.name, tt.pattern)
	}
}
