package stats

import (
	"testing"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Empty(t *testing.T) {
	c := New()
	assert.Equal(t, Summary{}, c.Summary())
	assert.Empty(t, c.Suites())

	_, ok := c.Suite("missing")
	assert.False(t, ok)
}

func TestCollector_Record(t *testing.T) {
	c := New()
	for i := 1; i <= 100; i++ {
		c.Record(time.Duration(i)*time.Millisecond, "run.all")
	}
	c.Record(0, "run.fast")

	s := c.Summary()
	assert.Equal(t, int64(101), s.Count)
	assert.Equal(t, time.Microsecond, s.Min, "zero durations are clamped")
	assert.InDelta(t, float64(100*time.Millisecond), float64(s.Max), float64(time.Millisecond))
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(s.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(s.P99), float64(time.Millisecond))

	all, ok := c.Suite("run.all")
	require.True(t, ok)
	assert.Equal(t, int64(100), all.Count)
	assert.InDelta(t, float64(50500*time.Microsecond), float64(all.Mean), float64(500*time.Microsecond))
	assert.Greater(t, all.StdDev, time.Duration(0))

	assert.Equal(t, []string{"run.all", "run.fast"}, c.Suites())
}

func TestFromRun(t *testing.T) {
	result := &runner.RunResult{
		Cases: []*runner.CaseResult{
			{Status: checkers.StatusPassed, Duration: 2 * time.Millisecond, Suites: []string{"m.all", "m.math"}},
			{Status: checkers.StatusFailed, Duration: 4 * time.Millisecond, Suites: []string{"m.all"}},
			{Skipped: true, Suites: []string{"m.all"}},
		},
	}

	c := FromRun(result)
	assert.Equal(t, int64(2), c.Summary().Count)

	all, _ := c.Suite("m.all")
	assert.Equal(t, int64(2), all.Count)
	math, _ := c.Suite("m.math")
	assert.Equal(t, int64(1), math.Count)
	assert.InDelta(t, float64(2*time.Millisecond), float64(math.Max), float64(10*time.Microsecond))
}
