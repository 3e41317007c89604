package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.RunResult {
	passed := &runner.CaseResult{FullName: "m.add_1", Status: checkers.StatusPassed, Duration: 2 * time.Millisecond, Suites: []string{"m.all", "m.math"}}
	failed := &runner.CaseResult{FullName: "m.add_2", Status: checkers.StatusFailed, Duration: 4 * time.Millisecond, Suites: []string{"m.all", "m.math"}}
	errored := &runner.CaseResult{FullName: "m.div", Status: checkers.StatusError, Duration: time.Millisecond, Suites: []string{"m.all"}}
	skipped := &runner.CaseResult{FullName: "m.slow", Skipped: true, SkipReason: runner.SkipFiltered, Suites: []string{"m.all"}}

	suites := registry.New[string, *runner.SuiteResult]()
	suites.Register("m.all", &runner.SuiteResult{Name: "m.all", Cases: []*runner.CaseResult{passed, failed, errored, skipped}, Passed: 1, Failed: 1, Errored: 1, Skipped: 1})
	suites.Register("m.math", &runner.SuiteResult{Name: "m.math", Cases: []*runner.CaseResult{passed, failed}, Passed: 1, Failed: 1})

	return &runner.RunResult{
		ID:        "run-1",
		Name:      "m",
		StartedAt: time.Unix(1700000000, 0),
		Duration:  time.Second,
		Cases:     []*runner.CaseResult{passed, failed, errored, skipped},
		Suites:    suites,
		Passed:    1,
		Failed:    1,
		Errored:   1,
		Skipped:   1,
	}
}

func TestCollect(t *testing.T) {
	runs := Collect([]*runner.RunResult{sampleResult()})
	require.Len(t, runs, 1)

	rm := runs[0]
	assert.Equal(t, "run-1", rm.ID)
	assert.Equal(t, int64(3), rm.Durations.Count)
	require.Contains(t, rm.Suites, "m.math")
	assert.Equal(t, int64(2), rm.Suites["m.math"].Durations.Count)
	assert.Equal(t, 1, rm.Suites["m.all"].Skipped)
}

func TestGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	Gather(reg, []*runner.RunResult{sampleResult()})

	count, err := testutil.GatherAndCount(reg, "checkers_cases_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	expected := `
# HELP checkers_suite_cases_total Test cases by suite group and status
# TYPE checkers_suite_cases_total counter
checkers_suite_cases_total{run="m",status="errored",suite="m.all"} 1
checkers_suite_cases_total{run="m",status="failed",suite="m.all"} 1
checkers_suite_cases_total{run="m",status="failed",suite="m.math"} 1
checkers_suite_cases_total{run="m",status="passed",suite="m.all"} 1
checkers_suite_cases_total{run="m",status="passed",suite="m.math"} 1
checkers_suite_cases_total{run="m",status="skipped",suite="m.all"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "checkers_suite_cases_total"))

	expected = `
# HELP checkers_run_duration_seconds Wall time of the run in seconds
# TYPE checkers_run_duration_seconds gauge
checkers_run_duration_seconds{run="m"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "checkers_run_duration_seconds"))
}

func TestPrometheusExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "checkers.prom")
	exp, err := NewExporter(FormatPrometheus, path)
	require.NoError(t, err)
	require.NoError(t, exp.Export([]*runner.RunResult{sampleResult()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `checkers_cases_total{run="m",status="passed"} 1`)
	assert.Contains(t, out, `checkers_case_duration_seconds_count{run="m"} 3`)
	assert.Contains(t, out, `checkers_last_run_timestamp_seconds{run="m"} 1.7e+09`)
	assert.Contains(t, out, `checkers_case_duration_quantile_seconds{quantile="0.99",run="m"}`)

	require.NoError(t, exp.Export(nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "checkers_cases_total{", "each export starts from an empty registry")
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "metrics.json")
	exp := NewJSONExporter(WithJSONWriter(&buf), WithJSONFile(path), WithJSONPretty(false))
	require.NoError(t, exp.Export([]*runner.RunResult{sampleResult()}))

	var out JSONMetricsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Runs, 1)
	assert.Equal(t, "m", out.Runs[0].Name)
	assert.Equal(t, 1, out.Runs[0].Errored)
	assert.Equal(t, int64(3), out.Runs[0].Durations.Count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(buf.String()), string(data))
}

func TestNewExporter(t *testing.T) {
	exp, err := NewExporter("JSON", "out.json")
	require.NoError(t, err)
	assert.IsType(t, &JSONExporter{}, exp)

	exp, err = NewExporter("", "out.prom")
	require.NoError(t, err)
	assert.IsType(t, &PrometheusExporter{}, exp)

	_, err = NewExporter("datadog", "x")
	assert.Error(t, err)
}
