// Package metrics exports run results as Prometheus textfile metrics or JSON.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/abdul-hamid-achik/checkers/packages/stats"
)

const (
	FormatPrometheus = "prometheus"
	FormatJSON       = "json"
)

// RunMetrics is the exported view of one run.
type RunMetrics struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration"`
	Passed    int                     `json:"passed"`
	Failed    int                     `json:"failed"`
	Errored   int                     `json:"errored"`
	Skipped   int                     `json:"skipped"`
	Durations stats.Summary           `json:"durations"`
	Suites    map[string]SuiteMetrics `json:"suites"`
}

type SuiteMetrics struct {
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
	Skipped   int           `json:"skipped"`
	Durations stats.Summary `json:"durations"`
}

// Exporter writes the metrics of a set of runs.
type Exporter interface {
	Export(results []*runner.RunResult) error
}

// Collect builds the exported view of each run.
func Collect(results []*runner.RunResult) []RunMetrics {
	out := make([]RunMetrics, 0, len(results))
	for _, res := range results {
		c := stats.FromRun(res)
		rm := RunMetrics{
			ID:        res.ID,
			Name:      res.Name,
			StartedAt: res.StartedAt,
			Duration:  res.Duration,
			Passed:    res.Passed,
			Failed:    res.Failed,
			Errored:   res.Errored,
			Skipped:   res.Skipped,
			Durations: c.Summary(),
			Suites:    make(map[string]SuiteMetrics),
		}
		if res.Suites != nil {
			for key, s := range res.Suites.All() {
				summary, _ := c.Suite(key)
				rm.Suites[key] = SuiteMetrics{
					Passed:    s.Passed,
					Failed:    s.Failed,
					Errored:   s.Errored,
					Skipped:   s.Skipped,
					Durations: summary,
				}
			}
		}
		out = append(out, rm)
	}
	return out
}

// NewExporter returns the exporter for format writing to path.
func NewExporter(format, path string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatPrometheus, "":
		return NewPrometheusExporter(path), nil
	case FormatJSON:
		return NewJSONExporter(WithJSONFile(path)), nil
	default:
		return nil, fmt.Errorf("unknown metrics format %q", format)
	}
}
