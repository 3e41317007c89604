package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "checkers"

// PrometheusExporter writes metrics in the node exporter textfile format.
// Each export uses a fresh registry so the file only reflects the given runs.
type PrometheusExporter struct {
	path string
}

func NewPrometheusExporter(path string) *PrometheusExporter {
	return &PrometheusExporter{path: path}
}

type runCollectors struct {
	cases         *prometheus.CounterVec
	suiteCases    *prometheus.CounterVec
	caseDuration  *prometheus.HistogramVec
	runDuration   *prometheus.GaugeVec
	durationQuant *prometheus.GaugeVec
	lastRun       *prometheus.GaugeVec
}

func newRunCollectors(reg prometheus.Registerer) *runCollectors {
	f := promauto.With(reg)
	return &runCollectors{
		cases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cases_total",
			Help:      "Test cases by run and status",
		}, []string{"run", "status"}),
		suiteCases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suite_cases_total",
			Help:      "Test cases by suite group and status",
		}, []string{"run", "suite", "status"}),
		caseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "case_duration_seconds",
			Help:      "Test case duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"run"}),
		runDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run in seconds",
		}, []string{"run"}),
		durationQuant: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "case_duration_quantile_seconds",
			Help:      "Test case duration quantiles in seconds",
		}, []string{"run", "quantile"}),
		lastRun: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run started",
		}, []string{"run"}),
	}
}

func statusLabel(c *runner.CaseResult) string {
	if c.Skipped {
		return "skipped"
	}
	switch c.Status {
	case checkers.StatusPassed:
		return "passed"
	case checkers.StatusFailed:
		return "failed"
	default:
		return "errored"
	}
}

// Gather registers the metrics of results in reg.
func Gather(reg prometheus.Registerer, results []*runner.RunResult) {
	m := newRunCollectors(reg)
	for i, res := range results {
		for _, c := range res.Cases {
			status := statusLabel(c)
			m.cases.WithLabelValues(res.Name, status).Inc()
			for _, suite := range c.Suites {
				m.suiteCases.WithLabelValues(res.Name, suite, status).Inc()
			}
			if !c.Skipped {
				m.caseDuration.WithLabelValues(res.Name).Observe(c.Duration.Seconds())
			}
		}

		rm := Collect(results[i : i+1])[0]
		m.runDuration.WithLabelValues(res.Name).Set(res.Duration.Seconds())
		m.lastRun.WithLabelValues(res.Name).Set(float64(res.StartedAt.Unix()))
		m.durationQuant.WithLabelValues(res.Name, "0.5").Set(rm.Durations.P50.Seconds())
		m.durationQuant.WithLabelValues(res.Name, "0.95").Set(rm.Durations.P95.Seconds())
		m.durationQuant.WithLabelValues(res.Name, "0.99").Set(rm.Durations.P99.Seconds())
	}
}

func (p *PrometheusExporter) Export(results []*runner.RunResult) error {
	reg := prometheus.NewRegistry()
	Gather(reg, results)

	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(p.path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
