// Package stats summarises test case durations with an HDR histogram.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

const (
	minMicros = 1
	// one hour
	maxMicros = 3_600_000_000
)

// Summary describes a duration distribution.
type Summary struct {
	Count  int64         `json:"count"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stddev"`
	P50    time.Duration `json:"p50"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
}

// Collector records case durations overall and per suite group.
// It is not safe for concurrent use.
type Collector struct {
	histogram *hdrhistogram.Histogram
	suites    *registry.Registry[string, *hdrhistogram.Histogram]
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{
		histogram: newHistogram(),
		suites:    registry.New[string, *hdrhistogram.Histogram](),
	}
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minMicros, maxMicros, 3)
}

// FromRun records every executed case of result. Skipped cases are ignored.
func FromRun(result *runner.RunResult) *Collector {
	c := New()
	c.AddRun(result)
	return c
}

// AddRun records every executed case of result.
func (c *Collector) AddRun(result *runner.RunResult) {
	for _, cr := range result.Cases {
		if cr.Skipped {
			continue
		}
		c.Record(cr.Duration, cr.Suites...)
	}
}

// Record adds one duration to the overall histogram and to each named suite.
func (c *Collector) Record(d time.Duration, suites ...string) {
	us := clamp(d.Microseconds())
	_ = c.histogram.RecordValue(us)
	for _, s := range suites {
		h, ok := c.suites.Get(s)
		if !ok {
			h = newHistogram()
			c.suites.Register(s, h)
		}
		_ = h.RecordValue(us)
	}
}

func clamp(us int64) int64 {
	if us < minMicros {
		return minMicros
	}
	if us > maxMicros {
		return maxMicros
	}
	return us
}

// Summary describes every recorded duration.
func (c *Collector) Summary() Summary {
	return summarize(c.histogram)
}

// Suite returns the summary of one suite group.
func (c *Collector) Suite(name string) (Summary, bool) {
	h, ok := c.suites.Get(name)
	if !ok {
		return Summary{}, false
	}
	return summarize(h), true
}

// Suites lists suite groups in the order they were first recorded.
func (c *Collector) Suites() []string {
	return c.suites.Keys()
}

func summarize(h *hdrhistogram.Histogram) Summary {
	if h.TotalCount() == 0 {
		return Summary{}
	}
	return Summary{
		Count:  h.TotalCount(),
		Min:    micros(h.Min()),
		Max:    micros(h.Max()),
		Mean:   time.Duration(h.Mean() * float64(time.Microsecond)),
		StdDev: time.Duration(h.StdDev() * float64(time.Microsecond)),
		P50:    micros(h.ValueAtQuantile(50)),
		P95:    micros(h.ValueAtQuantile(95)),
		P99:    micros(h.ValueAtQuantile(99)),
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
