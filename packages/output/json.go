package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
)

// JSONOutput is the document written by JSONFormatter
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Runs     []JSONRun   `json:"runs"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary holds totals across all runs
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// JSONRun is one test run
type JSONRun struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Started  string      `json:"started"`
	Duration float64     `json:"duration"`
	Summary  JSONSummary `json:"summary"`
	Cases    []JSONCase  `json:"cases"`
	Suites   []JSONSuite `json:"suites"`
}

// JSONCase is one executed test case
type JSONCase struct {
	Name        string   `json:"name"`
	FullName    string   `json:"fullName"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
	SkipReason  string   `json:"skipReason,omitempty"`
	Phase       string   `json:"phase,omitempty"`
	Error       string   `json:"error,omitempty"`
	Stack       string   `json:"stack,omitempty"`
	Duration    float64  `json:"duration"`
	Suites      []string `json:"suites,omitempty"`
}

// JSONSuite lists the cases of one suite by full name
type JSONSuite struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Summary     JSONSummary `json:"summary"`
	Cases       []string    `json:"cases"`
}

// JSONFormatter collects results and writes a single JSON document on Flush.
type JSONFormatter struct {
	writer io.Writer
	runs   []JSONRun
}

// JSONOption configures a JSONFormatter
type JSONOption func(*JSONFormatter)

// NewJSONFormatter creates a JSON formatter writing to stdout by default
func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runs:   make([]JSONRun, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// JSONWithWriter sets the output writer
func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	run := JSONRun{
		ID:       result.ID,
		Name:     result.Name,
		Started:  result.StartedAt.Format(time.RFC3339),
		Duration: float64(result.Duration.Milliseconds()),
		Summary: JSONSummary{
			Total:   result.Total(),
			Passed:  result.Passed,
			Failed:  result.Failed,
			Errored: result.Errored,
			Skipped: result.Skipped,
		},
		Cases:  make([]JSONCase, 0, len(result.Cases)),
		Suites: make([]JSONSuite, 0),
	}

	for _, c := range result.Cases {
		jc := JSONCase{
			Name:        c.Name,
			FullName:    c.FullName,
			Description: c.Description,
			Status:      string(c.Status),
			Skipped:     c.Skipped,
			SkipReason:  skipReason(c),
			Duration:    float64(c.Duration.Milliseconds()),
			Suites:      c.Suites,
		}
		if !c.Skipped && !c.Passed() {
			jc.Phase = string(c.Phase)
			jc.Error = caseError(c)
			jc.Stack = string(c.Stack)
		}
		run.Cases = append(run.Cases, jc)
	}

	if result.Suites != nil {
		for key, s := range result.Suites.All() {
			js := JSONSuite{
				Name:        key,
				Description: s.Description,
				Summary: JSONSummary{
					Total:   len(s.Cases),
					Passed:  s.Passed,
					Failed:  s.Failed,
					Errored: s.Errored,
					Skipped: s.Skipped,
				},
				Cases: make([]string, 0, len(s.Cases)),
			}
			for _, c := range s.Cases {
				js.Cases = append(js.Cases, c.FullName)
			}
			run.Suites = append(run.Suites, js)
		}
	}

	f.runs = append(f.runs, run)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual case results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush encodes everything collected so far
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, r := range f.runs {
		summary.Total += r.Summary.Total
		summary.Passed += r.Summary.Passed
		summary.Failed += r.Summary.Failed
		summary.Errored += r.Summary.Errored
		summary.Skipped += r.Summary.Skipped
	}

	output := JSONOutput{
		Summary:  summary,
		Runs:     f.runs,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
