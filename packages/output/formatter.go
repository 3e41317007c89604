package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write once all runs are done.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatJUnit   = "junit"
	FormatTAP     = "tap"
)

// Formats returns the names accepted by New
func Formats() []string {
	return []string{FormatConsole, FormatJSON, FormatJUnit, FormatTAP}
}

// New returns the formatter registered under name writing to w.
func New(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(name) {
	case FormatConsole, "":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case FormatJUnit:
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case FormatTAP:
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Formats(), ", "))
	}
}

// caseError is the text reported for a failed or errored case.
func caseError(c *runner.CaseResult) string {
	if c.Message != "" {
		return c.Message
	}
	if c.Err != nil {
		return c.Err.Error()
	}
	return string(c.Status)
}

func skipReason(c *runner.CaseResult) string {
	if c.SkipReason == runner.SkipFiltered {
		return ""
	}
	return c.SkipReason
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
