package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/abdul-hamid-achik/checkers/packages/history"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// CaseRow describes a generated test case in a listing.
type CaseRow struct {
	FullName    string
	Description string
	Suites      []string
}

func newTable(w io.Writer, headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = text.FgHiCyan.Sprint(strings.ToUpper(h))
	}
	t.AppendHeader(row)
	return t
}

// WriteCaseTable lists generated test cases without running them.
func WriteCaseTable(w io.Writer, rows []CaseRow) {
	t := newTable(w, "case", "suites", "description")
	for _, r := range rows {
		t.AppendRow(table.Row{r.FullName, strings.Join(r.Suites, ", "), truncate(r.Description, 60)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d cases", len(rows)), "", ""})
	t.Render()
}

// WriteSuiteTable summarises the suite groups of a run result.
func WriteSuiteTable(w io.Writer, result *runner.RunResult) {
	t := newTable(w, "suite", "cases", "passed", "failed", "errored", "skipped")
	if result.Suites != nil {
		for key, s := range result.Suites.All() {
			t.AppendRow(table.Row{
				key,
				len(s.Cases),
				text.FgGreen.Sprint(s.Passed),
				countColor(s.Failed, text.FgRed),
				countColor(s.Errored, text.FgMagenta),
				countColor(s.Skipped, text.FgYellow),
			})
		}
	}
	t.Render()
}

// WriteHistoryTable lists recorded runs.
func WriteHistoryTable(w io.Writer, runs []history.Run) {
	t := newTable(w, "id", "name", "started", "duration", "passed", "failed", "errored", "skipped")
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.Name,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration.String(),
			text.FgGreen.Sprint(r.Passed),
			countColor(r.Failed, text.FgRed),
			countColor(r.Errored, text.FgMagenta),
			countColor(r.Skipped, text.FgYellow),
		})
	}
	t.Render()
}

// WriteHistoryCaseTable lists the recorded cases of one run.
func WriteHistoryCaseTable(w io.Writer, cases []history.Case) {
	t := newTable(w, "case", "status", "duration", "message")
	for _, c := range cases {
		status := statusText(c.Status)
		if c.Skipped {
			status = text.FgYellow.Sprint("SKIPPED")
		}
		t.AppendRow(table.Row{c.FullName, status, c.Duration.String(), truncate(c.Message, 60)})
	}
	t.Render()
}

func statusText(s checkers.Status) string {
	switch s {
	case checkers.StatusPassed:
		return text.FgGreen.Sprint(s)
	case checkers.StatusFailed:
		return text.FgRed.Sprint(s)
	default:
		return text.FgMagenta.Sprint(s)
	}
}

func countColor(n int, c text.Color) string {
	if n == 0 {
		return "0"
	}
	return c.Sprint(n)
}
