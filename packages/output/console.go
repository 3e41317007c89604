package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/fatih/color"
)

// ConsoleFormatter prints human-readable results
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

// ConsoleOption configures a ConsoleFormatter
type ConsoleOption func(*ConsoleFormatter)

// NewConsoleFormatter creates a console formatter
func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose prints passing cases as well as failures
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

// WithNoColor disables colored output
func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatResult prints one line per case of the run
func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+result.Name))

	for _, c := range result.Cases {
		if c.Skipped {
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), c.FullName)
			if reason := skipReason(c); reason != "" {
				fmt.Fprintf(f.writer, " (%s)", reason)
			}
			fmt.Fprintln(f.writer)
			continue
		}

		var symbol string
		switch c.Status {
		case checkers.StatusPassed:
			symbol = green("✓")
		case checkers.StatusFailed:
			symbol = red("✗")
		default:
			symbol = magenta("!")
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, c.FullName, cyan(fmt.Sprintf("(%dms)", c.Duration.Milliseconds())))

		if c.Passed() {
			continue
		}
		msg := caseError(c)
		if c.Phase != "" && c.Phase != checkers.PhaseTest {
			msg = fmt.Sprintf("[%s] %s", c.Phase, msg)
		}
		fmt.Fprintf(f.writer, "    %s %s\n", red("→"), msg)

		if f.verbose {
			if len(c.Suites) > 0 {
				fmt.Fprintf(f.writer, "    Suites: %s\n", strings.Join(c.Suites, ", "))
			}
			if len(c.Stack) > 0 {
				for _, line := range strings.Split(strings.TrimRight(string(c.Stack), "\n"), "\n") {
					fmt.Fprintf(f.writer, "      %s\n", line)
				}
			}
		}
	}

	fmt.Fprintf(f.writer, "\nTests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", magenta(fmt.Sprintf("%d errored", result.Errored)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.Total())
	fmt.Fprintf(f.writer, "Time:  %dms\n\n", result.Duration.Milliseconds())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("checkers"), version)
}
