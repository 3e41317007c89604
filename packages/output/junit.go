package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
)

// JUnitTestSuites represents the root element of a JUnit XML report
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite is one suite group of a run, keyed "<run>.<suite>".
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a failed assertion
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents an unexpected error raised by a test case
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped marks a skipped test case
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter collects results and writes them as JUnit XML on Flush
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
}

// JUnitOption configures a JUnitFormatter
type JUnitOption func(*JUnitFormatter)

// NewJUnitFormatter creates a JUnit formatter writing to stdout by default
func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// JUnitWithWriter sets the output writer
func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

// FormatResult records one suite element per suite of the run
func (f *JUnitFormatter) FormatResult(result *runner.RunResult) {
	if result.Suites == nil {
		return
	}
	timestamp := result.StartedAt.Format(time.RFC3339)

	for key, s := range result.Suites.All() {
		suite := JUnitTestSuite{
			Name:      key,
			Tests:     len(s.Cases),
			Failures:  s.Failed,
			Errors:    s.Errored,
			Skipped:   s.Skipped,
			Timestamp: timestamp,
			TestCases: make([]JUnitTestCase, 0, len(s.Cases)),
		}

		for _, c := range s.Cases {
			suite.Time += c.Duration.Seconds()
			tc := JUnitTestCase{
				Name:      c.Name,
				ClassName: key,
				Time:      c.Duration.Seconds(),
			}

			switch {
			case c.Skipped:
				tc.Skipped = &JUnitSkipped{Message: c.SkipReason}
			case c.Status == checkers.StatusFailed:
				tc.Failure = &JUnitFailure{
					Message: caseError(c),
					Type:    "AssertionError",
					Content: failureContent(c),
				}
			case c.Status == checkers.StatusError:
				tc.Error = &JUnitError{
					Message: caseError(c),
					Type:    errorType(c),
					Content: failureContent(c),
				}
			}

			suite.TestCases = append(suite.TestCases, tc)
		}

		f.testSuites = append(f.testSuites, suite)
	}
}

func failureContent(c *runner.CaseResult) string {
	content := fmt.Sprintf("%s failed during %s: %s\n", c.FullName, c.Phase, caseError(c))
	if len(c.Stack) > 0 {
		content += string(c.Stack)
	}
	return content
}

func errorType(c *runner.CaseResult) string {
	if c.Err == nil {
		return "Error"
	}
	return fmt.Sprintf("%T", c.Err)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the collected suites as a single XML document
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	var totalTests, totalFailures, totalErrors, totalSkipped int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
		totalSkipped += suite.Skipped
	}

	suites := JUnitTestSuites{
		Name:       "checkers",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Skipped:    totalSkipped,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
