// Package output renders runner results.
//
// Supported output formats:
//   - Console: coloured terminal output
//   - JSON: machine-readable summary, cases and suite groups
//   - JUnit: JUnit XML with one testsuite per suite group
//   - TAP: Test Anything Protocol version 13
//
// Each formatter implements Formatter. Formats that accumulate results
// before writing also implement Flushable. The table helpers render
// case, suite and history listings with go-pretty.
package output
