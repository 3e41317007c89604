// Package runner executes checkers test runs.
//
// It provides functionality for:
//   - Running run-scope setup and teardown around a run
//   - Generating and invoking every test case exactly once
//   - Filtering cases by name pattern and suite
//   - Stopping at the first failure (bail)
//   - Shell command hooks before and after a run
//   - Grouping results by suite under "<run>.<suite>" keys
//
// Execution is sequential; a case never overlaps another.
package runner
