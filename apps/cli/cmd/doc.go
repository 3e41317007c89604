// Package cmd implements the checkers CLI commands using Cobra.
//
// A test binary registers its test runs with Execute and gets these
// commands:
//   - run: Execute the registered test runs
//   - list: Show the test cases a run would generate
//   - validate: Check data files without running anything
//   - history: Show results recorded in the history database
//   - init: Create a config file and an example data file
//   - version: Show version information
//
// Flags fall back to CHECKERS_* environment variables and then to the
// config file found in the working directory.
package cmd
