package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"

	// testRuns are the runs registered by the test binary.
	testRuns []*checkers.TestRun

	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "checkers",
	Short: "Parameterized tests, run once, reported anywhere.",
	Long: `checkers runs the test runs compiled into this binary.

Each test is expanded into one test case per parameterization, grouped
into suites, executed once and reported on the console or as JSON,
JUnit XML or TAP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the CLI against runs and exits with the resulting code.
func Execute(v, bt string, runs ...*checkers.TestRun) {
	version = v
	buildTime = bt
	testRuns = runs

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevelFlag)
	if err != nil {
		return withCode(ExitUsageError, err)
	}
	format := logging.FormatText
	if logFormatFlag == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}
	logging.Init(level, cmd.ErrOrStderr(), format)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("CHECKERS_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error (env: CHECKERS_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", getEnvString("CHECKERS_LOG_FORMAT", "text"), "Log format: text, json (env: CHECKERS_LOG_FORMAT)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
