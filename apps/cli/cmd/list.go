package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/output"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/spf13/cobra"
)

var bySuiteFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the test cases of the registered runs",
	Long: `List the test cases each registered run generates, without running them.

Examples:
  checkers list
  checkers list --data testdata/math.yaml
  checkers list --by-suite`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().BoolVar(&bySuiteFlag, "by-suite", false, "Group test cases by suite")
	addVariableFlags(listCmd)
}

func listCommand(cmd *cobra.Command, args []string) error {
	if len(testRuns) == 0 {
		return withCode(ExitUsageError, errors.New("no test runs are registered with this binary"))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := prepareRuns(cfg, testRuns); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, run := range testRuns {
		cases := run.GenerateTestCases()
		fmt.Fprintf(out, "\n%s:\n", run.Name)

		if !bySuiteFlag {
			output.WriteCaseTable(out, caseRows(cases.Values()))
			continue
		}

		// the global suite only exists on the generated cases
		suites := registry.New[string, *checkers.TestSuite]()
		for _, tc := range cases.Values() {
			suites.Merge(tc.TestSuites(), false)
		}
		for name, suite := range suites.All() {
			fmt.Fprintf(out, "\n  %s - %s\n", name, suite.Description())
			output.WriteCaseTable(out, caseRows(suite.TestCases()))
		}
	}
	return nil
}

func caseRows(cases []*checkers.TestCase) []output.CaseRow {
	rows := make([]output.CaseRow, 0, len(cases))
	for _, tc := range cases {
		rows = append(rows, output.CaseRow{
			FullName:    tc.FullName(),
			Description: tc.Description(),
			Suites:      tc.TestSuites().Keys(),
		})
	}
	return rows
}
