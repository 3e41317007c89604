package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/checkers/packages/dataset"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <data file>...",
	Short: "Validate data files without running tests",
	Long: `Validate data files against the parameterization schema without running
any test. A file may be given as path#selector to validate part of a JSON
document.

Examples:
  checkers validate testdata/math.yaml
  checkers validate fixtures.json#datasets.math`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, spec := range args {
		if err := dataset.Validate(spec); err != nil {
			var verr *dataset.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Invalid: %s\n", verr.Path)
				for _, p := range verr.Problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", spec, err)
			}
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", spec)
	}

	if hasErrors {
		return withCode(ExitDataError, errors.New("validation failed"))
	}
	return nil
}
