package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/checkers/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and an example data file",
	Long: `Initialize checkers in the current directory.

This creates:
  - .checkers.yaml          - Configuration file
  - testdata/example.yaml   - Example data file

Examples:
  checkers init
  checkers init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleData = `# Parameterizations by test full name. Each entry becomes one test case
# named <test>_<parameterization>.
example_test.add:
  one_plus_one:
    x: 1
    y: 1
    total: 2
  with_base_url:
    x: 2
    y: 2
    total: 4
    url: "{{base_url}}/sum"
    test_suites: [smoke]
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	exampleFile := filepath.Join(cwd, "testdata", "example.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Data = []string{"testdata/example.yaml"}
	cfg.Variables = map[string]any{"base_url": "http://localhost:8080"}
	cfg.HistoryDB = ".checkers.db"
	if err := cfg.SaveConfig(configFile); err != nil {
		return withCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.MkdirAll(filepath.Dir(exampleFile), 0755); err != nil {
		return fmt.Errorf("failed to create testdata directory: %w", err)
	}
	if err := os.WriteFile(exampleFile, []byte(exampleData), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\ncheckers initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'checkers validate testdata/example.yaml' to check the data file.\n")
	return nil
}
