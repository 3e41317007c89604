package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/checkers/packages/core/config"
	"github.com/abdul-hamid-achik/checkers/packages/history"
	"github.com/abdul-hamid-achik/checkers/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyDBFlag    string
	historyLimitFlag int
	historyRunFlag   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded run results",
	Long: `Show the runs recorded with run --history, most recent first, or the
cases of one run.

Examples:
  checkers history --db .checkers.db
  checkers history --limit 5
  checkers history --run 3f0c8a0e-...`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("CHECKERS_HISTORY", ""), "History database (default: historyDB from the config file) (env: CHECKERS_HISTORY)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", getEnvInt("CHECKERS_HISTORY_LIMIT", 20), "Number of runs to show, 0 for all (env: CHECKERS_HISTORY_LIMIT)")
	historyCmd.Flags().StringVar(&historyRunFlag, "run", "", "Show the cases of this run ID")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	path := historyDBFlag
	if path == "" {
		cfg, err := config.LoadConfig("")
		if err != nil {
			return withCode(ExitConfigError, err)
		}
		path = cfg.HistoryDB
	}
	if path == "" {
		return withCode(ExitUsageError, errors.New("no history database: use --db or set historyDB in the config file"))
	}

	store, err := history.Open(path)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	defer store.Close()

	if historyRunFlag != "" {
		cases, err := store.Cases(historyRunFlag)
		if err != nil {
			return err
		}
		output.WriteHistoryCaseTable(cmd.OutOrStdout(), cases)
		return nil
	}

	runs, err := store.Runs(historyLimitFlag)
	if err != nil {
		return err
	}
	output.WriteHistoryTable(cmd.OutOrStdout(), runs)
	return nil
}
