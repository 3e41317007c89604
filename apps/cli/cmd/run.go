package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/config"
	"github.com/abdul-hamid-achik/checkers/packages/core/env"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/abdul-hamid-achik/checkers/packages/dataset"
	"github.com/abdul-hamid-achik/checkers/packages/export/metrics"
	"github.com/abdul-hamid-achik/checkers/packages/history"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
	"github.com/abdul-hamid-achik/checkers/packages/notify"
	"github.com/abdul-hamid-achik/checkers/packages/output"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/abdul-hamid-achik/checkers/packages/snapshot"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const subsystem = "CLI"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the registered test runs",
	Long: `Run every registered test run once and report the results.

Examples:
  checkers run
  checkers run --data testdata/math.yaml --suites smoke
  checkers run --name "add*" --bail
  checkers run -o junit --output-file report.xml
  checkers run --var base_url=http://localhost:8080 --env-file .env
  checkers run --history .checkers.db --metrics-file metrics.prom
  checkers run --update-snapshots
  checkers run --slack-webhook https://hooks.slack.com/... --notify-on recovery`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag        string
	outputFlag        string
	outputFileFlag    string
	nameFlag          string
	suitesFlag        []string
	bailFlag          bool
	verboseFlag       bool
	noColorFlag       bool
	dataFlag          []string
	envFileFlag       string
	varFlag           []string
	historyFlag       string
	metricsFileFlag   string
	metricsFormatFlag string
	watchFlag         bool
	updateSnapsFlag   bool
	snapshotDirFlag   string
	slackWebhookFlag  string
	teamsWebhookFlag  string
	notifyOnFlag      string

	// notifier is nil when no webhook is configured.
	notifier *notify.Manager
)

func init() {
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", getEnvString("CHECKERS_NAME", ""), "Run only test cases matching name pattern (env: CHECKERS_NAME)")
	runCmd.Flags().StringSliceVarP(&suitesFlag, "suites", "s", getEnvList("CHECKERS_SUITES"), "Run only test cases in these suites (env: CHECKERS_SUITES)")

	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("CHECKERS_VERBOSE", false), "Verbose output (env: CHECKERS_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CHECKERS_NO_COLOR", false), "Disable colored output (env: CHECKERS_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CHECKERS_OUTPUT", ""), "Output format: console, json, junit, tap (env: CHECKERS_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CHECKERS_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CHECKERS_OUTPUT_FILE)")

	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("CHECKERS_BAIL", false), "Stop on first failure (env: CHECKERS_BAIL)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch data, env and config files and re-run on change")

	addVariableFlags(runCmd)

	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("CHECKERS_HISTORY", ""), "Record results in this SQLite database (env: CHECKERS_HISTORY)")
	runCmd.Flags().StringVar(&metricsFileFlag, "metrics-file", getEnvString("CHECKERS_METRICS_FILE", ""), "Write metrics to this file (env: CHECKERS_METRICS_FILE)")
	runCmd.Flags().BoolVarP(&updateSnapsFlag, "update-snapshots", "u", getEnvBool("CHECKERS_UPDATE_SNAPSHOTS", false), "Create or update stored snapshots instead of failing (env: CHECKERS_UPDATE_SNAPSHOTS)")
	runCmd.Flags().StringVar(&snapshotDirFlag, "snapshot-dir", getEnvString("CHECKERS_SNAPSHOT_DIR", "."), "Directory holding __snapshots__ (env: CHECKERS_SNAPSHOT_DIR)")
	runCmd.Flags().StringVar(&slackWebhookFlag, "slack-webhook", getEnvString("CHECKERS_SLACK_WEBHOOK", ""), "Post run summaries to this Slack webhook (env: CHECKERS_SLACK_WEBHOOK)")
	runCmd.Flags().StringVar(&teamsWebhookFlag, "teams-webhook", getEnvString("CHECKERS_TEAMS_WEBHOOK", ""), "Post run summaries to this Teams webhook (env: CHECKERS_TEAMS_WEBHOOK)")
	runCmd.Flags().StringVar(&notifyOnFlag, "notify-on", getEnvString("CHECKERS_NOTIFY_ON", "failure"), "When to notify: always, failure, success, recovery (env: CHECKERS_NOTIFY_ON)")
	runCmd.Flags().StringVar(&metricsFormatFlag, "metrics-format", getEnvString("CHECKERS_METRICS_FORMAT", ""), "Metrics format: prometheus, json (env: CHECKERS_METRICS_FORMAT)")
}

// addVariableFlags adds the flags that feed variables and data into runs.
func addVariableFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFlag, "config", getEnvString("CHECKERS_CONFIG", ""), "Path to config file (env: CHECKERS_CONFIG)")
	cmd.Flags().StringArrayVar(&dataFlag, "data", nil, "Data file with parameterizations, optionally path#selector (repeatable)")
	cmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("CHECKERS_ENV_FILE", ""), "Path to .env file with run variables (env: CHECKERS_ENV_FILE)")
	cmd.Flags().StringArrayVar(&varFlag, "var", nil, "Run variable as name=value (repeatable)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// boolOverride returns the flag value when it was set on the command line
// or through its environment variable.
func boolOverride(cmd *cobra.Command, flag, envKey string, val bool) *bool {
	if cmd.Flags().Changed(flag) || os.Getenv(envKey) != "" {
		return config.BoolPtr(val)
	}
	return nil
}

// loadConfig merges defaults, the config file and the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}

	flags := &config.Config{
		Output:        outputFlag,
		OutputFile:    outputFileFlag,
		Name:          nameFlag,
		Suites:        suitesFlag,
		Data:          dataFlag,
		EnvFile:       envFileFlag,
		HistoryDB:     historyFlag,
		MetricsFile:   metricsFileFlag,
		MetricsFormat: metricsFormatFlag,
	}
	if cmd.Flags().Lookup("bail") != nil {
		flags.Bail = boolOverride(cmd, "bail", "CHECKERS_BAIL", bailFlag)
		flags.Verbose = boolOverride(cmd, "verbose", "CHECKERS_VERBOSE", verboseFlag)
		flags.NoColor = boolOverride(cmd, "no-color", "CHECKERS_NO_COLOR", noColorFlag)
	}
	if cmd.Flags().Lookup("var") != nil {
		vars, err := env.ParseAssignments(varFlag)
		if err != nil {
			return nil, withCode(ExitUsageError, err)
		}
		flags.Variables = vars
	}

	cfg := config.DefaultConfig().Merge(fileConfig).Merge(flags)
	if _, err := output.New(cfg.Output, io.Discard, false, true); err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	return cfg, nil
}

// runBaseline is a run's variables and parameterizations as declared,
// before any variable source or data file was applied.
type runBaseline struct {
	variables         *registry.Registry[string, any]
	parameterizations *registry.Registry[string, *registry.AutoKeyRegistry[string, *checkers.Parameterization]]
}

var baselines = make(map[*checkers.TestRun]*runBaseline)

// resetRun records the baseline of run on first use and restores it on
// later calls, so entries removed from data or .env files disappear on
// re-runs.
func resetRun(run *checkers.TestRun) {
	base, ok := baselines[run]
	if !ok {
		base = &runBaseline{
			variables:         run.Variables.Clone(),
			parameterizations: registry.New[string, *registry.AutoKeyRegistry[string, *checkers.Parameterization]](),
		}
		for name, sub := range run.Parameterizations.All() {
			base.parameterizations.Register(name, sub.Clone())
		}
		baselines[run] = base
		return
	}

	run.Variables.Clear()
	run.Variables.Merge(base.variables, true)
	run.Parameterizations.Clear()
	for name, sub := range base.parameterizations.All() {
		run.Parameterizations.Sub(name).Merge(sub, true)
	}
}

// prepareRuns applies variables and data files from cfg to runs. Runs
// prepared before are first reset to their baseline.
func prepareRuns(cfg *config.Config, runs []*checkers.TestRun) error {
	for _, run := range runs {
		resetRun(run)
	}

	vars := make(map[string]any)
	if cfg.EnvFile != "" {
		dotenv, err := env.LoadDotEnv(cfg.EnvFile)
		if err != nil {
			return withCode(ExitDataError, err)
		}
		for k, v := range dotenv.All() {
			vars[k] = v
		}
	}
	// later sources win: .env file, CHECKERS_VAR_* environment, config and --var
	vars = env.MergeVariables(vars, env.LoadSystemEnv(cfg.EnvPrefix), cfg.Variables)

	resolver := env.NewResolver()
	for _, run := range runs {
		if err := env.ApplyVariables(run, vars, resolver); err != nil {
			return withCode(ExitDataError, fmt.Errorf("run %s: %w", run.Name, err))
		}
	}
	if err := dataset.LoadAll(cfg.Data, resolver, runs...); err != nil {
		return withCode(ExitDataError, err)
	}
	return nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(testRuns) == 0 {
		return withCode(ExitUsageError, errors.New("no test runs are registered with this binary"))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	snapshot.SetDefault(snapshot.NewStore(snapshotDirFlag, updateSnapsFlag))
	if notifier, err = newNotifier(); err != nil {
		return withCode(ExitConfigError, err)
	}

	err = executeRuns(cmd.OutOrStdout(), cfg, testRuns)
	if !watchFlag {
		return err
	}
	if err != nil && ExitCode(err) != ExitTestFailure {
		return err
	}
	return watch(cmd, cfg)
}

// executeRuns runs every test run once and writes the report, history and
// metrics configured in cfg.
func executeRuns(stdout io.Writer, cfg *config.Config, runs []*checkers.TestRun) error {
	if err := prepareRuns(cfg, runs); err != nil {
		return err
	}

	w := stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return withCode(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	formatter, err := output.New(cfg.Output, w, cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	formatter.FormatHeader(version)

	r := runner.NewRunner(&runner.Config{
		Verbose:      cfg.GetVerbose(),
		Bail:         cfg.GetBail(),
		NameFilter:   cfg.Name,
		SuitesFilter: cfg.Suites,
		BeforeRun:    cfg.BeforeRun,
		AfterRun:     cfg.AfterRun,
	})

	start := time.Now()
	results, runErr := r.RunAll(runs...)
	for _, result := range results {
		formatter.FormatResult(result)
	}
	if runErr != nil {
		formatter.FormatError(runErr)
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	if cfg.HistoryDB != "" {
		if err := recordHistory(cfg.HistoryDB, results); err != nil {
			logging.Error(subsystem, err, "recording history in %s", cfg.HistoryDB)
		}
	}
	if cfg.MetricsFile != "" {
		exp, err := metrics.NewExporter(cfg.MetricsFormat, cfg.MetricsFile)
		if err != nil {
			return withCode(ExitConfigError, err)
		}
		if err := exp.Export(results); err != nil {
			logging.Error(subsystem, err, "writing metrics to %s", cfg.MetricsFile)
		}
	}

	if notifier != nil {
		if err := notifier.Notify(notify.Summarize(results)); err != nil {
			logging.Error(subsystem, err, "sending notifications")
		}
	}

	if runErr != nil {
		return withCode(ExitTestFailure, runErr)
	}
	for _, result := range results {
		if !result.Success() {
			return withCode(ExitTestFailure, fmt.Errorf("run %s: %d failed, %d errored", result.Name, result.Failed, result.Errored))
		}
	}
	return nil
}

func newNotifier() (*notify.Manager, error) {
	on, err := notify.ParseNotifyOn(notifyOnFlag)
	if err != nil {
		return nil, err
	}
	m := notify.NewManager(on)
	if slackWebhookFlag != "" {
		m.AddNotifier(notify.NewSlackNotifier(slackWebhookFlag))
	}
	if teamsWebhookFlag != "" {
		m.AddNotifier(notify.NewTeamsNotifier(teamsWebhookFlag))
	}
	if m.Len() == 0 {
		return nil, nil
	}
	return m, nil
}

func recordHistory(path string, results []*runner.RunResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var errs []error
	for _, result := range results {
		errs = append(errs, store.Record(result))
	}
	return errors.Join(errs...)
}

// watchedFiles lists the files whose change triggers a re-run.
func watchedFiles(cfg *config.Config) []string {
	var files []string
	for _, spec := range cfg.Data {
		path, _ := dataset.ParseSpec(spec)
		files = append(files, path)
	}
	if cfg.EnvFile != "" {
		files = append(files, cfg.EnvFile)
	}
	if configFlag != "" {
		files = append(files, configFlag)
	} else {
		files = append(files, config.ConfigFilenames...)
	}
	for i, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			files[i] = abs
		}
	}
	return files
}

func watch(cmd *cobra.Command, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	files := watchedFiles(cfg)
	isWatched := make(map[string]bool, len(files))
	watchedDirs := make(map[string]bool)
	for _, file := range files {
		isWatched[file] = true
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				logging.Warn(subsystem, "failed to watch %s: %v", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	rerun := make(chan string, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !isWatched[name] {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- name:
				default:
				}
			})

		case name := <-rerun:
			fmt.Fprintf(out, "\n\nFile changed: %s\nRe-running tests...\n\n", name)
			fresh, err := loadConfig(cmd)
			if err != nil {
				logging.Error(subsystem, err, "reloading config")
				fresh = cfg
			}
			if err := executeRuns(out, fresh, testRuns); err != nil && ExitCode(err) != ExitTestFailure {
				logging.Error(subsystem, err, "re-running tests")
			}
			fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error(subsystem, err, "watcher error")
		}
	}
}
