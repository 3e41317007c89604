package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
)

// ShellHook returns a run fixture that executes command with sh -c in dir.
// Run variables are exported to the command as CHECKERS_<NAME> environment
// variables.
func ShellHook(name, command, dir string) checkers.RunFixture {
	return checkers.NewRunFixture(name, func(run *checkers.TestRun) error {
		return executeHook(command, dir, run)
	})
}

// installHooks registers the configured shell commands as run setup and
// teardown fixtures. Installing twice replaces the earlier hooks.
func (r *Runner) installHooks(run *checkers.TestRun) {
	for i, cmd := range r.config.BeforeRun {
		run.Setup.Register(ShellHook(fmt.Sprintf("before-run-%d", i), cmd, r.config.HookDir))
	}
	for i, cmd := range r.config.AfterRun {
		run.Teardown.Register(ShellHook(fmt.Sprintf("after-run-%d", i), cmd, r.config.HookDir))
	}
}

func executeHook(command, dir string, run *checkers.TestRun) error {
	cmdStr := strings.TrimSpace(command)
	if cmdStr == "" {
		return nil
	}

	parts := strings.Fields(cmdStr)
	if dir != "" && (strings.HasPrefix(parts[0], "./") || strings.HasPrefix(parts[0], "../")) {
		parts[0] = filepath.Join(dir, parts[0])
		cmdStr = strings.Join(parts, " ")
	}

	cmd := exec.Command("sh", "-c", cmdStr)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), hookEnv(run)...)

	logging.Debug(subsystem, "executing hook: %s", cmdStr)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %q failed: %w\nOutput: %s", command, err, string(output))
	}
	return nil
}

func hookEnv(run *checkers.TestRun) []string {
	env := []string{"CHECKERS_RUN=" + run.Name}
	for k, v := range run.Variables.All() {
		name := strings.ToUpper(strings.Map(func(r rune) rune {
			if r == '-' || r == '.' || r == ' ' {
				return '_'
			}
			return r
		}, k))
		env = append(env, fmt.Sprintf("CHECKERS_%s=%v", name, v))
	}
	return env
}
