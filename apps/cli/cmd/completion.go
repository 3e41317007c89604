package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for checkers.

To load completions:

Bash:
  $ source <(checkers completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ checkers completion bash > /etc/bash_completion.d/checkers
  # macOS:
  $ checkers completion bash > $(brew --prefix)/etc/bash_completion.d/checkers

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ checkers completion zsh > "${fpath[1]}/_checkers"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ checkers completion fish | source

  # To load completions for each session, execute once:
  $ checkers completion fish > ~/.config/fish/completions/checkers.fish

PowerShell:
  PS> checkers completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> checkers completion powershell > checkers.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
