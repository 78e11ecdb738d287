package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for influencemap.

To load completions:

Bash:
  $ source <(influencemap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ influencemap completion bash > /etc/bash_completion.d/influencemap
  # macOS:
  $ influencemap completion bash > $(brew --prefix)/etc/bash_completion.d/influencemap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ influencemap completion zsh > "${fpath[1]}/_influencemap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ influencemap completion fish | source

  # To load completions for each session, execute once:
  $ influencemap completion fish > ~/.config/fish/completions/influencemap.fish

PowerShell:
  PS> influencemap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> influencemap completion powershell > influencemap.ps1
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

	return cmd
}

// completeNames completes stakeholder names from the stored map for the
// first n positional arguments.
func (c *CLI) completeNames(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return c.storedNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// completeManager completes --reports-to with "None" and the stored names.
func (c *CLI) completeManager(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := c.storedNames(cmd, toComplete)
	if strings.HasPrefix(stakeholder.NoneLabel, toComplete) {
		names = append([]string{stakeholder.NoneLabel}, names...)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) storedNames(cmd *cobra.Command, prefix string) []string {
	var names []string
	_ = c.withSession(cmd.Context(), func(sess *session.Session) error {
		for _, name := range sess.Current().Names() {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		return nil
	})
	return names
}
