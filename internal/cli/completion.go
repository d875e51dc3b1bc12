package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/design"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for samplesize.

Completions cover subcommands, flags and design names, so
"samplesize calc <TAB>", "samplesize designs <TAB>" and
"samplesize interactive --design <TAB>" list the five study designs.

Bash:
  $ source <(samplesize completion bash)
  $ samplesize completion bash > /etc/bash_completion.d/samplesize

Zsh:
  $ samplesize completion zsh > "${fpath[1]}/_samplesize"

Fish:
  $ samplesize completion fish > ~/.config/fish/completions/samplesize.fish

PowerShell:
  PS> samplesize completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion must work without a readable config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeDesigns completes a design name, with its title as the description.
func completeDesigns(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(design.All))
	for _, d := range design.All {
		names = append(names, string(d)+"\t"+d.Title())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
