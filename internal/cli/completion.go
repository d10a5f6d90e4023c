package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for {{app}}.

Bash:
  $ source <({{app}} completion bash)
  $ {{app}} completion bash > /etc/bash_completion.d/{{app}}

Zsh:
  $ {{app}} completion zsh > "${fpath[1]}/_{{app}}"

Fish:
  $ {{app}} completion fish > ~/.config/fish/completions/{{app}}.fish

PowerShell:
  PS> {{app}} completion powershell | Out-String | Invoke-Expression
`

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.ReplaceAll(completionHelp, "{{app}}", appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return genCompletion(cmd.Root(), cmd.OutOrStdout(), args[0])
		},
	}
}

func genCompletion(root *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell: %s", shell)
}
