package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/output"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion <shell>",
		Short:     "Generate completion script",
		GroupID:   GroupConfig,
		Long:      `Generate shell completion script. Saved query titles complete for -Q.`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		Example: `  # Fish
  kvview completion fish > ~/.config/fish/completions/kvview.fish

  # Bash
  kvview completion bash > ~/.local/share/bash-completion/completions/kvview

  # Zsh
  kvview completion zsh > ~/.zfunc/_kvview
  # Then add ~/.zfunc to fpath in .zshrc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := output.FromContext(cmd.Context()).Writer()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
