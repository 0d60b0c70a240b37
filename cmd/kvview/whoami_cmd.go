package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/output"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the account wrangler is logged in as",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Run "wrangler whoami" with the configured executable.

Useful to check the executable setting and login state before
listing keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := newBridge(config.FromContext(ctx)).Run(ctx, "whoami")
			if err != nil {
				return err
			}
			output.FromContext(ctx).Print(string(out))
			return nil
		},
	}
}
