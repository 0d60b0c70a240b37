package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/output"
)

func newShellCmd() *cobra.Command {
	var tf targetFlags

	cmd := &cobra.Command{
		Use:     "shell",
		Short:   "Browse a namespace interactively",
		Aliases: []string{"sh"},
		GroupID: GroupBrowse,
		Args:    cobra.NoArgs,
		Long: `Start a line based shell on one namespace.

All commands share one cache: listings are fetched once, values stay cached
for content_ttl, and writes update every cached listing that contains the
key. A notice is printed when a shown listing changes.`,
		Example: `  kvview shell -b USERS
  kvview shell -Q Sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			cfg := config.FromContext(ctx)
			sh := newShell(defaultStore(ctx), t.ns, t.prefix, os.Stdin, out.Writer(), kvcache.WithContentTTL(cfg.TTL))
			return sh.Run(ctx)
		},
	}

	tf.register(cmd)

	return cmd
}
