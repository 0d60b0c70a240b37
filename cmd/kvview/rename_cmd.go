package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newRenameCmd() *cobra.Command {
	var (
		tf     targetFlags
		prefix string
	)

	cmd := &cobra.Command{
		Use:     "rename <key> <new-key>",
		Short:   "Rename a key",
		Aliases: []string{"mv"},
		GroupID: GroupKeys,
		Args:    cobra.ExactArgs(2),
		Long: `Rename a key, carrying its value, metadata and expiration.

The new key is written before the old one is deleted. The old key must be
listed under --prefix (default: the key itself).`,
		Example: `  kvview rename -b USERS user/42 user/0042`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			oldKey, newKey := args[0], args[1]

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			parent := oldKey
			if cmd.Flags().Changed("prefix") {
				parent = prefix
			}

			svc := newService(ctx, defaultStore(ctx))
			if _, err := svc.List(ctx, t.ns, parent, nil); err != nil {
				return err
			}
			if err := svc.Rename(ctx, t.ns, oldKey, newKey, parent); err != nil {
				return err
			}
			l.Println(styles.SuccessStyle.Render(fmt.Sprintf("Renamed %s to %s", oldKey, newKey)))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Prefix listing that contains the key")

	return cmd
}
