package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/ui/prompt"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newDeleteCmd() *cobra.Command {
	var (
		tf     targetFlags
		prefix string
		force  bool
	)

	cmd := &cobra.Command{
		Use:     "delete <key>...",
		Short:   "Delete keys",
		Aliases: []string{"rm"},
		GroupID: GroupKeys,
		Args:    cobra.MinimumNArgs(1),
		Long: `Delete keys from a namespace.

Each key must be listed under --prefix (default: the key itself), which
is listed first. Asks for confirmation on a terminal unless --force.`,
		Example: `  kvview delete -b USERS user/42
  kvview rm -b USERS user/1 user/2 -f
  kvview rm -Q Sessions session/abc --prefix session/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}

			if !force && prompt.Interactive() {
				res, err := prompt.Confirm(
					fmt.Sprintf("Delete %d key(s) from %s?", len(args), t.ns),
					prompt.WithDetail(strings.Join(args, ", ")),
				)
				if err != nil {
					return err
				}
				if !res.Confirmed {
					return errCancelled
				}
			}

			svc := newService(ctx, defaultStore(ctx))
			for _, key := range args {
				parent := key
				if cmd.Flags().Changed("prefix") {
					parent = prefix
				}
				if _, err := svc.List(ctx, t.ns, parent, nil); err != nil {
					return err
				}
				if err := svc.Delete(ctx, t.ns, key, parent); err != nil {
					return err
				}
				l.Println(styles.SuccessStyle.Render("Deleted " + key))
			}
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Prefix listing that contains the keys")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")

	return cmd
}
