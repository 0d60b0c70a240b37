package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newGetCmd() *cobra.Command {
	var (
		tf   targetFlags
		info bool
	)

	cmd := &cobra.Command{
		Use:     "get <key>",
		Short:   "Print a value",
		GroupID: GroupKeys,
		Args:    cobra.ExactArgs(1),
		Long: `Print the value of a key to stdout.

With --info the expiration and metadata are printed instead.`,
		Example: `  kvview get -b USERS user/42          # Print the value
  kvview get -b USERS user/42 --info   # Show expiration and metadata`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			key := args[0]

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			svc := newService(ctx, defaultStore(ctx))

			if info {
				e, err := lookupEntry(ctx, svc, t.ns, key)
				if err != nil {
					return err
				}
				out.Println(styles.Bold.Render(e.Key))
				if exp := format.Expiration(e, svc.Now()); exp != "" {
					out.Printf("%s (%s)\n", exp, format.ExpirationInput(e.Expiration))
				}
				lines := format.MetadataLines(e.Metadata, "  ")
				if len(lines) == 0 {
					out.Println(styles.MutedStyle.Render(format.EmptyMetadata))
					return nil
				}
				out.Println(strings.Join(lines, "\n"))
				return nil
			}

			value, err := svc.Get(ctx, t.ns, key)
			if err != nil {
				return err
			}
			return out.Value(value)
		},
	}

	tf.register(cmd)
	cmd.Flags().BoolVarP(&info, "info", "i", false, "Show expiration and metadata instead of the value")

	return cmd
}
