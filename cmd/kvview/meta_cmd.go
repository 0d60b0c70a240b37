package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/ui/prompt"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newMetaCmd() *cobra.Command {
	var (
		tf    targetFlags
		edit  bool
		unset bool
	)

	cmd := &cobra.Command{
		Use:     "meta <key> [json]",
		Short:   "Show or set metadata",
		GroupID: GroupKeys,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Show or replace the metadata of a key.

The value and expiration are kept. Without a JSON argument the current
metadata is shown; --edit opens it in a prompt.`,
		Example: `  kvview meta -b USERS user/42                    # Show metadata
  kvview meta -b USERS user/42 '{"role":"admin"}'  # Replace metadata
  kvview meta -b USERS user/42 --clear            # Remove metadata
  kvview meta -b USERS user/42 --edit             # Edit in a prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			key := args[0]

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			svc := newService(ctx, defaultStore(ctx))

			var input string
			switch {
			case unset:
			case len(args) == 2:
				input = args[1]
			default:
				e, err := lookupEntry(ctx, svc, t.ns, key)
				if err != nil {
					return err
				}
				if !edit {
					lines := format.MetadataLines(e.Metadata, "  ")
					if len(lines) == 0 {
						out.Println(styles.MutedStyle.Render(format.EmptyMetadata))
						return nil
					}
					out.Println(strings.Join(lines, "\n"))
					return nil
				}
				res, err := prompt.TextInput("Metadata", format.MetadataInput(e.Metadata), "{}", func(s string) error {
					_, err := format.ParseMetadata(s)
					return err
				})
				if err != nil {
					return err
				}
				if res.Cancelled {
					return errCancelled
				}
				input = res.Value
			}

			meta, err := format.ParseMetadata(input)
			if err != nil {
				return err
			}
			if err := svc.SetMetadata(ctx, t.ns, key, meta); err != nil {
				return err
			}
			l.Printf("Updated metadata of %s\n", key)
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit the metadata in a prompt")
	cmd.Flags().BoolVar(&unset, "clear", false, "Remove the metadata")
	cmd.MarkFlagsMutuallyExclusive("edit", "clear")

	return cmd
}

func newExpireCmd() *cobra.Command {
	var (
		tf    targetFlags
		edit  bool
		unset bool
	)

	cmd := &cobra.Command{
		Use:     "expire <key> [rfc3339]",
		Short:   "Show or set the expiration",
		GroupID: GroupKeys,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Show or replace the expiration of a key.

The value and metadata are kept. The new expiration is an RFC 3339 date
and must lie in the future.`,
		Example: `  kvview expire -b USERS session/1                        # Show expiration
  kvview expire -b USERS session/1 2030-01-01T00:00:00Z   # Set expiration
  kvview expire -b USERS session/1 --clear                # Never expire`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			key := args[0]

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			svc := newService(ctx, defaultStore(ctx))

			var input string
			switch {
			case unset:
			case len(args) == 2:
				input = args[1]
			default:
				e, err := lookupEntry(ctx, svc, t.ns, key)
				if err != nil {
					return err
				}
				if !edit {
					if e.Expiration == nil {
						out.Println(styles.MutedStyle.Render("Never expires"))
						return nil
					}
					out.Printf("%s (%s)\n", format.ExpirationInput(e.Expiration), format.Expiration(e, svc.Now()))
					return nil
				}
				res, err := prompt.TextInput("Expiration", format.ExpirationInput(e.Expiration), "2030-01-01T00:00:00Z", func(s string) error {
					_, err := format.ParseExpiration(s, svc.Now())
					return err
				})
				if err != nil {
					return err
				}
				if res.Cancelled {
					return errCancelled
				}
				input = res.Value
			}

			exp, err := format.ParseExpiration(input, svc.Now())
			if err != nil {
				return err
			}
			if err := svc.SetExpiration(ctx, t.ns, key, exp); err != nil {
				return err
			}
			l.Printf("Updated expiration of %s\n", key)
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit the expiration in a prompt")
	cmd.Flags().BoolVar(&unset, "clear", false, "Remove the expiration")
	cmd.MarkFlagsMutuallyExclusive("edit", "clear")

	return cmd
}
