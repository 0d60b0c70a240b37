package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/log"
)

func newCopyCmd() *cobra.Command {
	var tf targetFlags

	cmd := &cobra.Command{
		Use:       "copy <key|metadata> <key>...",
		Short:     "Copy keys or metadata to the clipboard",
		Aliases:   []string{"cp"},
		GroupID:   GroupKeys,
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"key", "metadata"},
		Long: `Copy keys or their metadata to the clipboard.

A single key or metadata value is copied as is; several are copied as a
JSON array. Keys without metadata are skipped in arrays.`,
		Example: `  kvview copy key -b USERS user/1 user/2
  kvview copy metadata -b USERS user/42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			what, keys := args[0], args[1:]

			var text string
			switch what {
			case "key", "keys":
				text = format.KeysText(keys)
			case "metadata", "meta":
				t, err := tf.resolve(cmd)
				if err != nil {
					return err
				}
				svc := newService(ctx, defaultStore(ctx))
				metadata := make([]*jsonvalue.Value, len(keys))
				for i, key := range keys {
					e, err := lookupEntry(ctx, svc, t.ns, key)
					if err != nil {
						return err
					}
					metadata[i] = e.Metadata
				}
				text = format.MetadataText(metadata)
			default:
				return fmt.Errorf("cannot copy %q: use key or metadata", what)
			}

			if err := clipboard.WriteAll(text); err != nil {
				return err
			}
			l.Printf("Copied %d %s(s) to the clipboard\n", len(keys), what)
			return nil
		},
	}

	tf.register(cmd)

	return cmd
}
