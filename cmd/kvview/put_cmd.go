package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newPutCmd() *cobra.Command {
	var (
		tf         targetFlags
		file       string
		metadata   string
		expiration int64
		create     bool
	)

	cmd := &cobra.Command{
		Use:     "put <key> [value]",
		Short:   "Write a value",
		GroupID: GroupKeys,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Write a value, keeping the key's metadata and expiration.

The value is taken from the argument, from --file (- for stdin), or from
stdin when it is piped.

If the key does not exist yet you are asked whether to create it; pass
--create to skip the question. Passing --metadata or --expiration writes
the entry exactly as given: fields not passed are cleared.`,
		Example: `  kvview put -b USERS user/42 '{"name":"Ada"}'
  kvview put -b USERS user/42 --file user.json
  cat user.json | kvview put -b USERS user/42 --create
  kvview put -b USERS session/1 token --expiration 1767225600 --metadata '{"ip":"::1"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			key := args[0]

			value, err := readValue(args[1:], file, os.Stdin, stdinIsTerminal())
			if err != nil {
				return err
			}

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			svc := newService(ctx, defaultStore(ctx))

			if cmd.Flags().Changed("metadata") || cmd.Flags().Changed("expiration") {
				meta, err := format.ParseMetadata(metadata)
				if err != nil {
					return err
				}
				var exp *int64
				if cmd.Flags().Changed("expiration") {
					exp = &expiration
				}
				if err := svc.PutFull(ctx, t.ns, key, value, meta, exp); err != nil {
					return err
				}
				l.Println(styles.SuccessStyle.Render("Wrote " + key))
				return nil
			}

			var opts []kvcache.PutOption
			if create {
				opts = append(opts, kvcache.CreateIfMissing())
			}
			if err := svc.Put(ctx, t.ns, key, value, opts...); err != nil {
				return err
			}
			l.Println(styles.SuccessStyle.Render("Wrote " + key))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "Read the value from a file (- for stdin)")
	cmd.Flags().StringVarP(&metadata, "metadata", "m", "", "Metadata JSON to write")
	cmd.Flags().Int64VarP(&expiration, "expiration", "e", 0, "Expiration as seconds since the epoch")
	cmd.Flags().BoolVarP(&create, "create", "c", false, "Create the key if it does not exist")

	return cmd
}
