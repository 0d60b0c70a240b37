package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/storage"
	"github.com/raphi011/kvview/internal/ui/progress"
	"github.com/raphi011/kvview/internal/ui/styles"
)

// exportLimit caps concurrent value reads during export.
const exportLimit = 4

// exportFile is the on-disk format of export and import.
type exportFile struct {
	Namespace namespace.Identity `json:"namespace"`
	Prefix    string             `json:"prefix,omitempty"`
	Entries   []exportRecord     `json:"entries"`
}

// exportRecord is one key. Values that are not valid UTF-8 are base64
// encoded and marked with Encoding "base64".
type exportRecord struct {
	Key        string           `json:"key"`
	Value      string           `json:"value"`
	Encoding   string           `json:"encoding,omitempty"`
	Expiration *int64           `json:"expiration,omitempty"`
	Metadata   *jsonvalue.Value `json:"metadata,omitempty"`
}

func newRecord(e kvcache.Entry, value []byte) exportRecord {
	r := exportRecord{Key: e.Key, Expiration: e.Expiration, Metadata: e.Metadata}
	if utf8.Valid(value) {
		r.Value = string(value)
	} else {
		r.Value = base64.StdEncoding.EncodeToString(value)
		r.Encoding = "base64"
	}
	return r
}

func (r exportRecord) bytes() ([]byte, error) {
	switch r.Encoding {
	case "":
		return []byte(r.Value), nil
	case "base64":
		return base64.StdEncoding.DecodeString(r.Value)
	}
	return nil, fmt.Errorf("key %q: unknown encoding %q", r.Key, r.Encoding)
}

func newExportCmd() *cobra.Command {
	var (
		tf     targetFlags
		prefix string
		out    string
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write keys and values to a JSON file",
		GroupID: GroupBrowse,
		Args:    cobra.NoArgs,
		Long: `Export every key under a prefix with its value, metadata and expiration.

The file is written atomically and can be loaded with 'kvview import'.`,
		Example: `  kvview export -b USERS --prefix user/ --out users.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("prefix") {
				t.prefix = prefix
			}

			svc := newService(ctx, newBridge(config.FromContext(ctx)))
			entries, err := svc.List(ctx, t.ns, t.prefix, nil)
			if err != nil {
				return err
			}

			bar := progress.NewProgressBar(len(entries), "Exporting")
			if !quiet {
				bar.Start()
			}
			records, err := exportEntries(ctx, svc, t.ns, entries, func(key string, err error) {
				bar.Step("Reading "+key, err)
			})
			bar.Stop()
			if err != nil {
				return err
			}

			file := exportFile{Namespace: t.ns, Prefix: t.prefix, Entries: records}
			if err := storage.SaveJSON(out, file); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			l.Println(styles.SuccessStyle.Render(fmt.Sprintf("Exported %d key(s) to %s", len(records), out)))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only export keys starting with this prefix")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	cmd.MarkFlagRequired("out")

	return cmd
}

// exportEntries reads every value concurrently. Records keep entry order.
// onDone runs after each read, with the read's error if it failed.
func exportEntries(ctx context.Context, svc *kvcache.Service, ns namespace.Identity, entries []kvcache.Entry, onDone func(key string, err error)) ([]exportRecord, error) {
	records := make([]exportRecord, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportLimit)
	for i, e := range entries {
		g.Go(func() error {
			value, err := svc.Get(ctx, ns, e.Key)
			if onDone != nil {
				onDone(e.Key, err)
			}
			if err != nil {
				return err
			}
			records[i] = newRecord(e, value)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func newImportCmd() *cobra.Command {
	var tf targetFlags

	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Write keys from an export file",
		GroupID: GroupBrowse,
		Args:    cobra.ExactArgs(1),
		Long: `Write every entry of an export file with its value, metadata and
expiration.

Without namespace flags the entries go to the namespace they were
exported from.`,
		Example: `  kvview import users.json
  kvview import users.json -b USERS --preview`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var file exportFile
			if err := storage.LoadJSON(args[0], &file); err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ns := file.Namespace
			if tf.namespaceID != "" || tf.binding != "" || tf.query != "" {
				t, err := tf.resolve(cmd)
				if err != nil {
					return err
				}
				ns = t.ns
			}
			if err := ns.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store := newProgressStore(newBridge(config.FromContext(ctx)), len(file.Entries), "Importing")
			svc := newService(ctx, store)
			store.Start()
			n, err := importRecords(ctx, svc, ns, file.Entries)
			tally := store.Stop()
			if err != nil {
				return fmt.Errorf("imported %d of %d key(s) (%d wrangler call(s) failed): %w", n, len(file.Entries), tally.Failed, err)
			}
			l.Println(styles.SuccessStyle.Render(fmt.Sprintf("Imported %d key(s) into %s", n, ns)))
			return nil
		},
	}

	tf.register(cmd)

	return cmd
}

// importRecords writes records in order and stops at the first failure.
func importRecords(ctx context.Context, svc *kvcache.Service, ns namespace.Identity, records []exportRecord) (int, error) {
	for i, r := range records {
		value, err := r.bytes()
		if err != nil {
			return i, err
		}
		if err := svc.PutFull(ctx, ns, r.Key, value, r.Metadata, r.Expiration); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
