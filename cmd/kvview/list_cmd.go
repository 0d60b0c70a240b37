package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/ui/static"
	"github.com/raphi011/kvview/internal/ui/styles"
)

// loadAllLimit caps concurrent wrangler processes for --all.
const loadAllLimit = 4

func newListCmd() *cobra.Command {
	var (
		tf         targetFlags
		prefix     string
		filter     string
		jsonOutput bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List keys",
		Aliases: []string{"ls"},
		GroupID: GroupBrowse,
		Args:    cobra.NoArgs,
		Long: `List the keys of a namespace with their expiration and metadata.

Keys are shown relative to the prefix. With --all every saved query is
listed concurrently.`,
		Example: `  kvview list -b USERS                  # List all keys of binding USERS
  kvview list -b USERS --prefix user/   # Only keys under user/
  kvview list -Q Sessions -f abc        # Fuzzy filter a saved query
  kvview list --all                     # List every saved query
  kvview list -b USERS --json           # JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if all {
				return listAll(ctx, out, filter, jsonOutput)
			}

			t, err := tf.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("prefix") {
				t.prefix = prefix
			}

			svc := newService(ctx, defaultStore(ctx))
			entries, err := svc.List(ctx, t.ns, t.prefix, nil)
			if err != nil {
				return err
			}
			entries = format.Filter(entries, t.prefix, filter)

			if jsonOutput {
				return out.JSON(entries)
			}
			out.Print(static.RenderEntries(entries, t.prefix, svc.Now()))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only list keys starting with this prefix")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter keys")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every saved query")
	cmd.MarkFlagsMutuallyExclusive("all", "query")
	cmd.MarkFlagsMutuallyExclusive("all", "binding")
	cmd.MarkFlagsMutuallyExclusive("all", "namespace-id")

	return cmd
}

// queryListing is the JSON form of one query of list --all.
type queryListing struct {
	Title     string          `json:"title"`
	Namespace string          `json:"namespace"`
	Prefix    string          `json:"prefix"`
	Entries   []kvcache.Entry `json:"entries"`
	Error     string          `json:"error,omitempty"`
}

func listAll(ctx context.Context, out *output.Printer, filter string, jsonOutput bool) error {
	cfg := config.FromContext(ctx)
	n := len(cfg.Queries())
	if n == 0 {
		return errNoTarget
	}

	store := newProgressStore(newBridge(cfg), n, "Listing queries")
	svc := newService(ctx, store)

	store.Start()
	results := svc.LoadQueries(ctx, cfg, loadAllLimit, nil)
	store.Stop()

	if jsonOutput {
		listings := make([]queryListing, len(results))
		for i, r := range results {
			listings[i] = queryListing{
				Title:     r.Query.Title,
				Namespace: r.Query.Namespace.String(),
				Prefix:    r.Query.Prefix,
				Entries:   format.Filter(r.Entries, r.Query.Prefix, filter),
			}
			if r.Err != nil {
				listings[i].Error = r.Err.Error()
			}
		}
		return out.JSON(listings)
	}

	renderResults(out.Writer(), results, filter, svc.Now())
	return nil
}

func renderResults(w io.Writer, results []kvcache.QueryResult, filter string, now time.Time) {
	for i, r := range results {
		if i > 0 {
			io.WriteString(w, "\n")
		}
		io.WriteString(w, styles.Bold.Render(r.Query.Title)+" "+styles.MutedStyle.Render(r.Query.Namespace.String())+"\n")
		if r.Err != nil {
			io.WriteString(w, styles.ErrorStyle.Render(r.Err.Error())+"\n")
			continue
		}
		io.WriteString(w, static.RenderEntries(format.Filter(r.Entries, r.Query.Prefix, filter), r.Query.Prefix, now))
	}
}
