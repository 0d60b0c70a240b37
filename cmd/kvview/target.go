package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/history"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/ui/prompt"
)

// errNoTarget is returned when no namespace was selected and none can be
// chosen from the saved queries.
var errNoTarget = errors.New("no namespace selected: pass --namespace-id, --binding or --query")

// targetFlags are the namespace selection flags shared by key commands.
type targetFlags struct {
	namespaceID string
	binding     string
	preview     bool
	local       bool
	basePath    string
	query       string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.namespaceID, "namespace-id", "", "Namespace id")
	cmd.Flags().StringVarP(&f.binding, "binding", "b", "", "Namespace binding from wrangler.toml")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Use the preview namespace (default: wrangler's choice)")
	cmd.Flags().BoolVar(&f.local, "local", false, "Use local storage instead of the remote namespace")
	cmd.Flags().StringVar(&f.basePath, "base-path", "", "Directory wrangler runs in (where wrangler.toml lives)")
	cmd.Flags().StringVarP(&f.query, "query", "Q", "", "Saved query to use (see 'kvview queries')")
	cmd.MarkFlagsMutuallyExclusive("namespace-id", "binding", "query")
	cmd.RegisterFlagCompletionFunc("query", completeQueries)
}

// target is a selected namespace and the prefix it is browsed under.
type target struct {
	ns     namespace.Identity
	prefix string
	title  string
}

// resolve selects the target from the flags, falling back to the saved
// queries: a single query is used as is, several are offered in a prompt.
// Without saved queries the most recently used target is reused.
func (f *targetFlags) resolve(cmd *cobra.Command) (target, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	path, err := history.Path()
	if err != nil {
		l.Debug("history unavailable", "err", err)
	}
	recent := func() (history.Entry, bool) {
		if path == "" {
			return history.Entry{}, false
		}
		e, ok, err := history.MostRecent(path)
		if err != nil {
			l.Debug("history unreadable", "err", err)
		}
		return e, ok
	}

	t, err := resolveTarget(cfg, *f, cmd.Flags().Changed("preview"), pickQuery, recent)
	if err != nil {
		return target{}, err
	}
	if path != "" {
		if err := history.RecordAccess(path, t.ns, t.prefix); err != nil {
			l.Debug("history not recorded", "err", err)
		}
	}
	return t, nil
}

func resolveTarget(cfg *config.Config, f targetFlags, previewSet bool, pick func([]kvcache.Query) (kvcache.Query, error), recent func() (history.Entry, bool)) (target, error) {
	if f.query != "" {
		q, ok := cfg.FindQuery(f.query)
		if !ok {
			return target{}, fmt.Errorf("unknown query %q (have: %s)", f.query, queryTitles(cfg.Queries()))
		}
		return target{ns: q.Namespace, prefix: q.Prefix, title: q.Title}, nil
	}

	if f.namespaceID == "" && f.binding == "" {
		queries := cfg.Queries()
		switch len(queries) {
		case 0:
			if e, ok := recent(); ok {
				return target{ns: e.Namespace, prefix: e.Prefix, title: e.Namespace.String()}, nil
			}
			return target{}, errNoTarget
		case 1:
			q := queries[0]
			return target{ns: q.Namespace, prefix: q.Prefix, title: q.Title}, nil
		}
		q, err := pick(queries)
		if err != nil {
			return target{}, err
		}
		return target{ns: q.Namespace, prefix: q.Prefix, title: q.Title}, nil
	}

	ns := namespace.Identity{ID: f.namespaceID, Binding: f.binding, Local: f.local}
	if previewSet {
		ns = ns.WithPreview(f.preview)
	}
	if f.basePath != "" {
		abs, err := filepath.Abs(f.basePath)
		if err != nil {
			return target{}, fmt.Errorf("base path: %w", err)
		}
		ns = ns.WithBasePath(abs)
	}
	if err := ns.Validate(); err != nil {
		return target{}, err
	}
	return target{ns: ns, title: ns.String()}, nil
}

// pickQuery asks which saved query to use.
func pickQuery(queries []kvcache.Query) (kvcache.Query, error) {
	if !prompt.Interactive() {
		return kvcache.Query{}, fmt.Errorf("%w (saved queries: %s)", errNoTarget, queryTitles(queries))
	}
	res, err := prompt.Select("Select a query", queryOptions(queries))
	if err != nil {
		return kvcache.Query{}, err
	}
	if res.Cancelled {
		return kvcache.Query{}, errCancelled
	}
	return queries[res.Index], nil
}

// queryOptions describes each query by the namespace and prefix it lists.
func queryOptions(queries []kvcache.Query) []prompt.Option {
	opts := make([]prompt.Option, len(queries))
	for i, q := range queries {
		desc := q.Namespace.String()
		if q.Prefix != "" {
			desc += ", prefix " + q.Prefix
		}
		opts[i] = prompt.Option{Title: q.Title, Description: desc}
	}
	return opts
}

func queryTitles(queries []kvcache.Query) string {
	if len(queries) == 0 {
		return "none"
	}
	titles := make([]string, len(queries))
	for i, q := range queries {
		titles[i] = q.Title
	}
	return strings.Join(titles, ", ")
}

func completeQueries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var titles []string
	for _, q := range config.FromContext(cmd.Context()).Queries() {
		if strings.HasPrefix(q.Title, toComplete) {
			titles = append(titles, q.Title)
		}
	}
	return titles, cobra.ShellCompDirectiveNoFileComp
}
