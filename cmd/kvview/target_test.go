package main

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/history"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/ui/prompt"
)

func boolPtr(b bool) *bool { return &b }

func testConfig(queries ...config.QueryConfig) *config.Config {
	cfg := config.Default()
	cfg.Saved = queries
	return &cfg
}

func noRecent() (history.Entry, bool) { return history.Entry{}, false }

func noPick(t *testing.T) func([]kvcache.Query) (kvcache.Query, error) {
	return func([]kvcache.Query) (kvcache.Query, error) {
		t.Error("pick should not be called")
		return kvcache.Query{}, errors.New("unexpected pick")
	}
}

func TestResolveTarget_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flags      targetFlags
		previewSet bool
		want       namespace.Identity
	}{
		{
			name:  "binding",
			flags: targetFlags{binding: "USERS"},
			want:  namespace.ByBinding("USERS"),
		},
		{
			name:  "id local",
			flags: targetFlags{namespaceID: "abc", local: true},
			want:  namespace.ByID("abc").WithLocal(true),
		},
		{
			name:       "explicit production",
			flags:      targetFlags{binding: "USERS", preview: false},
			previewSet: true,
			want:       namespace.ByBinding("USERS").WithPreview(false),
		},
		{
			name:  "preview flag ignored unless set",
			flags: targetFlags{binding: "USERS", preview: true},
			want:  namespace.ByBinding("USERS"),
		},
		{
			name:  "absolute base path",
			flags: targetFlags{binding: "USERS", basePath: "/src/worker"},
			want:  namespace.ByBinding("USERS").WithBasePath("/src/worker"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTarget(testConfig(), tt.flags, tt.previewSet, noPick(t), noRecent)
			if err != nil {
				t.Fatalf("resolveTarget() error = %v", err)
			}
			if !reflect.DeepEqual(got.ns, tt.want) {
				t.Errorf("namespace = %+v, want %+v", got.ns, tt.want)
			}
			if got.prefix != "" {
				t.Errorf("prefix = %q, want empty", got.prefix)
			}
		})
	}
}

func TestResolveTarget_Query(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		config.QueryConfig{Title: "Users", Binding: "USERS", Prefix: "user/"},
		config.QueryConfig{Title: "Sessions", NamespaceID: "abc", Preview: boolPtr(true)},
	)

	got, err := resolveTarget(cfg, targetFlags{query: "Sessions"}, false, noPick(t), noRecent)
	if err != nil {
		t.Fatalf("resolveTarget() error = %v", err)
	}
	if got.ns.ID != "abc" || !got.ns.EffectivePreview() {
		t.Errorf("namespace = %+v, want preview id abc", got.ns)
	}
	if got.title != "Sessions" {
		t.Errorf("title = %q, want %q", got.title, "Sessions")
	}

	_, err = resolveTarget(cfg, targetFlags{query: "Nope"}, false, noPick(t), noRecent)
	if err == nil || !strings.Contains(err.Error(), "Users, Sessions") {
		t.Errorf("unknown query error = %v, want list of titles", err)
	}
}

func TestResolveTarget_FallsBackToSavedQueries(t *testing.T) {
	t.Parallel()

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		_, err := resolveTarget(testConfig(), targetFlags{}, false, noPick(t), noRecent)
		if !errors.Is(err, errNoTarget) {
			t.Errorf("error = %v, want errNoTarget", err)
		}
	})

	t.Run("recent", func(t *testing.T) {
		t.Parallel()
		recent := func() (history.Entry, bool) {
			return history.Entry{Namespace: namespace.ByID("abc"), Prefix: "p/"}, true
		}
		got, err := resolveTarget(testConfig(), targetFlags{}, false, noPick(t), recent)
		if err != nil {
			t.Fatalf("resolveTarget() error = %v", err)
		}
		if got.ns.ID != "abc" || got.prefix != "p/" {
			t.Errorf("target = %+v, want recent entry", got)
		}
	})

	t.Run("saved query wins over recent", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(config.QueryConfig{Binding: "USERS"})
		recent := func() (history.Entry, bool) {
			t.Error("recent should not be consulted")
			return history.Entry{}, false
		}
		got, err := resolveTarget(cfg, targetFlags{}, false, noPick(t), recent)
		if err != nil {
			t.Fatalf("resolveTarget() error = %v", err)
		}
		if got.ns.Binding != "USERS" {
			t.Errorf("target = %+v, want saved query", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(config.QueryConfig{Binding: "USERS", Prefix: "user/"})
		got, err := resolveTarget(cfg, targetFlags{}, false, noPick(t), noRecent)
		if err != nil {
			t.Fatalf("resolveTarget() error = %v", err)
		}
		if got.prefix != "user/" || got.ns.Binding != "USERS" {
			t.Errorf("target = %+v", got)
		}
	})

	t.Run("several prompts", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(
			config.QueryConfig{Title: "A", Binding: "A"},
			config.QueryConfig{Title: "B", Binding: "B", Prefix: "b/"},
		)
		var offered []string
		pick := func(qs []kvcache.Query) (kvcache.Query, error) {
			for _, q := range qs {
				offered = append(offered, q.Title)
			}
			return qs[1], nil
		}
		got, err := resolveTarget(cfg, targetFlags{}, false, pick, noRecent)
		if err != nil {
			t.Fatalf("resolveTarget() error = %v", err)
		}
		if strings.Join(offered, ",") != "A,B" {
			t.Errorf("offered = %v, want [A B]", offered)
		}
		if got.title != "B" || got.prefix != "b/" {
			t.Errorf("target = %+v, want query B", got)
		}
	})

	t.Run("pick error", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(
			config.QueryConfig{Title: "A", Binding: "A"},
			config.QueryConfig{Title: "B", Binding: "B"},
		)
		_, err := resolveTarget(cfg, targetFlags{}, false, func([]kvcache.Query) (kvcache.Query, error) {
			return kvcache.Query{}, errCancelled
		}, noRecent)
		if !errors.Is(err, errCancelled) {
			t.Errorf("error = %v, want errCancelled", err)
		}
	})
}

func TestQueryOptions(t *testing.T) {
	t.Parallel()

	queries := []kvcache.Query{
		{Title: "users", Namespace: namespace.ByBinding("USERS"), Prefix: "user/"},
		{Title: "scratch", Namespace: namespace.ByID("0f3a").WithLocal(true)},
	}
	want := []prompt.Option{
		{Title: "users", Description: "binding USERS, prefix user/"},
		{Title: "scratch", Description: "id 0f3a (preview, local)"},
	}
	if got := queryOptions(queries); !reflect.DeepEqual(got, want) {
		t.Errorf("queryOptions() = %+v, want %+v", got, want)
	}
}
