package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/kvview/internal/namespace"
)

var shellNS = namespace.ByBinding("USERS")

func runShell(t *testing.T, store *memStore, prefix, input string) string {
	t.Helper()
	var out strings.Builder
	sh := newShell(store, shellNS, prefix, strings.NewReader(input), &out)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestShell_ListIsCached(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("user/1", "ada", "", 0)
	store.set("user/2", "bob", `{"role":"admin"}`, 0)

	out := runShell(t, store, "user/", "ls\nls\nquit\n")

	assert.Contains(t, out, `{"role":"admin"}`)
	assert.Equal(t, 1, store.opCount("list"))
}

func TestShell_GetIsCached(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("user/1", "ada", "", 0)

	out := runShell(t, store, "", "get user/1\nget user/1\n")

	assert.Equal(t, 2, strings.Count(out, "ada\n"))
	assert.Equal(t, 1, store.opCount("get"))
}

func TestShell_PutKeepsMetadataAndNotifies(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("user/1", "ada", `{"role":"admin"}`, 4102444800)

	out := runShell(t, store, "user/", "ls\nput user/1 ada lovelace\nget user/1\n")

	assert.Contains(t, out, `listing "user/" changed`)
	assert.Contains(t, out, "ada lovelace\n")
	assert.Equal(t, 0, store.opCount("get"), "written value is served from the cache")

	v := store.values["user/1"]
	require.NotNil(t, v.metadata)
	assert.Equal(t, `{"role":"admin"}`, v.metadata.String())
	require.NotNil(t, v.expiration)
	assert.Equal(t, int64(4102444800), *v.expiration)
}

func TestShell_PutUnknownKeyAsks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		answer     string
		wantStored bool
	}{
		{name: "yes", answer: "y", wantStored: true},
		{name: "no", answer: "n"},
		{name: "empty", answer: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			out := runShell(t, store, "", "put user/9 new\n"+tt.answer+"\n")

			assert.Contains(t, out, "Create it? [y/N]")
			_, stored := store.values["user/9"]
			assert.Equal(t, tt.wantStored, stored)
			if !tt.wantStored {
				assert.Contains(t, out, "metadata and expiration unknown")
			}
		})
	}
}

func TestShell_RemoveNeedsListing(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("user/1", "ada", "", 0)

	out := runShell(t, store, "user/", "rm user/1\n")
	assert.Contains(t, out, "error:")
	assert.Contains(t, store.values, "user/1")

	out = runShell(t, store, "user/", "ls\nrm user/1\n")
	assert.NotContains(t, store.values, "user/1")
	assert.Contains(t, out, `listing "user/" changed`)
}

func TestShell_RenameAndMeta(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("user/1", "ada", `{"a":1}`, 0)

	runShell(t, store, "user/", "ls\nmv user/1 user/01\nmeta user/01 {\"b\": 2}\n")

	assert.NotContains(t, store.values, "user/1")
	v, ok := store.values["user/01"]
	require.True(t, ok)
	assert.Equal(t, []byte("ada"), v.value)
	require.NotNil(t, v.metadata)
	assert.Equal(t, `{"b":2}`, v.metadata.String())
}

func TestShell_RefreshRelists(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.set("a", "1", "", 0)

	runShell(t, store, "", "ls\nrefresh\nls\nclear\nls\n")
	assert.Equal(t, 3, store.opCount("list"))
}

func TestShell_Errors(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	out := runShell(t, store, "", "bogus\nget\nexpire k 2000-01-01T00:00:00Z\n")

	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "usage: get <key>")
	assert.Contains(t, out, "must enter a future date")
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		n    int
		want []string
	}{
		{line: "put k v", n: 3, want: []string{"put", "k", "v"}},
		{line: "put k  two  spaces ", n: 3, want: []string{"put", "k", "two  spaces"}},
		{line: "  meta k", n: 3, want: []string{"meta", "k"}},
		{line: "meta k {\"a\": 1}", n: 3, want: []string{"meta", "k", `{"a": 1}`}},
		{line: "", n: 3, want: nil},
	}

	for _, tt := range tests {
		got := splitArgs(tt.line, tt.n)
		assert.Equal(t, tt.want, got, "splitArgs(%q, %d)", tt.line, tt.n)
	}
}
