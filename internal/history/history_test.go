package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raphi011/kvview/internal/namespace"
)

func TestRecordAccess(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")
	ns := namespace.ByBinding("USERS")

	if err := RecordAccess(historyFile, ns, "user/"); err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries))
	}
	e := h.Entries[0]
	if e.Namespace.Binding != "USERS" {
		t.Errorf("Binding = %q, want %q", e.Namespace.Binding, "USERS")
	}
	if e.Prefix != "user/" {
		t.Errorf("Prefix = %q, want %q", e.Prefix, "user/")
	}
	if e.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1", e.AccessCount)
	}
	if e.LastAccess.IsZero() {
		t.Error("LastAccess should not be zero")
	}
}

func TestRecord_MovesExistingToFront(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := namespace.ByBinding("USERS")
	sessions := namespace.ByID("abc")

	h := &History{}
	h.Record(users, "", now)
	h.Record(sessions, "s/", now.Add(time.Minute))
	h.Record(users, "", now.Add(2*time.Minute))

	if len(h.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.Entries))
	}
	first, _ := h.MostRecent()
	if first.Namespace.Binding != "USERS" || first.AccessCount != 2 {
		t.Errorf("most recent = %+v, want USERS accessed twice", first)
	}
	if !first.LastAccess.Equal(now.Add(2 * time.Minute)) {
		t.Errorf("LastAccess = %v, want %v", first.LastAccess, now.Add(2*time.Minute))
	}
}

func TestRecord_DistinguishesPrefixPreviewAndBasePath(t *testing.T) {
	t.Parallel()

	now := time.Now()
	ns := namespace.ByBinding("USERS")

	h := &History{}
	h.Record(ns, "a/", now)
	h.Record(ns, "b/", now)
	h.Record(ns.WithPreview(true), "a/", now)
	h.Record(ns.WithBasePath("/srv/api"), "a/", now)
	h.Record(ns.WithBasePath("/srv/api"), "a/", now)

	if len(h.Entries) != 4 {
		t.Errorf("expected 4 entries, got %d", len(h.Entries))
	}
}

func TestRecord_Caps(t *testing.T) {
	t.Parallel()

	h := &History{}
	for i := range MaxEntries + 5 {
		h.Record(namespace.ByID(string(rune('a'+i))), "", time.Now())
	}
	if len(h.Entries) != MaxEntries {
		t.Errorf("expected %d entries, got %d", MaxEntries, len(h.Entries))
	}
}

func TestMostRecent(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	if _, ok, err := MostRecent(historyFile); err != nil || ok {
		t.Fatalf("MostRecent on missing file = (_, %v, %v), want (_, false, nil)", ok, err)
	}

	for _, b := range []string{"A", "B"} {
		if err := RecordAccess(historyFile, namespace.ByBinding(b), ""); err != nil {
			t.Fatalf("RecordAccess failed: %v", err)
		}
	}

	e, ok, err := MostRecent(historyFile)
	if err != nil || !ok {
		t.Fatalf("MostRecent = (_, %v, %v)", ok, err)
	}
	if e.Namespace.Binding != "B" {
		t.Errorf("most recent binding = %q, want %q", e.Namespace.Binding, "B")
	}
}

func TestLoad_Corrupted(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(historyFile, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(h.Entries))
	}
}
