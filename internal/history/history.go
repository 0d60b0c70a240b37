// Package history remembers the namespaces kvview was pointed at, so a
// command run without namespace flags can return to the last one.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/storage"
)

// MaxEntries is the number of targets kept.
const MaxEntries = 20

// Entry is one recently used namespace and prefix.
type Entry struct {
	Namespace   namespace.Identity `json:"namespace"`
	Prefix      string             `json:"prefix,omitempty"`
	LastAccess  time.Time          `json:"last_access"`
	AccessCount int                `json:"access_count"`
}

// History holds entries, most recent first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns ~/.kvview/history.json.
func Path() (string, error) {
	dir, err := storage.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Load reads the history at path. A missing or corrupted file is empty.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		// Corrupted - start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Record moves ns and prefix to the front, counting the access.
func (h *History) Record(ns namespace.Identity, prefix string, now time.Time) {
	e := Entry{Namespace: ns, Prefix: prefix}
	i := slices.IndexFunc(h.Entries, func(x Entry) bool {
		return x.Prefix == prefix && x.Namespace.Equal(ns) && x.Namespace.BasePath == ns.BasePath
	})
	if i >= 0 {
		e = h.Entries[i]
		h.Entries = slices.Delete(h.Entries, i, i+1)
	}
	e.LastAccess = now
	e.AccessCount++
	h.Entries = slices.Insert(h.Entries, 0, e)
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[:MaxEntries]
	}
}

// MostRecent returns the last recorded entry.
func (h *History) MostRecent() (Entry, bool) {
	if len(h.Entries) == 0 {
		return Entry{}, false
	}
	return h.Entries[0], true
}

// RecordAccess records ns and prefix in the history file at path. Concurrent
// kvview processes are serialized by a lock file next to it.
func RecordAccess(path string, ns namespace.Identity, prefix string) error {
	return storage.WithLock(path+".lock", func() error {
		h, err := Load(path)
		if err != nil {
			return err
		}
		h.Record(ns, prefix, time.Now())
		return storage.SaveJSON(path, h)
	})
}

// MostRecent returns the last recorded entry of the history file at path.
func MostRecent(path string) (Entry, bool, error) {
	h, err := Load(path)
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := h.MostRecent()
	return e, ok, nil
}
