// Package storage provides file helpers for kvview's state in ~/.kvview/
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// AppDir returns the path to ~/.kvview/, creating it if needed
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".kvview")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// DefaultJournalPath returns ~/.kvview/wrangler.log.
func DefaultJournalPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wrangler.log"), nil
}

// SaveJSON atomically writes data as JSON to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic operation.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, jsonData, 0o600); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// LoadJSON reads JSON from the specified path into dest.
// Returns os.ErrNotExist if file doesn't exist (caller should handle).
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// EmptyFile lazily creates a zero-length file in a directory and returns its
// path on every call. Empty values are written from it because they cannot
// be passed inline.
type EmptyFile struct {
	dir  func() (string, error)
	once sync.Once
	path string
	err  error
}

// NewEmptyFile returns an EmptyFile placed in the directory returned by dir.
func NewEmptyFile(dir func() (string, error)) *EmptyFile {
	return &EmptyFile{dir: dir}
}

// Path creates the file on first use.
func (f *EmptyFile) Path() (string, error) {
	f.once.Do(func() {
		dir, err := f.dir()
		if err != nil {
			f.err = err
			return
		}
		path := filepath.Join(dir, "empty")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			f.err = err
			return
		}
		f.path = path
	})
	return f.path, f.err
}
