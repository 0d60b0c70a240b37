package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != nil {
		t.Fatalf("expected nil, got %+v", local)
	}
}

func TestLoadLocal_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LocalConfigFileName), "")

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local == nil {
		t.Fatal("expected non-nil local config for empty file")
	}
}

func TestLoadLocal_RelativeBasePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LocalConfigFileName), `
wrangler = "pnpx wrangler"

[[queries]]
binding = "FLAGS"
base_path = "."

[[queries]]
binding = "OTHER"
base_path = "worker"
`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.Wrangler != "pnpx wrangler" {
		t.Errorf("Wrangler = %q", local.Wrangler)
	}
	if got := local.Saved[0].BasePath; got != dir {
		t.Errorf("Saved[0].BasePath = %q, want %q", got, dir)
	}
	if got, want := local.Saved[1].BasePath, filepath.Join(dir, "worker"); got != want {
		t.Errorf("Saved[1].BasePath = %q, want %q", got, want)
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "parse", content: "[[queries]", wantErr: "failed to parse local config"},
		{name: "selector", content: "[[queries]]\nprefix = \"x\"", wantErr: "invalid queries[0]"},
		{name: "ttl", content: `content_ttl = "0s"`, wantErr: "must be positive"},
		{name: "dir", content: `dir = "rel"`, wantErr: "dir must be absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, LocalConfigFileName), tt.content)

			_, err := LoadLocal(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), LocalConfigFileName) {
				t.Errorf("error = %q, want it to name the file", err)
			}
		})
	}
}

func TestInitLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := InitLocal(dir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != DefaultLocalConfig() {
		t.Error("written file differs from template")
	}

	local, err := LoadLocal(dir)
	if err != nil || local == nil {
		t.Fatalf("LoadLocal after init = %v, %v", local, err)
	}
}
