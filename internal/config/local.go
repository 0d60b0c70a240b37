package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project config file name.
const LocalConfigFileName = ".kvview.toml"

// LocalConfig holds per-project configuration overrides from .kvview.toml.
// Zero values indicate "not set" (inherit from global).
type LocalConfig struct {
	Wrangler   string        `toml:"wrangler"`
	Subcommand []string      `toml:"subcommand"`
	Dir        string        `toml:"dir"`
	Journal    string        `toml:"journal"`
	ContentTTL string        `toml:"content_ttl"`
	Saved      []QueryConfig `toml:"queries"` // appended to global
}

// LoadLocal reads a per-project .kvview.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
//
// Relative base_path values are resolved against dir.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	for i := range local.Saved {
		q := &local.Saved[i]
		if err := validateQuery(i, *q, configFile); err != nil {
			return nil, err
		}
		if q.BasePath != "" && q.BasePath[0] != '~' && !filepath.IsAbs(q.BasePath) {
			q.BasePath = filepath.Join(dir, q.BasePath)
		}
		expanded, err := expandPath(q.BasePath)
		if err != nil {
			return nil, err
		}
		q.BasePath = expanded
	}
	if local.ContentTTL != "" {
		if _, err := parseTTL(local.ContentTTL, configFile); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct{ name, value string }{{"dir", local.Dir}, {"journal", local.Journal}} {
		if err := ValidatePath(f.value, f.name); err != nil {
			return nil, withContext(err, configFile)
		}
	}

	return &local, nil
}

// defaultLocalConfig is the template for kvview config init --local
const defaultLocalConfig = `# kvview local config (per-project overrides)
# Place this file next to wrangler.toml.
# Settings here override ~/.config/kvview/config.toml; queries are added to
# the global ones. A relative base_path is resolved against this directory.

# wrangler = "pnpx wrangler"
# content_ttl = "30s"

# [[queries]]
# title = "Feature flags"
# binding = "FLAGS"
# prefix = "flag/"
# base_path = "."
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal writes the local template into dir.
func InitLocal(dir string, force bool) (string, error) {
	path := filepath.Join(dir, LocalConfigFileName)
	return path, writeTemplate(path, defaultLocalConfig, force)
}
