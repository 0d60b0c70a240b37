package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

// QueryConfig is one saved [[queries]] table.
type QueryConfig struct {
	Title       string `toml:"title"`
	NamespaceID string `toml:"namespace_id"`
	Binding     string `toml:"binding"`
	Preview     *bool  `toml:"preview"` // unset = same as local
	Local       bool   `toml:"local"`
	BasePath    string `toml:"base_path"` // directory containing wrangler.toml
	Prefix      string `toml:"prefix"`
}

// Namespace returns the namespace identity the query selects.
func (q QueryConfig) Namespace() namespace.Identity {
	ns := namespace.Identity{
		ID:       q.NamespaceID,
		Binding:  q.Binding,
		Local:    q.Local,
		BasePath: q.BasePath,
	}
	if q.Preview != nil {
		ns = ns.WithPreview(*q.Preview)
	}
	return ns
}

// ThemeConfig selects the UI colors.
type ThemeConfig struct {
	Name string `toml:"name"` // see ValidThemeNames
	Mode string `toml:"mode"` // "auto", "light" or "dark"
}

// Config holds the kvview configuration
type Config struct {
	Wrangler   string        `toml:"wrangler"`    // executable command line
	Subcommand []string      `toml:"subcommand"`  // inserted before the action
	Dir        string        `toml:"dir"`         // working directory for wrangler
	Journal    string        `toml:"journal"`     // command journal file
	ContentTTL string        `toml:"content_ttl"` // how long values stay cached
	Theme      ThemeConfig   `toml:"theme"`
	Saved      []QueryConfig `toml:"queries"`

	// TTL is ContentTTL parsed by Load.
	TTL time.Duration `toml:"-"`
}

// DefaultContentTTL is the default content_ttl value.
const DefaultContentTTL = "60s"

// Default returns the default configuration
func Default() Config {
	return Config{
		Wrangler:   wrangler.DefaultExecutable,
		Subcommand: append([]string(nil), wrangler.DefaultSubcommand...),
		ContentTTL: DefaultContentTTL,
		TTL:        kvcache.DefaultContentTTL,
	}
}

// Bridge returns the wrangler bridge settings.
func (c *Config) Bridge() wrangler.Config {
	return wrangler.Config{
		Executable: c.Wrangler,
		Subcommand: c.Subcommand,
		Dir:        c.Dir,
	}
}

var _ kvcache.QuerySource = (*Config)(nil)

// Queries returns the saved queries with display titles. Untitled queries
// are named after their prefix, or "Query N" when the prefix is empty.
func (c *Config) Queries() []kvcache.Query {
	out := make([]kvcache.Query, len(c.Saved))
	for i, q := range c.Saved {
		title := q.Title
		if title == "" {
			title = q.Prefix
		}
		if title == "" {
			title = "Query " + strconv.Itoa(i+1)
		}
		out[i] = kvcache.Query{Namespace: q.Namespace(), Prefix: q.Prefix, Title: title}
	}
	return out
}

// FindQuery returns the saved query with the given title.
func (c *Config) FindQuery(title string) (kvcache.Query, bool) {
	for _, q := range c.Queries() {
		if q.Title == title {
			return q, true
		}
	}
	return kvcache.Query{}, false
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the global config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kvview", "config.toml"), nil
}

// Load reads config from ~/.config/kvview/config.toml and applies the
// KVVIEW_WRANGLER and KVVIEW_DIR environment overrides.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		return cfg, applyEnv(&cfg, os.Getenv)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Default(), err
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFile reads and validates a config file. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.normalize(""); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("KVVIEW_WRANGLER"); v != "" {
		cfg.Wrangler = v
	}
	if v := getenv("KVVIEW_DIR"); v != "" {
		if err := ValidatePath(v, "KVVIEW_DIR"); err != nil {
			return err
		}
		expanded, err := expandPath(v)
		if err != nil {
			return fmt.Errorf("expand KVVIEW_DIR: %w", err)
		}
		cfg.Dir = expanded
	}
	return nil
}

// normalize validates cfg, expands ~ in path fields and fills defaults.
// contextInfo names the file in error messages.
func (c *Config) normalize(contextInfo string) error {
	if err := validatePaths(c, contextInfo); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return withContext(err, contextInfo)
	}
	if err := validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return withContext(err, contextInfo)
	}
	for _, field := range []*string{&c.Dir, &c.Journal} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	for i := range c.Saved {
		if err := validateQuery(i, c.Saved[i], contextInfo); err != nil {
			return err
		}
		expanded, err := expandPath(c.Saved[i].BasePath)
		if err != nil {
			return err
		}
		c.Saved[i].BasePath = expanded
	}

	if c.Wrangler == "" {
		c.Wrangler = wrangler.DefaultExecutable
	}
	if len(c.Subcommand) == 0 {
		c.Subcommand = append([]string(nil), wrangler.DefaultSubcommand...)
	}
	if c.ContentTTL == "" {
		c.ContentTTL = DefaultContentTTL
	}
	ttl, err := parseTTL(c.ContentTTL, contextInfo)
	if err != nil {
		return err
	}
	c.TTL = ttl
	return nil
}

const defaultConfig = `# kvview configuration

# Command used to run wrangler. Package runners (npx, pnpx, bunx) are
# given their auto-confirm flag automatically.
# wrangler = "npx wrangler"

# Arguments inserted before the key action (list, get, put, delete)
# subcommand = ["kv", "key"]

# Working directory for wrangler when a query has no base_path
# Must be an absolute path or start with ~
# dir = "~/Code/my-worker"

# Append every wrangler invocation and its output to this file
# journal = "~/.kvview/wrangler.log"

# How long fetched values stay cached; matters most in "kvview shell"
# content_ttl = "60s"

# Colors: "default", "none", "nord" or "orange"; mode "auto", "light" or "dark"
# [theme]
# name = "orange"
# mode = "auto"

# Saved queries, selected with --query TITLE or loaded together by "list --all".
# Each query names exactly one of namespace_id or binding.
#
# [[queries]]
# title = "Users"
# binding = "USERS"
# prefix = "user/"
# base_path = "~/Code/my-worker"
#
# [[queries]]
# title = "Local sessions"
# namespace_id = "0f2ac74b498b48028cb68387c421e279"
# local = true
# preview = false
`

// DefaultConfig returns the commented default global config template.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/kvview/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, writeTemplate(path, defaultConfig, force)
}

func writeTemplate(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
