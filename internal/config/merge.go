package config

import "slices"

// MergeLocal merges a local per-project config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) (*Config, error) {
	if local == nil {
		return global, nil
	}

	merged := *global
	merged.Subcommand = slices.Clone(global.Subcommand)

	if local.Wrangler != "" {
		merged.Wrangler = local.Wrangler
	}
	if len(local.Subcommand) > 0 {
		merged.Subcommand = slices.Clone(local.Subcommand)
	}
	if local.Dir != "" {
		dir, err := expandPath(local.Dir)
		if err != nil {
			return nil, err
		}
		merged.Dir = dir
	}
	if local.Journal != "" {
		journal, err := expandPath(local.Journal)
		if err != nil {
			return nil, err
		}
		merged.Journal = journal
	}
	if local.ContentTTL != "" {
		ttl, err := parseTTL(local.ContentTTL, LocalConfigFileName)
		if err != nil {
			return nil, err
		}
		merged.ContentTTL = local.ContentTTL
		merged.TTL = ttl
	}

	// Queries append: global first, then local.
	merged.Saved = append(slices.Clone(global.Saved), local.Saved...)

	return &merged, nil
}
