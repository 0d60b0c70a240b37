package config

import "context"

type configKey struct{}

// Resolve loads the global config and merges the .kvview.toml found in dir.
func Resolve(dir string) (*Config, error) {
	global, err := Load()
	if err != nil {
		return nil, err
	}
	local, err := LoadLocal(dir)
	if err != nil {
		return nil, err
	}
	return MergeLocal(&global, local)
}

// WithConfig returns a new context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from ctx, or the defaults when none is stored.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}
