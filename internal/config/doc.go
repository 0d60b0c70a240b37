// Package config handles loading and validation of kvview configuration.
//
// Configuration is read from ~/.config/kvview/config.toml, overlaid by a
// per-project .kvview.toml and environment variables.
//
// # Configuration Sources (highest priority first)
//
//   - KVVIEW_WRANGLER env var: command used to run wrangler
//   - KVVIEW_DIR env var: working directory for wrangler
//   - .kvview.toml in the current directory
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - wrangler: executable command line (default: "npx wrangler")
//   - subcommand: arguments before the action (default: ["kv", "key"])
//   - dir: working directory when a query has no base_path
//   - journal: file receiving every wrangler invocation and its output
//   - content_ttl: how long fetched values stay cached (default: "60s")
//
// # Saved Queries
//
// Queries are [[queries]] tables naming exactly one of namespace_id or
// binding, plus an optional prefix, title, preview, local and base_path:
//
//	[[queries]]
//	title = "Users"
//	binding = "USERS"
//	prefix = "user/"
//
// Local queries are appended to the global ones.
//
// # Worker Manifests
//
// [LoadManifest] reads the kv_namespaces of wrangler.toml or wrangler.json so
// bindings can be listed without configuring them.
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory. Only base_path in
// a local file may be relative; it is resolved against that file's directory.
package config
