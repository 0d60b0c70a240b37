// Package cmd provides helpers for executing external commands with proper error handling.
//
// Every helper logs the command through the context logger (visible with
// --verbose) together with its duration.
//
// # Usage
//
//	// Fail with stderr as the error message:
//	out, err := cmd.OutputContext(ctx, dir, "npx", "wrangler", "whoami")
//
//	// Capture everything, including the exit code, without failing on it:
//	res, err := cmd.Capture(ctx, dir, "npx", "wrangler", "kv", "key", "list")
//
// # Design Notes
//
// kvview shells out to the wrangler CLI rather than calling the storage API
// directly, so account credentials, login state and project manifests are
// whatever wrangler already uses.
package cmd
