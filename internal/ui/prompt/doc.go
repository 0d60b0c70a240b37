// Package prompt provides simple interactive prompts.
//
// Prompts render to stderr so command output on stdout can be piped. Callers
// check [Interactive] first and fall back to flags when it reports false.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input with validation
//   - [Select]: Single selection from a list
package prompt
