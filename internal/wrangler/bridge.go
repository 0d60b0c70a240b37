package wrangler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/raphi011/kvview/internal/cmd"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
)

// DefaultExecutable runs wrangler through the npm package runner.
const DefaultExecutable = "npx wrangler"

// DefaultSubcommand selects the key commands of wrangler's kv namespace.
var DefaultSubcommand = []string{"kv", "key"}

// packageRunners need an auto-confirm flag so they never stop to ask before
// installing the package.
var packageRunners = map[string]string{
	"npx":  "--yes",
	"pnpx": "--yes",
	"bunx": "--bun",
}

// ErrNoEmptyFile is returned when an empty value is written but no
// placeholder file provider is configured.
var ErrNoEmptyFile = errors.New("no placeholder file for empty values")

// Config selects the store executable.
type Config struct {
	// Executable is a command line, e.g. "npx wrangler" or "/usr/bin/wrangler".
	Executable string
	// Subcommand is inserted before the action, e.g. ["kv", "key"].
	Subcommand []string
	// Dir is the working directory when the namespace carries no base path.
	Dir string
}

// Bridge invokes the store command. It is safe for concurrent use.
type Bridge struct {
	name      string
	prefix    []string
	sub       []string
	dir       string
	runner    cmd.Runner
	emptyFile func() (string, error)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRunner replaces the process runner.
func WithRunner(r cmd.Runner) Option {
	return func(b *Bridge) { b.runner = r }
}

// WithEmptyFile sets the provider of the placeholder file used to write empty
// values, which cannot be passed inline.
func WithEmptyFile(fn func() (string, error)) Option {
	return func(b *Bridge) { b.emptyFile = fn }
}

// New creates a Bridge. Zero fields of cfg take their defaults.
func New(cfg Config, opts ...Option) *Bridge {
	exe := strings.Fields(cfg.Executable)
	if len(exe) == 0 {
		exe = strings.Fields(DefaultExecutable)
	}
	sub := cfg.Subcommand
	if len(sub) == 0 {
		sub = DefaultSubcommand
	}

	b := &Bridge{
		name:   exe[0],
		sub:    append([]string(nil), sub...),
		dir:    cfg.Dir,
		runner: cmd.Exec{},
	}
	if flag, ok := packageRunners[filepath.Base(exe[0])]; ok {
		b.prefix = append(b.prefix, flag)
	}
	b.prefix = append(b.prefix, exe[1:]...)

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Invoke runs op against ns and returns the captured stdout.
func (b *Bridge) Invoke(ctx context.Context, ns namespace.Identity, op Op) ([]byte, error) {
	args, cleanup, err := b.args(ns, op)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dir := b.dir
	if ns.BasePath != "" {
		dir = ns.BasePath
	}

	journal := log.JournalFromContext(ctx)
	label := b.name + " " + strings.Join(args, " ")
	journal.Spawn(label)

	res, err := b.runner.Capture(ctx, dir, b.name, args...)
	journal.Ended(label, res.Stdout, res.Stderr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op.action(), ns, err)
	}
	if res.ExitCode != 0 {
		return nil, &StoreCommandFailedError{
			Args:     append([]string{b.name}, args...),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
		}
	}
	return res.Stdout, nil
}

// Run runs a top-level wrangler command such as "whoami" in the bridge's
// working directory. A non-zero exit fails with stderr as the message.
func (b *Bridge) Run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, b.prefix...), args...)
	return cmd.OutputContext(ctx, b.dir, b.name, full...)
}

// Args returns the arguments (after the executable) Invoke would use for op.
// Temporary value files are removed before Args returns.
func (b *Bridge) Args(ns namespace.Identity, op Op) ([]string, error) {
	args, cleanup, err := b.args(ns, op)
	cleanup()
	return args, err
}

func (b *Bridge) args(ns namespace.Identity, op Op) ([]string, func(), error) {
	noop := func() {}
	if err := ns.Validate(); err != nil {
		return nil, noop, err
	}

	args := append([]string{}, b.prefix...)
	args = append(args, b.sub...)
	args = append(args, op.action())
	cleanup := noop

	switch op := op.(type) {
	case ListOp:
		if op.Prefix != "" {
			args = append(args, "--prefix", op.Prefix)
		}
	case GetOp:
		args = append(args, op.Key)
	case DeleteOp:
		args = append(args, op.Key)
	case PutOp:
		args = append(args, op.Key)
		switch {
		case len(op.Value) == 0:
			if b.emptyFile == nil {
				return nil, noop, ErrNoEmptyFile
			}
			path, err := b.emptyFile()
			if err != nil {
				return nil, noop, fmt.Errorf("placeholder file: %w", err)
			}
			args = append(args, "--path", path)
		case needsFile(op.Value):
			path, err := writeTemp(op.Value)
			if err != nil {
				return nil, noop, err
			}
			args = append(args, "--path", path)
			cleanup = func() { _ = os.Remove(path) }
		default:
			args = append(args, string(op.Value))
		}
		if op.Metadata != nil {
			args = append(args, "--metadata", op.Metadata.String())
		}
		if op.Expiration != nil {
			args = append(args, "--expiration", strconv.FormatInt(*op.Expiration, 10))
		}
	default:
		return nil, noop, fmt.Errorf("unsupported operation %T", op)
	}

	return append(args, selectorArgs(ns)...), cleanup, nil
}

// selectorArgs renders the namespace selection flags.
func selectorArgs(ns namespace.Identity) []string {
	var args []string
	switch ns.Kind() {
	case namespace.KindID:
		args = append(args, "--namespace-id", ns.ID)
	case namespace.KindBinding:
		args = append(args, "--binding", ns.Binding)
	}

	switch {
	case ns.Preview != nil && *ns.Preview:
		args = append(args, "--preview")
	case ns.Preview != nil:
		args = append(args, "--preview", "false")
	case ns.Local:
		args = append(args, "--preview")
	}

	if ns.Local {
		args = append(args, "--local")
	}
	return args
}

// needsFile reports whether value cannot travel as a command line argument.
func needsFile(value []byte) bool {
	return bytes.IndexByte(value, 0) >= 0 || !utf8.Valid(value)
}

func writeTemp(value []byte) (string, error) {
	f, err := os.CreateTemp("", "kvview-value-*")
	if err != nil {
		return "", fmt.Errorf("create value file: %w", err)
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write value file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write value file: %w", err)
	}
	return f.Name(), nil
}
