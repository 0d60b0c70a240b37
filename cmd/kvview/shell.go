package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/ui/static"
	"github.com/raphi011/kvview/internal/ui/styles"
)

const shellHelp = `Commands (keys are full keys, not relative to the prefix):
  ls [prefix]            list keys under prefix (default: current prefix)
  find <pattern>         fuzzy filter the current listing
  get <key>              print a value
  info <key>             show expiration and metadata
  put <key> <value>      write a value, keeping metadata and expiration
  new <key>              create an empty key
  rm <key>               delete a key of the current listing
  mv <key> <new-key>     rename a key of the current listing
  meta <key> [json]      replace metadata (no json: remove it)
  expire <key> [date]    replace expiration, RFC 3339 (no date: remove it)
  refresh [key]          drop cached data for a key or the current listing
  clear                  drop every cached listing and value
  help                   show this help
  quit                   leave the shell
`

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// shell is a line REPL over one long-lived cache, so listings, metadata and
// values are shared between commands.
type shell struct {
	svc    *kvcache.Service
	ns     namespace.Identity
	prefix string
	in     *bufio.Scanner
	out    io.Writer
}

// newShell creates a shell on store. Puts of unknown keys are confirmed by
// reading the next input line.
func newShell(store kvcache.Store, ns namespace.Identity, prefix string, in io.Reader, out io.Writer, opts ...kvcache.Option) *shell {
	sh := &shell{ns: ns, prefix: prefix, in: bufio.NewScanner(in), out: out}
	opts = append(opts, kvcache.WithBaselineResolver(sh.askCreate))
	sh.svc = kvcache.New(store, opts...)
	return sh
}

// Run reads commands until quit, end of input or ctx is cancelled.
func (sh *shell) Run(ctx context.Context) error {
	fmt.Fprintf(sh.out, "%s %s\n", styles.Bold.Render(sh.ns.String()), styles.MutedStyle.Render("(type help for commands)"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(sh.out, styles.AccentStyle.Render("kv:"+sh.prefix+">")+" ")
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		err := sh.exec(ctx, sh.in.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, styles.ErrorStyle.Render("error: "+err.Error()))
		}
	}
}

func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}

	switch name {
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "ls", "cd":
		if len(args) > 0 {
			sh.prefix = args[0]
		}
		return sh.list(ctx, "")
	case "find":
		if err := need(1, "find <pattern>"); err != nil {
			return err
		}
		return sh.list(ctx, strings.Join(args, " "))
	case "get":
		if err := need(1, "get <key>"); err != nil {
			return err
		}
		value, err := sh.svc.Get(ctx, sh.ns, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%s\n", value)
		return nil
	case "info":
		if err := need(1, "info <key>"); err != nil {
			return err
		}
		return sh.info(ctx, args[0])
	case "put":
		parts := splitArgs(line, 3)
		if len(parts) < 3 {
			return fmt.Errorf("usage: put <key> <value>")
		}
		return sh.svc.Put(ctx, sh.ns, parts[1], []byte(parts[2]))
	case "new":
		if err := need(1, "new <key>"); err != nil {
			return err
		}
		return sh.svc.Create(ctx, sh.ns, args[0])
	case "rm":
		if err := need(1, "rm <key>"); err != nil {
			return err
		}
		return sh.svc.Delete(ctx, sh.ns, args[0], sh.prefix)
	case "mv":
		if err := need(2, "mv <key> <new-key>"); err != nil {
			return err
		}
		return sh.svc.Rename(ctx, sh.ns, args[0], args[1], sh.prefix)
	case "meta":
		if err := need(1, "meta <key> [json]"); err != nil {
			return err
		}
		var input string
		if parts := splitArgs(line, 3); len(parts) == 3 {
			input = parts[2]
		}
		meta, err := format.ParseMetadata(input)
		if err != nil {
			return err
		}
		return sh.svc.SetMetadata(ctx, sh.ns, args[0], meta)
	case "expire":
		if err := need(1, "expire <key> [date]"); err != nil {
			return err
		}
		var input string
		if len(args) > 1 {
			input = args[1]
		}
		exp, err := format.ParseExpiration(input, sh.svc.Now())
		if err != nil {
			return err
		}
		return sh.svc.SetExpiration(ctx, sh.ns, args[0], exp)
	case "refresh":
		if len(args) > 0 {
			sh.svc.RefreshEntry(kvcache.EntryRef{Namespace: sh.ns, Key: args[0]})
			return nil
		}
		sh.svc.RefreshQuery(kvcache.Query{Namespace: sh.ns, Prefix: sh.prefix})
		return nil
	case "clear":
		sh.svc.ClearEntryCache(nil)
		sh.svc.ClearListCache(nil)
		return nil
	}
	return fmt.Errorf("unknown command %q (type help)", name)
}

// list prints the current listing, registering a change notice for it.
func (sh *shell) list(ctx context.Context, pattern string) error {
	prefix := sh.prefix
	entries, err := sh.svc.List(ctx, sh.ns, prefix, func() {
		fmt.Fprintln(sh.out, styles.InfoStyle.Render(fmt.Sprintf("listing %q changed", prefix)))
	})
	if err != nil {
		return err
	}
	fmt.Fprint(sh.out, static.RenderEntries(format.Filter(entries, prefix, pattern), prefix, sh.svc.Now()))
	return nil
}

func (sh *shell) info(ctx context.Context, key string) error {
	e, err := lookupEntry(ctx, sh.svc, sh.ns, key)
	if err != nil {
		return err
	}
	if exp := format.Expiration(e, sh.svc.Now()); exp != "" {
		fmt.Fprintf(sh.out, "%s (%s)\n", exp, format.ExpirationInput(e.Expiration))
	}
	lines := format.MetadataLines(e.Metadata, "  ")
	if len(lines) == 0 {
		lines = []string{format.EmptyMetadata}
	}
	fmt.Fprintln(sh.out, strings.Join(lines, "\n"))
	return nil
}

// askCreate asks on the shell's own input whether to create key.
func (sh *shell) askCreate(_ context.Context, ns namespace.Identity, key string) (kvcache.BaselineDecision, error) {
	fmt.Fprintf(sh.out, "Key %q does not exist in %s. Create it? [y/N] ", key, ns)
	if !sh.in.Scan() {
		return kvcache.Abort, sh.in.Err()
	}
	switch strings.ToLower(strings.TrimSpace(sh.in.Text())) {
	case "y", "yes":
		return kvcache.CreateNew, nil
	}
	return kvcache.Abort, nil
}

// splitArgs splits line into at most n whitespace separated fields; the last
// field keeps the rest of the line verbatim.
func splitArgs(line string, n int) []string {
	var out []string
	rest := strings.TrimSpace(line)
	for rest != "" && len(out) < n-1 {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			break
		}
		out = append(out, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}
