package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/namespace"
)

// lookupEntry lists key as its own prefix and returns its entry.
func lookupEntry(ctx context.Context, svc *kvcache.Service, ns namespace.Identity, key string) (kvcache.Entry, error) {
	entries, err := svc.List(ctx, ns, key, nil)
	if err != nil {
		return kvcache.Entry{}, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e, nil
		}
	}
	return kvcache.Entry{}, fmt.Errorf("key %q not found in %s", key, ns)
}

// readValue picks the value of a put: the argument, the file, or piped stdin.
func readValue(args []string, file string, stdin io.Reader, stdinIsTerminal bool) ([]byte, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, fmt.Errorf("pass either a value or --file, not both")
	case len(args) > 0:
		return []byte(args[0]), nil
	case file == "-":
		return io.ReadAll(stdin)
	case file != "":
		return os.ReadFile(file)
	case !stdinIsTerminal:
		return io.ReadAll(stdin)
	}
	return nil, fmt.Errorf("no value: pass it as an argument, with --file, or on stdin")
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
