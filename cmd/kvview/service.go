package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/storage"
	"github.com/raphi011/kvview/internal/ui/progress"
	"github.com/raphi011/kvview/internal/ui/prompt"
	"github.com/raphi011/kvview/internal/wrangler"
)

// errCancelled is returned when the user backs out of a prompt.
var errCancelled = errors.New("cancelled")

// emptyFile is the placeholder wrangler reads empty values from.
var emptyFile = storage.NewEmptyFile(storage.AppDir)

func newBridge(cfg *config.Config) *wrangler.Bridge {
	return wrangler.New(cfg.Bridge(), wrangler.WithEmptyFile(emptyFile.Path))
}

// newService builds the cache for one command run. Puts of unknown keys ask
// for confirmation when a terminal is attached.
func newService(ctx context.Context, store kvcache.Store) *kvcache.Service {
	cfg := config.FromContext(ctx)
	return kvcache.New(store,
		kvcache.WithContentTTL(cfg.TTL),
		kvcache.WithBaselineResolver(createResolver(prompt.Interactive, prompt.Confirm)),
	)
}

// defaultStore is the bridge, behind a spinner unless --quiet.
func defaultStore(ctx context.Context) kvcache.Store {
	var store kvcache.Store = newBridge(config.FromContext(ctx))
	if !quiet {
		store = spinnerStore{store: store}
	}
	return store
}

// confirmFunc asks a yes/no question, see [prompt.Confirm].
type confirmFunc func(question string, opts ...prompt.ConfirmOption) (prompt.ConfirmResult, error)

// createResolver decides what a put of a key missing from the listing does.
// Without a terminal the put is aborted; otherwise the user is asked whether
// to create the key.
func createResolver(interactive func() bool, confirm confirmFunc) kvcache.BaselineResolver {
	return func(_ context.Context, ns namespace.Identity, key string) (kvcache.BaselineDecision, error) {
		if !interactive() {
			return kvcache.Abort, nil
		}
		res, err := confirm(
			fmt.Sprintf("Key %q does not exist in %s. Create it?", key, ns),
			prompt.WithDetail("It is written without metadata or expiration."),
		)
		switch {
		case err != nil:
			return kvcache.Abort, err
		case res.Cancelled:
			return kvcache.Abort, errCancelled
		case res.Confirmed:
			return kvcache.CreateNew, nil
		}
		return kvcache.Abort, nil
	}
}

// describeOp is the spinner and progress text for op.
func describeOp(ns namespace.Identity, op wrangler.Op) string {
	switch op := op.(type) {
	case wrangler.ListOp:
		if op.Prefix == "" {
			return fmt.Sprintf("Listing %s", ns)
		}
		return fmt.Sprintf("Listing %s in %s", op.Prefix, ns)
	case wrangler.GetOp:
		return fmt.Sprintf("Reading %s", op.Key)
	case wrangler.PutOp:
		return fmt.Sprintf("Writing %s", op.Key)
	case wrangler.DeleteOp:
		return fmt.Sprintf("Deleting %s", op.Key)
	}
	return fmt.Sprintf("Running wrangler for %s", ns)
}

// spinnerStore shows a spinner on stderr while a wrangler command runs.
type spinnerStore struct {
	store kvcache.Store
}

func (s spinnerStore) Invoke(ctx context.Context, ns namespace.Identity, op wrangler.Op) ([]byte, error) {
	sp := progress.NewSpinner(describeOp(ns, op))
	sp.Start()
	defer sp.Stop()
	return s.store.Invoke(ctx, ns, op)
}

// progressStore advances a progress bar each time a command finishes. It is
// used where commands run concurrently and a single spinner would flicker.
// Failed commands are tallied so the caller can report them.
type progressStore struct {
	store kvcache.Store
	bar   *progress.ProgressBar
}

func newProgressStore(store kvcache.Store, total int, message string) *progressStore {
	return &progressStore{store: store, bar: progress.NewProgressBar(total, message)}
}

func (p *progressStore) Invoke(ctx context.Context, ns namespace.Identity, op wrangler.Op) ([]byte, error) {
	out, err := p.store.Invoke(ctx, ns, op)
	p.bar.Step(describeOp(ns, op), err)
	return out, err
}

func (p *progressStore) Start() {
	if !quiet {
		p.bar.Start()
	}
}

// Stop removes the bar and returns how many commands ran and failed.
func (p *progressStore) Stop() progress.Tally { return p.bar.Stop() }
