package kvcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

type storedValue struct {
	value      []byte
	metadata   *jsonvalue.Value
	expiration *int64
}

// fakeStore is an in-memory backing store that answers like the store
// command would.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]map[string]storedValue // namespace scope -> key -> value
	ops  []wrangler.Op

	// listOutput, when set, replaces the output of every list.
	listOutput string
	// extraListKeys are appended to every list response regardless of prefix.
	extraListKeys []string
	// failPrefix makes lists of exactly this prefix fail.
	failPrefix *string

	putErr    error
	getErr    error
	deleteErr error

	// getGate, when set, blocks get operations until closed.
	getGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]map[string]storedValue)}
}

func (f *fakeStore) scope(ns namespace.Identity) string {
	return ns.CacheKey("")
}

func (f *fakeStore) seed(ns namespace.Identity, key, value string, metadata string, expiration int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sv := storedValue{value: []byte(value)}
	if metadata != "" {
		m := jsonvalue.MustParse(metadata)
		sv.metadata = &m
	}
	if expiration != 0 {
		sv.expiration = &expiration
	}
	if f.data[f.scope(ns)] == nil {
		f.data[f.scope(ns)] = make(map[string]storedValue)
	}
	f.data[f.scope(ns)][key] = sv
}

func (f *fakeStore) Invoke(_ context.Context, ns namespace.Identity, op wrangler.Op) ([]byte, error) {
	if _, ok := op.(wrangler.GetOp); ok && f.getGate != nil {
		<-f.getGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	values := f.data[f.scope(ns)]

	switch op := op.(type) {
	case wrangler.ListOp:
		if f.failPrefix != nil && *f.failPrefix == op.Prefix {
			return nil, fmt.Errorf("list %q refused", op.Prefix)
		}
		if f.listOutput != "" {
			return []byte(f.listOutput), nil
		}
		type item struct {
			Name       string           `json:"name"`
			Expiration *int64           `json:"expiration,omitempty"`
			Metadata   *jsonvalue.Value `json:"metadata,omitempty"`
		}
		items := []item{}
		for k, v := range values {
			if strings.HasPrefix(k, op.Prefix) {
				items = append(items, item{Name: k, Expiration: v.expiration, Metadata: v.metadata})
			}
		}
		for _, k := range f.extraListKeys {
			items = append(items, item{Name: k})
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		return json.Marshal(items)
	case wrangler.GetOp:
		if f.getErr != nil {
			return nil, f.getErr
		}
		v, ok := values[op.Key]
		if !ok {
			return nil, fmt.Errorf("key %q not found", op.Key)
		}
		return v.value, nil
	case wrangler.PutOp:
		if f.putErr != nil {
			return nil, f.putErr
		}
		if f.data[f.scope(ns)] == nil {
			f.data[f.scope(ns)] = make(map[string]storedValue)
		}
		f.data[f.scope(ns)][op.Key] = storedValue{value: op.Value, metadata: op.Metadata, expiration: op.Expiration}
		return nil, nil
	case wrangler.DeleteOp:
		if f.deleteErr != nil {
			return nil, f.deleteErr
		}
		delete(values, op.Key)
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected op %T", op)
}

// count returns how many operations of the given kind were invoked.
func (f *fakeStore) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range f.ops {
		if fmt.Sprintf("%T", op) == "wrangler."+kind {
			n++
		}
	}
	return n
}

func (f *fakeStore) lastPut() (wrangler.PutOp, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.ops) - 1; i >= 0; i-- {
		if p, ok := f.ops[i].(wrangler.PutOp); ok {
			return p, true
		}
	}
	return wrangler.PutOp{}, false
}

func (f *fakeStore) lastList() (wrangler.ListOp, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.ops) - 1; i >= 0; i-- {
		if l, ok := f.ops[i].(wrangler.ListOp); ok {
			return l, true
		}
	}
	return wrangler.ListOp{}, false
}

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer

	// ignoreStop makes Stop a no-op so stale timers still fire.
	ignoreStop bool
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.clock.ignoreStop {
		return false
	}
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func int64Ptr(n int64) *int64 { return &n }

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
