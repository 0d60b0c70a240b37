package kvcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

// DefaultContentTTL is how long a fetched or written value stays cached.
const DefaultContentTTL = 60 * time.Second

// Store executes one operation against the backing store.
// Implemented by *wrangler.Bridge.
type Store interface {
	Invoke(ctx context.Context, ns namespace.Identity, op wrangler.Op) ([]byte, error)
}

// Entry is one key of a list.
type Entry struct {
	Key        string           `json:"key"`
	Expiration *int64           `json:"expiration,omitempty"` // epoch seconds
	Metadata   *jsonvalue.Value `json:"metadata,omitempty"`
}

// TTL returns the time left until the entry expires.
func (e Entry) TTL(now time.Time) (time.Duration, bool) {
	if e.Expiration == nil {
		return 0, false
	}
	return time.Unix(*e.Expiration, 0).Sub(now), true
}

// Query is a configured (namespace, prefix) list with a display title.
type Query struct {
	Namespace namespace.Identity
	Prefix    string
	Title     string
}

// QuerySource provides the configured queries.
type QuerySource interface {
	Queries() []Query
}

// QueryList is a fixed QuerySource.
type QueryList []Query

// Queries implements QuerySource.
func (l QueryList) Queries() []Query { return l }

// EntryRef addresses one key.
type EntryRef struct {
	Namespace namespace.Identity
	Key       string
}

// BaselineDecision is the answer to a missing baseline.
type BaselineDecision int

const (
	// Abort fails the put with a *MissingBaselineError.
	Abort BaselineDecision = iota
	// CreateNew proceeds with no metadata and no expiration.
	CreateNew
)

// BaselineResolver decides what a put does when the key's prior metadata and
// expiration cannot be found.
type BaselineResolver func(ctx context.Context, ns namespace.Identity, key string) (BaselineDecision, error)

type listRecord struct {
	ns       namespace.Identity
	prefix   string
	entries  []Entry
	onChange func()
}

// Service is the multi-tier cache in front of a Store.
type Service struct {
	store    Store
	clock    Clock
	ttl      time.Duration
	baseline BaselineResolver

	mu         sync.Mutex
	lists      map[string]*listRecord
	metadata   map[string]*jsonvalue.Value
	expiration map[string]*int64
	content    map[string]*contentEntry
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock used for content eviction.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithContentTTL sets how long values stay cached.
func WithContentTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithBaselineResolver sets the default decision for puts of unknown keys.
// Without one, such puts fail with a *MissingBaselineError.
func WithBaselineResolver(r BaselineResolver) Option {
	return func(s *Service) { s.baseline = r }
}

// New creates an empty Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		clock:      SystemClock{},
		ttl:        DefaultContentTTL,
		lists:      make(map[string]*listRecord),
		metadata:   make(map[string]*jsonvalue.Value),
		expiration: make(map[string]*int64),
		content:    make(map[string]*contentEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) invoke(ctx context.Context, ns namespace.Identity, op wrangler.Op) ([]byte, error) {
	out, err := s.store.Invoke(ctx, ns, op)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", describe(op), err)
	}
	return out, nil
}

func describe(op wrangler.Op) string {
	switch op := op.(type) {
	case wrangler.ListOp:
		return fmt.Sprintf("list %q", op.Prefix)
	case wrangler.GetOp:
		return fmt.Sprintf("get %q", op.Key)
	case wrangler.PutOp:
		return fmt.Sprintf("put %q", op.Key)
	case wrangler.DeleteOp:
		return fmt.Sprintf("delete %q", op.Key)
	default:
		return fmt.Sprintf("%T", op)
	}
}

func fire(callbacks []func()) {
	for _, cb := range callbacks {
		cb()
	}
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneValue(p *jsonvalue.Value) *jsonvalue.Value {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
