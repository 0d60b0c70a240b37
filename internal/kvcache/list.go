package kvcache

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

// List returns the entries of ns under prefix, in stored order.
//
// A cached list is returned with each entry's metadata and expiration taken
// from the side caches (absent when those miss) and onChange replaces the
// record's callback. Otherwise the store is listed, entries outside prefix are
// dropped, the side caches are seeded and a new record is stored with onChange.
func (s *Service) List(ctx context.Context, ns namespace.Identity, prefix string, onChange func()) ([]Entry, error) {
	key := ns.CacheKey(prefix)

	s.mu.Lock()
	if rec, ok := s.lists[key]; ok {
		rec.onChange = onChange
		out := s.mergeLocked(rec)
		s.mu.Unlock()
		log.FromContext(ctx).Debug("list cache hit", "namespace", ns, "prefix", prefix, "entries", len(out))
		return out, nil
	}
	s.mu.Unlock()

	entries, err := s.fetchList(ctx, ns, prefix)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(ns, entries)
	rec := &listRecord{ns: ns, prefix: prefix, entries: entries, onChange: onChange}
	s.lists[key] = rec
	return s.mergeLocked(rec), nil
}

// Cached returns the cached list of ns under prefix without contacting the
// store. ok is false when no record exists.
func (s *Service) Cached(ns namespace.Identity, prefix string) (entries []Entry, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lists[ns.CacheKey(prefix)]
	if !ok {
		return nil, false
	}
	return s.mergeLocked(rec), true
}

// QueryResult is the outcome of loading one query.
type QueryResult struct {
	Query   Query
	Entries []Entry
	Err     error
}

// LoadQueries lists every query of src concurrently, at most limit at a time
// (unlimited when limit <= 0). Results keep the order of the queries and
// carry per-query errors; onChange receives the query whose list changed.
func (s *Service) LoadQueries(ctx context.Context, src QuerySource, limit int, onChange func(Query)) []QueryResult {
	queries := src.Queries()
	results := make([]QueryResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, q := range queries {
		g.Go(func() error {
			var cb func()
			if onChange != nil {
				cb = func() { onChange(q) }
			}
			entries, err := s.List(ctx, q.Namespace, q.Prefix, cb)
			results[i] = QueryResult{Query: q, Entries: entries, Err: err}
			return nil // per-query errors are reported in results
		})
	}
	_ = g.Wait()

	return results
}

// fetchList lists the store and keeps the entries that really start with
// prefix, in returned order.
func (s *Service) fetchList(ctx context.Context, ns namespace.Identity, prefix string) ([]Entry, error) {
	raw, err := s.invoke(ctx, ns, wrangler.ListOp{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	items, err := wrangler.ParseList(raw)
	if err != nil {
		return nil, err
	}

	l := log.FromContext(ctx)
	journal := log.JournalFromContext(ctx)
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if !strings.HasPrefix(item.Name, prefix) {
			l.Debug("dropping list entry outside prefix", "key", item.Name, "prefix", prefix)
			journal.Notef("dropped list entry %q: outside prefix %q of %s", item.Name, prefix, ns)
			continue
		}
		entries = append(entries, Entry{Key: item.Name, Expiration: item.Expiration, Metadata: item.Metadata})
	}
	return entries, nil
}

// seedLocked records the listed metadata and expiration, absent values included.
func (s *Service) seedLocked(ns namespace.Identity, entries []Entry) {
	for _, e := range entries {
		ck := ns.CacheKey(e.Key)
		s.metadata[ck] = cloneValue(e.Metadata)
		s.expiration[ck] = cloneInt(e.Expiration)
	}
}

// mergeLocked copies rec's entries with fields taken from the side caches.
func (s *Service) mergeLocked(rec *listRecord) []Entry {
	out := make([]Entry, len(rec.entries))
	for i, e := range rec.entries {
		ck := rec.ns.CacheKey(e.Key)
		out[i] = Entry{
			Key:        e.Key,
			Expiration: cloneInt(s.expiration[ck]),
			Metadata:   cloneValue(s.metadata[ck]),
		}
	}
	return out
}
