package kvcache

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

// PutOption adjusts a single Put.
type PutOption func(*putConfig)

type putConfig struct {
	resolver BaselineResolver
}

// CreateIfMissing makes a put of an unknown key proceed with no metadata and
// no expiration instead of consulting the service's resolver.
func CreateIfMissing() PutOption {
	return func(c *putConfig) {
		c.resolver = func(context.Context, namespace.Identity, string) (BaselineDecision, error) {
			return CreateNew, nil
		}
	}
}

// Put writes value to key, keeping the key's current metadata and expiration.
// When those are not cached, the key is listed to find them. If the key is
// still unknown the baseline resolver decides; without one, or when it
// aborts, Put fails with a *MissingBaselineError.
func (s *Service) Put(ctx context.Context, ns namespace.Identity, key string, value []byte, opts ...PutOption) error {
	metadata, expiration, err := s.resolveBaseline(ctx, ns, key, opts)
	if err != nil {
		return err
	}
	return s.PutFull(ctx, ns, key, value, metadata, expiration)
}

// PutFull writes value, metadata and expiration to key. Nil metadata or
// expiration are written as absent. On success the value is cached without
// re-fetching, the side caches take the new fields, and the entry is upserted
// into every cached list of an equal namespace whose prefix covers key.
func (s *Service) PutFull(ctx context.Context, ns namespace.Identity, key string, value []byte, metadata *jsonvalue.Value, expiration *int64) error {
	op := wrangler.PutOp{Key: key, Value: value, Metadata: metadata, Expiration: expiration}
	if _, err := s.invoke(ctx, ns, op); err != nil {
		return err
	}

	ck := ns.CacheKey(key)
	s.mu.Lock()
	s.setContentLocked(ck, resolvedContent(bytes.Clone(value)))
	s.metadata[ck] = cloneValue(metadata)
	s.expiration[ck] = cloneInt(expiration)
	changed := s.upsertLocked(ns, Entry{Key: key, Expiration: cloneInt(expiration), Metadata: cloneValue(metadata)})
	s.mu.Unlock()

	log.FromContext(ctx).Debug("put propagated", "namespace", ns, "key", key, "lists", len(changed))
	fire(changed)
	return nil
}

// Create writes an empty value with no metadata and no expiration.
func (s *Service) Create(ctx context.Context, ns namespace.Identity, key string) error {
	return s.PutFull(ctx, ns, key, nil, nil, nil)
}

// SetMetadata replaces the metadata of key, keeping its value and expiration.
// Nil metadata removes it.
func (s *Service) SetMetadata(ctx context.Context, ns namespace.Identity, key string, metadata *jsonvalue.Value, opts ...PutOption) error {
	_, expiration, err := s.resolveBaseline(ctx, ns, key, opts)
	if err != nil {
		return err
	}
	value, err := s.Get(ctx, ns, key)
	if err != nil {
		return err
	}
	return s.PutFull(ctx, ns, key, value, metadata, expiration)
}

// SetExpiration replaces the expiration of key, keeping its value and
// metadata. Nil expiration removes it.
func (s *Service) SetExpiration(ctx context.Context, ns namespace.Identity, key string, expiration *int64, opts ...PutOption) error {
	metadata, _, err := s.resolveBaseline(ctx, ns, key, opts)
	if err != nil {
		return err
	}
	value, err := s.Get(ctx, ns, key)
	if err != nil {
		return err
	}
	return s.PutFull(ctx, ns, key, value, metadata, expiration)
}

// Delete removes key, which must be an entry of the cached list of ns under
// prefix. The entry is removed from that list and the per-key caches before
// the store is called; afterwards it is removed from every other cached list
// of an equal namespace whose prefix covers key.
func (s *Service) Delete(ctx context.Context, ns namespace.Identity, key, prefix string) error {
	s.mu.Lock()
	rec, ok := s.lists[ns.CacheKey(prefix)]
	if !ok {
		s.mu.Unlock()
		return &NoParentListError{Namespace: ns, Key: key, Prefix: prefix}
	}
	i := slices.IndexFunc(rec.entries, func(e Entry) bool { return e.Key == key })
	if i < 0 {
		keys := make([]string, len(rec.entries))
		for j, e := range rec.entries {
			keys[j] = e.Key
		}
		s.mu.Unlock()
		return &EntryNotFoundError{Namespace: ns, Key: key, Prefix: prefix, Keys: keys}
	}
	rec.entries = slices.Delete(rec.entries, i, i+1)
	parentChanged := rec.onChange
	s.clearEntryLocked(ns.CacheKey(key))
	s.mu.Unlock()

	if parentChanged != nil {
		parentChanged()
	}

	if _, err := s.invoke(ctx, ns, wrangler.DeleteOp{Key: key}); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.removeLocked(ns, key)
	s.mu.Unlock()

	log.FromContext(ctx).Debug("delete propagated", "namespace", ns, "key", key, "lists", len(changed)+1)
	fire(changed)
	return nil
}

// Rename moves oldKey to newKey, carrying value, metadata and expiration.
// oldKey must be an entry of the cached list of ns under prefix.
func (s *Service) Rename(ctx context.Context, ns namespace.Identity, oldKey, newKey, prefix string) error {
	metadata, expiration, err := s.resolveBaseline(ctx, ns, oldKey, nil)
	if err != nil {
		return err
	}
	value, err := s.Get(ctx, ns, oldKey)
	if err != nil {
		return err
	}
	if err := s.PutFull(ctx, ns, newKey, value, metadata, expiration); err != nil {
		return err
	}
	return s.Delete(ctx, ns, oldKey, prefix)
}

// resolveBaseline returns the cached metadata and expiration of key, listing
// the key as its own prefix when either is unknown.
func (s *Service) resolveBaseline(ctx context.Context, ns namespace.Identity, key string, opts []PutOption) (*jsonvalue.Value, *int64, error) {
	ck := ns.CacheKey(key)
	if m, e, ok := s.lookupBaseline(ck); ok {
		return m, e, nil
	}

	log.FromContext(ctx).Debug("baseline not cached, listing key", "namespace", ns, "key", key)
	entries, err := s.fetchList(ctx, ns, key)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.seedLocked(ns, entries)
	if _, ok := s.lists[ns.CacheKey(key)]; !ok {
		s.lists[ns.CacheKey(key)] = &listRecord{ns: ns, prefix: key, entries: entries}
	}
	s.mu.Unlock()

	if m, e, ok := s.lookupBaseline(ck); ok {
		return m, e, nil
	}

	cfg := putConfig{resolver: s.baseline}
	for _, opt := range opts {
		opt(&cfg)
	}
	missing := &MissingBaselineError{Namespace: ns, Key: key}
	if cfg.resolver == nil {
		return nil, nil, missing
	}
	decision, err := cfg.resolver(ctx, ns, key)
	if err != nil {
		return nil, nil, err
	}
	if decision != CreateNew {
		return nil, nil, missing
	}
	return nil, nil, nil
}

func (s *Service) lookupBaseline(ck string) (*jsonvalue.Value, *int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, hasMeta := s.metadata[ck]
	e, hasExp := s.expiration[ck]
	if !hasMeta || !hasExp {
		return nil, nil, false
	}
	return cloneValue(m), cloneInt(e), true
}

// upsertLocked inserts or replaces entry in every affected list, keeping key
// order, and returns their callbacks.
func (s *Service) upsertLocked(ns namespace.Identity, entry Entry) []func() {
	var changed []func()
	for _, rec := range s.affectedLocked(ns, entry.Key) {
		i := slices.IndexFunc(rec.entries, func(e Entry) bool { return e.Key >= entry.Key })
		switch {
		case i < 0:
			rec.entries = append(rec.entries, entry)
		case rec.entries[i].Key == entry.Key:
			rec.entries[i] = entry
		default:
			rec.entries = slices.Insert(rec.entries, i, entry)
		}
		if rec.onChange != nil {
			changed = append(changed, rec.onChange)
		}
	}
	return changed
}

// removeLocked drops key from every affected list containing it and returns
// their callbacks.
func (s *Service) removeLocked(ns namespace.Identity, key string) []func() {
	var changed []func()
	for _, rec := range s.affectedLocked(ns, key) {
		i := slices.IndexFunc(rec.entries, func(e Entry) bool { return e.Key == key })
		if i < 0 {
			continue
		}
		rec.entries = slices.Delete(rec.entries, i, i+1)
		if rec.onChange != nil {
			changed = append(changed, rec.onChange)
		}
	}
	return changed
}

// affectedLocked returns the cached lists of namespaces equal to ns whose
// prefix covers key.
func (s *Service) affectedLocked(ns namespace.Identity, key string) []*listRecord {
	var out []*listRecord
	for _, rec := range s.lists {
		if namespace.Equal(rec.ns, ns) && strings.HasPrefix(key, rec.prefix) {
			out = append(out, rec)
		}
	}
	return out
}
