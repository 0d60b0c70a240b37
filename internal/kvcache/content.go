package kvcache

import (
	"bytes"
	"context"

	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

// contentEntry is a value that is being fetched or has been resolved.
// Entries are compared by pointer: eviction only removes the entry it was
// armed for.
type contentEntry struct {
	done  chan struct{}
	value []byte
	err   error
	timer Timer
}

func pendingContent() *contentEntry {
	return &contentEntry{done: make(chan struct{})}
}

func resolvedContent(value []byte) *contentEntry {
	e := pendingContent()
	e.resolve(value, nil)
	return e
}

func (e *contentEntry) resolve(value []byte, err error) {
	e.value, e.err = value, err
	close(e.done)
}

func (e *contentEntry) wait(ctx context.Context) ([]byte, error) {
	select {
	case <-e.done:
		if e.err != nil {
			return nil, e.err
		}
		return bytes.Clone(e.value), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the value of key. Concurrent callers share one fetch; the
// fetched value stays cached for the content TTL. A failed fetch is not cached.
func (s *Service) Get(ctx context.Context, ns namespace.Identity, key string) ([]byte, error) {
	ck := ns.CacheKey(key)

	s.mu.Lock()
	entry, ok := s.content[ck]
	if !ok {
		entry = pendingContent()
		s.setContentLocked(ck, entry)
		// The fetch outlives this caller: others may be waiting on it.
		go s.fetchContent(context.WithoutCancel(ctx), ns, key, ck, entry)
	}
	s.mu.Unlock()

	if ok {
		log.FromContext(ctx).Debug("content cache hit", "namespace", ns, "key", key)
	}
	return entry.wait(ctx)
}

// ContentCached reports whether a value (possibly in flight) is cached for key.
func (s *Service) ContentCached(ns namespace.Identity, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.content[ns.CacheKey(key)]
	return ok
}

func (s *Service) fetchContent(ctx context.Context, ns namespace.Identity, key, ck string, entry *contentEntry) {
	value, err := s.invoke(ctx, ns, wrangler.GetOp{Key: key})
	entry.resolve(value, err)
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.content[ck] == entry {
		s.dropContentLocked(ck)
	}
	s.mu.Unlock()
}

// setContentLocked stores entry under ck and arms its eviction.
func (s *Service) setContentLocked(ck string, entry *contentEntry) {
	if old, ok := s.content[ck]; ok && old.timer != nil {
		old.timer.Stop()
	}
	s.content[ck] = entry
	entry.timer = s.clock.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.content[ck] == entry {
			delete(s.content, ck)
		}
	})
}

func (s *Service) dropContentLocked(ck string) {
	if entry, ok := s.content[ck]; ok {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(s.content, ck)
	}
}
