package kvcache

// ClearEntryCache removes the metadata, expiration and content of one key,
// or of every key when ref is nil.
func (s *Service) ClearEntryCache(ref *EntryRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref != nil {
		s.clearEntryLocked(ref.Namespace.CacheKey(ref.Key))
		return
	}
	for ck := range s.content {
		s.dropContentLocked(ck)
	}
	clear(s.metadata)
	clear(s.expiration)
}

// ClearListCache removes the list record of one query, or every record when
// q is nil.
func (s *Service) ClearListCache(q *Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q != nil {
		delete(s.lists, q.Namespace.CacheKey(q.Prefix))
		return
	}
	clear(s.lists)
}

// RefreshQuery forgets everything needed to re-list q from the store: all
// per-key state and q's own list record.
func (s *Service) RefreshQuery(q Query) {
	s.ClearEntryCache(nil)
	s.ClearListCache(&q)
}

// RefreshEntry forgets the per-key state of one key so the next read goes to
// the store.
func (s *Service) RefreshEntry(ref EntryRef) {
	s.ClearEntryCache(&ref)
}

func (s *Service) clearEntryLocked(ck string) {
	delete(s.metadata, ck)
	delete(s.expiration, ck)
	s.dropContentLocked(ck)
}
