package format

import (
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/kvview/internal/kvcache"
)

// entrySource implements fuzzy.Source over keys relative to a prefix.
type entrySource struct {
	entries []kvcache.Entry
	prefix  string
}

func (s entrySource) String(i int) string { return RelativeKey(s.entries[i].Key, s.prefix) }
func (s entrySource) Len() int            { return len(s.entries) }

// Filter returns the entries whose key (relative to prefix) fuzzy-matches
// pattern, best match first. An empty pattern keeps every entry in order.
func Filter(entries []kvcache.Entry, prefix, pattern string) []kvcache.Entry {
	if pattern == "" {
		return entries
	}
	matches := fuzzy.FindFrom(pattern, entrySource{entries: entries, prefix: prefix})
	out := make([]kvcache.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}
