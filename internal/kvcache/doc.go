// Package kvcache keeps a coherent local view of a slow remote key-value store.
//
// A [Service] owns four process-wide caches, all addressed by the canonical
// cache key of namespace.Identity:
//
//   - list records: the ordered entries of one (namespace, prefix) query plus
//     the query's change callback
//   - metadata: the last known metadata of each key
//   - expiration: the last known expiration of each key
//   - content: the value of each key, in flight or resolved, evicted after a TTL
//
// List records hold identity and ordering only. The metadata and expiration of
// an entry are always read from the side caches when a list is returned, so
// editing either never requires re-fetching or re-sorting a list.
//
// # Mutations
//
// [Service.PutFull] and [Service.Delete] apply their result optimistically:
// the per-key caches are updated and every cached list of an equal namespace
// whose prefix covers the key is edited in place, firing its callback once.
// [Service.Put] first makes sure the key's metadata and expiration are known
// (the baseline), listing the key itself when they are not.
//
// # Concurrency
//
// All methods are safe for concurrent use. A single mutex guards the maps but
// is never held across a store invocation or a callback, so two writers of the
// same key can interleave between reading the baseline and writing the result.
// Concurrent reads of the same value share one in-flight fetch.
package kvcache
