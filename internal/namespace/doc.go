// Package namespace identifies a partition of the backing key-value store.
//
// A namespace is addressed one of two ways:
//
//   - by opaque id ([ByID]), passed to the store command as --namespace-id
//   - by binding name ([ByBinding]), resolved by the store command against the
//     project manifest found in the working directory
//
// Both forms carry an optional preview selector, a local flag selecting the
// locally simulated store, and a base path disambiguating project roots.
//
// # Cache Keys
//
// [Identity.CacheKey] encodes an identity plus a logical key (or prefix) into
// the canonical string used to address every cache in kvcache. Two identities
// share cache keys exactly when they are [Equal], so the base path, which only
// picks the working directory of the store command, is not part of the key.
package namespace
