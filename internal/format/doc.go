// Package format turns cache entries into display text and parses user input
// for expirations and metadata.
//
// # Entries
//
// Keys are shown relative to the prefix of the list they belong to, so a key
// "user/42" listed under "user/" renders as "42". An entry with an expiration
// is described as "Expires in N hrs", rounded to whole hours.
//
// # Metadata
//
// Metadata renders as a tree. Scalars and empty containers are shown inline as
// their compact JSON ([SimpleString]); objects and arrays expand into one node
// per member.
//
// # Input
//
// [ParseExpiration] accepts an RFC 3339 timestamp that must lie in the future,
// or "" to clear. [ParseMetadata] accepts any JSON value, or "" to clear.
package format
