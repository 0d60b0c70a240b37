package kvcache

import (
	"errors"
	"fmt"

	"github.com/raphi011/kvview/internal/namespace"
)

var (
	// ErrNoParentList is returned by Delete when the list the key was shown
	// in is not cached.
	ErrNoParentList = errors.New("no cached parent list")
	// ErrEntryNotFound is returned by Delete when the key is not part of its
	// parent list.
	ErrEntryNotFound = errors.New("entry not found in parent list")
	// ErrMissingBaseline is returned by Put when the key's metadata and
	// expiration cannot be determined, usually because the key does not exist.
	ErrMissingBaseline = errors.New("missing baseline metadata/expiration")
)

// NoParentListError reports a delete against a list that is not cached.
type NoParentListError struct {
	Namespace namespace.Identity
	Key       string
	Prefix    string
}

func (e *NoParentListError) Error() string {
	return fmt.Sprintf("cannot find parent list %q in %s for delete of %q", e.Prefix, e.Namespace, e.Key)
}

func (e *NoParentListError) Is(target error) bool { return target == ErrNoParentList }

// EntryNotFoundError reports a delete of a key absent from its parent list.
type EntryNotFoundError struct {
	Namespace namespace.Identity
	Key       string
	Prefix    string
	Keys      []string // keys the parent list did contain
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("cannot find %q in parent list %q in %s (%d entries)", e.Key, e.Prefix, e.Namespace, len(e.Keys))
}

func (e *EntryNotFoundError) Is(target error) bool { return target == ErrEntryNotFound }

// MissingBaselineError reports a key whose prior state is unknown.
type MissingBaselineError struct {
	Namespace namespace.Identity
	Key       string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("could not find %q in %s: metadata and expiration unknown", e.Key, e.Namespace)
}

func (e *MissingBaselineError) Is(target error) bool { return target == ErrMissingBaseline }
