package wrangler

import "github.com/raphi011/kvview/internal/jsonvalue"

// Op is one store operation. The set of implementations is closed.
type Op interface {
	action() string
}

// ListOp lists keys, optionally restricted to a prefix.
type ListOp struct {
	Prefix string
}

// GetOp reads one value.
type GetOp struct {
	Key string
}

// PutOp writes one value. Nil Metadata or Expiration leave the flag out.
type PutOp struct {
	Key        string
	Value      []byte
	Metadata   *jsonvalue.Value
	Expiration *int64
}

// DeleteOp removes one key.
type DeleteOp struct {
	Key string
}

func (ListOp) action() string   { return "list" }
func (GetOp) action() string    { return "get" }
func (PutOp) action() string    { return "put" }
func (DeleteOp) action() string { return "delete" }
