package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/namespace"
	"github.com/raphi011/kvview/internal/wrangler"
)

type memValue struct {
	value      []byte
	metadata   *jsonvalue.Value
	expiration *int64
}

// memStore answers store operations from memory, ignoring the namespace.
type memStore struct {
	mu     sync.Mutex
	values map[string]memValue
	ops    []string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]memValue)}
}

func (m *memStore) set(key, value, metadata string, expiration int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := memValue{value: []byte(value)}
	if metadata != "" {
		meta := jsonvalue.MustParse(metadata)
		v.metadata = &meta
	}
	if expiration != 0 {
		v.expiration = &expiration
	}
	m.values[key] = v
}

func (m *memStore) opCount(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, op := range m.ops {
		if op == action {
			n++
		}
	}
	return n
}

func (m *memStore) Invoke(_ context.Context, _ namespace.Identity, op wrangler.Op) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch op := op.(type) {
	case wrangler.ListOp:
		m.ops = append(m.ops, "list")
		type item struct {
			Name       string           `json:"name"`
			Expiration *int64           `json:"expiration,omitempty"`
			Metadata   *jsonvalue.Value `json:"metadata,omitempty"`
		}
		items := []item{}
		for k, v := range m.values {
			if strings.HasPrefix(k, op.Prefix) {
				items = append(items, item{Name: k, Expiration: v.expiration, Metadata: v.metadata})
			}
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		return json.Marshal(items)
	case wrangler.GetOp:
		m.ops = append(m.ops, "get")
		v, ok := m.values[op.Key]
		if !ok {
			return nil, fmt.Errorf("key %q not found", op.Key)
		}
		return append([]byte(nil), v.value...), nil
	case wrangler.PutOp:
		m.ops = append(m.ops, "put")
		m.values[op.Key] = memValue{value: append([]byte(nil), op.Value...), metadata: op.Metadata, expiration: op.Expiration}
		return nil, nil
	case wrangler.DeleteOp:
		m.ops = append(m.ops, "delete")
		delete(m.values, op.Key)
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected op %T", op)
}
