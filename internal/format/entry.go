package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/kvcache"
)

// RelativeKey strips the list prefix from key.
func RelativeKey(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}

// Expiration describes when e expires, or "" when it does not.
func Expiration(e kvcache.Entry, now time.Time) string {
	ttl, ok := e.TTL(now)
	if !ok {
		return ""
	}
	if ttl <= 0 {
		return "Expired"
	}
	return fmt.Sprintf("Expires in %d hrs", int64(math.Round(ttl.Hours())))
}

// SimpleString returns the compact JSON of scalars and empty containers.
func SimpleString(v jsonvalue.Value) (string, bool) {
	switch v.Kind() {
	case jsonvalue.Array, jsonvalue.Object:
		if v.Len() > 0 {
			return "", false
		}
	}
	return v.String(), true
}

// MetaNode is one line of a metadata tree.
type MetaNode struct {
	Label    string // member key, or the simple rendering of a leaf root
	Value    string // simple rendering, "" when the node has children
	Children []MetaNode
}

// MetadataTree expands metadata into nodes. Absent metadata has none.
func MetadataTree(m *jsonvalue.Value) []MetaNode {
	if m == nil {
		return nil
	}
	if s, ok := SimpleString(*m); ok {
		return []MetaNode{{Label: s}}
	}
	return children(*m)
}

func children(v jsonvalue.Value) []MetaNode {
	var out []MetaNode
	add := func(label string, child jsonvalue.Value) {
		node := MetaNode{Label: label}
		if s, ok := SimpleString(child); ok {
			node.Value = s
		} else {
			node.Children = children(child)
		}
		out = append(out, node)
	}

	switch v.Kind() {
	case jsonvalue.Object:
		for _, m := range v.Members() {
			add(m.Key, m.Value)
		}
	case jsonvalue.Array:
		for i, item := range v.Items() {
			add(fmt.Sprint(i), item)
		}
	}
	return out
}

// MetadataLines renders a metadata tree indented by depth.
func MetadataLines(m *jsonvalue.Value, indent string) []string {
	var lines []string
	var walk func(nodes []MetaNode, depth int)
	walk = func(nodes []MetaNode, depth int) {
		for _, n := range nodes {
			line := strings.Repeat(indent, depth) + n.Label
			if n.Value != "" {
				line += ": " + n.Value
			}
			lines = append(lines, line)
			walk(n.Children, depth+1)
		}
	}
	walk(MetadataTree(m), 0)
	return lines
}

// EmptyMetadata is copied when an entry has no metadata.
const EmptyMetadata = "[Empty Metadata]"

// KeysText is the clipboard text for keys: a single key as is, several as a
// JSON array.
func KeysText(keys []string) string {
	if len(keys) == 1 {
		return keys[0]
	}
	items := make([]jsonvalue.Value, len(keys))
	for i, k := range keys {
		items[i] = jsonvalue.NewString(k)
	}
	return jsonvalue.NewArray(items...).String()
}

// MetadataText is the clipboard text for metadata: a single value as JSON
// (or EmptyMetadata), several as a JSON array skipping absent values.
func MetadataText(metadata []*jsonvalue.Value) string {
	if len(metadata) == 1 {
		if metadata[0] == nil {
			return EmptyMetadata
		}
		return metadata[0].String()
	}
	var items []jsonvalue.Value
	for _, m := range metadata {
		if m != nil {
			items = append(items, *m)
		}
	}
	return jsonvalue.NewArray(items...).String()
}
