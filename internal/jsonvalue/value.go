// Package jsonvalue holds arbitrary JSON documents as a typed value tree.
//
// Metadata attached to store entries is free-form JSON. Instead of passing
// around interface{} values, it is parsed once into a [Value] whose [Kind] is
// one of null, bool, number, string, array or object. Numbers keep their
// original text so large integers round-trip unchanged. Objects keep member
// order; duplicate member names collapse to the last value, in the position of
// the first.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the JSON type of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrInvalid is returned when input is not a single valid JSON document.
var ErrInvalid = errors.New("invalid JSON")

// Member is one name/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	num     string
	str     string
	items   []Value
	members []Member
}

// Parse parses raw as a single JSON document.
func Parse(raw string) (Value, error) {
	if !gjson.Valid(raw) {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalid, truncate(raw, 64))
	}
	return fromResult(gjson.Parse(raw)), nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests and
// literals.
func MustParse(raw string) Value {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// FromResult converts an already parsed gjson result.
func FromResult(r gjson.Result) Value {
	return fromResult(r)
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return NewBool(false)
	case gjson.True:
		return NewBool(true)
	case gjson.Number:
		return Value{kind: Number, num: strings.TrimSpace(r.Raw)}
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := []Value{}
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, fromResult(v))
				return true
			})
			return Value{kind: Array, items: items}
		}
		members := []Member{}
		index := map[string]int{}
		r.ForEach(func(k, v gjson.Result) bool {
			if i, ok := index[k.Str]; ok {
				members[i].Value = fromResult(v)
				return true
			}
			index[k.Str] = len(members)
			members = append(members, Member{Key: k.Str, Value: fromResult(v)})
			return true
		})
		return Value{kind: Object, members: members}
	default:
		return Value{}
	}
}

// NewBool returns a bool value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, str: s} }

// NewInt returns a number value holding n.
func NewInt(n int64) Value {
	return Value{kind: Number, num: strconv.FormatInt(n, 10)}
}

// NewFloat returns a number value holding f.
func NewFloat(f float64) Value {
	return Value{kind: Number, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewArray returns an array value.
func NewArray(items ...Value) Value {
	return Value{kind: Array, items: append([]Value{}, items...)}
}

// NewObject returns an object value. Later duplicates replace earlier ones.
func NewObject(members ...Member) Value {
	out := Value{kind: Object, members: []Member{}}
	for _, m := range members {
		out = out.With(m.Key, m.Value)
	}
	return out
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by v, false for non-bools.
func (v Value) Bool() bool { return v.b }

// Str returns the string held by v, "" for non-strings.
func (v Value) Str() string { return v.str }

// NumberText returns the original textual form of a number.
func (v Value) NumberText() string { return v.num }

// Float returns v as float64. ok is false for non-numbers.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	return f, err == nil
}

// Int returns v as int64 when it is an integral number.
func (v Value) Int() (int64, bool) {
	if v.kind != Number {
		return 0, false
	}
	if n, err := strconv.ParseInt(v.num, 10, 64); err == nil {
		return n, true
	}
	f, ok := v.Float()
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	return append([]Value(nil), v.items...)
}

// Members returns a copy of the object members in order.
func (v Value) Members() []Member {
	return append([]Member(nil), v.members...)
}

// Get returns the member named key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of object v with key set to val. Non-objects are
// treated as empty objects.
func (v Value) With(key string, val Value) Value {
	members := make([]Member, 0, len(v.members)+1)
	replaced := false
	if v.kind == Object {
		for _, m := range v.members {
			if m.Key == key {
				m.Value = val
				replaced = true
			}
			members = append(members, m)
		}
	}
	if !replaced {
		members = append(members, Member{Key: key, Value: val})
	}
	return Value{kind: Object, members: members}
}

// Equal reports whether a and b hold the same JSON value. Numbers compare
// numerically and object member order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.str == b.str
	case Number:
		if a.num == b.num {
			return true
		}
		af, aok := a.Float()
		bf, bok := b.Float()
		return aok && bok && af == bf
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			other, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal is shorthand for Equal(v, other).
func (v Value) Equal(other Value) bool { return Equal(v, other) }

// String returns the compact JSON encoding of v.
func (v Value) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v Value) write(buf *bytes.Buffer) {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.num)
	case String:
		writeString(buf, v.str)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.write(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.write(buf)
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
