package wrangler

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/raphi011/kvview/internal/jsonvalue"
)

// RawEntry is one element of a list response.
type RawEntry struct {
	Name       string
	Expiration *int64
	Metadata   *jsonvalue.Value
}

// ParseList decodes list output. Both a bare array and {"keys": [...]} are
// accepted. Nothing is returned unless the whole response is well formed.
func ParseList(raw []byte) ([]RawEntry, error) {
	text := string(raw)
	fail := func(err error) ([]RawEntry, error) {
		return nil, &MalformedListResponseError{Raw: text, Err: err}
	}

	if !gjson.Valid(text) {
		return fail(errors.New("not valid JSON"))
	}

	doc := gjson.Parse(text)
	items := doc
	if doc.IsObject() {
		items = doc.Get("keys")
	}
	if !items.IsArray() {
		return fail(errors.New(`expected an array or an object with a "keys" array`))
	}

	entries := []RawEntry{}
	var itemErr error
	items.ForEach(func(_, item gjson.Result) bool {
		entry, err := parseEntry(item)
		if err != nil {
			itemErr = fmt.Errorf("entry %d: %w", len(entries), err)
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if itemErr != nil {
		return fail(itemErr)
	}
	return entries, nil
}

func parseEntry(item gjson.Result) (RawEntry, error) {
	if !item.IsObject() {
		return RawEntry{}, fmt.Errorf("expected object, got %s", item.Type)
	}

	name := item.Get("name")
	if name.Type != gjson.String {
		return RawEntry{}, errors.New(`missing string "name"`)
	}
	entry := RawEntry{Name: name.Str}

	if exp := item.Get("expiration"); exp.Exists() && exp.Type != gjson.Null {
		v := jsonvalue.FromResult(exp)
		n, ok := v.Int()
		if !ok {
			return RawEntry{}, fmt.Errorf("expiration of %q is not an integer: %s", entry.Name, exp.Raw)
		}
		entry.Expiration = &n
	}

	if meta := item.Get("metadata"); meta.Exists() {
		v := jsonvalue.FromResult(meta)
		entry.Metadata = &v
	}
	return entry, nil
}
