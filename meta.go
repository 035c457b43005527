package supler

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// KeyMeta is the reserved payload/document key carrying form meta.
const KeyMeta = "supler_meta"

// Meta is a small opaque string bag the client round-trips to correlate
// requests. The engine never interprets it. The zero value is empty.
type Meta struct {
	entries map[string]string
}

// NewMeta builds a Meta from a map (copied).
func NewMeta(m map[string]string) Meta {
	if len(m) == 0 {
		return Meta{}
	}
	return Meta{entries: lo.Assign(m)}
}

// With returns a copy of m with key set to value.
func (m Meta) With(key, value string) Meta {
	out := make(map[string]string, len(m.entries)+1)
	for k, v := range m.entries {
		out[k] = v
	}
	out[key] = value
	return Meta{entries: out}
}

// Get returns the value stored under key.
func (m Meta) Get(key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (m Meta) Len() int { return len(m.entries) }

// Keys returns the keys in ascending order.
func (m Meta) Keys() []string {
	keys := lo.Keys(m.entries)
	sort.Strings(keys)
	return keys
}

// ToMap returns a copy of the entries.
func (m Meta) ToMap() map[string]string { return lo.Assign(m.entries) }

func (m Meta) toJSON() map[string]any {
	return lo.MapValues(m.entries, func(v string, _ string) any { return v })
}

// addTo stores the meta under KeyMeta in doc when non-empty.
func (m Meta) addTo(doc map[string]any) {
	if len(m.entries) == 0 {
		return
	}
	doc[KeyMeta] = m.toJSON()
}

// metaFromJSON reads the supler_meta object of a raw payload.
func metaFromJSON(raw gjson.Result) (Meta, error) {
	node := raw.Get(KeyMeta)
	if !node.Exists() || node.Type == gjson.Null {
		return Meta{}, nil
	}
	if !node.IsObject() {
		return Meta{}, fmt.Errorf("%w: %s must be an object", ErrInvalidPayload, KeyMeta)
	}
	entries := map[string]string{}
	var bad string
	node.ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() || v.IsArray() {
			bad = k.String()
			return false
		}
		entries[k.String()] = v.String()
		return true
	})
	if bad != "" {
		return Meta{}, fmt.Errorf("%w: %s.%s must be a scalar", ErrInvalidPayload, KeyMeta, bad)
	}
	return NewMeta(entries), nil
}
