package runtime

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// MapValue is an insertion-ordered map keyed by MapKey. Updates to an existing
// key keep its original position.
type MapValue struct {
	entries *linkedhashmap.Map
}

type mapEntry struct {
	key   MapKey
	value Value
}

// MapEntry is one key/value pair in iteration order.
type MapEntry struct {
	Key   MapKey
	Value Value
}

func (v *MapValue) Kind() Kind { return KindMap }

// NewMap returns an empty map.
func NewMap() *MapValue {
	return &MapValue{entries: linkedhashmap.New()}
}

// Len returns the number of entries.
func (v *MapValue) Len() int {
	if v == nil || v.entries == nil {
		return 0
	}
	return v.entries.Size()
}

// Get looks up key.
func (v *MapValue) Get(key MapKey) (Value, bool) {
	if v == nil || v.entries == nil {
		return nil, false
	}
	raw, ok := v.entries.Get(key.hash)
	if !ok {
		return nil, false
	}
	return raw.(mapEntry).value, true
}

// GetString looks up a string key.
func (v *MapValue) GetString(key string) (Value, bool) {
	return v.Get(StringKey(key))
}

// Set inserts or replaces an entry in place. Callers that need value
// semantics should Clone first.
func (v *MapValue) Set(key MapKey, value Value) {
	if v.entries == nil {
		v.entries = linkedhashmap.New()
	}
	v.entries.Put(key.hash, mapEntry{key: key, value: value})
}

// SetString is Set with a string key.
func (v *MapValue) SetString(key string, value Value) {
	v.Set(StringKey(key), value)
}

// Delete removes key, reporting whether it was present.
func (v *MapValue) Delete(key MapKey) bool {
	if v == nil || v.entries == nil {
		return false
	}
	if _, ok := v.entries.Get(key.hash); !ok {
		return false
	}
	v.entries.Remove(key.hash)
	return true
}

// Entries returns the pairs in insertion order.
func (v *MapValue) Entries() []MapEntry {
	if v == nil || v.entries == nil {
		return nil
	}
	out := make([]MapEntry, 0, v.entries.Size())
	it := v.entries.Iterator()
	for it.Next() {
		entry := it.Value().(mapEntry)
		out = append(out, MapEntry{Key: entry.key, Value: entry.value})
	}
	return out
}

// Keys returns the key values in insertion order.
func (v *MapValue) Keys() []Value {
	entries := v.Entries()
	out := make([]Value, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Key.Value())
	}
	return out
}

// Values returns the entry values in insertion order.
func (v *MapValue) Values() []Value {
	entries := v.Entries()
	out := make([]Value, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Value)
	}
	return out
}

// Clone returns a shallow copy preserving order.
func (v *MapValue) Clone() *MapValue {
	out := NewMap()
	for _, entry := range v.Entries() {
		out.Set(entry.Key, entry.Value)
	}
	return out
}
