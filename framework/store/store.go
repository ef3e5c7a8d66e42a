// Package store provides an insertion-ordered associative map with reverse
// lookup by value.
//
// Keys are compared with ==, so pointer keys are matched by identity.
// Values are compared by identity as well: functions, maps and slices match
// only when they share the same underlying pointer, everything else uses ==.
// Comparing values never panics, even for dynamic types that are not
// comparable.
//
//	m := store.New[*Type, any]()
//	m.Set(t, instance)
//	keys := m.KeysFor(instance)
package store

import (
	"reflect"

	"golang.org/x/exp/slices"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is an insertion-ordered key/value store. The zero value is not usable;
// create one with New. A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	entries []entry[K, V]
	index   map[K]int
}

// New creates an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].value, true
}

// Set stores value for key. An existing value is overwritten in place and
// keeps its position.
func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
}

// Has reports whether a value is stored for key.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Remove deletes key and its value. Removing a missing key is a no-op.
func (m *Map[K, V]) Remove(key K) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].key] = j
	}
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int { return len(m.entries) }

// Keys returns all keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// Values returns all values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.value
	}
	return out
}

// KeysFor returns, in insertion order, every key whose value is identical to
// value.
func (m *Map[K, V]) KeysFor(value V) []K {
	var keys []K
	for _, e := range m.entries {
		if Same(e.value, value) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Same reports whether a and b are the same value. Functions, maps and slices
// are identical only when they point at the same data; other values are
// compared with ==. Uncomparable values that are not pointer-like are never
// identical.
func Same(a, b any) (same bool) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		if va.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.Pointer() == vb.Pointer()
	}

	// structs and arrays can hold uncomparable fields behind interfaces
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
