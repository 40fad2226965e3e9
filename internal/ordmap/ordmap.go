// Copyright 2024 The Nichelang Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ordmap provides an insertion-ordered associative container.
//
// Every record/variant field mapping in hir, layout, and lir must iterate
// deterministically: niche discovery walks these maps in order, and a
// hash map's randomized iteration would make layout synthesis
// nondeterministic between runs (spec §9, "Map type choice"). Map plays
// the role cue/ast's ordered Decls slice plays for struct fields: an
// explicit order, never reconstructed from hash bucket layout.
package ordmap

// Map is an insertion-ordered mapping from K to V. The zero value is an
// empty, ready-to-use Map.
type Map[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// NewFromPairs builds a Map from pairs in the given order, later
// duplicate keys overwriting earlier ones but keeping the earlier
// position, matching Go map-literal and BTreeMap::from_iter semantics.
func NewFromPairs[K comparable, V any](pairs []Pair[K, V]) *Map[K, V] {
	m := New[K, V]()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Pair is a key/value pair, used by NewFromPairs and Entries.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Get looks up a key, reporting whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m.index == nil {
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		return zero, false
	}
	return m.vals[i], true
}

// MustGet looks up a key, panicking if absent. Used where the caller
// already established the key's presence as an invariant (e.g. a tag
// layout's values map is keyed by exactly the variant names present).
func (m *Map[K, V]) MustGet(key K) V {
	v, ok := m.Get(key)
	if !ok {
		panic("ordmap: key not found")
	}
	return v
}

// Set inserts or updates key, preserving its original position if it was
// already present.
func (m *Map[K, V]) Set(key K, val V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = val
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// Keys returns the keys in insertion order. The returned slice must not
// be mutated.
func (m *Map[K, V]) Keys() []K {
	return m.keys
}

// Values returns the values in insertion order. The returned slice must
// not be mutated.
func (m *Map[K, V]) Values() []V {
	return m.vals
}

// Entries returns key/value pairs in insertion order.
func (m *Map[K, V]) Entries() []Pair[K, V] {
	out := make([]Pair[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Pair[K, V]{Key: k, Value: m.vals[i]}
	}
	return out
}

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *Map[K, V]) Range(f func(key K, val V) bool) {
	for i, k := range m.keys {
		if !f(k, m.vals[i]) {
			return
		}
	}
}

// Map2 returns a new Map with every value transformed by f, preserving
// key order.
func Map2[K comparable, V, W any](m *Map[K, V], f func(K, V) W) *Map[K, W] {
	out := New[K, W]()
	m.Range(func(k K, v V) bool {
		out.Set(k, f(k, v))
		return true
	})
	return out
}

// All reports whether f holds for every entry.
func (m *Map[K, V]) All(f func(K, V) bool) bool {
	ok := true
	m.Range(func(k K, v V) bool {
		if !f(k, v) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// Clone returns a shallow copy with its own backing slices/index.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := &Map[K, V]{
		keys: append([]K(nil), m.keys...),
		vals: append([]V(nil), m.vals...),
	}
	if m.index != nil {
		out.index = make(map[K]int, len(m.index))
		for k, v := range m.index {
			out.index[k] = v
		}
	}
	return out
}
