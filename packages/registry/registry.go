package registry

import (
	"cmp"
	"iter"
	"slices"
)

// Mapping is anything that can be walked as ordered key/value pairs.
type Mapping[K comparable, V any] interface {
	All() iter.Seq2[K, V]
}

// Registry is an insertion-ordered map. Iteration follows the order in
// which keys were first registered.
type Registry[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New returns an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		values: make(map[K]V),
	}
}

// FromMap builds a registry from m with keys in ascending order.
func FromMap[K cmp.Ordered, V any](m map[K]V) *Registry[K, V] {
	r := New[K, V]()
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		r.Register(k, m[k])
	}
	return r
}

// Register inserts or replaces the value for key.
func (r *Registry[K, V]) Register(key K, value V) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Unregister removes key. Removing an absent key does nothing.
func (r *Registry[K, V]) Unregister(key K) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	if i := slices.Index(r.keys, key); i >= 0 {
		r.keys = slices.Delete(r.keys, i, i+1)
	}
}

// Get returns the value stored under key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is registered.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.values[key]
	return ok
}

// Len returns the number of registered keys.
func (r *Registry[K, V]) Len() int {
	return len(r.keys)
}

// Keys returns a copy of the keys in registration order.
func (r *Registry[K, V]) Keys() []K {
	return slices.Clone(r.keys)
}

// Values returns the values in registration order.
func (r *Registry[K, V]) Values() []V {
	out := make([]V, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

// All iterates over a snapshot of the keys, so entries may be
// unregistered while ranging.
func (r *Registry[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range r.Keys() {
			v, ok := r.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Merge copies every pair of src into r. Keys already present are left
// untouched unless replaceExisting is set.
func (r *Registry[K, V]) Merge(src Mapping[K, V], replaceExisting bool) {
	for k, v := range src.All() {
		if !replaceExisting && r.Has(k) {
			continue
		}
		r.Register(k, v)
	}
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.keys = nil
	r.values = make(map[K]V)
}

// Clone returns a shallow copy: the registry is new, the values are shared.
func (r *Registry[K, V]) Clone() *Registry[K, V] {
	c := New[K, V]()
	c.Merge(r, true)
	return c
}
