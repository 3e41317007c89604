package registry

// AutoKeyRegistry is a Registry whose keys are computed from the values.
// The embedded Registry stays reachable for explicit keyed registration.
type AutoKeyRegistry[K comparable, V any] struct {
	*Registry[K, V]
	keyFunc func(V) K
}

// NewAutoKey returns an empty registry that keys values with keyFunc.
func NewAutoKey[K comparable, V any](keyFunc func(V) K) *AutoKeyRegistry[K, V] {
	return &AutoKeyRegistry[K, V]{
		Registry: New[K, V](),
		keyFunc:  keyFunc,
	}
}

// Register stores value under KeyOf(value).
func (r *AutoKeyRegistry[K, V]) Register(value V) {
	r.Registry.Register(r.keyFunc(value), value)
}

// KeyOf returns the key value would be stored under.
func (r *AutoKeyRegistry[K, V]) KeyOf(value V) K {
	return r.keyFunc(value)
}

// Merge decides whether to skip an entry by the key it has in src, but
// stores it under the key this registry derives for the value.
func (r *AutoKeyRegistry[K, V]) Merge(src Mapping[K, V], replaceExisting bool) {
	for k, v := range src.All() {
		if !replaceExisting && r.Has(k) {
			continue
		}
		r.Register(v)
	}
}

// Clone returns a shallow copy sharing keyFunc.
func (r *AutoKeyRegistry[K, V]) Clone() *AutoKeyRegistry[K, V] {
	return &AutoKeyRegistry[K, V]{
		Registry: r.Registry.Clone(),
		keyFunc:  r.keyFunc,
	}
}
