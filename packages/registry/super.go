package registry

// SuperRegistry maps keys to sub-registries that are created on first use.
type SuperRegistry[K, SK comparable, V any] struct {
	*Registry[K, *AutoKeyRegistry[SK, V]]
	factory func() *AutoKeyRegistry[SK, V]
}

// NewSuper returns an empty registry that builds sub-registries with factory.
func NewSuper[K, SK comparable, V any](factory func() *AutoKeyRegistry[SK, V]) *SuperRegistry[K, SK, V] {
	return &SuperRegistry[K, SK, V]{
		Registry: New[K, *AutoKeyRegistry[SK, V]](),
		factory:  factory,
	}
}

// Register adds value to the sub-registry for key, creating it if needed.
func (r *SuperRegistry[K, SK, V]) Register(key K, value V) {
	r.Sub(key).Register(value)
}

// Sub returns the sub-registry for key, creating an empty one if needed.
func (r *SuperRegistry[K, SK, V]) Sub(key K) *AutoKeyRegistry[SK, V] {
	sub, ok := r.Get(key)
	if !ok {
		sub = r.factory()
		r.Registry.Register(key, sub)
	}
	return sub
}
