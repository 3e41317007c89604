package registry

import "iter"

// Set is an insertion-ordered set.
type Set[K comparable] struct {
	items *Registry[K, struct{}]
}

// NewSet returns a set holding items in the given order.
func NewSet[K comparable](items ...K) *Set[K] {
	s := &Set[K]{items: New[K, struct{}]()}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item. Adding a present item keeps its position.
func (s *Set[K]) Add(item K) {
	s.items.Register(item, struct{}{})
}

func (s *Set[K]) Remove(item K) {
	s.items.Unregister(item)
}

func (s *Set[K]) Has(item K) bool {
	return s.items.Has(item)
}

func (s *Set[K]) Len() int {
	return s.items.Len()
}

// Items returns the items in insertion order.
func (s *Set[K]) Items() []K {
	return s.items.Keys()
}

func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.items.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Union adds every item of other to s.
func (s *Set[K]) Union(other *Set[K]) {
	for item := range other.All() {
		s.Add(item)
	}
}

// Clone returns an independent copy of s.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{items: s.items.Clone()}
}
