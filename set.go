package rhmap

import "iter"

// Set is a hash set stored as the keys of a Map with empty values.
//
// A Set must be released with Close. It is not safe for concurrent use.
type Set[T comparable] struct {
	m *Map[T, struct{}]
}

// NewSet creates an empty set.
func NewSet[T comparable](opts ...Option) *Set[T] {
	return &Set[T]{m: New[T, struct{}](opts...)}
}

// NewSetWithCapacity creates an empty set with at least n buckets.
func NewSetWithCapacity[T comparable](n int, opts ...Option) *Set[T] {
	return &Set[T]{m: NewWithCapacity[T, struct{}](n, opts...)}
}

// Insert adds elem and reports whether it was not already present.
func (s *Set[T]) Insert(elem T) (bool, error) {
	_, replaced, err := s.m.Insert(elem, struct{}{})
	if err != nil {
		return false, err
	}
	return !replaced, nil
}

// Contains reports whether elem is in the set.
func (s *Set[T]) Contains(elem T) bool {
	return s.m.ContainsKey(elem)
}

// Remove deletes elem and reports whether it was present.
func (s *Set[T]) Remove(elem T) bool {
	_, ok := s.m.Remove(elem)
	return ok
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return s.m.Len() }

// IsEmpty reports whether the set has no elements.
func (s *Set[T]) IsEmpty() bool { return s.m.IsEmpty() }

// Capacity returns the number of buckets.
func (s *Set[T]) Capacity() int { return s.m.Capacity() }

// Clear removes all elements and keeps the bucket array.
func (s *Set[T]) Clear() { s.m.Clear() }

// Close removes all elements and releases the bucket array.
func (s *Set[T]) Close() { s.m.Close() }

// All returns an iterator over the elements in unspecified order.
func (s *Set[T]) All() iter.Seq[T] {
	return s.m.Keys()
}

// Stats reports the load factor and probe distances of the set.
func (s *Set[T]) Stats() Stats { return s.m.Stats() }
