package rhmap

import (
	"iter"

	"github.com/theflywheel/rhmap/internal/table"
)

// Map is a hash map using Robin Hood linear probing. Its bucket array is
// taken from an Allocator, by default memory mapped straight from the OS.
//
// A Map must be released with Close. It is not safe for concurrent use.
type Map[K comparable, V any] struct {
	t *table.Table[K, V]
}

// Stats describes the shape of a map's bucket array.
type Stats = table.Stats

// New creates an empty map hashed with DefaultHasher.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	return NewWithHasher[K, V](DefaultHasher[K](), opts...)
}

// NewWithCapacity creates an empty map with at least n buckets. n is
// rounded up to a power of two.
func NewWithCapacity[K comparable, V any](n int, opts ...Option) *Map[K, V] {
	return New[K, V](append(opts[:len(opts):len(opts)], WithCapacity(n))...)
}

// NewWithHasher creates an empty map hashed with h.
func NewWithHasher[K comparable, V any](h Hasher[K], opts ...Option) *Map[K, V] {
	o := buildOptions(opts)
	return &Map[K, V]{
		t: table.New[K, V](h.Hash, table.Config{
			Capacity:  o.capacity,
			Allocator: o.allocator,
			Logger:    o.logger,
		}),
	}
}

// Insert stores value under key. If key was present, the previous value is
// returned and replaced is true. An error wrapping ErrAllocationFailed means
// the map could not grow and is unchanged.
func (m *Map[K, V]) Insert(key K, value V) (prev V, replaced bool, err error) {
	return m.t.Insert(key, value)
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.t.Get(key)
}

// GetMut returns a pointer to the value stored under key, or nil. The
// pointer is only valid until the map is next modified.
func (m *Map[K, V]) GetMut(key K) *V {
	return m.t.GetPtr(key)
}

// Remove deletes key and returns the value it held.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	return m.t.Remove(key)
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.t.Contains(key)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.t.Len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.t.Len() == 0
}

// Capacity returns the number of buckets.
func (m *Map[K, V]) Capacity() int {
	return m.t.Capacity()
}

// Reserve grows the map so that additional more entries fit without
// further resizing. It fails with ErrAllocationFailed, leaving the map
// unchanged, when the buckets cannot be allocated.
func (m *Map[K, V]) Reserve(additional int) error {
	return m.t.Reserve(additional)
}

// Clear removes all entries. The bucket array is kept for reuse.
func (m *Map[K, V]) Clear() {
	m.t.Clear()
}

// Close removes all entries and returns the bucket array to its allocator.
// The map may be used again afterwards.
func (m *Map[K, V]) Close() {
	m.t.Close()
}

// Stats reports the load factor and probe distances of the map.
func (m *Map[K, V]) Stats() Stats {
	return m.t.Stats()
}

// All returns an iterator over the entries in unspecified order. The order
// stays the same as long as the map is not modified.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.t.All()
}

// Keys returns an iterator over the keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.t.All() {
			if !yield(v) {
				return
			}
		}
	}
}
