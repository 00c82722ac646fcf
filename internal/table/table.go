// Package table implements a Robin Hood hash table with linear probing and
// backward-shift deletion over a single manually managed bucket array.
//
// Every occupied bucket records how far it sits from the bucket its hash
// selects. Insertion lets an entry that has travelled further take the slot
// of one that has travelled less, which keeps probe lengths short and even,
// and lets lookups stop as soon as they pass a bucket that is closer to home
// than the key they are looking for would be. Removal shifts the following
// run of displaced entries back by one, so the table never holds
// tombstones.
//
// A Table is not safe for concurrent use.
package table

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/bits"
)

const (
	// MinCapacity is the smallest bucket count a table is ever given.
	MinCapacity = 4

	// MaxCapacity is the largest bucket count a table can reach.
	MaxCapacity = 1 << (bits.UintSize - 2)

	// The maximum load factor is loadNum/loadDen (0.9).
	loadNum = 9
	loadDen = 10
)

var (
	// ErrAllocationFailed is returned when a bucket array cannot be allocated.
	// The table is left exactly as it was.
	ErrAllocationFailed = errors.New("bucket allocation failed")

	// ErrInvalidCapacity is returned by Resize for a capacity that is not a
	// power of two or is smaller than the current one.
	ErrInvalidCapacity = errors.New("invalid capacity")
)

// Config configures a Table.
type Config struct {
	// Capacity is the initial bucket count. It is rounded up to a power of
	// two no smaller than MinCapacity.
	Capacity int

	// Allocator provides bucket memory. Nil keeps all buckets on the Go heap.
	Allocator Allocator

	// Logger receives resize events at debug level.
	Logger *slog.Logger
}

// Table is a Robin Hood hash table from K to V.
type Table[K comparable, V any] struct {
	hash     func(K) uint64
	alloc    Allocator
	logger   *slog.Logger
	mapped   bool
	store    storage[K, V]
	capacity int
	length   int
}

// New creates an empty table. No memory is allocated until the first
// insertion.
func New[K comparable, V any](hash func(K) uint64, cfg Config) *Table[K, V] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table[K, V]{
		hash:     hash,
		alloc:    cfg.Allocator,
		logger:   logger,
		mapped:   mappable[K, V](cfg.Allocator),
		capacity: RoundCapacity(cfg.Capacity),
	}
}

// RoundCapacity rounds n up to the next power of two, and to at least
// MinCapacity.
func RoundCapacity(n int) int {
	if n <= MinCapacity {
		return MinCapacity
	}
	if n >= MaxCapacity {
		return MaxCapacity
	}
	return 1 << bits.Len(uint(n-1))
}

// fits reports whether n entries stay within the load factor at capacity c.
// It computes floor(c*loadNum/loadDen) without overflowing for any c up to
// MaxCapacity.
func fits(n, c int) bool {
	return n <= c/loadDen*loadNum+c%loadDen*loadNum/loadDen
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int { return t.length }

// Capacity returns the number of buckets.
func (t *Table[K, V]) Capacity() int { return t.capacity }

// Mapped reports whether the bucket array lives in allocator memory rather
// than on the Go heap.
func (t *Table[K, V]) Mapped() bool { return t.mapped }

func (t *Table[K, V]) mask() uint64 { return uint64(t.capacity - 1) }

// Insert stores value under key. If key was already present its value is
// replaced in place and the previous value is returned with replaced set.
// Insert grows the table first when one more entry would exceed the load
// factor; if that allocation fails the table is unchanged and the error
// wraps ErrAllocationFailed.
func (t *Table[K, V]) Insert(key K, value V) (prev V, replaced bool, err error) {
	h := t.hash(key)

	if t.store.slots == nil || !fits(t.length+1, t.capacity) {
		if b := t.find(h, key); b != nil {
			prev, b.value = b.value, value
			return prev, true, nil
		}
		if err := t.ensure(t.length + 1); err != nil {
			return prev, false, err
		}
	}

	slots := t.store.slots
	mask := t.mask()
	idx := h & mask
	for dist := uint32(1); ; dist++ {
		b := &slots[idx]
		if !b.occupied() {
			*b = bucket[K, V]{dist: dist, key: key, value: value}
			t.length++
			return prev, false, nil
		}
		// an equal key hashes to the same home bucket, so it can only sit
		// at the same distance
		if b.dist == dist && b.key == key {
			prev, b.value = b.value, value
			return prev, true, nil
		}
		if b.dist < dist {
			// nothing past a richer resident can match key
			t.displace(idx, bucket[K, V]{dist: dist, key: key, value: value})
			t.length++
			return prev, false, nil
		}
		idx = (idx + 1) & mask
	}
}

// displace places cur at idx or beyond, stealing any bucket whose resident
// is closer to home than the entry being carried and carrying the evicted
// resident onward. cur must not already be in the table.
func (t *Table[K, V]) displace(idx uint64, cur bucket[K, V]) {
	slots := t.store.slots
	mask := t.mask()
	for {
		b := &slots[idx]
		if !b.occupied() {
			*b = cur
			return
		}
		if b.dist < cur.dist {
			*b, cur = cur, *b
		}
		idx = (idx + 1) & mask
		cur.dist++
	}
}

// find returns the bucket holding key, or nil.
func (t *Table[K, V]) find(h uint64, key K) *bucket[K, V] {
	idx, ok := t.index(h, key)
	if !ok {
		return nil
	}
	return &t.store.slots[idx]
}

func (t *Table[K, V]) index(h uint64, key K) (uint64, bool) {
	slots := t.store.slots
	if slots == nil {
		return 0, false
	}
	mask := t.mask()
	idx := h & mask
	for dist := uint32(1); ; dist++ {
		b := &slots[idx]
		// empty buckets have dist 0 and stop the probe here too
		if b.dist < dist {
			return 0, false
		}
		if b.dist == dist && b.key == key {
			return idx, true
		}
		idx = (idx + 1) & mask
	}
}

// Get returns the value stored under key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	if b := t.find(t.hash(key), key); b != nil {
		return b.value, true
	}
	var zero V
	return zero, false
}

// GetPtr returns a pointer to the value stored under key, or nil. The
// pointer is valid until the next mutation of the table.
func (t *Table[K, V]) GetPtr(key K) *V {
	if b := t.find(t.hash(key), key); b != nil {
		return &b.value
	}
	return nil
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	return t.find(t.hash(key), key) != nil
}

// Remove deletes key and returns its value. The run of entries following
// the removed one is shifted back a bucket at a time, each losing one unit
// of displacement, until an empty bucket or an entry at its home bucket is
// reached.
func (t *Table[K, V]) Remove(key K) (V, bool) {
	idx, ok := t.index(t.hash(key), key)
	if !ok {
		var zero V
		return zero, false
	}

	slots := t.store.slots
	mask := t.mask()
	value := slots[idx].value
	for {
		next := (idx + 1) & mask
		if slots[next].dist <= 1 {
			break
		}
		slots[idx] = slots[next]
		slots[idx].dist--
		idx = next
	}
	slots[idx] = bucket[K, V]{}
	t.length--
	return value, true
}

// Reserve makes room for additional more entries without further growth.
func (t *Table[K, V]) Reserve(additional int) error {
	if additional < 0 {
		return fmt.Errorf("reserve %d: %w", additional, ErrInvalidCapacity)
	}
	if additional > MaxCapacity {
		return fmt.Errorf("reserve %d: %w", additional, ErrAllocationFailed)
	}
	return t.ensure(t.length + additional)
}

// ensure allocates or grows the bucket array so that n entries fit.
func (t *Table[K, V]) ensure(n int) error {
	if t.store.slots != nil && fits(n, t.capacity) {
		return nil
	}
	if !fits(n, MaxCapacity) {
		return fmt.Errorf("room for %d entries: %w", n, ErrAllocationFailed)
	}
	c := t.capacity
	for !fits(n, c) {
		c <<= 1
	}
	return t.rehash(c)
}

// Resize moves every entry into a new array of capacity buckets. capacity
// must be a power of two no larger than MaxCapacity and no smaller than the
// current capacity; tables never shrink.
func (t *Table[K, V]) Resize(capacity int) error {
	if capacity < t.capacity || capacity > MaxCapacity || capacity&(capacity-1) != 0 {
		return fmt.Errorf("resize to %d buckets with %d entries: %w", capacity, t.length, ErrInvalidCapacity)
	}
	return t.rehash(capacity)
}

func (t *Table[K, V]) rehash(capacity int) error {
	fresh, err := newStorage[K, V](t.alloc, t.mapped, capacity)
	if err != nil {
		t.logger.Debug("resize failed",
			"from", t.capacity,
			"to", capacity,
			"len", t.length,
			"error", err,
		)
		return fmt.Errorf("resize to %d buckets: %w", capacity, err)
	}

	old, oldCapacity := t.store, t.capacity
	t.store, t.capacity = fresh, capacity

	mask := t.mask()
	for i := range old.slots {
		b := &old.slots[i]
		if !b.occupied() {
			continue
		}
		t.displace(t.hash(b.key)&mask, bucket[K, V]{dist: 1, key: b.key, value: b.value})
	}
	old.release(t.alloc)

	t.logger.Debug("table resized",
		"from", oldCapacity,
		"to", capacity,
		"len", t.length,
		"mapped", t.mapped,
	)
	return nil
}

// Clear removes every entry but keeps the bucket array for reuse.
func (t *Table[K, V]) Clear() {
	clear(t.store.slots)
	t.length = 0
}

// Close removes every entry and releases the bucket array. The table stays
// usable and allocates a new array on the next insertion.
func (t *Table[K, V]) Close() {
	t.store.release(t.alloc)
	t.length = 0
}

// All iterates over the entries in bucket order. The order is stable as
// long as the table is not modified.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		// re-read the array each step: yield may resize or close the table
		for i := 0; i < len(t.store.slots); i++ {
			b := &t.store.slots[i]
			if !b.occupied() {
				continue
			}
			if !yield(b.key, b.value) {
				return
			}
		}
	}
}
