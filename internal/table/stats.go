package table

import "fmt"

// Stats describes the shape of a table.
type Stats struct {
	Len              int
	Capacity         int
	LoadFactor       float64
	MaxDisplacement  int
	MeanDisplacement float64
	Mapped           bool
	BucketBytes      uintptr
}

// Stats walks the bucket array and summarizes probe distances.
func (t *Table[K, V]) Stats() Stats {
	s := Stats{
		Len:         t.length,
		Capacity:    t.capacity,
		LoadFactor:  float64(t.length) / float64(t.capacity),
		Mapped:      t.store.ptr != nil,
		BucketBytes: t.store.size,
	}
	var total int
	for i := range t.store.slots {
		b := &t.store.slots[i]
		if !b.occupied() {
			continue
		}
		d := int(b.dist - 1)
		total += d
		s.MaxDisplacement = max(s.MaxDisplacement, d)
	}
	if t.length > 0 {
		s.MeanDisplacement = float64(total) / float64(t.length)
	}
	return s
}

// Displacement returns the recorded probe distance of bucket i, or -1 if
// the bucket is empty.
func (t *Table[K, V]) Displacement(i int) int {
	if i < 0 || i >= len(t.store.slots) {
		return -1
	}
	return int(t.store.slots[i].dist) - 1
}

// Check verifies the table invariants: power-of-two capacity, the load
// factor bound, an accurate length, recorded displacements matching each
// key's true distance from its home bucket, the Robin Hood ordering, no
// holes in front of displaced entries and no duplicate keys.
func (t *Table[K, V]) Check() error {
	if t.capacity < MinCapacity || t.capacity&(t.capacity-1) != 0 {
		return fmt.Errorf("capacity %d is not a power of two >= %d", t.capacity, MinCapacity)
	}
	if !fits(t.length, t.capacity) {
		return fmt.Errorf("length %d exceeds load factor at capacity %d", t.length, t.capacity)
	}

	slots := t.store.slots
	if slots == nil {
		if t.length != 0 {
			return fmt.Errorf("length %d without a bucket array", t.length)
		}
		return nil
	}
	if len(slots) != t.capacity {
		return fmt.Errorf("bucket array has %d buckets, capacity is %d", len(slots), t.capacity)
	}

	mask := t.mask()
	seen := make(map[K]int, t.length)
	count := 0
	for i := range slots {
		b := &slots[i]
		if !b.occupied() {
			continue
		}
		count++
		if j, dup := seen[b.key]; dup {
			return fmt.Errorf("key %v stored in buckets %d and %d", b.key, j, i)
		}
		seen[b.key] = i

		home := t.hash(b.key) & mask
		want := (uint64(i) - home) & mask
		if got := uint64(b.dist - 1); got != want {
			return fmt.Errorf("bucket %d: recorded displacement %d, actual %d", i, got, want)
		}

		// a displaced entry always has an occupied bucket right before it,
		// otherwise a removal left a hole behind
		if b.dist > 1 && !slots[(uint64(i)-1)&mask].occupied() {
			return fmt.Errorf("bucket %d: displacement %d after an empty bucket", i, b.dist-1)
		}

		// the next bucket can be at most one step further from home
		next := &slots[(uint64(i)+1)&mask]
		if next.occupied() && next.dist > b.dist+1 {
			return fmt.Errorf("bucket %d: displacement %d follows %d", (uint64(i)+1)&mask, next.dist-1, b.dist-1)
		}
	}
	if count != t.length {
		return fmt.Errorf("length %d, found %d occupied buckets", t.length, count)
	}
	return nil
}
