package rhmap

import (
	"hash/maphash"
	"math"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/frand"
)

// Hasher computes the hash of a key. Equal keys must hash equally for the
// lifetime of the map using the Hasher.
type Hasher[K comparable] interface {
	Hash(key K) uint64
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc[K comparable] func(key K) uint64

// Hash calls f(key).
func (f HasherFunc[K]) Hash(key K) uint64 { return f(key) }

type keyClass uint8

const (
	classComparable keyClass = iota
	classString
	classFixed
)

// seededHasher is the default hash policy. String and integer keys go
// through xxhash keyed with a random seed; every other comparable type
// goes through maphash with a random maphash.Seed.
type seededHasher[K comparable] struct {
	class keyClass
	size  uintptr
	seed  uint64
	mseed maphash.Seed
}

// DefaultHasher returns a Hasher with freshly drawn random seeds, so two
// maps never share a hash function and colliding key sets cannot be
// precomputed.
func DefaultHasher[K comparable]() Hasher[K] {
	h := &seededHasher[K]{
		seed:  frand.Uint64n(math.MaxUint64),
		mseed: maphash.MakeSeed(),
	}

	t := reflect.TypeFor[K]()
	switch t.Kind() {
	case reflect.String:
		h.class = classString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.class = classFixed
		h.size = t.Size()
	}
	return h
}

func (h *seededHasher[K]) Hash(key K) uint64 {
	switch h.class {
	case classString:
		var d xxhash.Digest
		d.ResetWithSeed(h.seed)
		_, _ = d.WriteString(*(*string)(unsafe.Pointer(&key)))
		return d.Sum64()
	case classFixed:
		var d xxhash.Digest
		d.ResetWithSeed(h.seed)
		_, _ = d.Write(unsafe.Slice((*byte)(unsafe.Pointer(&key)), h.size))
		return d.Sum64()
	default:
		return maphash.Comparable(h.mseed, key)
	}
}
