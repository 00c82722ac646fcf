package table

import (
	"reflect"
	"unsafe"
)

// Allocator is the raw memory source for bucket arrays. rawalloc.Allocator
// implements it.
type Allocator interface {
	Allocate(size, align uintptr) unsafe.Pointer
	Deallocate(ptr unsafe.Pointer, oldSize, align uintptr)
}

// maxHeapBytes bounds heap-backed arrays to the Go heap's 48-bit address
// space.
const maxHeapBytes = 1 << 48

// bucket is one slot of the table. dist holds the probe distance plus one,
// so a zeroed bucket is empty and freshly mapped memory needs no setup.
type bucket[K comparable, V any] struct {
	dist  uint32
	key   K
	value V
}

func (b *bucket[K, V]) occupied() bool { return b.dist != 0 }

// storage is one contiguous bucket array together with the exact
// parameters it was allocated with.
type storage[K comparable, V any] struct {
	slots []bucket[K, V]
	ptr   unsafe.Pointer // nil for heap-backed arrays
	size  uintptr
	align uintptr
}

// newStorage allocates n empty buckets. Mapped arrays come from alloc;
// arrays whose buckets hold Go pointers must stay visible to the garbage
// collector and are taken from the heap instead.
func newStorage[K comparable, V any](alloc Allocator, mapped bool, n int) (storage[K, V], error) {
	var b bucket[K, V]
	elem, align := unsafe.Sizeof(b), unsafe.Alignof(b)
	if uintptr(n) > ^uintptr(0)/elem {
		return storage[K, V]{}, ErrAllocationFailed
	}
	size := elem * uintptr(n)

	if !mapped {
		// make panics past the runtime's address space limit
		if uint64(size) > maxHeapBytes {
			return storage[K, V]{}, ErrAllocationFailed
		}
		return storage[K, V]{slots: make([]bucket[K, V], n)}, nil
	}

	ptr := alloc.Allocate(size, align)
	if ptr == nil {
		return storage[K, V]{}, ErrAllocationFailed
	}
	return storage[K, V]{
		slots: unsafe.Slice((*bucket[K, V])(ptr), n),
		ptr:   ptr,
		size:  size,
		align: align,
	}, nil
}

// release frees the array. The storage is empty afterwards.
func (s *storage[K, V]) release(alloc Allocator) {
	if s.ptr != nil {
		alloc.Deallocate(s.ptr, s.size, s.align)
	}
	*s = storage[K, V]{}
}

// mappable reports whether buckets of K and V may live outside the Go heap.
func mappable[K comparable, V any](alloc Allocator) bool {
	return alloc != nil && !hasPointers(reflect.TypeFor[bucket[K, V]]())
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
