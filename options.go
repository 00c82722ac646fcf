package rhmap

import (
	"log/slog"
	"unsafe"

	"github.com/theflywheel/rhmap/rawalloc"
)

// Allocator provides raw bucket memory. *rawalloc.Allocator implements it.
// Deallocate is always called with the exact pointer, size and alignment
// that Allocate was called with.
type Allocator interface {
	Allocate(size, align uintptr) unsafe.Pointer
	Deallocate(ptr unsafe.Pointer, oldSize, align uintptr)
}

type options struct {
	capacity  int
	allocator Allocator
	logger    *slog.Logger
}

// Option configures a Map or Set.
type Option func(*options)

// WithCapacity sets the initial bucket count, rounded up to a power of two.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithAllocator sets the allocator bucket arrays are taken from. The
// default is the process-wide rawalloc allocator.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithLogger sets the logger that receives resize events at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = processAllocator{}
	}
	return o
}

// processAllocator defers to whatever rawalloc.Default is at the time of
// each call, so rawalloc.Init and rawalloc.SetPath reach existing maps.
type processAllocator struct{}

func (processAllocator) Allocate(size, align uintptr) unsafe.Pointer {
	return rawalloc.Allocate(size, align)
}

func (processAllocator) Deallocate(ptr unsafe.Pointer, oldSize, align uintptr) {
	rawalloc.Deallocate(ptr, oldSize, align)
}
