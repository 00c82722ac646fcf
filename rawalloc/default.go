//go:build unix

package rawalloc

import (
	"sync"
	"unsafe"
)

var (
	stdMu sync.RWMutex
	std   = New(Config{})
)

// Default returns the process-wide Allocator.
func Default() *Allocator {
	stdMu.RLock()
	defer stdMu.RUnlock()

	return std
}

// Init replaces the process-wide Allocator with one built from cfg.
// Memory handed out by the previous instance stays valid and may still be
// released through any Allocator, since Deallocate needs no per-instance
// state.
func Init(cfg Config) {
	a := New(cfg)

	stdMu.Lock()
	defer stdMu.Unlock()

	std = a
}

// Reset restores the process-wide Allocator to its defaults.
func Reset() {
	Init(Config{})
}

// SetPath sets the backing directory of the process-wide Allocator.
func SetPath(path string) {
	Default().SetPath(path)
}

// Path returns the backing directory of the process-wide Allocator.
func Path() string {
	return Default().Path()
}

// Allocate allocates from the process-wide Allocator.
func Allocate(size, align uintptr) unsafe.Pointer {
	return Default().Allocate(size, align)
}

// Deallocate releases memory obtained from Allocate.
func Deallocate(ptr unsafe.Pointer, oldSize, align uintptr) {
	Default().Deallocate(ptr, oldSize, align)
}
