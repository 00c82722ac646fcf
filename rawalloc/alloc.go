//go:build unix

package rawalloc

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"
)

// MaxAlign is the largest alignment Allocate accepts. Mappings are page
// aligned, so anything up to the page size is satisfied for free.
const MaxAlign = 4096

// Allocator hands out memory backed by unnamed files mapped into the
// process. The zero value is not usable; create one with New.
type Allocator struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
}

// New creates an Allocator from cfg. An empty Path selects DefaultPath.
func New(cfg Config) *Allocator {
	cfg = cfg.withDefaults()
	return &Allocator{
		path:   cfg.Path,
		logger: cfg.Logger,
	}
}

// SetPath replaces the backing directory used by subsequent allocations.
// Allocations that already completed are not affected.
func (a *Allocator) SetPath(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.path = path
}

// Path returns the current backing directory.
func (a *Allocator) Path() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.path
}

// Allocate returns size bytes of zeroed memory aligned to at least align,
// or nil if the parameters are invalid or the OS cannot provide the memory.
func (a *Allocator) Allocate(size, align uintptr) unsafe.Pointer {
	if size == 0 || align == 0 || align&(align-1) != 0 || align > MaxAlign {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	ptr, err := mapBacked(a.path, size)
	if err != nil {
		a.logger.Debug("allocation failed",
			"size", size,
			"align", align,
			"path", a.path,
			"error", err,
		)
		return nil
	}
	return ptr
}

// Deallocate unmaps oldSize bytes at ptr. ptr and oldSize must be exactly
// what a previous Allocate call used. align is accepted for symmetry with
// Allocate and is not needed to release the mapping.
//
// A failing munmap means the caller broke that contract (double free or a
// wrong size). The address space can no longer be trusted, so Deallocate
// panics instead of returning an error.
func (a *Allocator) Deallocate(ptr unsafe.Pointer, oldSize, align uintptr) {
	if err := unix.MunmapPtr(ptr, oldSize); err != nil {
		a.logger.Error("munmap failed",
			"addr", fmt.Sprintf("%p", ptr),
			"size", oldSize,
			"align", align,
			"error", err,
		)
		panic(fmt.Errorf("rawalloc: munmap %p (%d bytes): %w", ptr, oldSize, err))
	}
}

// mapBacked creates an unnamed file of exactly size bytes in dir and maps
// it. The descriptor is closed on every path; if closing fails after the
// mapping succeeded the mapping is released again.
func mapBacked(dir string, size uintptr) (ptr unsafe.Pointer, err error) {
	if uint64(size) > math.MaxInt64 {
		return nil, fmt.Errorf("size %d exceeds file length limit: %w", size, unix.ENOMEM)
	}

	fd, err := openUnnamed(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create backing file in %q: %w", dir, err)
	}
	defer func() {
		cerr := unix.Close(fd)
		if cerr == nil {
			return
		}
		err = multierror.Append(err, fmt.Errorf("failed to close backing file: %w", cerr))
		if ptr != nil {
			if uerr := unix.MunmapPtr(ptr, size); uerr != nil {
				err = multierror.Append(err, fmt.Errorf("failed to unmap after close error: %w", uerr))
			}
			ptr = nil
		}
	}()

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, fmt.Errorf("failed to truncate backing file: %w", err)
	}

	p, err := unix.MmapPtr(fd, 0, nil, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return p, nil
}

// PageSize reports the OS page size.
func PageSize() int {
	return unix.Getpagesize()
}
