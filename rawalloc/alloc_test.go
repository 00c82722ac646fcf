//go:build unix

package rawalloc

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	return New(Config{Path: t.TempDir()})
}

func TestAllocateRejectsInvalidParameters(t *testing.T) {
	a := newTestAllocator(t)

	testCases := []struct {
		name  string
		size  uintptr
		align uintptr
	}{
		{"zero size", 0, 8},
		{"zero align", 64, 0},
		{"non power of two align", 64, 3},
		{"align above page size", 64, 8192},
		{"align just above page size", 64, MaxAlign + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, a.Allocate(tc.size, tc.align))
		})
	}
}

func TestAllocateReturnsZeroedWritableMemory(t *testing.T) {
	a := newTestAllocator(t)

	const size = 3 * 4096
	p := a.Allocate(size, MaxAlign)
	require.NotNil(t, p)
	defer a.Deallocate(p, size, MaxAlign)

	assert.Zero(t, uintptr(p)%MaxAlign, "mapping must be page aligned")

	mem := unsafe.Slice((*byte)(p), size)
	for i, b := range mem {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, b)
		}
	}

	for i := range mem {
		mem[i] = byte(i)
	}
	assert.Equal(t, byte(0xff), mem[255])
	assert.Equal(t, byte(0x01), mem[size-255])
}

func TestAllocateLeavesNoDirectoryEntries(t *testing.T) {
	dir := t.TempDir()
	a := New(Config{Path: dir})

	p := a.Allocate(128, 8)
	require.NotNil(t, p)
	defer a.Deallocate(p, 128, 8)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAllocateFailsForUnusableDirectory(t *testing.T) {
	a := New(Config{Path: filepath.Join(t.TempDir(), "missing")})
	assert.Nil(t, a.Allocate(64, 8))
}

func TestSetPathAffectsLaterAllocations(t *testing.T) {
	a := newTestAllocator(t)

	p := a.Allocate(64, 8)
	require.NotNil(t, p)

	a.SetPath(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, a.Allocate(64, 8))

	// the earlier mapping is unaffected by the path change
	*(*uint64)(p) = 42
	assert.Equal(t, uint64(42), *(*uint64)(p))
	a.Deallocate(p, 64, 8)

	dir := t.TempDir()
	a.SetPath(dir)
	assert.Equal(t, dir, a.Path())

	p = a.Allocate(64, 8)
	require.NotNil(t, p)
	a.Deallocate(p, 64, 8)
}

func TestAllocateDeallocateCycles(t *testing.T) {
	a := newTestAllocator(t)

	sizes := []uintptr{1, 7, 64, 4095, 4096, 4097, 1 << 16, 1 << 20}
	for round := 0; round < 50; round++ {
		for _, size := range sizes {
			p := a.Allocate(size, 8)
			require.NotNil(t, p, "round %d size %d", round, size)
			*(*byte)(p) = byte(round)
			a.Deallocate(p, size, 8)
		}
	}
}

func TestDeallocatePanicsOnMunmapFailure(t *testing.T) {
	a := newTestAllocator(t)

	p := a.Allocate(4096, 8)
	require.NotNil(t, p)
	defer a.Deallocate(p, 4096, 8)

	// munmap rejects addresses that are not page aligned
	assert.Panics(t, func() {
		a.Deallocate(unsafe.Add(p, 1), 4096, 8)
	})
}

func TestConcurrentAllocateAndSetPath(t *testing.T) {
	a := newTestAllocator(t)
	dirs := []string{t.TempDir(), t.TempDir()}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if g == 0 {
					a.SetPath(dirs[i%len(dirs)])
					continue
				}
				p := a.Allocate(256, 16)
				if p == nil {
					t.Errorf("allocation %d in goroutine %d failed", i, g)
					return
				}
				a.Deallocate(p, 256, 16)
			}
		}(g)
	}
	wg.Wait()
}

func TestPageSize(t *testing.T) {
	ps := PageSize()
	assert.Positive(t, ps)
	assert.Zero(t, ps&(ps-1))
}
