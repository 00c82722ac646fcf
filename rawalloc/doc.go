/*
Package rawalloc is a raw memory allocator that takes its pages straight from
the operating system instead of the Go heap.

Every allocation opens a fresh, unnamed temporary file inside a configurable
backing directory, extends it to the requested size, maps it shared and
read-write, and closes the descriptor again. The mapping stays valid after
the descriptor is gone, so an allocation is nothing more than an address and
a length:

	a := rawalloc.New(rawalloc.Config{Path: os.TempDir()})

	p := a.Allocate(4096, 8)
	if p == nil {
		// invalid parameters or the OS refused; treat both as out of memory
	}
	defer a.Deallocate(p, 4096, 8)

Mapped regions are page aligned and zero filled, and Deallocate hands them
straight back to the kernel.

Contract:

  - Allocate returns nil when size is 0, align is 0, align is not a power of
    two, or align exceeds MaxAlign. It also returns nil on any OS failure.
  - Deallocate must receive the exact pointer and size that Allocate
    produced. The allocator keeps no bookkeeping and cannot detect misuse.
  - A failing munmap is fatal: Deallocate panics.

The package also keeps a process-wide Allocator (see Default, Init, Reset and
SetPath) whose backing directory defaults to the user's home directory.

On Linux the backing file is created with O_TMPFILE and never has a
directory entry. Filesystems that reject O_TMPFILE, and other unix systems,
get a uniquely named file that is unlinked before it is mapped.
*/
package rawalloc
