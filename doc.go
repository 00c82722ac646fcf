/*
Package rhmap provides a hash map and a hash set built on Robin Hood linear
probing, with bucket arrays that live in memory mapped directly from the
operating system instead of the Go heap.

Map is designed to be a general-purpose associative container whose memory
is returned to the kernel the moment it is no longer needed. Every resize
maps a fresh bucket array through package rawalloc and unmaps the old one,
so a long-lived process does not accumulate heap fragmentation from large
tables.

Basic usage:

	import "github.com/theflywheel/rhmap"

	m := rhmap.New[uint64, uint64]()
	defer m.Close()

	// Insert data
	if _, _, err := m.Insert(12345, 67890); err != nil {
		log.Fatal(err)
	}

	// Retrieve data
	if v, ok := m.Get(12345); ok {
		fmt.Println("Value:", v)
	}

	s := rhmap.NewSet[string]()
	defer s.Close()
	added, _ := s.Insert("hello") // true

Features:

  - Generic keys (any comparable type) and values
  - Robin Hood probing: short, evenly distributed probe sequences
  - Backward-shift deletion: no tombstones, lookups never slow down after removals
  - Automatic doubling when the load factor would exceed 0.9
  - Randomly seeded xxhash per map to resist hash flooding
  - Bucket arrays from unnamed memory-mapped files (see package rawalloc)

Implementation Details:

The table is a single power-of-two array of buckets. Each bucket holds the
key, the value and the distance of the entry from the bucket its hash
selects. Insertion probes forward and swaps the incoming entry with any
resident that is closer to its own home bucket, carrying the evicted
resident onward. Lookups stop at an empty bucket or at the first resident
that is closer to home than the key being searched would be. Removal shifts
the following displaced entries back by one bucket.

Keys and values that contain Go pointers (strings, slices, maps, interfaces)
cannot be hidden from the garbage collector, so maps of such types keep their
bucket array on the Go heap. The algorithm is the same either way; Stats
reports which kind of memory a map is using.

Maps are not synchronized. Memory is only returned by Close; a Map that is
dropped without Close leaks its mapping until the process exits.
*/
package rhmap
