package main

import (
	"fmt"
	"log"
	"os"

	"github.com/theflywheel/rhmap"
	"github.com/theflywheel/rhmap/rawalloc"
)

func main() {
	// Back bucket arrays with files in a scratch directory
	dir, err := os.MkdirTemp("", "rhmap-example-*")
	if err != nil {
		log.Fatalf("Failed to create backing directory: %v", err)
	}
	defer os.RemoveAll(dir)
	rawalloc.SetPath(dir)

	m := rhmap.New[uint64, uint64]()
	defer m.Close()

	fmt.Println("Map created, backing directory", rawalloc.Path())

	// Insert some data
	for i := uint64(0); i < 10; i++ {
		if _, _, err := m.Insert(i, i*100); err != nil {
			log.Fatalf("Failed to insert key %d: %v", i, err)
		}
	}

	fmt.Println("Inserted 10 key-value pairs")

	// Retrieve and display some values
	for i := uint64(0); i < 15; i += 2 {
		if v, found := m.Get(i); found {
			fmt.Printf("Key %d => Value %d\n", i, v)
		} else {
			fmt.Printf("Key %d not found\n", i)
		}
	}

	// Update a value
	prev, _, err := m.Insert(2, 999)
	if err != nil {
		log.Fatalf("Failed to update key: %v", err)
	}
	v, _ := m.Get(2)
	fmt.Printf("Updated key 2 => Value %d (was %d)\n", v, prev)

	// Remove a value
	if old, ok := m.Remove(4); ok {
		fmt.Printf("Removed key 4 (held %d), %d entries left\n", old, m.Len())
	}

	st := m.Stats()
	fmt.Printf("Capacity %d, load %.2f, max displacement %d, mapped %v\n",
		st.Capacity, st.LoadFactor, st.MaxDisplacement, st.Mapped)

	// Sets work the same way
	s := rhmap.NewSet[uint32]()
	defer s.Close()
	for _, x := range []uint32{5, 5, 7} {
		added, err := s.Insert(x)
		if err != nil {
			log.Fatalf("Failed to add %d: %v", x, err)
		}
		fmt.Printf("Add %d to set => new %v\n", x, added)
	}

	fmt.Println("Example completed successfully")
}
