package rhmap_test

import (
	"fmt"
	"slices"

	"github.com/theflywheel/rhmap"
)

func ExampleMap() {
	m := rhmap.New[uint64, uint64]()
	defer m.Close()

	for i := uint64(0); i < 10; i++ {
		if _, _, err := m.Insert(i, i*100); err != nil {
			panic(err)
		}
	}

	if v, ok := m.Get(7); ok {
		fmt.Println("Value:", v)
	}
	prev, _, _ := m.Insert(7, 999)
	fmt.Println("Previous:", prev)
	fmt.Println("Len:", m.Len())
	// Output:
	// Value: 700
	// Previous: 700
	// Len: 10
}

func ExampleSet() {
	s := rhmap.NewSet[string]()
	defer s.Close()

	for _, w := range []string{"b", "a", "b", "c"} {
		_, _ = s.Insert(w)
	}
	words := slices.Sorted(s.All())
	fmt.Println(words)
	// Output: [a b c]
}
