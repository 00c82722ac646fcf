package rhmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theflywheel/rhmap"
)

func TestDefaultHasherDeterministic(t *testing.T) {
	type id string
	type pair struct {
		A int16
		B float64
	}

	s := rhmap.DefaultHasher[string]()
	assert.Equal(t, s.Hash("key"), s.Hash("key"))
	assert.NotEqual(t, s.Hash("key"), s.Hash("kez"))

	n := rhmap.DefaultHasher[id]()
	assert.Equal(t, n.Hash("x"), n.Hash(id("x")))

	u := rhmap.DefaultHasher[uint16]()
	assert.Equal(t, u.Hash(513), u.Hash(513))
	assert.NotEqual(t, u.Hash(1), u.Hash(256))

	p := rhmap.DefaultHasher[pair]()
	assert.Equal(t, p.Hash(pair{1, 2.5}), p.Hash(pair{1, 2.5}))
}

func TestDefaultHasherSeeded(t *testing.T) {
	// Independent hashers disagree on at least one of a handful of keys.
	a, b := rhmap.DefaultHasher[int](), rhmap.DefaultHasher[int]()
	differ := false
	for k := 0; k < 8; k++ {
		if a.Hash(k) != b.Hash(k) {
			differ = true
			break
		}
	}
	assert.True(t, differ)

	sa, sb := rhmap.DefaultHasher[string](), rhmap.DefaultHasher[string]()
	assert.NotEqual(t, sa.Hash("flood"), sb.Hash("flood"))
}

func TestHasherFunc(t *testing.T) {
	h := rhmap.HasherFunc[int](func(k int) uint64 { return uint64(k) * 3 })
	assert.Equal(t, uint64(9), h.Hash(3))
}
