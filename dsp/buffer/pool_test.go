package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassFor(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {128, 7}, {129, 8},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classFor(tc.n), "n=%d", tc.n)
	}
}

func TestPoolGetRoundsCapacityToClass(t *testing.T) {
	p := NewPool()

	b := p.Get(100)
	assert.Equal(t, 100, b.Len())
	assert.Equal(t, 128, b.Cap())
	assert.Equal(t, make([]float64, 100), b.Samples())

	assert.Equal(t, 0, p.Get(0).Len())
	assert.Equal(t, 0, p.Get(-5).Len())
}

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()

	for i := 0; i < 10; i++ {
		b := p.Get(16)
		require.Equal(t, make([]float64, 16), b.Samples(), "round %d", i)
		for j := range b.Samples() {
			b.Samples()[j] = float64(j + 1)
		}
		p.Put(b)
	}
}

func TestPoolPutAcceptsForeignBuffers(t *testing.T) {
	p := NewPool()

	// A capacity of 100 covers class 6 (64) but not class 7.
	p.Put(New(100))
	p.Put(New(0))
	p.Put(nil)

	b := p.Get(64)
	assert.GreaterOrEqual(t, b.Cap(), 64)
	assert.Equal(t, 64, b.Len())
}
