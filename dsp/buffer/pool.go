package buffer

import (
	"math/bits"
	"sync"
)

// poolClasses bounds the pooled capacity at 2^(poolClasses-1) samples.
// Larger requests are allocated directly and dropped on Put.
const poolClasses = 28

// Pool recycles Buffers in power-of-two capacity classes, so a request for a
// short grain never pins a buffer sized for a whole stretch output.
//
// Pool is safe for concurrent use.
type Pool struct {
	classes [poolClasses]sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a zeroed Buffer of length samples. Return it with Put once
// done.
func (p *Pool) Get(length int) *Buffer {
	length = max(length, 0)
	c := classFor(length)
	if c >= poolClasses {
		return New(length)
	}

	b, _ := p.classes[c].Get().(*Buffer)
	if b == nil {
		b = &Buffer{samples: make([]float64, 0, 1<<c)}
	}
	b.samples = b.samples[:length]
	clear(b.samples)
	return b
}

// Put hands b back to the pool. b must not be used afterwards.
func (p *Pool) Put(b *Buffer) {
	if b == nil || cap(b.samples) == 0 {
		return
	}
	// File under the largest class the capacity fully covers.
	c := bits.Len(uint(cap(b.samples))) - 1
	if c >= poolClasses {
		return
	}
	p.classes[c].Put(b)
}

// classFor returns the smallest class whose capacity holds n samples.
func classFor(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
