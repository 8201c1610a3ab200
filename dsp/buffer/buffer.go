package buffer

// Buffer is a reusable scratch slice of samples.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer of length samples. Negative lengths are
// treated as zero.
func New(length int) *Buffer {
	return &Buffer{samples: make([]float64, max(length, 0))}
}

// Samples returns the backing slice.
func (b *Buffer) Samples() []float64 { return b.samples }

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.samples) }

// Cap returns the capacity of the backing slice.
func (b *Buffer) Cap() int { return cap(b.samples) }

// Resize sets the length to n. Existing samples are kept; samples past the
// old length read as zero even when the backing array is reused.
func (b *Buffer) Resize(n int) {
	n = max(n, 0)
	old := len(b.samples)
	if n > cap(b.samples) {
		grown := make([]float64, n)
		copy(grown, b.samples)
		b.samples = grown
		return
	}
	b.samples = b.samples[:n]
	if n > old {
		clear(b.samples[old:])
	}
}

// Zero clears every sample.
func (b *Buffer) Zero() { clear(b.samples) }
