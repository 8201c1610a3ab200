package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// Stream is a fixed-capacity ring buffer with one persisted read cursor.
//
// Writes overwrite the oldest sample. The read cursor is kept relative to the
// write index: cursor 0 addresses the oldest sample. Reads never modify
// stored samples, but [Stream.ReadAdvance] and [Stream.ReadAdvanceInto] move
// the cursor; use [Stream.Peek] for a read without side effects.
type Stream struct {
	ring   []float64
	write  int
	cursor int
}

// NewStream allocates a zero-filled ring of capacity samples.
func NewStream(capacity int) (*Stream, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("buffer: stream capacity must be >= 1: %d: %w",
			capacity, core.ErrInvalidConfiguration)
	}
	return &Stream{ring: make([]float64, capacity)}, nil
}

// Len returns the fixed ring capacity.
func (s *Stream) Len() int {
	return len(s.ring)
}

// Cursor returns the total number of samples consumed by advancing reads
// since construction or the last Reset. Modulo Len() it is the read position
// relative to the oldest sample.
func (s *Stream) Cursor() int {
	return s.cursor
}

// Write stores one sample and advances the write index.
func (s *Stream) Write(sample float64) {
	s.ring[s.write] = sample
	s.write++
	if s.write == len(s.ring) {
		s.write = 0
	}
}

// WriteSlice writes samples in order, wrapping around the ring as needed.
func (s *Stream) WriteSlice(samples []float64) {
	for len(samples) > 0 {
		n := core.CopyInto(s.ring[s.write:], samples)
		samples = samples[n:]
		s.write = (s.write + n) % len(s.ring)
	}
}

// WriteSequence writes seq, mixing multi-channel input down to mono first.
func (s *Stream) WriteSequence(seq core.Sequence) {
	if seq.Channels <= 1 {
		s.WriteSlice(seq.Samples)
		return
	}
	s.WriteSlice(seq.Mixdown())
}

// ReadAdvance returns a snapshot of the whole ring in ring order starting at
// the cursor, then advances the cursor by the capacity. Without intervening
// writes, consecutive calls return identical content.
func (s *Stream) ReadAdvance() []float64 {
	out := make([]float64, len(s.ring))
	s.ReadAdvanceInto(out)
	return out
}

// ReadAdvanceInto copies up to Len() samples starting at the cursor into dst,
// advances the cursor by the copied count and returns it. It does not allocate.
func (s *Stream) ReadAdvanceInto(dst []float64) int {
	n := s.Peek(dst)
	s.cursor += n
	return n
}

// Peek copies up to Len() samples starting at the cursor into dst without
// moving the cursor.
func (s *Stream) Peek(dst []float64) int {
	n := len(dst)
	if n > len(s.ring) {
		n = len(s.ring)
	}

	start := (s.write + s.cursor%len(s.ring)) % len(s.ring)
	first := copy(dst[:n], s.ring[start:])
	if first < n {
		copy(dst[first:n], s.ring[:n-first])
	}
	return n
}

// Reset zero-fills the ring and rewinds the write index and cursor.
func (s *Stream) Reset() {
	core.Zero(s.ring)
	s.write = 0
	s.cursor = 0
}
