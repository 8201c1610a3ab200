package core

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Sequence is an ordered run of samples tagged with a sample rate.
//
// Multi-channel data is interleaved frame by frame. A Sequence passed into
// this module is borrowed; sequences returned by it are newly allocated.
type Sequence struct {
	Samples    []float64
	SampleRate float64
	Channels   int
}

// NewSequence returns a mono sequence that borrows samples.
func NewSequence(samples []float64, sampleRate float64) Sequence {
	return Sequence{Samples: samples, SampleRate: sampleRate, Channels: 1}
}

// Validate checks sample rate, channel count and frame alignment.
func (s Sequence) Validate() error {
	if !IsFinitePositive(s.SampleRate) {
		return fmt.Errorf("sequence sample rate must be positive and finite: %f: %w",
			s.SampleRate, ErrInvalidConfiguration)
	}
	if s.channels() < 1 {
		return fmt.Errorf("sequence channel count must be >= 1: %d: %w", s.Channels, ErrInvalidConfiguration)
	}
	if len(s.Samples)%s.channels() != 0 {
		return fmt.Errorf("sequence length %d is not a multiple of %d channels: %w",
			len(s.Samples), s.channels(), ErrInvalidConfiguration)
	}
	return nil
}

// Frames returns the number of sample frames.
func (s Sequence) Frames() int {
	ch := s.channels()
	if ch < 1 {
		return 0
	}
	return len(s.Samples) / ch
}

// Duration returns the sequence length in seconds.
func (s Sequence) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames()) / s.SampleRate
}

// Mixdown averages all channels into a new mono slice. Mono input is copied.
func (s Sequence) Mixdown() []float64 {
	ch := s.channels()
	if ch <= 1 {
		out := make([]float64, len(s.Samples))
		copy(out, s.Samples)
		return out
	}

	frames := len(s.Samples) / ch
	out := make([]float64, frames)
	scale := 1 / float64(ch)
	for f := 0; f < frames; f++ {
		sum := 0.0
		for c := 0; c < ch; c++ {
			sum += s.Samples[f*ch+c]
		}
		out[f] = sum * scale
	}
	return out
}

// ToFloatBuffer converts the sequence into a go-audio buffer. Samples are
// copied; fractional sample rates are rounded.
func (s Sequence) ToFloatBuffer() *audio.FloatBuffer {
	data := make([]float64, len(s.Samples))
	copy(data, s.Samples)
	return &audio.FloatBuffer{
		Format: &audio.Format{
			NumChannels: s.channels(),
			SampleRate:  int(math.Round(s.SampleRate)),
		},
		Data: data,
	}
}

// FromFloatBuffer wraps a go-audio buffer as a Sequence without copying.
func FromFloatBuffer(buf *audio.FloatBuffer) (Sequence, error) {
	if buf == nil || buf.Format == nil {
		return Sequence{}, fmt.Errorf("float buffer has no format: %w", ErrInvalidConfiguration)
	}

	seq := Sequence{
		Samples:    buf.Data,
		SampleRate: float64(buf.Format.SampleRate),
		Channels:   buf.Format.NumChannels,
	}
	if err := seq.Validate(); err != nil {
		return Sequence{}, err
	}
	return seq, nil
}

func (s Sequence) channels() int {
	if s.Channels == 0 {
		return 1
	}
	return s.Channels
}
