package core

import (
	"errors"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceMixdownStereo(t *testing.T) {
	seq := Sequence{
		Samples:    []float64{1, 3, -1, 1, 0.5, 0.5},
		SampleRate: 48000,
		Channels:   2,
	}
	require.NoError(t, seq.Validate())

	assert.Equal(t, 3, seq.Frames())
	assert.Equal(t, []float64{2, 0, 0.5}, seq.Mixdown())
}

func TestSequenceMixdownMonoCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	seq := NewSequence(in, 8000)

	out := seq.Mixdown()
	out[0] = 42
	assert.Equal(t, 1.0, in[0], "mixdown must not alias the input")
	assert.InDelta(t, 3.0/8000, seq.Duration(), 1e-15)
}

func TestSequenceValidate(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
	}{
		{name: "zero rate", seq: Sequence{Samples: []float64{1}, SampleRate: 0, Channels: 1}},
		{name: "negative channels", seq: Sequence{Samples: []float64{1}, SampleRate: 100, Channels: -2}},
		{name: "misaligned", seq: Sequence{Samples: []float64{1, 2, 3}, SampleRate: 100, Channels: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seq.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
		})
	}
}

func TestFloatBufferRoundTrip(t *testing.T) {
	seq := Sequence{Samples: []float64{0.1, 0.2, 0.3, 0.4}, SampleRate: 44100, Channels: 2}

	buf := seq.ToFloatBuffer()
	require.NotNil(t, buf.Format)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 44100, buf.Format.SampleRate)

	back, err := FromFloatBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, seq.Samples, back.Samples)
	assert.Equal(t, seq.SampleRate, back.SampleRate)
}

func TestFromFloatBufferRejectsMissingFormat(t *testing.T) {
	_, err := FromFloatBuffer(&audio.FloatBuffer{Data: []float64{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestStopwatch(t *testing.T) {
	var zero Stopwatch
	assert.Equal(t, time.Duration(0), zero.Elapsed())

	sw := StartStopwatch()
	assert.GreaterOrEqual(t, sw.Elapsed(), time.Duration(0))
}
