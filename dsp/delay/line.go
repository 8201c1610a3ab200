package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/curve"
	"github.com/cwbudde/algo-grain/dsp/interp"
)

// Option configures a Line.
type Option func(*Line)

// WithMode selects the tap interpolation. Linear is the default.
func WithMode(mode interp.Mode) Option {
	return func(l *Line) { l.mode = mode }
}

// Line is a circular delay line with fractional, seconds-based reads.
//
// Delay 0 addresses the most recently written sample. Delays outside
// [0, MaxDelay] are clamped to the nearest bound. A Line is single-owner and
// not safe for concurrent use.
type Line struct {
	buffer     []float64
	writePos   int
	sampleRate float64
	maxDelay   float64
	delay      float64
	mode       interp.Mode
}

// New returns a zero-filled line able to delay by up to maxDelaySeconds.
func New(sampleRate, maxDelaySeconds float64, opts ...Option) (*Line, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("delay: sample rate %v: %w", sampleRate, core.ErrInvalidConfiguration)
	}
	if !core.IsFinitePositive(maxDelaySeconds) {
		return nil, fmt.Errorf("delay: max delay %v: %w", maxDelaySeconds, core.ErrInvalidConfiguration)
	}

	size := int(math.Ceil(sampleRate*maxDelaySeconds)) + 1
	l := &Line{
		buffer:     make([]float64, size),
		sampleRate: sampleRate,
		maxDelay:   maxDelaySeconds,
		mode:       interp.Linear,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Len returns the ring size in samples.
func (l *Line) Len() int { return len(l.buffer) }

// SampleRate returns the configured sample rate in Hz.
func (l *Line) SampleRate() float64 { return l.sampleRate }

// MaxDelay returns the largest addressable delay in seconds.
func (l *Line) MaxDelay() float64 { return l.maxDelay }

// Mode returns the tap interpolation mode.
func (l *Line) Mode() interp.Mode { return l.mode }

// CurrentDelay returns the delay used by ReadCurrent, in seconds.
func (l *Line) CurrentDelay() float64 { return l.delay }

// SetDelay sets the delay used by ReadCurrent. The value is clamped.
func (l *Line) SetDelay(delaySeconds float64) {
	l.delay = l.clampDelay(delaySeconds)
}

// Write appends one sample.
func (l *Line) Write(sample float64) {
	l.buffer[l.writePos] = sample
	l.writePos++
	if l.writePos >= len(l.buffer) {
		l.writePos = 0
	}
}

// ReadSamples returns the sample written n samples before the most recent
// one. n is clamped to the ring.
func (l *Line) ReadSamples(n int) float64 {
	return l.tap(core.Clamp(n, 0, len(l.buffer)-1))
}

// Read returns the history delaySeconds before the most recent sample.
func (l *Line) Read(delaySeconds float64) float64 {
	pos := l.clampDelay(delaySeconds) * l.sampleRate
	last := len(l.buffer) - 1
	if pos > float64(last) {
		pos = float64(last)
	}

	p := int(pos)
	t := pos - float64(p)

	if l.mode == interp.Hermite {
		// Taps run backwards in time, so the "next" sample is p+1.
		xm1 := l.tap(core.Clamp(p-1, 0, last))
		x2 := l.tap(core.Clamp(p+2, 0, last))
		return interp.Hermite4(t, xm1, l.tap(p), l.tap(core.Clamp(p+1, 0, last)), x2)
	}
	if t == 0 {
		return l.tap(p)
	}
	return interp.Linear2(t, l.tap(p), l.tap(core.Clamp(p+1, 0, last)))
}

// ReadCurrent reads at the delay set with SetDelay.
func (l *Line) ReadCurrent() float64 {
	return l.Read(l.delay)
}

// Delay writes x and returns the history delaySeconds behind it. It runs in
// constant time without allocating.
func (l *Line) Delay(x, delaySeconds float64) float64 {
	l.Write(x)
	return l.Read(delaySeconds)
}

// DelaySignal delays signal by a time-varying amount. delayCurve maps seconds
// since the start of the block to a delay in seconds.
//
// In realtime mode every sample goes through the ring, so history from earlier
// calls is audible and the line state advances. Otherwise the block is read
// directly at t - d(t), which leaves the ring untouched and treats samples
// before the block as silence.
func (l *Line) DelaySignal(signal []float64, delayCurve *curve.Table, realtime bool) ([]float64, error) {
	if delayCurve == nil || delayCurve.Len() == 0 {
		return nil, fmt.Errorf("delay: delay curve: %w", core.ErrEmptyInput)
	}

	out := make([]float64, len(signal))
	for i, x := range signal {
		d, err := delayCurve.Interpolate(float64(i) / l.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("delay: sample %d: %w", i, err)
		}

		if realtime {
			out[i] = l.Delay(x, d)
			continue
		}

		pos := float64(i) - l.clampDelay(d)*l.sampleRate
		out[i] = interp.At(l.mode, signal, pos)
	}

	return out, nil
}

// Reset zero-fills the ring and rewinds the write position.
func (l *Line) Reset() {
	clear(l.buffer)
	l.writePos = 0
}

// tap returns the sample written k samples before the most recent one.
func (l *Line) tap(k int) float64 {
	size := len(l.buffer)
	idx := l.writePos - 1 - k
	if idx < 0 {
		idx += size
	}
	return l.buffer[idx]
}

func (l *Line) clampDelay(d float64) float64 {
	if math.IsNaN(d) {
		return 0
	}
	return core.Clamp(d, 0, l.maxDelay)
}
