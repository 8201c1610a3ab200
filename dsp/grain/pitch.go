package grain

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/interp"
)

// PitchShift changes the pitch of input by ratio while keeping its length.
// A ratio of 2 raises the pitch by an octave.
//
// The signal is first stretched to ratio times its duration, then resampled
// back to the input length, which multiplies every frequency by ratio.
func (e *Engine) PitchShift(ctx context.Context, input []float64, ratio float64) ([]float64, error) {
	if !core.IsFinitePositive(ratio) {
		e.log("PitchShift").WithField("ratio", ratio).Warn("Rejected pitch ratio")
		return nil, fmt.Errorf("grain: pitch ratio must be positive and finite: %f: %w",
			ratio, core.ErrInvalidConfiguration)
	}
	if len(input) == 0 {
		return []float64{}, nil
	}
	if core.NearlyEqual(ratio, 1, identityEps) {
		out := make([]float64, len(input))
		copy(out, input)
		return out, nil
	}

	target := int(math.Round(float64(len(input)) * ratio))
	stretched, err := e.stretch(ctx, "PitchShift", input, func(float64) float64 { return ratio }, target)
	if err != nil {
		return nil, err
	}

	return resampleHermite(stretched, len(input)), nil
}

// PitchShiftSemitones is PitchShift with the ratio given in equal-tempered
// semitones.
func (e *Engine) PitchShiftSemitones(ctx context.Context, input []float64, semitones float64) ([]float64, error) {
	if !core.IsFinite(semitones) {
		return nil, fmt.Errorf("grain: semitones must be finite: %f: %w", semitones, core.ErrInvalidConfiguration)
	}
	return e.PitchShift(ctx, input, SemitonesToRatio(semitones))
}

// SemitonesToRatio converts equal-tempered semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// RatioToSemitones converts a frequency ratio to equal-tempered semitones.
func RatioToSemitones(ratio float64) float64 {
	return 12 * math.Log2(ratio)
}

// resampleHermite maps input onto outLen samples spanning the same first and
// last sample.
func resampleHermite(input []float64, outLen int) []float64 {
	if outLen <= 0 || len(input) == 0 {
		return nil
	}

	out := make([]float64, outLen)
	if len(input) == 1 {
		for i := range out {
			out[i] = input[0]
		}
		return out
	}
	if outLen == 1 {
		out[0] = input[0]
		return out
	}

	step := float64(len(input)-1) / float64(outLen-1)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		out[i] = interp.Hermite4(frac,
			interp.SampleClamp(input, idx-1),
			interp.SampleClamp(input, idx),
			interp.SampleClamp(input, idx+1),
			interp.SampleClamp(input, idx+2))
	}
	return out
}
