package grain

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-grain/dsp/align"
	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/curve"
	"github.com/cwbudde/algo-grain/dsp/interp"
)

// Stretch changes the duration of input by factor without changing its
// pitch. A factor of 2 doubles the duration. Non-empty input yields
// max(1, round(len(input)*factor)) samples; empty input yields empty output.
func (e *Engine) Stretch(ctx context.Context, input []float64, factor float64) ([]float64, error) {
	if !core.IsFinitePositive(factor) {
		e.log("Stretch").WithField("factor", factor).Warn("Rejected stretch factor")
		return nil, fmt.Errorf("grain: stretch factor must be positive and finite: %f: %w",
			factor, core.ErrInvalidConfiguration)
	}
	if len(input) == 0 {
		return []float64{}, nil
	}

	target := int(math.Round(float64(len(input)) * factor))
	return e.stretch(ctx, "Stretch", input, func(float64) float64 { return factor }, target)
}

// StretchCurve stretches input by a time-varying factor. factors maps
// seconds of input to the local duration factor. The output length is the
// input length integrated over the curve, rounded and at least 1 sample for
// non-empty input.
func (e *Engine) StretchCurve(ctx context.Context, input []float64, factors *curve.Table) ([]float64, error) {
	if err := validatePositiveCurve("stretch factor", factors); err != nil {
		e.log("StretchCurve").WithField("error", err.Error()).Warn("Rejected stretch curve")
		return nil, err
	}
	if len(input) == 0 {
		return []float64{}, nil
	}

	sr := e.cfg.SampleRate
	total := 0.0
	for i := range input {
		total += factors.MustInterpolate(float64(i) / sr)
	}

	factorAt := func(seconds float64) float64 { return factors.MustInterpolate(seconds) }
	return e.stretch(ctx, "StretchCurve", input, factorAt, int(math.Round(total)))
}

// stretch is the WSOLA loop. Frame k is overlap-added with its centre at
// output sample k*hop. Its source centre advances by hop/factor per frame,
// and its start is refined by aligning the candidate against the unwindowed
// continuation of the previous frame.
func (e *Engine) stretch(ctx context.Context, function string, input []float64, factorAt func(float64) float64, target int) ([]float64, error) {
	sw := core.StartStopwatch()
	if target < 1 {
		target = 1
	}

	n := e.frameLen
	hop := e.hop
	half := n / 2
	overlap := n - hop
	delta := e.searchLen
	sr := e.cfg.SampleRate

	// acc and weight are offset by half a frame so the first frame, centred
	// on output sample 0, starts at index 0.
	accLen := target + n + half
	acc := e.pool.Get(accLen)
	defer e.pool.Put(acc)
	weight := e.pool.Get(accLen)
	defer e.pool.Put(weight)
	frame := e.pool.Get(n)
	defer e.pool.Put(frame)
	windowed := e.pool.Get(n)
	defer e.pool.Put(windowed)
	ref := e.pool.Get(overlap)
	defer e.pool.Put(ref)
	scratch := e.pool.Get(2*overlap + 2*delta)
	defer e.pool.Put(scratch)

	accBuf, weightBuf := acc.Samples(), weight.Samples()
	frameBuf, windowedBuf := frame.Samples(), windowed.Samples()
	refBuf, scratchBuf := ref.Samples(), scratch.Samples()

	e.tail.Reset()
	req := align.Request{
		SourceIndex:  0,
		SearchIndex:  overlap + delta,
		WindowLength: overlap,
		MaxDelta:     delta,
	}

	centre := 0.0
	frames := 0
	for k := 0; k*hop-half < target; k++ {
		if err := ctx.Err(); err != nil {
			e.log(function).WithField("frames", frames).Debug("Stretch cancelled")
			return nil, fmt.Errorf("grain: %s cancelled: %w", function, err)
		}

		start := int(math.Round(centre)) - half
		if k > 0 && delta > 0 {
			e.tail.ReadAdvanceInto(refBuf)
			copy(scratchBuf, refBuf)
			for j := 0; j < overlap+2*delta; j++ {
				scratchBuf[overlap+j] = interp.SampleZero(input, start-delta+j)
			}

			res, err := e.searcher.Search(scratchBuf, req)
			if err != nil {
				return nil, fmt.Errorf("grain: %s alignment: %w", function, err)
			}
			start += res.Offset
		}

		for i := range frameBuf {
			frameBuf[i] = interp.SampleZero(input, start+i)
		}
		e.tail.WriteSlice(frameBuf[hop:])

		pos := k * hop
		vecmath.MulBlock(windowedBuf, frameBuf, e.win)
		vecmath.AddBlockInPlace(accBuf[pos:pos+n], windowedBuf)
		vecmath.AddBlockInPlace(weightBuf[pos:pos+n], e.win)

		factor := factorAt(centre / sr)
		if !core.IsFinitePositive(factor) {
			factor = 1
		}
		centre += float64(hop) / factor
		frames++

		e.report(float64(pos) / float64(target+half))
	}

	out := make([]float64, target)
	for i := range out {
		w := weightBuf[i+half]
		if w > weightEps {
			out[i] = accBuf[i+half] / w
		} else {
			out[i] = accBuf[i+half]
		}
	}
	e.report(1)

	e.log(function).WithFields(logrus.Fields{
		"input_samples":  len(input),
		"output_samples": target,
		"frames":         frames,
		"backend":        e.searcher.Backend().String(),
		"elapsed":        sw.Elapsed(),
	}).Debug("Time stretch complete")

	return out, nil
}

func validatePositiveCurve(name string, c *curve.Table) error {
	if c == nil || c.Len() == 0 {
		return fmt.Errorf("grain: %s curve: %w", name, core.ErrEmptyInput)
	}
	if c.MinY() <= 0 {
		return fmt.Errorf("grain: %s curve must stay positive, min %f: %w",
			name, c.MinY(), core.ErrInvalidConfiguration)
	}
	return nil
}

func validateNonNegativeCurve(name string, c *curve.Table) error {
	if c == nil || c.Len() == 0 {
		return fmt.Errorf("grain: %s curve: %w", name, core.ErrEmptyInput)
	}
	if c.MinY() < 0 {
		return fmt.Errorf("grain: %s curve must not be negative, min %f: %w",
			name, c.MinY(), core.ErrInvalidConfiguration)
	}
	return nil
}
