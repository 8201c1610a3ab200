package grain

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/curve"
	"github.com/cwbudde/algo-grain/dsp/interp"
	"github.com/cwbudde/algo-grain/dsp/random"
	"github.com/cwbudde/algo-grain/dsp/window"
)

// PositionMode selects how grains pick their source position.
type PositionMode int

const (
	// PositionSequential walks through the source at Speed, wrapping at the
	// end.
	PositionSequential PositionMode = iota
	// PositionRandom draws a uniform position for every grain.
	PositionRandom
)

// EnvelopeMode selects how grain envelopes are evaluated.
type EnvelopeMode int

const (
	// EnvelopeAnalytic evaluates the window function for every sample.
	EnvelopeAnalytic EnvelopeMode = iota
	// EnvelopeTable reads the window from a breakpoint table sampled once
	// per shape.
	EnvelopeTable
)

const (
	defaultEnvelopePoints = 256
	// pauseStep is how far the scheduler looks ahead while the density is
	// zero.
	pauseStep = 0.001
)

// GranularParams describes one granular render. Curves are evaluated at
// seconds of output time.
type GranularParams struct {
	// Duration of the output in seconds.
	Duration float64
	// Density in grains per second. Zero pauses scheduling.
	Density *curve.Table
	// GrainDuration in seconds.
	GrainDuration *curve.Table
	// Rate is the grain playback ratio. Nil plays at the original rate.
	Rate *curve.Table
	// Gain scales each grain. Nil means unity.
	Gain *curve.Table

	// Position selects sequential or random source positions.
	Position PositionMode
	// Speed is the sequential source advance in source seconds per output
	// second. Zero means 1.
	Speed float64
	// Jitter is the maximum random source offset in seconds.
	Jitter float64

	// Windows is the set of envelope shapes; one is drawn per grain. Empty
	// uses the engine window.
	Windows []window.Type
	// Envelope selects analytic or table envelopes.
	Envelope EnvelopeMode
	// EnvelopePoints is the table resolution. Zero uses 256.
	EnvelopePoints int

	// Seed reseeds the engine's random source for this render. Zero uses the
	// engine seed.
	Seed uint32
	// Normalize scales the output to a peak of 1.
	Normalize bool
}

// Grain is one scheduled segment.
type Grain struct {
	// Start is the first output sample.
	Start int
	// SourceOffset is the fractional source position of the first sample.
	SourceOffset float64
	// Length in output samples.
	Length int
	// Rate is the source advance per output sample.
	Rate float64
	// Gain scales the enveloped segment.
	Gain float64
	// Shape is the envelope window.
	Shape window.Type
}

func (p GranularParams) validate() error {
	if !core.IsFinite(p.Duration) || p.Duration < 0 {
		return fmt.Errorf("grain: duration must be finite and >= 0: %f: %w", p.Duration, core.ErrInvalidConfiguration)
	}
	if err := validateNonNegativeCurve("density", p.Density); err != nil {
		return err
	}
	if err := validatePositiveCurve("grain duration", p.GrainDuration); err != nil {
		return err
	}
	if p.Rate != nil {
		if err := validatePositiveCurve("rate", p.Rate); err != nil {
			return err
		}
	}
	if p.Gain != nil && p.Gain.Len() == 0 {
		return fmt.Errorf("grain: gain curve: %w", core.ErrEmptyInput)
	}
	if !core.IsFinite(p.Speed) || p.Speed < 0 {
		return fmt.Errorf("grain: speed must be finite and >= 0: %f: %w", p.Speed, core.ErrInvalidConfiguration)
	}
	if !core.IsFinite(p.Jitter) || p.Jitter < 0 {
		return fmt.Errorf("grain: jitter must be finite and >= 0: %f: %w", p.Jitter, core.ErrInvalidConfiguration)
	}
	if p.EnvelopePoints < 0 || p.EnvelopePoints == 1 {
		return fmt.Errorf("grain: envelope table needs at least 2 points: %d: %w",
			p.EnvelopePoints, core.ErrInvalidConfiguration)
	}
	for _, w := range p.Windows {
		if !w.Valid() {
			return fmt.Errorf("grain: unknown window type %d: %w", int(w), core.ErrInvalidConfiguration)
		}
	}
	return nil
}

// Granulate renders round(Duration*SampleRate) samples of grains drawn from
// input. An empty input yields an empty output.
func (e *Engine) Granulate(ctx context.Context, input []float64, p GranularParams) ([]float64, error) {
	if err := p.validate(); err != nil {
		e.log("Granulate").WithField("error", err.Error()).Warn("Rejected granular parameters")
		return nil, err
	}
	if len(input) == 0 {
		return []float64{}, nil
	}

	sw := core.StartStopwatch()
	sr := e.cfg.SampleRate
	outLen := int(math.Round(p.Duration * sr))
	out := make([]float64, outLen)

	seed := p.Seed
	if seed == 0 {
		seed = e.cfg.Seed
	}
	e.rng.Seed(seed)

	shapes := p.Windows
	if len(shapes) == 0 {
		shapes = []window.Type{e.cfg.Window}
	}

	var tables map[window.Type]*curve.Table
	if p.Envelope == EnvelopeTable {
		points := p.EnvelopePoints
		if points == 0 {
			points = defaultEnvelopePoints
		}
		tables = make(map[window.Type]*curve.Table, len(shapes))
		for _, s := range shapes {
			if _, ok := tables[s]; ok {
				continue
			}
			tbl, err := window.EnvelopeTable(s, points)
			if err != nil {
				return nil, fmt.Errorf("grain: %w", err)
			}
			tables[s] = tbl
		}
	}

	speed := p.Speed
	if speed == 0 {
		speed = 1
	}

	grains := 0
	for t := 0.0; t < p.Duration; {
		if err := ctx.Err(); err != nil {
			e.log("Granulate").WithField("grains", grains).Debug("Granulate cancelled")
			return nil, fmt.Errorf("grain: Granulate cancelled: %w", err)
		}

		density := p.Density.MustInterpolate(t)
		if density <= 0 {
			t += pauseStep
			continue
		}

		g := e.schedule(t, input, p, shapes, speed)
		e.render(out, input, g, tables)
		grains++

		t += 1 / density
		e.report(t / p.Duration)
	}

	if p.Normalize && outLen > 0 {
		if peak := floats.Norm(out, math.Inf(1)); peak > 0 {
			floats.Scale(1/peak, out)
		}
	}
	e.report(1)

	e.log("Granulate").WithFields(logrus.Fields{
		"input_samples":  len(input),
		"output_samples": outLen,
		"grains":         grains,
		"elapsed":        sw.Elapsed(),
	}).Debug("Granular render complete")

	return out, nil
}

// schedule draws the grain starting at output time t.
func (e *Engine) schedule(t float64, input []float64, p GranularParams, shapes []window.Type, speed float64) Grain {
	sr := e.cfg.SampleRate
	n := float64(len(input))

	length := int(math.Round(p.GrainDuration.MustInterpolate(t) * sr))
	if length < 1 {
		length = 1
	}
	rate := 1.0
	if p.Rate != nil {
		rate = p.Rate.MustInterpolate(t)
	}
	gain := 1.0
	if p.Gain != nil {
		gain = p.Gain.MustInterpolate(t)
	}

	var pos float64
	switch p.Position {
	case PositionRandom:
		span := n - float64(length)*rate
		if span < 0 {
			span = 0
		}
		pos = random.Range(e.rng, 0, span)
	default:
		pos = math.Mod(t*speed*sr, n)
	}
	if p.Jitter > 0 {
		pos += random.Bipolar(e.rng) * p.Jitter * sr
	}
	pos = core.Clamp(pos, 0, n-1)

	shape := shapes[0]
	if len(shapes) > 1 {
		shape = shapes[random.Intn(e.rng, len(shapes))]
	}

	return Grain{
		Start:        int(math.Round(t * sr)),
		SourceOffset: pos,
		Length:       length,
		Rate:         rate,
		Gain:         gain,
		Shape:        shape,
	}
}

// render reads, envelopes and overlap-adds g into out.
func (e *Engine) render(out, input []float64, g Grain, tables map[window.Type]*curve.Table) {
	n := g.Length
	if g.Start+n > len(out) {
		n = len(out) - g.Start
	}
	if n <= 0 {
		return
	}

	seg := e.pool.Get(n)
	defer e.pool.Put(seg)
	env := e.pool.Get(n)
	defer e.pool.Put(env)

	segBuf, envBuf := seg.Samples(), env.Samples()
	den := float64(g.Length - 1)
	if den <= 0 {
		den = 1
	}

	tbl := tables[g.Shape]
	for i := range segBuf {
		segBuf[i] = interp.At(interp.Linear, input, g.SourceOffset+float64(i)*g.Rate)

		x := float64(i) / den
		if tbl != nil {
			envBuf[i] = tbl.MustInterpolate(x)
		} else {
			envBuf[i] = window.At(g.Shape, x)
		}
	}

	vecmath.MulBlockInPlace(segBuf, envBuf)
	vecmath.ScaleBlock(segBuf, segBuf, g.Gain)
	vecmath.AddBlockInPlace(out[g.Start:g.Start+n], segBuf)
}
