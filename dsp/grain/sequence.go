package grain

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// StretchSequence stretches a sequence. Multi-channel input is mixed down to
// mono first; the sample rate must match the engine's.
func (e *Engine) StretchSequence(ctx context.Context, seq core.Sequence, factor float64) (core.Sequence, error) {
	mono, err := e.monoInput(seq)
	if err != nil {
		return core.Sequence{}, err
	}
	out, err := e.Stretch(ctx, mono, factor)
	if err != nil {
		return core.Sequence{}, err
	}
	return core.NewSequence(out, e.cfg.SampleRate), nil
}

// PitchShiftSequence pitch-shifts a sequence. Multi-channel input is mixed
// down to mono first; the sample rate must match the engine's.
func (e *Engine) PitchShiftSequence(ctx context.Context, seq core.Sequence, ratio float64) (core.Sequence, error) {
	mono, err := e.monoInput(seq)
	if err != nil {
		return core.Sequence{}, err
	}
	out, err := e.PitchShift(ctx, mono, ratio)
	if err != nil {
		return core.Sequence{}, err
	}
	return core.NewSequence(out, e.cfg.SampleRate), nil
}

func (e *Engine) monoInput(seq core.Sequence) ([]float64, error) {
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("grain: %w", err)
	}
	if seq.SampleRate != e.cfg.SampleRate {
		return nil, fmt.Errorf("grain: sequence sample rate %f does not match engine rate %f: %w",
			seq.SampleRate, e.cfg.SampleRate, core.ErrInvalidConfiguration)
	}
	return seq.Mixdown(), nil
}
