package grain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/window"
	"github.com/cwbudde/algo-grain/internal/testutil"
)

func TestGranulatorDefaults(t *testing.T) {
	g, err := NewGranulator(testRate)
	require.NoError(t, err)

	assert.Equal(t, testRate, g.SampleRate())
	assert.Equal(t, defaultGranulatorGrainSeconds, g.GrainSeconds())
	assert.Equal(t, defaultGranulatorOverlap, g.Overlap())
	assert.Equal(t, defaultGranulatorMix, g.Mix())
	assert.Equal(t, defaultGranulatorRate, g.Rate())
	assert.Equal(t, defaultGranulatorSpray, g.Spray())
	assert.Equal(t, defaultGranulatorBaseDelay, g.BaseDelay())
	assert.Equal(t, window.TypeHann, g.Window())

	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewGranulator(sr)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	}
}

func TestGranulatorSetterValidation(t *testing.T) {
	g, err := NewGranulator(testRate)
	require.NoError(t, err)

	assert.ErrorIs(t, g.SetSampleRate(0), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetGrainSeconds(0.001), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetGrainSeconds(math.NaN()), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetOverlap(1), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetMix(1.5), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetRate(0.1), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetRate(8), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetSpray(-0.1), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetBaseDelay(3), core.ErrInvalidConfiguration)
	assert.ErrorIs(t, g.SetWindow(window.Type(99)), core.ErrInvalidConfiguration)

	assert.Equal(t, testRate, g.SampleRate())
	assert.Equal(t, defaultGranulatorGrainSeconds, g.GrainSeconds())
	assert.Equal(t, defaultGranulatorOverlap, g.Overlap())
	assert.Equal(t, defaultGranulatorMix, g.Mix())
	assert.Equal(t, window.TypeHann, g.Window())

	require.NoError(t, g.SetSampleRate(16000))
	require.NoError(t, g.SetGrainSeconds(0.05))
	require.NoError(t, g.SetOverlap(0.75))
	require.NoError(t, g.SetMix(0.3))
	require.NoError(t, g.SetRate(2))
	require.NoError(t, g.SetSpray(0))
	require.NoError(t, g.SetBaseDelay(0.2))
	require.NoError(t, g.SetWindow(window.TypeBlackman))

	assert.Equal(t, 16000.0, g.SampleRate())
	assert.Equal(t, 0.05, g.GrainSeconds())
	assert.Equal(t, 0.75, g.Overlap())
	assert.Equal(t, 0.3, g.Mix())
	assert.Equal(t, 2.0, g.Rate())
	assert.Equal(t, window.TypeBlackman, g.Window())
}

func TestGranulatorDryMixPassesInput(t *testing.T) {
	g, err := NewGranulator(testRate)
	require.NoError(t, err)
	require.NoError(t, g.SetMix(0))

	input := testutil.DeterministicNoise(12, 0.5, 2000)
	buf := append([]float64(nil), input...)
	g.ProcessInPlace(buf)
	assert.Equal(t, input, buf)
}

func TestGranulatorDelaysAndSettlesOnDC(t *testing.T) {
	g, err := NewGranulator(testRate)
	require.NoError(t, err)
	require.NoError(t, g.SetSpray(0))

	buf := testutil.DC(1, 4000)
	g.ProcessInPlace(buf)

	// Grains read 80 ms (640 samples) behind the input.
	assert.Zero(t, peak(buf[:630]))
	for i := 2000; i < len(buf); i++ {
		assert.InDelta(t, 1, buf[i], 1e-9, "sample %d", i)
	}
}

func TestGranulatorSettlesAtOtherRates(t *testing.T) {
	for _, rate := range []float64{0.5, 2} {
		g, err := NewGranulator(testRate)
		require.NoError(t, err)
		require.NoError(t, g.SetRate(rate))

		buf := testutil.DC(0.25, 6000)
		g.ProcessInPlace(buf)
		testutil.RequireFinite(t, buf)
		for i := 4000; i < len(buf); i++ {
			assert.InDelta(t, 0.25, buf[i], 1e-9, "rate %f sample %d", rate, i)
		}
	}
}

func TestGranulatorIsDeterministic(t *testing.T) {
	input := testutil.DeterministicNoise(13, 0.5, 3000)

	run := func(g *Granulator) []float64 {
		buf := append([]float64(nil), input...)
		g.ProcessInPlace(buf)
		return buf
	}

	a, err := NewGranulator(testRate)
	require.NoError(t, err)
	b, err := NewGranulator(testRate)
	require.NoError(t, err)

	first := run(a)
	assert.Equal(t, first, run(b))

	a.Reset()
	assert.Equal(t, first, run(a))

	a.SetRandomSeed(555)
	assert.NotEqual(t, first, run(a))
}

func TestGranulatorProcessSampleDoesNotAllocate(t *testing.T) {
	g, err := NewGranulator(testRate)
	require.NoError(t, err)

	x := 0.0
	allocs := testing.AllocsPerRun(1000, func() {
		x = g.ProcessSample(x*0.5 + 0.1)
	})
	assert.Zero(t, allocs)
}
