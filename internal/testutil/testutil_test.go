package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 0.5, 48)
	assert.Len(t, s, 48)
	assert.InDelta(t, 0, s[0], 1e-15)
	// Quarter period of 1 kHz at 48 kHz is 12 samples.
	assert.InDelta(t, 0.5, s[12], 1e-12)
}

func TestDeterministicNoiseIsReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 1000)
	b := DeterministicNoise(42, 0.25, 1000)
	c := DeterministicNoise(43, 0.25, 1000)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, v := range a {
		assert.True(t, v >= -0.25 && v < 0.25)
	}
}

func TestDC(t *testing.T) {
	assert.Equal(t, []float64{3, 3, 3}, DC(3, 3))
	assert.Empty(t, DC(1, 0))
}

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1 + 1e-12, 2}, 1e-9)
	RequireFinite(t, []float64{0, -1, 1e300})
}
