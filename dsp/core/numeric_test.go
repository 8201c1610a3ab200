package core

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		v, lo, hi, want float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -1, 0, 1, 0},
		{"above", 2, 0, 1, 1},
		{"swapped", 2, 1, 0, 1},
		{"on edge", 1, 0, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.v, tc.lo, tc.hi))
		})
	}

	assert.True(t, math.IsNaN(Clamp(math.NaN(), 0, 1)))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(12, 10, 0))
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(1, 1+1e-13, 1e-12))
	assert.True(t, NearlyEqual(1e6, 1e6+1e-7, 1e-12))
	assert.True(t, NearlyEqual(0, 1e-13, 0))
	assert.False(t, NearlyEqual(1, 1.1, 1e-3))
	assert.False(t, NearlyEqual(math.NaN(), math.NaN(), 1))
}

func TestIsFinitePositive(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, IsFinitePositive(v), "%v", v)
	}
	assert.True(t, IsFinitePositive(44100))
	assert.True(t, IsFinite(-3))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestFlushDenormals(t *testing.T) {
	assert.Zero(t, FlushDenormals(1e-35))
	assert.Zero(t, FlushDenormals(-1e-31))
	assert.Equal(t, 0.25, FlushDenormals(0.25))
	assert.Equal(t, -1e-20, FlushDenormals(-1e-20))
}

func TestErrorKindsWrap(t *testing.T) {
	err := fmt.Errorf("delay: max delay must be > 0: %w", ErrInvalidConfiguration)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.False(t, errors.Is(err, ErrEmptyInput))
}
