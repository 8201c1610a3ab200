package core

import (
	"cmp"
	"math"
)

const (
	defaultEpsilon = 1e-12
	// denormalFloor is well above the float64 subnormal range, so flushed
	// feedback paths never reach it.
	denormalFloor = 1e-30
)

// Clamp limits v to [lo, hi]. Swapped bounds are reordered. A NaN v is
// returned unchanged.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual reports whether a and b agree within eps, absolutely or
// relative to the larger magnitude. A non-positive eps uses 1e-12.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := math.Abs(a - b)
	return diff <= eps || diff <= eps*math.Max(math.Abs(a), math.Abs(b))
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinitePositive reports whether v is finite and > 0.
func IsFinitePositive(v float64) bool {
	return v > 0 && IsFinite(v)
}

// FlushDenormals maps values closer to zero than 1e-30 to exact zero.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}
	return x
}
