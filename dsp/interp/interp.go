package interp

// Mode selects a fractional interpolation method.
type Mode int

const (
	// Linear interpolates between the two nearest samples.
	Linear Mode = iota
	// Hermite uses 4-point cubic Hermite interpolation.
	Hermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Hermite:
		return "Hermite"
	default:
		return "Unknown"
	}
}

// Linear2 interpolates from x0 to x1 at t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// SampleZero returns x[idx], or 0 outside the slice.
func SampleZero(x []float64, idx int) float64 {
	if idx < 0 || idx >= len(x) {
		return 0
	}
	return x[idx]
}

// SampleClamp returns x[idx] with idx clamped to the slice bounds.
func SampleClamp(x []float64, idx int) float64 {
	if len(x) == 0 {
		return 0
	}
	if idx < 0 {
		return x[0]
	}
	if idx >= len(x) {
		return x[len(x)-1]
	}
	return x[idx]
}

// At reads x at fractional position pos with the given mode. Positions
// outside the slice read as silence.
func At(mode Mode, x []float64, pos float64) float64 {
	i0 := int(pos)
	if pos < 0 && float64(i0) != pos {
		i0--
	}
	t := pos - float64(i0)

	if mode == Hermite {
		return Hermite4(t, SampleZero(x, i0-1), SampleZero(x, i0), SampleZero(x, i0+1), SampleZero(x, i0+2))
	}
	return Linear2(t, SampleZero(x, i0), SampleZero(x, i0+1))
}
