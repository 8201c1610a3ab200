package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// Point is a single breakpoint.
type Point struct {
	X float64
	Y float64
}

// Table holds breakpoints sorted by X.
//
// A Table is not safe for concurrent mutation. Concurrent Interpolate calls
// on a table that is no longer modified are fine.
type Table struct {
	points []Point
}

// New returns a table containing points, inserted in argument order.
func New(points ...Point) (*Table, error) {
	t := &Table{points: make([]Point, 0, len(points))}
	for _, p := range points {
		if err := t.AddPoint(p.X, p.Y); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Constant returns a single-point table that evaluates to y everywhere.
func Constant(y float64) (*Table, error) {
	return New(Point{X: 0, Y: y})
}

// MustConstant is Constant for literal values. It panics if y is not finite.
func MustConstant(y float64) *Table {
	t, err := Constant(y)
	if err != nil {
		panic(err)
	}
	return t
}

// AddPoint inserts (x, y) after any existing points with the same x.
func (t *Table) AddPoint(x, y float64) error {
	if !core.IsFinite(x) || !core.IsFinite(y) {
		return fmt.Errorf("curve: point (%v, %v): %w", x, y, core.ErrInvalidConfiguration)
	}

	i := sort.Search(len(t.points), func(i int) bool { return t.points[i].X > x })
	t.points = append(t.points, Point{})
	copy(t.points[i+1:], t.points[i:])
	t.points[i] = Point{X: x, Y: y}

	return nil
}

// Len returns the number of breakpoints.
func (t *Table) Len() int { return len(t.points) }

// Points returns a copy of the breakpoints in ascending x order.
func (t *Table) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Reset removes all breakpoints, keeping the allocation.
func (t *Table) Reset() { t.points = t.points[:0] }

// MinY returns the smallest y value, or 0 for an empty table.
func (t *Table) MinY() float64 {
	if len(t.points) == 0 {
		return 0
	}
	m := t.points[0].Y
	for _, p := range t.points[1:] {
		m = math.Min(m, p.Y)
	}
	return m
}

// MaxY returns the largest y value, or 0 for an empty table.
func (t *Table) MaxY() float64 {
	if len(t.points) == 0 {
		return 0
	}
	m := t.points[0].Y
	for _, p := range t.points[1:] {
		m = math.Max(m, p.Y)
	}
	return m
}

// Interpolate evaluates the curve at x.
//
// Below the first point the first y is returned; at or above the last point
// the last y is returned. In between, the segment starting at the greatest
// x_i <= x is blended linearly.
func (t *Table) Interpolate(x float64) (float64, error) {
	n := len(t.points)
	if n == 0 {
		return 0, fmt.Errorf("curve: interpolate: %w", core.ErrEmptyInput)
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("curve: interpolate at NaN: %w", core.ErrNumericDegenerate)
	}

	if x < t.points[0].X {
		return t.points[0].Y, nil
	}
	if x >= t.points[n-1].X {
		return t.points[n-1].Y, nil
	}

	// First point with X > x; the segment starts just before it.
	j := sort.Search(n, func(i int) bool { return t.points[i].X > x })
	a, b := t.points[j-1], t.points[j]

	width := b.X - a.X
	if width == 0 {
		return 0, fmt.Errorf("curve: zero-width segment at x=%v: %w", a.X, core.ErrNumericDegenerate)
	}

	// The blend below can miss the mean by an ulp; an exact midpoint
	// satisfies 2x == fl(a.X+b.X).
	if 2*x == a.X+b.X {
		return (a.Y + b.Y) / 2, nil
	}

	w := (x - a.X) / width
	return (1-w)*a.Y + w*b.Y, nil
}

// MustInterpolate is like Interpolate but panics if the table is empty or x
// is NaN.
func (t *Table) MustInterpolate(x float64) float64 {
	v, err := t.Interpolate(x)
	if err != nil {
		panic(err)
	}
	return v
}
