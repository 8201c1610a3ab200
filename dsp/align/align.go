package align

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// Request describes one alignment search over a single signal.
type Request struct {
	// SourceIndex is the start of the reference window.
	SourceIndex int
	// SearchIndex is the nominal start of the candidate window.
	SearchIndex int
	// WindowLength is the number of samples compared per offset.
	WindowLength int
	// MaxDelta is the search radius in samples.
	MaxDelta int
}

// Offsets returns the number of candidate offsets, 2*MaxDelta+1.
func (r Request) Offsets() int { return 2*r.MaxDelta + 1 }

// Result is the chosen offset and its residual.
type Result struct {
	Offset   int
	Residual float64
}

func validate[F core.Float](dst, src []F, req Request) error {
	if req.WindowLength <= 0 {
		return fmt.Errorf("align: window length %d: %w", req.WindowLength, core.ErrInvalidConfiguration)
	}
	if req.MaxDelta < 0 {
		return fmt.Errorf("align: search radius %d: %w", req.MaxDelta, core.ErrInvalidConfiguration)
	}
	if len(src) == 0 {
		return fmt.Errorf("align: source: %w", core.ErrEmptyInput)
	}
	if len(dst) < req.Offsets() {
		return fmt.Errorf("align: residual buffer holds %d, need %d: %w", len(dst), req.Offsets(), core.ErrOutOfRange)
	}
	return nil
}

// span returns the overlapping range [k0, k1) of window positions for a
// reference window at s and a candidate window at c.
func span(n, s, c, w int) (k0, k1 int) {
	k0 = max(0, -s, -c)
	k1 = min(w, n-s, n-c)
	return k0, k1
}

// Residuals writes the residual of every offset into dst using the reference
// implementation.
func Residuals[F core.Float](dst, src []F, req Request) error {
	if err := validate(dst, src, req); err != nil {
		return err
	}
	residualsReference(dst, src, req)
	return nil
}

func residualsReference[F core.Float](dst, src []F, req Request) {
	n := len(src)
	s := req.SourceIndex
	for i := range req.Offsets() {
		c := req.SearchIndex + i - req.MaxDelta
		dst[i] = directResidual(src, n, s, c, req.WindowLength)
	}
}

func directResidual[F core.Float](src []F, n, s, c, w int) F {
	k0, k1 := span(n, s, c, w)
	if k1 <= k0 {
		return F(math.Inf(1))
	}

	a := src[s+k0 : s+k1]
	b := src[c+k0 : c+k1]
	b = b[:len(a)]

	var sum F
	for k, x := range a {
		d := x - b[k]
		sum += d * d
	}
	return sum
}

// Best returns the offset with the smallest residual. Ties go to the
// smallest absolute offset, then to the smaller signed offset. NaN residuals
// never win.
func Best[F core.Float](residuals []F, maxDelta int) Result {
	best := Result{Offset: 0, Residual: math.Inf(1)}
	found := false

	for i := 0; i < len(residuals) && i <= 2*maxDelta; i++ {
		r := float64(residuals[i])
		if math.IsNaN(r) {
			continue
		}

		d := i - maxDelta
		if !found || r < best.Residual || (r == best.Residual && preferOffset(d, best.Offset)) {
			best = Result{Offset: d, Residual: r}
			found = true
		}
	}

	return best
}

func preferOffset(d, current int) bool {
	ad, ac := absInt(d), absInt(current)
	if ad != ac {
		return ad < ac
	}
	return d < current
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Search runs the reference residual search and returns the best offset.
func Search[F core.Float](src []F, req Request) (Result, error) {
	if req.MaxDelta < 0 {
		return Result{}, validate[F](nil, src, req)
	}
	dst := make([]F, req.Offsets())
	if err := Residuals(dst, src, req); err != nil {
		return Result{}, err
	}
	return Best(dst, req.MaxDelta), nil
}
