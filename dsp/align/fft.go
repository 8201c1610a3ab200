package align

import (
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// fftRefineULPs scales the transform rounding bound below which a residual
// is recomputed by direct summation.
const fftRefineULPs = 64

// fftKernel computes full-window residuals from one FFT cross-correlation per
// search. Offsets whose window is clamped at the signal edges fall back to
// direct sums. Plans and scratch are cached by transform size.
type fftKernel[F core.Float] struct {
	plans  map[int]*algofft.Plan[complex128]
	region []complex128
	ref    []complex128
	specA  []complex128
	specB  []complex128
	corr   []complex128
	energy []float64
}

func newFFTKernel[F core.Float]() *fftKernel[F] {
	return &fftKernel[F]{plans: make(map[int]*algofft.Plan[complex128])}
}

func (k *fftKernel[F]) plan(size int) (*algofft.Plan[complex128], error) {
	if p, ok := k.plans[size]; ok {
		return p, nil
	}
	p, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, err
	}
	k.plans[size] = p
	return p, nil
}

func (k *fftKernel[F]) residuals(dst, src []F, req Request) {
	n := len(src)
	s := req.SourceIndex
	w := req.WindowLength

	lo := max(0, req.SearchIndex-req.MaxDelta)
	hi := min(n, req.SearchIndex+req.MaxDelta+w)

	// Without a complete reference window, or with too few candidates, the
	// transform does not pay off.
	if s < 0 || s+w > n || hi-lo < w || !k.correlate(src, s, w, lo, hi) {
		residualsReference(dst, src, req)
		return
	}

	// Transform rounding grows with log2 of the size and with the energy, not
	// with the residual.
	bound := fftRefineULPs * float64(bits.Len(uint(len(k.corr)))) * 0x1p-52

	ref := src[s : s+w]
	energyA := 0.0
	for _, x := range ref {
		energyA += float64(x) * float64(x)
	}

	for i := range req.Offsets() {
		c := req.SearchIndex + i - req.MaxDelta
		if c < lo || c+w > hi {
			dst[i] = directResidual(src, n, s, c, w)
			continue
		}

		j := c - lo
		energyB := k.energy[j+w] - k.energy[j]
		r := energyA + energyB - 2*real(k.corr[j])
		if r <= bound*(energyA+energyB) {
			dst[i] = directResidual(src, n, s, c, w)
			continue
		}
		dst[i] = F(r)
	}
}

// correlate fills k.corr[j] = Σ ref[t]·src[lo+j+t] and the running energy of
// src[lo:hi]. It reports false when no plan is available.
func (k *fftKernel[F]) correlate(src []F, s, w, lo, hi int) bool {
	m := hi - lo
	size := nextPowerOf2(m)

	p, err := k.plan(size)
	if err != nil {
		return false
	}

	k.region = resize(k.region, size)
	k.ref = resize(k.ref, size)
	k.specA = resize(k.specA, size)
	k.specB = resize(k.specB, size)
	k.corr = resize(k.corr, size)

	for i := range k.region {
		k.region[i] = 0
		k.ref[i] = 0
	}
	for i, x := range src[lo:hi] {
		k.region[i] = complex(float64(x), 0)
	}
	for i, x := range src[s : s+w] {
		k.ref[i] = complex(float64(x), 0)
	}

	if p.Forward(k.specB, k.region) != nil || p.Forward(k.specA, k.ref) != nil {
		return false
	}
	for i := range k.specB {
		a := k.specA[i]
		k.specB[i] *= complex(real(a), -imag(a))
	}
	if p.Inverse(k.corr, k.specB) != nil {
		return false
	}

	if cap(k.energy) < m+1 {
		k.energy = make([]float64, m+1)
	}
	k.energy = k.energy[:m+1]
	k.energy[0] = 0
	for i, x := range src[lo:hi] {
		k.energy[i+1] = k.energy[i] + float64(x)*float64(x)
	}

	return true
}

func resize(buf []complex128, n int) []complex128 {
	if cap(buf) < n {
		return make([]complex128, n)
	}
	return buf[:n]
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func inf[F core.Float]() F {
	return F(math.Inf(1))
}
