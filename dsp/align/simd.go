package align

import (
	"unsafe"

	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-grain/dsp/core"
)

// refineULPs scales the rounding bound of a decomposed residual. A w-term
// dot product is off by at most about w·eps·energy, three of them are
// combined, and the rest is margin.
const refineULPs = 8

// machineEpsilon returns the unit roundoff of F.
func machineEpsilon[F core.Float]() float64 {
	var zero F
	if unsafe.Sizeof(zero) == 4 {
		return 0x1p-23
	}
	return 0x1p-52
}

// dotFor returns the vectorized dot product for F, falling back to a scalar
// loop for named float types.
func dotFor[F core.Float]() func(a, b []F) F {
	var zero F
	switch any(zero).(type) {
	case float32:
		if fn, ok := any(f32.DotProductUnsafe).(func(a, b []F) F); ok {
			return fn
		}
	case float64:
		if fn, ok := any(f64.DotProductUnsafe).(func(a, b []F) F); ok {
			return fn
		}
	}
	return dotGeneric[F]
}

func dotGeneric[F core.Float](a, b []F) F {
	var sum F
	for i, x := range a {
		sum += x * b[i]
	}
	return sum
}

// residualsSIMD expands each residual as |a|² + |b|² - 2·a·b so the work is
// three dot products per offset. Residuals within the rounding bound of that
// expansion are recomputed directly.
func residualsSIMD[F core.Float](dot func(a, b []F) F) func(dst, src []F, req Request) {
	return func(dst, src []F, req Request) {
		n := len(src)
		s := req.SourceIndex
		w := req.WindowLength
		bound := F(refineULPs * float64(w) * machineEpsilon[F]())

		// The reference energy only changes when its span is clamped.
		fullA := s >= 0 && s+w <= n
		var energyA F
		if fullA {
			a := src[s : s+w]
			energyA = dot(a, a)
		}

		for i := range req.Offsets() {
			c := req.SearchIndex + i - req.MaxDelta
			k0, k1 := span(n, s, c, w)
			if k1 <= k0 {
				dst[i] = inf[F]()
				continue
			}

			a := src[s+k0 : s+k1]
			b := src[c+k0 : c+k1]

			ea := energyA
			if !fullA || k0 != 0 || k1 != w {
				ea = dot(a, a)
			}
			eb := dot(b, b)
			r := ea + eb - 2*dot(a, b)
			// Near-matches drown in cancellation error; sum them directly so
			// the minimum is ranked on exact values.
			if r <= bound*(ea+eb) {
				r = directResidual(src, n, s, c, w)
			}
			dst[i] = r
		}
	}
}
