package align

import (
	"fmt"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/internal/cpu"
)

// Backend selects the residual implementation.
type Backend int

const (
	// BackendAuto picks the best registered backend for the running CPU.
	BackendAuto Backend = iota
	// BackendReference uses plain loops.
	BackendReference
	// BackendSIMD uses vectorized dot products.
	BackendSIMD
	// BackendFFT uses FFT cross-correlation. It only pays off for long
	// windows and wide search radii, so Auto never selects it.
	BackendFFT
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendReference:
		return "reference"
	case BackendSIMD:
		return "simd"
	case BackendFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// Searcher runs alignment searches with a fixed backend and reusable
// scratch. A Searcher is not safe for concurrent use.
type Searcher[F core.Float] struct {
	backend Backend
	kernel  func(dst, src []F, req Request)
	scratch []F
}

// NewSearcher returns a searcher for the given backend. BackendAuto is
// resolved immediately; Backend reports the result.
func NewSearcher[F core.Float](backend Backend) (*Searcher[F], error) {
	if backend == BackendAuto {
		backend = BackendReference
		if entry := Kernels.Lookup(cpu.DetectFeatures()); entry != nil {
			backend = entry.Backend
		}
	}

	s := &Searcher[F]{backend: backend}
	switch backend {
	case BackendReference:
		s.kernel = residualsReference[F]
	case BackendSIMD:
		s.kernel = residualsSIMD(dotFor[F]())
	case BackendFFT:
		s.kernel = newFFTKernel[F]().residuals
	default:
		return nil, fmt.Errorf("align: backend %d: %w", int(backend), core.ErrInvalidConfiguration)
	}

	return s, nil
}

// Backend returns the resolved backend.
func (s *Searcher[F]) Backend() Backend { return s.backend }

// Residuals writes the residual of every offset into dst.
func (s *Searcher[F]) Residuals(dst, src []F, req Request) error {
	if err := validate(dst, src, req); err != nil {
		return err
	}
	s.kernel(dst, src, req)
	return nil
}

// Search returns the best offset for req. It reuses internal scratch and
// does not allocate once the scratch has grown to the search width.
func (s *Searcher[F]) Search(src []F, req Request) (Result, error) {
	if req.MaxDelta < 0 {
		return Result{}, validate[F](nil, src, req)
	}
	s.scratch = core.EnsureLen(s.scratch, req.Offsets())
	if err := s.Residuals(s.scratch, src, req); err != nil {
		return Result{}, err
	}
	return Best(s.scratch, req.MaxDelta), nil
}
