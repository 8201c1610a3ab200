// Package align implements the waveform-similarity search used to splice
// overlapping frames without phase discontinuities.
//
// For a reference window starting at SourceIndex and candidate windows around
// SearchIndex, the search computes the sum of squared differences for every
// offset in [-MaxDelta, MaxDelta]:
//
//	dst[d+MaxDelta] = Σ_k (src[SourceIndex+k] - src[SearchIndex+d+k])²
//
// Windows that would read outside src are clamped to the overlapping span, so
// offsets near the signal edges compare fewer samples. An offset with no
// overlap at all gets +Inf.
//
// The search is generic over float32 and float64. Several backends implement
// the same contract:
//
//   - [BackendReference]: straightforward pure Go loops
//   - [BackendSIMD]: energy/dot-product decomposition on tphakala/simd kernels
//   - [BackendFFT]: FFT cross-correlation for full-window offsets
//   - [BackendAuto]: best registered backend for the running CPU
//
// Results agree across backends up to floating-point tolerance.
package align
