// Package grain is the time-scale, pitch-scale and granular synthesis engine.
//
// [Engine] processes whole signals offline:
//
//   - Stretch and StretchCurve change duration without changing pitch using
//     waveform-similarity overlap-add (WSOLA): each analysis frame is nudged
//     within a search radius so that it continues the previous frame's
//     waveform before it is windowed and overlap-added.
//   - PitchShift stretches by the pitch ratio and resamples the result back to
//     the input length.
//   - Granulate resynthesizes a signal from short windowed grains scheduled by
//     density, duration, rate and gain curves.
//
// [Granulator] is the per-sample counterpart for realtime callbacks. It keeps
// its history in a fractional delay line and never allocates while
// processing.
//
// Neither type is safe for concurrent use.
package grain
