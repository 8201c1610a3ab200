// Package interp provides interpolation primitives used by the delay line,
// grain readers and the pitch-shift resampler.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum selects between them at construction time.
package interp
