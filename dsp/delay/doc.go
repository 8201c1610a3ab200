// Package delay provides a fractional delay line addressed in seconds.
//
// The line keeps a fixed ring of past input. Reads address the history by
// delay time relative to the most recently written sample and interpolate
// between integer taps, linearly by default or with 4-point Hermite.
package delay
