package core

import "errors"

// Error kinds shared by every package in this module. Packages wrap these with
// context, so callers should match with errors.Is.
var (
	// ErrInvalidConfiguration reports a non-positive sample rate, window
	// length, scale factor or similar rejected setting.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOutOfRange reports a delay or search parameter that exceeds the
	// allocated capacity on a construction path. Realtime paths clamp instead.
	ErrOutOfRange = errors.New("out of range")

	// ErrEmptyInput reports a curve without breakpoints or a zero-length
	// signal where a non-trivial result is required.
	ErrEmptyInput = errors.New("empty input")

	// ErrNumericDegenerate reports a zero-width interpolation segment or a
	// NaN evaluation point.
	ErrNumericDegenerate = errors.New("numeric degenerate")
)
