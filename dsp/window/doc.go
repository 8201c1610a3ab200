// Package window provides the grain and frame envelopes: a closed set of
// analytic window shapes that can be generated as coefficient slices,
// evaluated at arbitrary normalized positions, or sampled into a breakpoint
// table for lookup.
//
// Positions are normalized to [0, 1] across the window. Symmetric form is the
// default; [WithPeriodic] produces the periodic form used for overlap-add
// framing, where a Hann window at 50% overlap sums to a constant.
package window
