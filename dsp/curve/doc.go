// Package curve provides a breakpoint table that maps an abscissa (usually
// seconds) to a control value by piecewise-linear interpolation.
//
// Tables drive time-varying parameters such as stretch factors, grain
// densities and delay times. Points stay sorted by x after every insertion;
// points sharing an x keep their insertion order, which allows step
// discontinuities.
package curve
