// Package random provides seedable pseudo-random sources for grain
// scheduling and jitter.
//
// Every source is deterministic for a given seed so that renders are
// reproducible. Sources are not safe for concurrent use; give each engine
// its own.
package random
