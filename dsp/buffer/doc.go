// Package buffer provides the sample containers shared by the engine:
//
//   - [Stream]: a fixed-capacity ring with a persisted read cursor, used to
//     hold the most recent frame tail between processing steps.
//   - [Buffer] and [Pool]: reusable scratch slices for offline grain
//     rendering, so per-grain work does not allocate once the pool is warm.
//
// Stream and Buffer are not safe for concurrent use; Pool is.
package buffer
