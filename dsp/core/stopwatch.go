package core

import "time"

// Stopwatch measures elapsed wall time from an explicit start point.
// The zero value reports zero elapsed time.
type Stopwatch struct {
	start time.Time
}

// StartStopwatch returns a stopwatch started now.
func StartStopwatch() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the stopwatch was started.
func (s Stopwatch) Elapsed() time.Duration {
	if s.start.IsZero() {
		return 0
	}
	return time.Since(s.start)
}
