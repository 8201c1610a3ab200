package grain

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-grain/dsp/align"
	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/random"
	"github.com/cwbudde/algo-grain/dsp/window"
)

const (
	// Frame and search defaults follow common WSOLA settings for music:
	// frames long enough to hold a few pitch periods, a search radius of
	// about one low-frequency period.
	defaultFrameSeconds  = 0.05
	defaultSearchSeconds = 0.012
	defaultSeed          = 1

	minFrameSeconds  = 0.002
	maxFrameSeconds  = 0.5
	maxSearchSeconds = 0.1

	minFrameSamples = 8

	identityEps = 1e-9
	weightEps   = 1e-9
)

// ProgressFunc receives the completed fraction of a long operation, in
// [0, 1], once per frame or grain.
type ProgressFunc func(fraction float64)

// Config is the resolved engine configuration.
type Config struct {
	// SampleRate in Hz.
	SampleRate float64
	// FrameSeconds is the WSOLA analysis frame length.
	FrameSeconds float64
	// SearchSeconds is the alignment search radius. Zero disables the search.
	SearchSeconds float64
	// Window shapes stretch frames and is the default grain envelope.
	Window window.Type
	// Backend selects the alignment implementation.
	Backend align.Backend
	// Random selects the built-in generator used for grain jitter.
	Random random.Kind
	// Seed is the default random seed.
	Seed uint32
	// Logger receives lifecycle and completion events.
	Logger logrus.FieldLogger
	// Progress, if set, is called during long operations.
	Progress ProgressFunc
}

// DefaultConfig returns defaults for sampleRate.
func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate:    sampleRate,
		FrameSeconds:  defaultFrameSeconds,
		SearchSeconds: defaultSearchSeconds,
		Window:        window.TypeHann,
		Backend:       align.BackendAuto,
		Random:        random.KindPCG,
		Seed:          defaultSeed,
		Logger:        logrus.StandardLogger(),
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if !core.IsFinitePositive(c.SampleRate) {
		return fmt.Errorf("grain: sample rate must be positive and finite: %f: %w",
			c.SampleRate, core.ErrInvalidConfiguration)
	}
	if c.FrameSeconds < minFrameSeconds || c.FrameSeconds > maxFrameSeconds || math.IsNaN(c.FrameSeconds) {
		return fmt.Errorf("grain: frame length must be in [%f, %f] s: %f: %w",
			minFrameSeconds, maxFrameSeconds, c.FrameSeconds, core.ErrInvalidConfiguration)
	}
	if c.SearchSeconds < 0 || c.SearchSeconds > maxSearchSeconds || math.IsNaN(c.SearchSeconds) {
		return fmt.Errorf("grain: search radius must be in [0, %f] s: %f: %w",
			maxSearchSeconds, c.SearchSeconds, core.ErrInvalidConfiguration)
	}
	if int(math.Round(c.FrameSeconds*c.SampleRate)) < minFrameSamples {
		return fmt.Errorf("grain: frame of %f s is shorter than %d samples at %f Hz: %w",
			c.FrameSeconds, minFrameSamples, c.SampleRate, core.ErrInvalidConfiguration)
	}
	if !c.Window.Valid() {
		return fmt.Errorf("grain: unknown window type %d: %w", int(c.Window), core.ErrInvalidConfiguration)
	}
	return nil
}

// Option adjusts a Config.
type Option func(*Config)

// WithFrameSeconds sets the analysis frame length.
func WithFrameSeconds(seconds float64) Option {
	return func(c *Config) { c.FrameSeconds = seconds }
}

// WithSearchSeconds sets the alignment search radius.
func WithSearchSeconds(seconds float64) Option {
	return func(c *Config) { c.SearchSeconds = seconds }
}

// WithWindow sets the frame window and default grain envelope.
func WithWindow(t window.Type) Option {
	return func(c *Config) { c.Window = t }
}

// WithBackend selects the alignment backend.
func WithBackend(b align.Backend) Option {
	return func(c *Config) { c.Backend = b }
}

// WithRandom selects the built-in random generator.
func WithRandom(kind random.Kind) Option {
	return func(c *Config) { c.Random = kind }
}

// WithSeed sets the default random seed.
func WithSeed(seed uint32) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Config) { c.Progress = fn }
}
