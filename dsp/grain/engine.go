package grain

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-grain/dsp/align"
	"github.com/cwbudde/algo-grain/dsp/buffer"
	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/random"
	"github.com/cwbudde/algo-grain/dsp/window"
)

// Engine runs offline time stretching, pitch shifting and granular
// synthesis over whole signals.
//
// Derived state (frame length, hop, search radius, analysis window,
// alignment searcher) is rebuilt whenever a setter changes the
// configuration. A failed setter leaves the engine unchanged.
type Engine struct {
	cfg Config

	frameLen  int
	hop       int
	searchLen int
	win       []float64

	searcher *align.Searcher[float64]
	tail     *buffer.Stream
	pool     *buffer.Pool
	rng      random.Source
}

// New returns an engine for sampleRate with the given options applied over
// DefaultConfig.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	cfg := DefaultConfig(sampleRate)
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &Engine{pool: buffer.NewPool()}
	if err := e.apply(cfg); err != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"function":    "New",
			"sample_rate": sampleRate,
			"error":       err.Error(),
		}).Warn("Rejected engine configuration")
		return nil, err
	}

	e.log("New").WithFields(logrus.Fields{
		"sample_rate":    e.cfg.SampleRate,
		"frame_samples":  e.frameLen,
		"hop_samples":    e.hop,
		"search_samples": e.searchLen,
		"window":         e.cfg.Window.String(),
		"backend":        e.searcher.Backend().String(),
	}).Debug("Engine created")

	return e, nil
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config { return e.cfg }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.cfg.SampleRate }

// FrameSeconds returns the analysis frame length in seconds.
func (e *Engine) FrameSeconds() float64 { return e.cfg.FrameSeconds }

// SearchSeconds returns the alignment search radius in seconds.
func (e *Engine) SearchSeconds() float64 { return e.cfg.SearchSeconds }

// Window returns the frame window shape.
func (e *Engine) Window() window.Type { return e.cfg.Window }

// Backend returns the resolved alignment backend.
func (e *Engine) Backend() align.Backend { return e.searcher.Backend() }

// FrameSamples returns the analysis frame length in samples.
func (e *Engine) FrameSamples() int { return e.frameLen }

// HopSamples returns the synthesis hop in samples.
func (e *Engine) HopSamples() int { return e.hop }

// SearchSamples returns the alignment search radius in samples.
func (e *Engine) SearchSamples() int { return e.searchLen }

// SetSampleRate updates the sample rate and rebuilds derived state.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	return e.update("SetSampleRate", func(c *Config) { c.SampleRate = sampleRate })
}

// SetFrameSeconds updates the analysis frame length.
func (e *Engine) SetFrameSeconds(seconds float64) error {
	return e.update("SetFrameSeconds", func(c *Config) { c.FrameSeconds = seconds })
}

// SetSearchSeconds updates the alignment search radius.
func (e *Engine) SetSearchSeconds(seconds float64) error {
	return e.update("SetSearchSeconds", func(c *Config) { c.SearchSeconds = seconds })
}

// SetWindow updates the frame window shape.
func (e *Engine) SetWindow(t window.Type) error {
	return e.update("SetWindow", func(c *Config) { c.Window = t })
}

// SetBackend switches the alignment backend.
func (e *Engine) SetBackend(b align.Backend) error {
	return e.update("SetBackend", func(c *Config) { c.Backend = b })
}

// SetSeed sets the default random seed used by Granulate.
func (e *Engine) SetSeed(seed uint32) {
	e.cfg.Seed = seed
	e.rng.Seed(seed)
}

// SetProgress installs or clears the progress callback.
func (e *Engine) SetProgress(fn ProgressFunc) { e.cfg.Progress = fn }

// SetLogger replaces the logger. A nil logger is ignored.
func (e *Engine) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		e.cfg.Logger = l
	}
}

// Reset clears streaming state and rewinds the random source.
func (e *Engine) Reset() {
	e.tail.Reset()
	e.rng.Seed(e.cfg.Seed)
}

func (e *Engine) update(function string, mutate func(*Config)) error {
	next := e.cfg
	mutate(&next)
	if err := e.apply(next); err != nil {
		e.log(function).WithField("error", err.Error()).Warn("Rejected configuration change")
		return err
	}
	return nil
}

// apply validates cfg and swaps in freshly derived state. On error nothing
// is modified.
func (e *Engine) apply(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	frameLen := int(math.Round(cfg.FrameSeconds*cfg.SampleRate)) &^ 1
	hop := frameLen / 2
	searchLen := int(math.Round(cfg.SearchSeconds * cfg.SampleRate))

	searcher, err := align.NewSearcher[float64](cfg.Backend)
	if err != nil {
		return fmt.Errorf("grain: %w", err)
	}
	tail, err := buffer.NewStream(frameLen - hop)
	if err != nil {
		return fmt.Errorf("grain: %w", err)
	}

	rng := e.rng
	if rng == nil || cfg.Random != e.cfg.Random {
		rng, err = random.New(cfg.Random, cfg.Seed)
		if err != nil {
			return fmt.Errorf("grain: %v: %w", err, core.ErrInvalidConfiguration)
		}
	}

	e.cfg = cfg
	e.frameLen = frameLen
	e.hop = hop
	e.searchLen = searchLen
	e.win = window.Generate(cfg.Window, frameLen, window.WithPeriodic())
	e.searcher = searcher
	e.tail = tail
	e.rng = rng

	return nil
}

func (e *Engine) log(function string) *logrus.Entry {
	return e.cfg.Logger.WithField("function", function)
}

func (e *Engine) report(fraction float64) {
	if e.cfg.Progress != nil {
		e.cfg.Progress(core.Clamp(fraction, 0, 1))
	}
}
