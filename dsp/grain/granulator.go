package grain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-grain/dsp/core"
	"github.com/cwbudde/algo-grain/dsp/delay"
	"github.com/cwbudde/algo-grain/dsp/interp"
	"github.com/cwbudde/algo-grain/dsp/random"
	"github.com/cwbudde/algo-grain/dsp/window"
)

const (
	defaultGranulatorGrainSeconds = 0.08
	defaultGranulatorOverlap      = 0.5
	defaultGranulatorMix          = 1.0
	defaultGranulatorRate         = 1.0
	defaultGranulatorSpray        = 0.1
	defaultGranulatorBaseDelay    = 0.08
	defaultGranulatorSeed         = 1

	minGranulatorGrainSeconds = 0.005
	maxGranulatorGrainSeconds = 0.5
	minGranulatorRate         = 0.25
	maxGranulatorRate         = 4.0
	maxGranulatorOverlap      = 0.95
	maxGranulatorDelaySeconds = 2.0
	maxGranulatorVoices       = 64

	granulatorEnvelopeSize = 1024
)

type voice struct {
	active bool
	// lag is the read position in samples behind the newest input.
	lag float64
	age int
	dur int
}

// Granulator is a per-sample granular processor.
//
// Input is written into a fractional delay line. Grains are spawned at a
// fixed interval derived from the grain length and overlap, each reading
// the history from BaseDelay (plus random spray) at Rate and shaped by a
// precomputed window envelope. The wet signal is normalized by the summed
// envelope and blended with the dry input by Mix.
//
// ProcessSample runs in O(voices) time and does not allocate. Parameter
// setters may allocate and should not be called from a realtime callback
// unless noted.
type Granulator struct {
	sampleRate   float64
	grainSeconds float64
	overlap      float64
	mix          float64
	rate         float64
	spray        float64
	baseDelay    float64
	shape        window.Type
	seed         uint32

	history *delay.Line
	env     []float64
	voices  [maxGranulatorVoices]voice
	rng     random.Source

	grainSamples  int
	spawnInterval int
	baseLag       float64
	sprayLag      float64
	nextSpawn     int
}

// NewGranulator returns a granulator with practical defaults.
func NewGranulator(sampleRate float64) (*Granulator, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("grain: granulator sample rate must be positive and finite: %f: %w",
			sampleRate, core.ErrInvalidConfiguration)
	}

	rng, err := random.New(random.KindXorshift, defaultGranulatorSeed)
	if err != nil {
		return nil, err
	}

	g := &Granulator{
		sampleRate:   sampleRate,
		grainSeconds: defaultGranulatorGrainSeconds,
		overlap:      defaultGranulatorOverlap,
		mix:          defaultGranulatorMix,
		rate:         defaultGranulatorRate,
		spray:        defaultGranulatorSpray,
		baseDelay:    defaultGranulatorBaseDelay,
		shape:        window.TypeHann,
		seed:         defaultGranulatorSeed,
		rng:          rng,
	}
	if err := g.reconfigure(); err != nil {
		return nil, err
	}
	return g, nil
}

// SampleRate returns the sample rate in Hz.
func (g *Granulator) SampleRate() float64 { return g.sampleRate }

// GrainSeconds returns the grain duration in seconds.
func (g *Granulator) GrainSeconds() float64 { return g.grainSeconds }

// Overlap returns the normalized grain overlap.
func (g *Granulator) Overlap() float64 { return g.overlap }

// Mix returns the wet/dry mix.
func (g *Granulator) Mix() float64 { return g.mix }

// Rate returns the grain playback ratio.
func (g *Granulator) Rate() float64 { return g.rate }

// Spray returns the random start spread relative to the grain length.
func (g *Granulator) Spray() float64 { return g.spray }

// BaseDelay returns the read delay behind the input in seconds.
func (g *Granulator) BaseDelay() float64 { return g.baseDelay }

// Window returns the grain envelope shape.
func (g *Granulator) Window() window.Type { return g.shape }

// SetSampleRate changes the sample rate. History is cleared.
func (g *Granulator) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("grain: granulator sample rate must be positive and finite: %f: %w",
			sampleRate, core.ErrInvalidConfiguration)
	}
	old := g.sampleRate
	g.sampleRate = sampleRate
	if err := g.reconfigure(); err != nil {
		g.sampleRate = old
		_ = g.reconfigure()
		return err
	}
	return nil
}

// SetGrainSeconds sets the grain duration. History is cleared.
func (g *Granulator) SetGrainSeconds(seconds float64) error {
	if seconds < minGranulatorGrainSeconds || seconds > maxGranulatorGrainSeconds || math.IsNaN(seconds) {
		return fmt.Errorf("grain: granulator grain seconds must be in [%f, %f]: %f: %w",
			minGranulatorGrainSeconds, maxGranulatorGrainSeconds, seconds, core.ErrInvalidConfiguration)
	}
	old := g.grainSeconds
	g.grainSeconds = seconds
	if err := g.reconfigure(); err != nil {
		g.grainSeconds = old
		_ = g.reconfigure()
		return err
	}
	return nil
}

// SetOverlap sets the normalized grain overlap in [0, 0.95]. Safe to call
// between samples.
func (g *Granulator) SetOverlap(overlap float64) error {
	if overlap < 0 || overlap > maxGranulatorOverlap || math.IsNaN(overlap) {
		return fmt.Errorf("grain: granulator overlap must be in [0, %f]: %f: %w",
			maxGranulatorOverlap, overlap, core.ErrInvalidConfiguration)
	}
	g.overlap = overlap
	g.updateDerived()
	return nil
}

// SetMix sets the wet/dry mix in [0, 1]. Safe to call between samples.
func (g *Granulator) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return fmt.Errorf("grain: granulator mix must be in [0, 1]: %f: %w", mix, core.ErrInvalidConfiguration)
	}
	g.mix = mix
	return nil
}

// SetRate sets the grain playback ratio. Safe to call between samples.
func (g *Granulator) SetRate(rate float64) error {
	if rate < minGranulatorRate || rate > maxGranulatorRate || math.IsNaN(rate) {
		return fmt.Errorf("grain: granulator rate must be in [%f, %f]: %f: %w",
			minGranulatorRate, maxGranulatorRate, rate, core.ErrInvalidConfiguration)
	}
	g.rate = rate
	return nil
}

// SetSpray sets the random start spread in [0, 1] grain lengths. Safe to
// call between samples.
func (g *Granulator) SetSpray(spray float64) error {
	if spray < 0 || spray > 1 || math.IsNaN(spray) {
		return fmt.Errorf("grain: granulator spray must be in [0, 1]: %f: %w", spray, core.ErrInvalidConfiguration)
	}
	g.spray = spray
	g.updateDerived()
	return nil
}

// SetBaseDelay sets the read delay in [0, 2] seconds. Safe to call between
// samples.
func (g *Granulator) SetBaseDelay(seconds float64) error {
	if seconds < 0 || seconds > maxGranulatorDelaySeconds || math.IsNaN(seconds) {
		return fmt.Errorf("grain: granulator base delay must be in [0, %f]: %f: %w",
			maxGranulatorDelaySeconds, seconds, core.ErrInvalidConfiguration)
	}
	g.baseDelay = seconds
	g.updateDerived()
	return nil
}

// SetWindow changes the grain envelope shape.
func (g *Granulator) SetWindow(t window.Type) error {
	if !t.Valid() {
		return fmt.Errorf("grain: unknown window type %d: %w", int(t), core.ErrInvalidConfiguration)
	}
	g.shape = t
	window.Fill(t, g.env)
	return nil
}

// SetRandomSeed sets the seed for grain spray and resets the processor.
func (g *Granulator) SetRandomSeed(seed uint32) {
	g.seed = seed
	g.Reset()
}

// Reset clears history and voices and rewinds the random source.
func (g *Granulator) Reset() {
	g.history.Reset()
	g.nextSpawn = 0
	for i := range g.voices {
		g.voices[i] = voice{}
	}
	g.rng.Seed(g.seed)
}

// ProcessSample processes one input sample.
func (g *Granulator) ProcessSample(input float64) float64 {
	g.history.Write(input)

	if g.nextSpawn <= 0 {
		g.spawn()
		g.nextSpawn = g.spawnInterval
	} else {
		g.nextSpawn--
	}

	wet := 0.0
	norm := 0.0
	drift := 1 - g.rate

	for i := range g.voices {
		v := &g.voices[i]
		if !v.active {
			continue
		}

		e := g.envelope(v.age, v.dur)
		wet += g.history.Read(v.lag/g.sampleRate) * e
		norm += e

		v.lag += drift
		v.age++
		if v.age >= v.dur {
			v.active = false
		}
	}

	if norm > 1e-12 {
		wet /= norm
	}

	return core.FlushDenormals(input*(1-g.mix) + wet*g.mix)
}

// ProcessInPlace applies ProcessSample to every element of buf.
func (g *Granulator) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = g.ProcessSample(buf[i])
	}
}

func (g *Granulator) reconfigure() error {
	// Rate above 1 reads towards the present; below 1 the lag grows by up to
	// one grain length.
	maxDelay := maxGranulatorDelaySeconds + 2*g.grainSeconds
	history, err := delay.New(g.sampleRate, maxDelay)
	if err != nil {
		return err
	}

	g.history = history
	if g.env == nil {
		g.env = make([]float64, granulatorEnvelopeSize)
		window.Fill(g.shape, g.env)
	}
	g.updateDerived()
	g.Reset()

	return nil
}

func (g *Granulator) updateDerived() {
	g.grainSamples = int(math.Round(g.grainSeconds * g.sampleRate))
	if g.grainSamples < 2 {
		g.grainSamples = 2
	}

	interval := int(math.Round(float64(g.grainSamples) * (1 - g.overlap)))
	if interval < 1 {
		interval = 1
	}
	g.spawnInterval = interval

	g.baseLag = g.baseDelay * g.sampleRate
	g.sprayLag = float64(g.grainSamples) * g.spray
}

func (g *Granulator) spawn() {
	slot := -1
	for i := range g.voices {
		if !g.voices[i].active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return
	}

	lag := g.baseLag
	if g.sprayLag > 0 {
		lag += random.Bipolar(g.rng) * g.sprayLag
	}
	if lag < 0 {
		lag = 0
	}

	g.voices[slot] = voice{active: true, lag: lag, dur: g.grainSamples}
}

// envelope looks up the precomputed window at the grain's relative age.
func (g *Granulator) envelope(age, dur int) float64 {
	if dur <= 1 {
		return 1
	}
	pos := float64(age) * float64(len(g.env)-1) / float64(dur-1)
	i := int(pos)
	if i >= len(g.env)-1 {
		return g.env[len(g.env)-1]
	}
	return interp.Linear2(pos-float64(i), g.env[i], g.env[i+1])
}
