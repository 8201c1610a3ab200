package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-grain/dsp/curve"
)

// Type identifies a window shape.
type Type int

const (
	TypeRectangular Type = iota
	TypeHamming
	TypeHann
	TypeBlackman
	TypeBlackmanHarris
	TypeKaiser
	TypeNuttall
	TypeParzen
	TypeBartlett
	TypeGaussian
)

// Types lists every supported shape in declaration order.
var Types = []Type{
	TypeRectangular,
	TypeHamming,
	TypeHann,
	TypeBlackman,
	TypeBlackmanHarris,
	TypeKaiser,
	TypeNuttall,
	TypeParzen,
	TypeBartlett,
	TypeGaussian,
}

var typeNames = map[Type]string{
	TypeRectangular:    "Rectangular",
	TypeHamming:        "Hamming",
	TypeHann:           "Hann",
	TypeBlackman:       "Blackman",
	TypeBlackmanHarris: "BlackmanHarris",
	TypeKaiser:         "Kaiser",
	TypeNuttall:        "Nuttall",
	TypeParzen:         "Parzen",
	TypeBartlett:       "Bartlett",
	TypeGaussian:       "Gaussian",
}

// String returns the shape name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether t is one of the supported shapes.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

const (
	// DefaultKaiserBeta is the Kaiser shape parameter used without WithBeta.
	DefaultKaiserBeta = 8.0
	// DefaultGaussianSigma is the Gaussian standard deviation, in percent of
	// the half-width, used without WithSigma.
	DefaultGaussianSigma = 40.0
)

var (
	hammingCoeffs        = []float64{0.54, -0.46}
	hannCoeffs           = []float64{0.5, -0.5}
	blackmanCoeffs       = []float64{0.42, -0.5, 0.08}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	nuttallCoeffs        = []float64{0.355768, -0.487396, 0.144232, -0.012604}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	beta     float64
	sigma    float64
	periodic bool
	invert   bool
}

func defaultConfig() config {
	return config{
		beta:  DefaultKaiserBeta,
		sigma: DefaultGaussianSigma,
	}
}

func resolve(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithBeta sets the Kaiser shape parameter. Negative values are ignored.
func WithBeta(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.beta = v
		}
	}
}

// WithSigma sets the Gaussian standard deviation as a percentage of the
// window half-width. Non-positive values are ignored.
func WithSigma(percent float64) Option {
	return func(c *config) {
		if percent > 0 {
			c.sigma = percent
		}
	}
}

// WithPeriodic configures periodic form (overlap-add framing) instead of
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithInvert inverts coefficients (1 - w[n]).
func WithInvert() Option {
	return func(c *config) {
		c.invert = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	Fill(t, out, opts...)

	return out
}

// Fill writes window coefficients into dst without allocating.
func Fill(t Type, dst []float64, opts ...Option) {
	cfg := resolve(opts)
	for i := range dst {
		x := samplePosition(i, len(dst), cfg.periodic)
		dst[i] = evalConfigured(t, x, cfg)
	}
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// At evaluates the window at normalized position x in [0, 1]. Positions
// outside that range are clamped.
func At(t Type, x float64, opts ...Option) float64 {
	return evalConfigured(t, x, resolve(opts))
}

// EnvelopeTable samples the window at points evenly spaced positions over
// [0, 1] and returns them as a breakpoint table, so envelopes can be read by
// linear lookup instead of analytic evaluation.
func EnvelopeTable(t Type, points int, opts ...Option) (*curve.Table, error) {
	if err := validateLength(points); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, validateType(t)
	}

	cfg := resolve(opts)
	tbl := &curve.Table{}
	for i := 0; i < points; i++ {
		x := samplePosition(i, points, false)
		if err := tbl.AddPoint(x, evalConfigured(t, x, cfg)); err != nil {
			return nil, err
		}
	}

	return tbl, nil
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Kaiser returns Kaiser window coefficients.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if size <= 0 || beta < 0 {
		return nil, validateKaiser(size, beta)
	}

	return Generate(TypeKaiser, size, append(opts, WithBeta(beta))...), nil
}

// Gaussian returns Gaussian window coefficients. sigmaPercent is the standard
// deviation as a percentage of the half-width.
func Gaussian(size int, sigmaPercent float64, opts ...Option) ([]float64, error) {
	if size <= 0 || sigmaPercent <= 0 {
		return nil, validateGauss(size, sigmaPercent)
	}

	return Generate(TypeGaussian, size, append(opts, WithSigma(sigmaPercent))...), nil
}

func evalConfigured(t Type, x float64, cfg config) float64 {
	v := evalWindow(t, x, cfg)
	if cfg.invert {
		return 1 - v
	}
	return v
}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeBlackmanHarris:
		return cosineFromCoeffs(x, blackmanHarrisCoeffs)
	case TypeKaiser:
		return kaiserAt(x, cfg.beta)
	case TypeNuttall:
		return cosineFromCoeffs(x, nuttallCoeffs)
	case TypeParzen:
		return parzenAt(x)
	case TypeBartlett:
		return 1 - math.Abs(2*x-1)
	case TypeGaussian:
		v := (2*x - 1) / (cfg.sigma / 100)
		return math.Exp(-0.5 * v * v)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

// parzenAt is the 4th-order B-spline window over r = |2x-1|.
func parzenAt(x float64) float64 {
	r := math.Abs(2*x - 1)
	if r <= 0.5 {
		return 1 - 6*r*r*(1-r)
	}

	d := 1 - r
	return 2 * d * d * d
}

// besselI0 returns a numerical approximation of the modified Bessel function I0.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y

		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax

	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}
