package random

import (
	"fmt"
	"math/rand/v2"
)

// Source is a seedable uniform generator.
type Source interface {
	// Seed resets the generator state.
	Seed(seed uint32)
	// Uint32 returns the next raw 32-bit value.
	Uint32() uint32
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Kind names a built-in generator.
type Kind int

const (
	// KindPCG is a permuted congruential generator (default).
	KindPCG Kind = iota
	// KindLCG is a 32-bit linear congruential generator.
	KindLCG
	// KindXorshift is Marsaglia's 32-bit xorshift.
	KindXorshift
)

// String returns the generator name.
func (k Kind) String() string {
	switch k {
	case KindPCG:
		return "PCG"
	case KindLCG:
		return "LCG"
	case KindXorshift:
		return "Xorshift"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// New returns a seeded built-in source.
func New(kind Kind, seed uint32) (Source, error) {
	var s Source
	switch kind {
	case KindPCG:
		s = &PCG{}
	case KindLCG:
		s = &LCG{}
	case KindXorshift:
		s = &Xorshift{}
	default:
		return nil, fmt.Errorf("random: unknown kind %d", int(kind))
	}
	s.Seed(seed)
	return s, nil
}

// Range returns a uniform value in [lo, hi).
func Range(s Source, lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// Bipolar returns a uniform value in [-1, 1).
func Bipolar(s Source) float64 {
	return 2*s.Float64() - 1
}

// Intn returns a uniform value in [0, n). n <= 0 yields 0.
func Intn(s Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

const uint32Scale = 1.0 / (1 << 32)

// PCG wraps the PCG-DXSM generator from math/rand/v2.
type PCG struct {
	pcg rand.PCG
}

// Seed resets the generator.
func (p *PCG) Seed(seed uint32) {
	p.pcg.Seed(uint64(seed), 0x9e3779b97f4a7c15)
}

// Uint32 returns the high half of the next 64-bit output.
func (p *PCG) Uint32() uint32 {
	return uint32(p.pcg.Uint64() >> 32)
}

// Float64 returns a value in [0, 1) with 53 bits of precision.
func (p *PCG) Float64() float64 {
	return float64(p.pcg.Uint64()>>11) / (1 << 53)
}

// LCG is the Numerical Recipes 32-bit linear congruential generator.
type LCG struct {
	state uint32
}

// Seed resets the generator.
func (l *LCG) Seed(seed uint32) { l.state = seed }

// Uint32 advances the state.
func (l *LCG) Uint32() uint32 {
	l.state = l.state*1664525 + 1013904223
	return l.state
}

// Float64 returns a value in [0, 1).
func (l *LCG) Float64() float64 {
	return float64(l.Uint32()) * uint32Scale
}

// Xorshift is a 32-bit xorshift generator. A zero state is replaced on
// seeding since it is a fixed point.
type Xorshift struct {
	state uint32
}

// Seed resets the generator.
func (x *Xorshift) Seed(seed uint32) {
	if seed == 0 {
		seed = 0x6d2b79f5
	}
	x.state = seed
}

// Uint32 advances the state.
func (x *Xorshift) Uint32() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

// Float64 returns a value in [0, 1).
func (x *Xorshift) Float64() float64 {
	return float64(x.Uint32()) * uint32Scale
}
