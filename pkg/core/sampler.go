package core

import "math/rand"

// RNG is the low-level uniform random source, per spec §6: returns
// uniform Float samples in [0,1) and uniform 64-bit integers. The core
// never constructs randomness any other way, so swapping the underlying
// generator (e.g. for a PCG or a sampler with better stratification) is
// a one-file change.
type RNG interface {
	NextFloat() float64
	NextInt() uint64
}

// goRNG adapts math/rand.Rand to the RNG contract. It is the only seeded
// RNG in this repo (pkg/integrator's samplerRNG adapts a Sampler to the
// same interface); everything else in the core depends on the RNG
// interface.
type goRNG struct{ r *rand.Rand }

// NewRNG creates an RNG seeded deterministically from a seed value.
// Seeding from (pixel, sampleIndex) as spec §5 requires is the caller's
// responsibility (see pkg/renderer).
func NewRNG(seed int64) RNG { return &goRNG{r: rand.New(rand.NewSource(seed))} }

func (g *goRNG) NextFloat() float64 { return g.r.Float64() }
func (g *goRNG) NextInt() uint64    { return g.r.Uint64() }

// Sampler is the per-pixel sample-sequence contract consumed by
// integrators (spec §6). StartPixel lets a stratified/Sobol
// implementation re-seed or reset its sequence for a new pixel without
// the integrator knowing the difference; the RNG-backed implementation
// below just reseeds.
type Sampler interface {
	Next1D() float64
	Next2D() (float64, float64)
	StartPixel(px, py, sampleIndex int)
}

// rngSampler is a Sampler backed directly by an RNG, seeded from the
// pixel coordinate and sample index so renders are reproducible (spec
// §5 "Ordering").
type rngSampler struct {
	rng RNG
}

// NewSampler creates a Sampler seeded from (px, py, sampleIndex).
func NewSampler(px, py, sampleIndex int) Sampler {
	s := &rngSampler{}
	s.StartPixel(px, py, sampleIndex)
	return s
}

func (s *rngSampler) StartPixel(px, py, sampleIndex int) {
	seed := int64(px)*73856093 ^ int64(py)*19349663 ^ int64(sampleIndex)*83492791
	s.rng = NewRNG(seed)
}

func (s *rngSampler) Next1D() float64 { return s.rng.NextFloat() }
func (s *rngSampler) Next2D() (float64, float64) {
	return s.rng.NextFloat(), s.rng.NextFloat()
}
