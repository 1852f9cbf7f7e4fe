package bxdf

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// SeparableBSSRDF models subsurface scattering with a separable
// dipole-diffusion profile (spec §4.G "Subsurface (diffusion)"): the
// exitant radiance factors into a spatial profile R(r) and a directional
// term, so sampling splits into "pick an exit point" (Sp) followed by
// "pick an exit direction" via the surface BSDF at that point.
type SeparableBSSRDF struct {
	SigmaA, SigmaS core.Vec3 // absorption / scattering coefficients
	G              float64   // phase asymmetry, used to derive the reduced albedo
	Eta            float64   // relative IOR across the boundary
}

// NewSeparableBSSRDF creates a dipole-diffusion BSSRDF from absorption
// and scattering coefficients.
func NewSeparableBSSRDF(sigmaA, sigmaS core.Vec3, g, eta float64) *SeparableBSSRDF {
	return &SeparableBSSRDF{SigmaA: sigmaA, SigmaS: sigmaS, G: g, Eta: eta}
}

// sigmaTr returns the effective transport coefficient per channel,
// sigma_tr = sqrt(3 * sigma_a * sigma_t'), the classical dipole result.
func (b *SeparableBSSRDF) sigmaTr() core.Vec3 {
	reduced := func(a, s float64) float64 {
		sPrime := s * (1 - b.G)
		t := a + sPrime
		return math.Sqrt(3 * a * t)
	}
	return core.Vec3{
		X: reduced(b.SigmaA.X, b.SigmaS.X),
		Y: reduced(b.SigmaA.Y, b.SigmaS.Y),
		Z: reduced(b.SigmaA.Z, b.SigmaS.Z),
	}
}

// Sr evaluates the radial diffusion profile R(r) per channel: the
// classical dipole falls off as exp(-sigma_tr*r)/r, clamped near r=0 to
// avoid the profile's integrable singularity blowing up numerically.
func (b *SeparableBSSRDF) Sr(distance float64) core.Vec3 {
	r := math.Max(distance, 1e-4)
	tr := b.sigmaTr()
	decay := func(sigmaTr float64) float64 {
		return math.Exp(-sigmaTr*r) / (2 * math.Pi * r)
	}
	return core.Vec3{X: decay(tr.X), Y: decay(tr.Y), Z: decay(tr.Z)}
}

// SampleSr inverts the exponential part of the profile to draw a radial
// exit distance for one channel, used to pick a probe disk radius before
// re-intersecting the surface for the exit point (spec §4.G).
func (b *SeparableBSSRDF) SampleSr(channel int, u float64) float64 {
	tr := b.sigmaTr()
	var sigmaTr float64
	switch channel {
	case 0:
		sigmaTr = tr.X
	case 1:
		sigmaTr = tr.Y
	default:
		sigmaTr = tr.Z
	}
	if sigmaTr <= 0 {
		return 0
	}
	return -math.Log(1-u) / sigmaTr
}

// PdfSr is the PDF the radial sample above was drawn from, needed to
// weight the Monte-Carlo estimator of the spatial integral.
func (b *SeparableBSSRDF) PdfSr(channel int, r float64) float64 {
	tr := b.sigmaTr()
	var sigmaTr float64
	switch channel {
	case 0:
		sigmaTr = tr.X
	case 1:
		sigmaTr = tr.Y
	default:
		sigmaTr = tr.Z
	}
	return sigmaTr * math.Exp(-sigmaTr*math.Max(r, 1e-4))
}
