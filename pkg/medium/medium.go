// Package medium implements spec Component J: participating media,
// their majorant-based free-flight sampling, and the Henyey-Greenstein
// phase function used to scatter within them.
package medium

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Medium is a participating-media volume: homogeneous fog or a
// heterogeneous voxel grid, sampled via delta/null-scattering so both
// share the same integrator-facing contract (spec §4.J).
type Medium interface {
	// IsVacuum reports whether this medium does nothing (used by
	// MediumInterface{nil} checks after type assertion).
	IsVacuum() bool

	// SigmaA/SigmaS return the absorption and scattering coefficients
	// at a world-space point; their sum is the extinction coefficient.
	SigmaA(p core.Vec3) core.Vec3
	SigmaS(p core.Vec3) core.Vec3

	// Majorant returns an upper bound on sigma_t along the ray segment
	// [tMin, tMax], used as the sampling rate for delta tracking.
	Majorant(ray core.Ray, tMin, tMax float64) MajorantSegment

	// G returns the phase function asymmetry parameter at p.
	G(p core.Vec3) float64

	// Le returns the volume emission at a world-space point, per spec
	// §4.J's homogeneous medium attributes. Zero for non-emissive media.
	Le(p core.Vec3) core.Vec3
}

// MajorantSegment is one run of constant majorant extinction along a
// ray, per spec §4.J; VoxelGrid yields one segment per traversed voxel,
// Homogeneous yields exactly one segment spanning the whole interval.
type MajorantSegment struct {
	TMin, TMax float64
	SigmaMaj   float64
}

// MajorantIterator walks the majorant segments overlapping [tMin, tMax]
// in order, so the integrator's delta-tracking loop never needs to know
// whether it's inside a Homogeneous or VoxelGrid medium.
type MajorantIterator interface {
	Next() (MajorantSegment, bool)
}

// HenyeyGreenstein evaluates the Henyey-Greenstein phase function at
// cosine of scattering angle cosTheta, per spec §4.J.
func HenyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(math.Max(1e-12, denom)))
}

// SamplePhaseHG importance-samples a scattering direction about wo
// (pointing away from the interaction) with asymmetry g, returning the
// world-space direction (sampled in a frame built about wo) and the PDF
// (equal to the phase value, since HG is importance-sampled exactly).
func SamplePhaseHG(wo core.Vec3, g float64, u core.Vec2) (wi core.Vec3, pdf float64) {
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqr := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqr*sqr) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	frame := core.NewFrame(wo)
	localDir := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	wi = frame.ToWorld(localDir)
	pdf = HenyeyGreenstein(cosTheta, g)
	return wi, pdf
}

// PDFPhaseHG returns the HG phase value for a given cosine, which (since
// HG is exactly importance-sampled) is also its own PDF.
func PDFPhaseHG(wo, wi core.Vec3, g float64) float64 {
	return HenyeyGreenstein(wo.Dot(wi), g)
}
