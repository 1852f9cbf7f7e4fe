// Package shapes implements spec Component C: the primitive geometric
// shapes (triangle, sphere) and the indexed triangle mesh they can be
// instantiated from, each exposing both a ray-intersection and an
// area/solid-angle sampling contract so the same shape can serve as
// visible geometry and as an emitter's distribution.
package shapes

import (
	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
)

// SampleResult is a point drawn from a shape's surface, with the
// geometric normal there and the probability density the point carries
// under the sampling measure the caller asked for (area or solid angle).
type SampleResult struct {
	Point, Normal core.Vec3
	PDF           float64
	Valid         bool
}

// Shape is the contract every intersectable, sampleable surface
// implements, per spec §4.C.
type Shape interface {
	// Intersect finds the nearest hit within [tMin, tMax], returning the
	// populated SurfaceInteraction, the hit parameter t, and whether a hit
	// occurred at all.
	Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, float64, bool)

	// IntersectP is a cheaper occlusion-only test for shadow rays.
	IntersectP(ray core.Ray, tMin, tMax float64) bool

	// AABB returns the shape's world-space bounding box.
	AABB() bounds.AABB3

	// Area returns the shape's surface area, used to normalize area-
	// measure sampling and to weight emitter selection.
	Area() float64

	// SampleArea draws a point uniformly by surface area.
	SampleArea(u core.Vec2) SampleResult

	// SampleSolidAngle draws a direction from ref towards the shape,
	// proportional to solid angle as seen from ref when a closed-form
	// solid-angle sampler exists (spec §4.C, sphere); shapes without one
	// fall back to an area sample reprojected to a solid-angle PDF.
	SampleSolidAngle(ref core.Vec3, u core.Vec2) SampleResult

	// PDFSolidAngle returns the solid-angle PDF of direction wi from ref
	// hitting this shape, used by NEE's MIS weight against BSDF sampling.
	PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64
}

// areaPDFToSolidAngle converts an area-measure PDF at point p with normal
// n into a solid-angle-measure PDF as seen from ref, per the standard
// Jacobian |cosTheta|/distance^2 (spec §4.A/§4.C).
func areaPDFToSolidAngle(areaPDF float64, ref, p, n core.Vec3) float64 {
	toP := p.Subtract(ref)
	distSq := toP.LengthSquared()
	if distSq == 0 {
		return 0
	}
	wi := toP.Normalize()
	cosTheta := n.AbsDot(wi)
	if cosTheta == 0 {
		return 0
	}
	return areaPDF * distSq / cosTheta
}
