package light

import (
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
)

// Area is an emissive surface light backed by any shapes.Shape
// (triangle, sphere, or a disc approximated by a two-triangle quad),
// per spec §4.I. It implements primitive.AreaLightRef's Le method, so a
// Primitive can hold one without pkg/primitive importing this package.
// Area keeps no reference to the Primitive it is attached to; PDFLi
// answers its solid-angle query from Shape alone.
type Area struct {
	Shape    shapes.Shape
	Radiance core.Vec3
	TwoSided bool
}

// NewArea creates an Area light over shape with constant radiance.
func NewArea(shape shapes.Shape, radiance core.Vec3, twoSided bool) *Area {
	return &Area{Shape: shape, Radiance: radiance, TwoSided: twoSided}
}

// Le returns the constant radiance this light emits towards wi at
// isect, zero if wi is on the back side and the light isn't two-sided.
func (a *Area) Le(isect *material.SurfaceInteraction, wi core.Vec3) core.Vec3 {
	if !a.TwoSided && isect.GeometricNormal.Dot(wi) <= 0 {
		return core.Vec3{}
	}
	return a.Radiance
}

func (a *Area) SampleLi(ref core.Vec3, u core.Vec2) LiSample {
	s := a.Shape.SampleSolidAngle(ref, u)
	if !s.Valid {
		return LiSample{}
	}
	toLight := s.Point.Subtract(ref)
	dist := toLight.Length()
	if dist == 0 {
		return LiSample{}
	}
	wi := toLight.Multiply(1 / dist)
	if !a.TwoSided && s.Normal.Dot(wi.Negate()) <= 0 {
		return LiSample{}
	}
	return LiSample{Wi: wi, Li: a.Radiance, PDF: s.PDF, Distance: dist, Valid: true}
}

func (a *Area) PDFLi(ref, wi core.Vec3) float64 { return a.Shape.PDFSolidAngle(ref, wi) }

func (a *Area) IsDelta() bool { return false }
