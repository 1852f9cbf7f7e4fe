package light

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Point is an isotropic point light, a Dirac delta in both position and
// direction, per spec §4.I.
type Point struct {
	Position  core.Vec3
	Intensity core.Vec3 // radiant intensity (W/sr)
}

func NewPoint(position, intensity core.Vec3) *Point { return &Point{Position: position, Intensity: intensity} }

func (p *Point) SampleLi(ref core.Vec3, u core.Vec2) LiSample {
	toLight := p.Position.Subtract(ref)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LiSample{}
	}
	dist := toLight.Length()
	wi := toLight.Multiply(1 / dist)
	return LiSample{Wi: wi, Li: p.Intensity.Multiply(1 / distSq), PDF: 1, Distance: dist, Valid: true}
}

func (p *Point) PDFLi(ref, wi core.Vec3) float64 { return 0 }

func (p *Point) IsDelta() bool { return true }

// Spot is a point light with an angular falloff cone, per spec §4.I.
type Spot struct {
	Position, Direction          core.Vec3
	Intensity                    core.Vec3
	CosFalloffStart, CosFalloffEnd float64 // cos(inner), cos(outer), inner <= outer in angle so cos(inner) >= cos(outer)
}

func NewSpot(position, direction, intensity core.Vec3, falloffStart, falloffEnd float64) *Spot {
	return &Spot{
		Position: position, Direction: direction.Normalize(), Intensity: intensity,
		CosFalloffStart: math.Cos(falloffStart), CosFalloffEnd: math.Cos(falloffEnd),
	}
}

func (s *Spot) falloff(wi core.Vec3) float64 {
	cosTheta := s.Direction.Dot(wi.Negate())
	if cosTheta < s.CosFalloffEnd {
		return 0
	}
	if cosTheta > s.CosFalloffStart {
		return 1
	}
	delta := (cosTheta - s.CosFalloffEnd) / (s.CosFalloffStart - s.CosFalloffEnd)
	return delta * delta * delta * delta
}

func (s *Spot) SampleLi(ref core.Vec3, u core.Vec2) LiSample {
	toLight := s.Position.Subtract(ref)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LiSample{}
	}
	dist := toLight.Length()
	wi := toLight.Multiply(1 / dist)
	falloff := s.falloff(wi)
	if falloff == 0 {
		return LiSample{}
	}
	return LiSample{Wi: wi, Li: s.Intensity.Multiply(falloff / distSq), PDF: 1, Distance: dist, Valid: true}
}

func (s *Spot) PDFLi(ref, wi core.Vec3) float64 { return 0 }

func (s *Spot) IsDelta() bool { return true }

// Directional is a light at infinite distance shining from a fixed
// direction, per spec §4.I (sunlight).
type Directional struct {
	Direction core.Vec3 // points from the light towards the scene
	Radiance  core.Vec3
}

func NewDirectional(direction, radiance core.Vec3) *Directional {
	return &Directional{Direction: direction.Normalize(), Radiance: radiance}
}

func (d *Directional) SampleLi(ref core.Vec3, u core.Vec2) LiSample {
	wi := d.Direction.Negate()
	return LiSample{Wi: wi, Li: d.Radiance, PDF: 1, Distance: 1e7, Valid: true}
}

func (d *Directional) PDFLi(ref, wi core.Vec3) float64 { return 0 }

func (d *Directional) IsDelta() bool { return true }
