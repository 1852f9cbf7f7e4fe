package shapes

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
)

// Sphere is a ray-traced sphere with latitude-longitude UV parameterization.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

func NewSphere(center core.Vec3, radius float64) *Sphere { return &Sphere{Center: center, Radius: radius} }

// sphereUV maps a point on a unit sphere (direction from center) to
// (u,v) via the standard spherical parameterization, per spec §4.C:
// phi = atan2(-z, x) + pi, theta = acos(y), u = phi/2pi, v = theta/pi.
func sphereUV(p core.Vec3) core.Vec2 {
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	theta := math.Acos(clampUnit(p.Y))
	return core.Vec2{X: phi / (2 * math.Pi), Y: theta / math.Pi}
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

// Intersect solves the ray-sphere quadratic |o+td-c|^2 = r^2 for the
// nearest root in [tMin, tMax], per spec §4.C.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, float64, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil, 0, false
	}
	sqrtDisc := math.Sqrt(disc)

	root := (-halfB - sqrtDisc) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtDisc) / a
		if root < tMin || root > tMax {
			return nil, 0, false
		}
	}

	point := ray.At(root)
	outward := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	uv := sphereUV(outward)
	tangent := core.NewVec3(-outward.Z, 0, outward.X)
	if tangent.IsZero() {
		tangent = core.NewVec3(1, 0, 0)
	}

	si := &material.SurfaceInteraction{Point: point, UV: uv, T: root}
	si.SetFaceNormal(ray.Direction, outward, outward, tangent.Normalize())
	return si, root, true
}

func (s *Sphere) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, _, ok := s.Intersect(ray, tMin, tMax)
	return ok
}

func (s *Sphere) AABB() bounds.AABB3 {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return bounds.NewAABB3(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) Area() float64 { return 4 * math.Pi * s.Radius * s.Radius }

func (s *Sphere) SampleArea(u core.Vec2) SampleResult {
	dir := core.UniformSampleSphere(u)
	p := s.Center.Add(dir.Multiply(s.Radius))
	area := s.Area()
	if area == 0 {
		return SampleResult{}
	}
	return SampleResult{Point: p, Normal: dir, PDF: 1.0 / area, Valid: true}
}

// SampleSolidAngle importance-samples the visible cone of the sphere as
// seen from ref, per spec §4.C: when ref lies outside the sphere this
// gives a closed-form solid-angle PDF (1/cone solid angle); otherwise it
// falls back to reprojecting an area sample.
func (s *Sphere) SampleSolidAngle(ref core.Vec3, u core.Vec2) SampleResult {
	toCenter := s.Center.Subtract(ref)
	distSq := toCenter.LengthSquared()
	if distSq <= s.Radius*s.Radius {
		area := s.SampleArea(u)
		if !area.Valid {
			return SampleResult{}
		}
		pdf := areaPDFToSolidAngle(area.PDF, ref, area.Point, area.Normal)
		if pdf <= 0 {
			return SampleResult{}
		}
		return SampleResult{Point: area.Point, Normal: area.Normal, PDF: pdf, Valid: true}
	}

	dist := math.Sqrt(distSq)
	sinThetaMax2 := s.Radius * s.Radius / distSq
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))

	cosTheta := 1 - u.X*(1-cosThetaMax)
	sinTheta2 := math.Max(0, 1-cosTheta*cosTheta)
	sinTheta := math.Sqrt(sinTheta2)
	phi := 2 * math.Pi * u.Y

	frame := core.NewFrame(toCenter.Multiply(1.0 / dist))
	wi := frame.ToWorld(core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta))

	// Re-derive the exact hit point/normal by intersecting the sampled
	// cone direction, which keeps the returned Point/Normal consistent
	// with Intersect's own surface parameterization.
	isect, hitT, ok := s.Intersect(core.NewRay(ref, wi), core.RayEpsilon, math.Inf(1))
	if !ok {
		_ = hitT
		return SampleResult{}
	}
	pdf := 1.0 / (2 * math.Pi * (1 - cosThetaMax))
	return SampleResult{Point: isect.Point, Normal: isect.GeometricNormal, PDF: pdf, Valid: true}
}

func (s *Sphere) PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64 {
	toCenter := s.Center.Subtract(ref)
	distSq := toCenter.LengthSquared()
	if distSq <= s.Radius*s.Radius {
		isect, hitT, ok := s.Intersect(core.NewRay(ref, wi), core.RayEpsilon, math.Inf(1))
		if !ok {
			return 0
		}
		area := s.Area()
		if area == 0 {
			return 0
		}
		d2 := hitT * hitT * wi.LengthSquared()
		cosTheta := isect.GeometricNormal.AbsDot(wi)
		if cosTheta == 0 {
			return 0
		}
		return d2 / (cosTheta * area)
	}
	sinThetaMax2 := s.Radius * s.Radius / distSq
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))
	solidAngle := 2 * math.Pi * (1 - cosThetaMax)
	if solidAngle <= 0 {
		return 0
	}
	return 1.0 / solidAngle
}
