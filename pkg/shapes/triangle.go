package shapes

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
)

// triangleEpsilon guards the Möller-Trumbore denominator and barycentric
// bounds against near-degenerate (edge-on) rays.
const triangleEpsilon = 1e-8

// Triangle is a single face of a Mesh, identified by face index so
// many Triangle values can share one vertex/index buffer.
type Triangle struct {
	mesh *Mesh
	face int
}

// NewTriangle creates a standalone single-triangle shape with its own
// private one-face Mesh; used by callers (quad lights, test scenes) that
// don't want to build a full indexed mesh for one face.
func NewTriangle(a, b, c Vertex) *Triangle {
	m := NewMesh([]Vertex{a, b, c}, []int32{0, 1, 2})
	return &Triangle{mesh: m, face: 0}
}

func (t *Triangle) vertices() (Vertex, Vertex, Vertex) {
	i := t.face * 3
	idx := t.mesh.Indices
	v := t.mesh.Vertices
	return v[idx[i]], v[idx[i+1]], v[idx[i+2]]
}

// Intersect implements the Möller-Trumbore ray-triangle test, per spec
// §4.C, interpolating shading normal/tangent/UV with the hit's
// barycentric coordinates.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, float64, bool) {
	v0, v1, v2 := t.vertices()
	e1 := v1.Position.Subtract(v0.Position)
	e2 := v2.Position.Subtract(v0.Position)

	pVec := ray.Direction.Cross(e2)
	det := e1.Dot(pVec)
	if math.Abs(det) < triangleEpsilon {
		return nil, 0, false
	}
	invDet := 1.0 / det

	tVec := ray.Origin.Subtract(v0.Position)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return nil, 0, false
	}

	qVec := tVec.Cross(e1)
	v := ray.Direction.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return nil, 0, false
	}

	hitT := e2.Dot(qVec) * invDet
	if hitT < tMin || hitT > tMax {
		return nil, 0, false
	}

	w := 1 - u - v
	point := ray.At(hitT)
	geomNormal := e1.Cross(e2).Normalize()
	shadingNormal := v0.Normal.Multiply(w).Add(v1.Normal.Multiply(u)).Add(v2.Normal.Multiply(v)).Normalize()
	if shadingNormal.IsZero() {
		shadingNormal = geomNormal
	}
	tangent := v0.Tangent.Multiply(w).Add(v1.Tangent.Multiply(u)).Add(v2.Tangent.Multiply(v))
	if tangent.IsZero() {
		tangent = e1.Normalize()
	}
	uv := core.Vec2{
		X: v0.UV.X*w + v1.UV.X*u + v2.UV.X*v,
		Y: v0.UV.Y*w + v1.UV.Y*u + v2.UV.Y*v,
	}

	si := &material.SurfaceInteraction{Point: point, UV: uv, T: hitT}
	si.SetFaceNormal(ray.Direction, geomNormal, shadingNormal, tangent)
	return si, hitT, true
}

func (t *Triangle) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, _, ok := t.Intersect(ray, tMin, tMax)
	return ok
}

func (t *Triangle) AABB() bounds.AABB3 {
	v0, v1, v2 := t.vertices()
	return bounds.AABB3FromPoints(v0.Position, v1.Position, v2.Position)
}

func (t *Triangle) Area() float64 {
	v0, v1, v2 := t.vertices()
	return v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Length() * 0.5
}

// SampleArea draws a uniform point via the standard square-root
// barycentric warp, per spec §4.C.
func (t *Triangle) SampleArea(u core.Vec2) SampleResult {
	v0, v1, v2 := t.vertices()
	su0 := math.Sqrt(u.X)
	b0 := 1 - su0
	b1 := u.Y * su0
	b2 := 1 - b0 - b1

	p := v0.Position.Multiply(b0).Add(v1.Position.Multiply(b1)).Add(v2.Position.Multiply(b2))
	n := v0.Normal.Multiply(b0).Add(v1.Normal.Multiply(b1)).Add(v2.Normal.Multiply(b2)).Normalize()
	if n.IsZero() {
		n = v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Normalize()
	}
	area := t.Area()
	if area == 0 {
		return SampleResult{}
	}
	return SampleResult{Point: p, Normal: n, PDF: 1.0 / area, Valid: true}
}

// SampleSolidAngle falls back to an area sample reprojected to the
// solid-angle measure, per spec §4.C: triangles have no closed-form
// solid-angle sampler the way spheres do, so NEE reprojects.
func (t *Triangle) SampleSolidAngle(ref core.Vec3, u core.Vec2) SampleResult {
	s := t.SampleArea(u)
	if !s.Valid {
		return SampleResult{}
	}
	pdf := areaPDFToSolidAngle(s.PDF, ref, s.Point, s.Normal)
	if pdf <= 0 {
		return SampleResult{}
	}
	return SampleResult{Point: s.Point, Normal: s.Normal, PDF: pdf, Valid: true}
}

func (t *Triangle) PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64 {
	isect, hitT, ok := t.Intersect(core.NewRay(ref, wi), core.RayEpsilon, math.Inf(1))
	if !ok {
		return 0
	}
	area := t.Area()
	if area == 0 {
		return 0
	}
	distSq := hitT * hitT * wi.LengthSquared()
	cosTheta := isect.GeometricNormal.AbsDot(wi)
	if cosTheta == 0 {
		return 0
	}
	return distSq / (cosTheta * area)
}
