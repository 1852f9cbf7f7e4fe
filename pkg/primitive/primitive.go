// Package primitive implements spec Component D: the Primitive that
// binds a Shape to a Material (and optionally an emissive AreaLight and
// participating Medium interfaces), plus the Intersectable contract the
// BVH and the naive list fallback both satisfy.
package primitive

import (
	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/medium"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
)

// AreaLightRef is the narrow view a Primitive needs of an area light
// attached to it — just enough to let an integrator ask "what does this
// light emit towards wi". It is satisfied structurally by
// pkg/light.Area without this package importing pkg/light; the reference
// runs one way only, since pkg/light.Area holds no pointer back to its
// Primitive. See DESIGN.md.
type AreaLightRef interface {
	Le(isect *material.SurfaceInteraction, wi core.Vec3) core.Vec3
}

// MediumInterface names the (possibly nil) media on either side of a
// Primitive's surface, per spec §3's "MediumInterface {inside,
// outside}". A nil side (or one holding medium.Vacuum) means empty
// space; an integrator crossing a non-emissive, BSDF-less primitive
// with a non-vacuum interface continues the ray inside that medium.
type MediumInterface struct {
	Inside, Outside medium.Medium
}

// IsTransition reports whether crossing this boundary actually changes
// which medium the ray travels through, used by integrators deciding
// whether a primitive is purely a medium boundary (e.g. a glass
// dielectric bounding a homogeneous fog) rather than a solid surface.
func (mi MediumInterface) IsTransition() bool {
	return mi.Inside != mi.Outside
}

// Primitive binds one Shape to a Material and, optionally, the AreaLight
// it emits through and the participating media on either side of its
// boundary.
type Primitive struct {
	Shape     shapes.Shape
	Material  material.Material
	AreaLight AreaLightRef // nil for non-emissive primitives
	Medium    MediumInterface
}

// NewPrimitive creates a non-emissive, vacuum-bounded Primitive.
func NewPrimitive(shape shapes.Shape, mat material.Material) *Primitive {
	return &Primitive{Shape: shape, Material: mat}
}

// HitRecord is spec §3's Intersection with its owning Primitive
// reattached, the piece SurfaceInteraction deliberately omits to avoid
// the material<->primitive import cycle.
type HitRecord struct {
	*material.SurfaceInteraction
	Primitive *Primitive
}

// Intersectable is the ray-query contract shared by a Primitive, a flat
// primitive list and the BVH, per spec §4.E/§4.D. Every acceleration
// structure in this repo is built against this interface so integrators
// never need to know whether they're querying a BVH or a bare list.
type Intersectable interface {
	Intersect(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
	IntersectAny(ray core.Ray, tMin, tMax float64) bool
	AABB() bounds.AABB3
}

func (p *Primitive) Intersect(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	isect, _, ok := p.Shape.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	return &HitRecord{SurfaceInteraction: isect, Primitive: p}, true
}

func (p *Primitive) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	return p.Shape.IntersectP(ray, tMin, tMax)
}

func (p *Primitive) AABB() bounds.AABB3 { return p.Shape.AABB() }

// List is the simplest Intersectable: a brute-force linear scan over
// every primitive. The scene builder always builds a BVH, and no test
// constructs a List.
type List struct {
	Primitives []*Primitive
}

func NewList(prims ...*Primitive) *List { return &List{Primitives: prims} }

func (l *List) Intersect(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closest *HitRecord
	closestT := tMax
	for _, p := range l.Primitives {
		if hr, ok := p.Intersect(ray, tMin, closestT); ok {
			closest = hr
			closestT = hr.T
		}
	}
	return closest, closest != nil
}

func (l *List) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	for _, p := range l.Primitives {
		if p.IntersectAny(ray, tMin, tMax) {
			return true
		}
	}
	return false
}

func (l *List) AABB() bounds.AABB3 {
	box := bounds.Empty3()
	for _, p := range l.Primitives {
		box = box.Union(p.AABB())
	}
	return box
}
