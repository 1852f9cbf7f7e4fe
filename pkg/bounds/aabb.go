// Package bounds implements spec Component B: AABB2/AABB3, ray-slab
// intersection, the surface-area metric used by the BVH's SAH, and an
// integer-lattice iterator over a bounded 2-D region.
package bounds

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// AABB3 is an axis-aligned bounding box in 3-space. The zero value is
// not a valid empty box; use Empty3() so Union is the identity, per
// spec §3: empty is encoded as (+inf,...)/(-inf,...).
type AABB3 struct {
	Min, Max core.Vec3
}

// Empty3 returns the AABB3 that acts as the identity element for Union.
func Empty3() AABB3 {
	inf := math.Inf(1)
	return AABB3{
		Min: core.Vec3{X: inf, Y: inf, Z: inf},
		Max: core.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewAABB3 creates an AABB3 from min/max corners, normalizing so that
// Min <= Max componentwise regardless of argument order.
func NewAABB3(a, b core.Vec3) AABB3 {
	return AABB3{
		Min: core.Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: core.Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// AABB3FromPoints bounds an arbitrary set of points.
func AABB3FromPoints(points ...core.Vec3) AABB3 {
	box := Empty3()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return box
}

// UnionPoint expands the box to include p.
func (b AABB3) UnionPoint(p core.Vec3) AABB3 {
	return AABB3{
		Min: core.Vec3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: core.Vec3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns an AABB3 bounding both b and other.
func (b AABB3) Union(other AABB3) AABB3 {
	return AABB3{
		Min: core.Vec3{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: core.Vec3{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// Contains reports whether other is fully contained within b.
func (b AABB3) Contains(other AABB3) bool {
	return other.Min.X >= b.Min.X && other.Min.Y >= b.Min.Y && other.Min.Z >= b.Min.Z &&
		other.Max.X <= b.Max.X && other.Max.Y <= b.Max.Y && other.Max.Z <= b.Max.Z
}

// Center returns the center point of the box.
func (b AABB3) Center() core.Vec3 { return b.Min.Add(b.Max).Multiply(0.5) }

// Extent returns the per-axis size of the box.
func (b AABB3) Extent() core.Vec3 { return b.Max.Subtract(b.Min) }

// SurfaceArea returns the surface area of the box, the metric the SAH
// and the dynamic BVH's rotation heuristic both minimize.
func (b AABB3) SurfaceArea() float64 {
	e := b.Extent()
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return 0
	}
	return 2.0 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// Volume returns the volume of the box.
func (b AABB3) Volume() float64 {
	e := b.Extent()
	return e.X * e.Y * e.Z
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent.
func (b AABB3) LongestAxis() int {
	e := b.Extent()
	if e.X > e.Y && e.X > e.Z {
		return 0
	}
	if e.Y > e.Z {
		return 1
	}
	return 2
}

// Axis returns the b.Min/b.Max component along the given axis.
func (b AABB3) AxisMin(axis int) float64 { return axisOf(b.Min, axis) }
func (b AABB3) AxisMax(axis int) float64 { return axisOf(b.Max, axis) }

func axisOf(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Expand returns a box grown by amount along every axis in both
// directions; used by the dynamic BVH to build "fat" leaf AABBs.
func (b AABB3) Expand(amount float64) AABB3 {
	e := core.NewVec3(amount, amount, amount)
	return AABB3{Min: b.Min.Subtract(e), Max: b.Max.Add(e)}
}

// Hit tests the slab method against a ray, returning a boolean hit.
func (b AABB3) Hit(ray core.Ray, tMin, tMax float64) bool {
	ok, _ := b.HitT(ray, tMin, tMax)
	return ok
}

// HitT is the slab test returning both the hit boolean and entry t.
// Per spec §4.B it returns +Inf on miss so it composes with ordered BVH
// descent (callers can compare entry-t values directly without a
// separate miss check).
func (b AABB3) HitT(ray core.Ray, tMin, tMax float64) (bool, float64) {
	inv := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	return b.HitTFast(ray, inv, tMin, tMax)
}

// HitTFast is the optimized slab test accepting a precomputed inverse
// direction, avoiding repeated division along a BVH traversal (spec
// §4.B).
func (b AABB3) HitTFast(ray core.Ray, invDir core.Vec3, tMin, tMax float64) (bool, float64) {
	t0, t1 := tMin, tMax

	for axis := 0; axis < 3; axis++ {
		origin := axisOf(ray.Origin, axis)
		invD := axisOf(invDir, axis)
		near := (b.AxisMin(axis) - origin) * invD
		far := (b.AxisMax(axis) - origin) * invD
		if invD < 0 {
			near, far = far, near
		}
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
		if t0 > t1 {
			return false, math.Inf(1)
		}
	}
	return true, t0
}
