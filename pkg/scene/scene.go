// Package scene implements the scene-graph container named throughout
// spec §3: the assembled world an integrator renders against — the
// accelerated primitive hierarchy, every light (split into finite and
// infinite for NEE), and the scene-scoped resources (image cache,
// logger) that must not be shared across independently-rendered scenes
// (spec §9 "Global state").
package scene

import (
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// Scene is the fully-built, render-ready world.
type Scene struct {
	Accel          primitive.Intersectable
	Lights         []light.Light
	InfiniteLights []light.InfiniteLight
	Cache          *texture.Cache
	Logger         core.Logger

	// primitiveLights maps a *primitive.Primitive to the light.Area it
	// carries, so an integrator that just hit a primitive can find "what
	// light is this" without walking the Lights slice, per spec §4.I's
	// emitted-radiance lookup on a BSDF path hitting an emitter directly.
	primitiveLights map[*primitive.Primitive]*light.Area
}

// AreaLightFor returns the Area light attached to prim, if any.
func (s *Scene) AreaLightFor(prim *primitive.Primitive) (*light.Area, bool) {
	al, ok := s.primitiveLights[prim]
	return al, ok
}

// Le aggregates the radiance every infinite light in the scene
// contributes to a ray escaping in direction dir, per spec §4.K: rays
// that miss all geometry still gather background/environment light.
func (s *Scene) Le(dir core.Vec3) core.Vec3 {
	var total core.Vec3
	for _, il := range s.InfiniteLights {
		total = total.Add(il.Le(dir))
	}
	return total
}

// Intersect is a thin pass-through to the acceleration structure, kept
// here so integrators depend only on *Scene rather than reaching
// through to Accel directly.
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*primitive.HitRecord, bool) {
	return s.Accel.Intersect(ray, tMin, tMax)
}

func (s *Scene) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	return s.Accel.IntersectAny(ray, tMin, tMax)
}
