package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// AmbientOcclusion estimates per-pixel occlusion by casting a single
// cosine-weighted bent ray per sample and testing visibility out to a
// fixed radius, per spec §4.K's simplest integrator — no light
// sampling, no recursion, used as a fast geometry-only preview mode.
type AmbientOcclusion struct {
	Radius float64 // occlusion test distance; <=0 means unoccluded-to-infinity
}

func NewAmbientOcclusion(radius float64) *AmbientOcclusion { return &AmbientOcclusion{Radius: radius} }

func (ao *AmbientOcclusion) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	hr, ok := s.Intersect(ray, core.RayEpsilon, math.Inf(1))
	if !ok {
		return core.Vec3{}
	}

	u1, u2 := sampler.Next2D()
	wi := core.RandomCosineDirection(hr.Shading.Normal, core.NewVec2(u1, u2))

	maxDist := ao.Radius
	if maxDist <= 0 {
		maxDist = maxDistance
	}
	if occluded(s, hr.Point, wi, maxDist) {
		return core.Vec3{}
	}
	return core.NewVec3(1, 1, 1)
}
