// Package integrator implements spec Component K: the light-transport
// algorithms that turn a camera ray into a pixel radiance estimate —
// from ambient occlusion's single bent-ray visibility test up to
// multiple-importance-sampled volumetric path tracing.
package integrator

import (
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// Integrator is the light-transport contract every rendering algorithm
// implements, per spec §4.K.
type Integrator interface {
	// Li estimates the radiance arriving along ray from s, using sampler
	// for every stochastic decision and arena for per-call scratch
	// allocation (BSDF objects, majorant iterators).
	Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3
}

// maxDistance is used in place of math.Inf(1) at call sites that want a
// named constant for "no shadow-ray upper bound".
const maxDistance = 1e30
