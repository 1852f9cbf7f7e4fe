// Package light implements spec Component I: point, directional, area
// and infinite (environment) light sources, each exposing the same
// next-event-estimation contract so integrators can sample them
// uniformly regardless of concrete type.
package light

import "github.com/anthropics/go-tracer-core/pkg/core"

// LiSample is the result of importance-sampling a light from a
// reference point, per spec §4.I.
type LiSample struct {
	Wi       core.Vec3
	Li       core.Vec3
	PDF      float64
	Distance float64
	Valid    bool
}

// Light is the contract every light source implements.
type Light interface {
	// SampleLi draws an incident direction and radiance towards ref.
	SampleLi(ref core.Vec3, u core.Vec2) LiSample

	// PDFLi returns the solid-angle PDF SampleLi would assign to wi from
	// ref, used by MIS against BSDF sampling; delta lights return 0 since
	// they can never be hit by a BSDF sample.
	PDFLi(ref core.Vec3, wi core.Vec3) float64

	// IsDelta reports whether this light has zero measure (point,
	// directional): NEE never applies MIS weighting to these since a
	// BSDF sample can never land on them, per spec §4.I/§4.K.
	IsDelta() bool
}

// InfiniteLight is implemented by environment lights, which additionally
// need to answer "what does a ray that escaped the scene see", per spec
// §4.I.
type InfiniteLight interface {
	Light
	// Le returns the radiance an escaping ray in direction dir observes.
	Le(dir core.Vec3) core.Vec3
}
