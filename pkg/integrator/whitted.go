package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// Whitted implements classic ray tracing, per spec §4.K: direct lighting
// summed over every delta (point, spot, directional) light at each
// non-specular hit, plus recursive tracing of
// purely specular bounces (mirror reflection, dielectric refraction),
// with no stochastic indirect diffuse bounce and no Russian roulette —
// termination is by depth alone, as in the original Whitted algorithm.
type Whitted struct {
	MaxDepth int
}

func NewWhitted(maxDepth int) *Whitted { return &Whitted{MaxDepth: maxDepth} }

func (w *Whitted) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	return w.li(ray, s, sampler, w.MaxDepth)
}

func (w *Whitted) li(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}
	hr, ok := s.Intersect(ray, core.RayEpsilon, math.Inf(1))
	if !ok {
		return s.Le(ray.Direction)
	}

	wo := ray.Direction.Negate()
	var emitted core.Vec3
	if al, ok := s.AreaLightFor(hr.Primitive); ok {
		emitted = al.Le(hr.SurfaceInteraction, wo)
	}

	bsdf, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wo)
	if !ok {
		return emitted
	}

	var direct core.Vec3
	if !bsdf.IsSpecular() {
		for _, lt := range s.Lights {
			if !lt.IsDelta() {
				continue
			}
			ls := lt.SampleLi(hr.Point, core.NewVec2(sampler.Next2D()))
			if !ls.Valid || ls.PDF <= 0 || ls.Li.IsZero() || occluded(s, hr.Point, ls.Wi, ls.Distance) {
				continue
			}
			f := bsdf.F(wo, ls.Wi).Multiply(hr.Shading.Normal.AbsDot(ls.Wi))
			direct = direct.Add(f.MultiplyVec(ls.Li).Multiply(1 / ls.PDF))
		}
	}

	uLobe := sampler.Next1D()
	u1, u2 := sampler.Next2D()
	sample := bsdf.Sample_f(wo, uLobe, core.NewVec2(u1, u2))
	var specular core.Vec3
	if sample.Valid && sample.IsSpecular {
		next := core.SpawnTowards(hr.Point, sample.Wi)
		cos := hr.Shading.Normal.AbsDot(sample.Wi)
		incoming := w.li(next, s, sampler, depth-1)
		specular = sample.Attenuation.Multiply(cos / sample.PDF).MultiplyVec(incoming)
	}

	return emitted.Add(direct).Add(specular)
}
