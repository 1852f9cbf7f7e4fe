package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// NaivePath implements unidirectional path tracing with no next-event
// estimation: every bounce samples the BSDF and the only way a light
// contributes is by the path happening to land on it, per spec §4.K's
// baseline (high-variance, unbiased) integrator used as the ground
// truth NEE/MIS integrators are checked against.
type NaivePath struct {
	MaxDepth          int
	RussianRouletteAt int // bounce index after which RR kicks in
}

func NewNaivePath(maxDepth, rrAt int) *NaivePath {
	return &NaivePath{MaxDepth: maxDepth, RussianRouletteAt: rrAt}
}

func (p *NaivePath) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3
	current := ray

	for bounce := 0; bounce < p.MaxDepth; bounce++ {
		hr, ok := s.Intersect(current, core.RayEpsilon, math.Inf(1))
		if !ok {
			radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)))
			break
		}

		wo := current.Direction.Negate()
		if al, ok := s.AreaLightFor(hr.Primitive); ok {
			radiance = radiance.Add(throughput.MultiplyVec(al.Le(hr.SurfaceInteraction, wo)))
		}

		bsdf, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wo)
		if !ok {
			break
		}

		uLobe := sampler.Next1D()
		u1, u2 := sampler.Next2D()
		sample := bsdf.Sample_f(wo, uLobe, core.NewVec2(u1, u2))
		if !sample.Valid || sample.PDF <= 0 {
			break
		}

		cos := hr.Shading.Normal.AbsDot(sample.Wi)
		throughput = throughput.MultiplyVec(sample.Attenuation).Multiply(cos / sample.PDF)

		terminate, comp := russianRoulette(throughput, bounce, p.RussianRouletteAt, sampler.Next1D())
		if terminate {
			break
		}
		throughput = throughput.Multiply(comp)

		current = core.SpawnTowards(hr.Point, sample.Wi)
	}

	return radiance
}
