package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// occluded casts a shadow ray from p towards a light sample at distance
// dist, offsetting both ends by RayEpsilon so the ray doesn't
// self-intersect its origin surface or the light's own geometry.
func occluded(s *scene.Scene, p, wi core.Vec3, dist float64) bool {
	ray := core.SpawnTowards(p, wi)
	return s.IntersectAny(ray, 0, dist-2*core.RayEpsilon)
}

// sampleOneLight performs next-event estimation against a single light
// chosen uniformly from the scene, per spec §4.K: returns the MIS-
// weighted direct lighting contribution at a non-specular vertex, with
// evalBSDF supplying the BSDF value (cosine included) and PDF for the
// sampled direction, used in the power-heuristic weight against BSDF
// sampling.
func sampleOneLight(s *scene.Scene, p core.Vec3, sampler core.Sampler, evalBSDF func(wi core.Vec3) (f core.Vec3, pdf float64)) core.Vec3 {
	n := len(s.Lights)
	if n == 0 {
		return core.Vec3{}
	}
	idx := int(sampler.Next1D() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	lt := s.Lights[idx]
	selectPDF := 1.0 / float64(n)

	u1, u2 := sampler.Next2D()
	ls := lt.SampleLi(p, core.NewVec2(u1, u2))
	if !ls.Valid || ls.PDF <= 0 || ls.Li.IsZero() {
		return core.Vec3{}
	}
	if occluded(s, p, ls.Wi, ls.Distance) {
		return core.Vec3{}
	}

	f, bsdfPDF := evalBSDF(ls.Wi)
	if f.IsZero() {
		return core.Vec3{}
	}

	lightPDF := ls.PDF * selectPDF
	var weight float64
	if lt.IsDelta() {
		weight = 1
	} else {
		weight = core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)
	}
	return f.MultiplyVec(ls.Li).Multiply(weight / lightPDF)
}

// lightPDFForDirection sums the MIS-relevant light-sampling PDF of
// direction wi from p across every non-delta light, weighted by uniform
// selection probability, used to weight a BSDF-sampled direction that
// happens to hit an emitter.
func lightPDFForDirection(lights []light.Light, p, wi core.Vec3) float64 {
	n := len(lights)
	if n == 0 {
		return 0
	}
	var total float64
	for _, lt := range lights {
		if lt.IsDelta() {
			continue
		}
		total += lt.PDFLi(p, wi)
	}
	return total / float64(n)
}

func russianRoulette(throughput core.Vec3, bounce, minBounces int, u float64) (terminate bool, compensation float64) {
	if bounce < minBounces {
		return false, 1
	}
	survival := math.Min(0.95, math.Max(0.05, throughput.Luminance()))
	if u > survival {
		return true, 0
	}
	return false, 1.0 / survival
}
