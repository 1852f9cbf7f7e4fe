package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// MISPath implements path tracing with next-event estimation at every
// non-specular vertex, combined with BSDF-sampled indirect bounces via
// the power heuristic, per spec §4.K: the variance-reduced default
// integrator for surface-only scenes.
type MISPath struct {
	MaxDepth          int
	RussianRouletteAt int
}

func NewMISPath(maxDepth, rrAt int) *MISPath { return &MISPath{MaxDepth: maxDepth, RussianRouletteAt: rrAt} }

func (p *MISPath) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3
	current := ray
	prevBSDFPDF := 0.0
	specularBounce := true // the camera ray itself counts as "specular" so the first hit's Le is never MIS-weighted

	for bounce := 0; bounce < p.MaxDepth; bounce++ {
		hr, ok := s.Intersect(current, core.RayEpsilon, math.Inf(1))
		if !ok {
			if specularBounce {
				radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)))
			} else {
				// Escaped rays only carry infinite-light MIS weighting when the
				// scene actually has an importance-sampleable infinite light;
				// lightPDFForDirection already returns 0 for delta/absent lights.
				lightPDF := lightPDFForDirection(s.Lights, current.Origin, current.Direction)
				weight := core.PowerHeuristic(1, prevBSDFPDF, 1, lightPDF)
				radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)).Multiply(weight))
			}
			break
		}

		wo := current.Direction.Negate()
		if al, ok := s.AreaLightFor(hr.Primitive); ok {
			le := al.Le(hr.SurfaceInteraction, wo)
			if !le.IsZero() {
				var weight float64
				if specularBounce {
					weight = 1
				} else {
					lightPDF := al.PDFLi(current.Origin, current.Direction) / float64(max(1, len(s.Lights)))
					weight = core.PowerHeuristic(1, prevBSDFPDF, 1, lightPDF)
				}
				radiance = radiance.Add(throughput.MultiplyVec(le).Multiply(weight))
			}
		}

		bsdf, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wo)
		if !ok {
			break
		}

		if !bsdf.IsSpecular() {
			direct := sampleOneLight(s, hr.Point, sampler, func(wi core.Vec3) (core.Vec3, float64) {
				f := bsdf.F(wo, wi)
				cos := hr.Shading.Normal.AbsDot(wi)
				return f.Multiply(cos), bsdf.PDF(wo, wi)
			})
			radiance = radiance.Add(throughput.MultiplyVec(direct))
		}

		uLobe := sampler.Next1D()
		u1, u2 := sampler.Next2D()
		sample := bsdf.Sample_f(wo, uLobe, core.NewVec2(u1, u2))
		if !sample.Valid || sample.PDF <= 0 {
			break
		}

		cos := hr.Shading.Normal.AbsDot(sample.Wi)
		throughput = throughput.MultiplyVec(sample.Attenuation).Multiply(cos / sample.PDF)
		specularBounce = sample.IsSpecular
		prevBSDFPDF = sample.PDF

		terminate, comp := russianRoulette(throughput, bounce, p.RussianRouletteAt, sampler.Next1D())
		if terminate {
			break
		}
		throughput = throughput.Multiply(comp)

		current = core.SpawnTowards(hr.Point, sample.Wi)
	}

	return radiance
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
