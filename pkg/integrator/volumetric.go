package integrator

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/medium"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// samplerRNG adapts a core.Sampler to the core.RNG contract that
// pkg/medium's free-flight sampling routines consume, so the volumetric
// integrators draw every random number from the same per-pixel sample
// sequence as the rest of the path.
type samplerRNG struct{ s core.Sampler }

func (r samplerRNG) NextFloat() float64 { return r.s.Next1D() }
func (r samplerRNG) NextInt() uint64    { return uint64(r.s.Next1D() * (1 << 63)) }

// mediumEvent classifies the outcome of one delta-tracking free-flight
// step inside a participating medium, per spec §4.J.
type mediumEvent int

const (
	eventNone mediumEvent = iota // reached the end of the segment with no real collision
	eventAbsorb
	eventScatter
)

// sampleMediumInteraction walks m's majorant iterator over [0, tHit)
// along ray, classifying each candidate collision as absorption, real
// scatter or null-scatter by the spec §4.J probabilities p_a/p_s/p_n,
// and returns the first absorb/scatter event (or eventNone if the walk
// reaches tHit, meaning the ray passed through to the surface/infinity).
// emitted is non-zero only when the walk ends in absorption: it is m.Le
// at that point times the throughput in effect there, divided by
// pAbsorb*sigmaMaj. Null collisions add no emission, and ru is not
// applied to it.
func sampleMediumInteraction(m medium.Medium, ray core.Ray, tHit float64, throughput *core.Vec3, ru *core.Vec3, rng core.RNG) (event mediumEvent, distance float64, emitted core.Vec3) {
	if m == nil || m.IsVacuum() {
		return eventNone, tHit, core.Vec3{}
	}

	it := majorantIterator(m, ray, 0, tHit)
	for {
		seg, ok := it.Next()
		if !ok {
			break
		}
		if seg.SigmaMaj <= 0 {
			continue
		}
		t := seg.TMin
		for {
			t -= logOneMinusU(rng.NextFloat()) / seg.SigmaMaj
			if t >= seg.TMax {
				break
			}
			p := ray.At(t)
			sigmaA := m.SigmaA(p)
			sigmaS := m.SigmaS(p)
			sigmaMaj := seg.SigmaMaj
			pAbsorb := sigmaA.Average() / sigmaMaj
			pScatter := sigmaS.Average() / sigmaMaj
			u := rng.NextFloat()

			switch {
			case u < pAbsorb:
				emitted = emitted.Add(throughput.MultiplyVec(m.Le(p)).Multiply(1 / (pAbsorb * sigmaMaj)))
				return eventAbsorb, t, emitted
			case u < pAbsorb+pScatter:
				*throughput = throughput.MultiplyVec(sigmaS).Multiply(1 / (pScatter * sigmaMaj))
				return eventScatter, t, emitted
			default:
				sigmaN := core.NewVec3(sigmaMaj, sigmaMaj, sigmaMaj).Subtract(sigmaA).Subtract(sigmaS)
				pNull := math.Max(1e-8, 1-pAbsorb-pScatter)
				*throughput = throughput.MultiplyVec(sigmaN).Multiply(1 / (pNull * sigmaMaj))
				*ru = ru.MultiplyVec(sigmaN).Multiply(1 / (pNull * sigmaMaj))
			}
		}
	}
	return eventNone, tHit, emitted
}

func logOneMinusU(u float64) float64 {
	if u >= 1 {
		u = 0.999999
	}
	return math.Log(1 - u)
}

// majorantIterator dispatches to the concrete medium's Iterator method,
// mirroring pkg/medium's own unexported helper of the same shape (kept
// duplicated rather than exported, since it's a one-line dispatch).
func majorantIterator(m medium.Medium, ray core.Ray, tMin, tMax float64) medium.MajorantIterator {
	if p, ok := m.(interface {
		Iterator(ray core.Ray, tMin, tMax float64) medium.MajorantIterator
	}); ok {
		return p.Iterator(ray, tMin, tMax)
	}
	seg := m.Majorant(ray, tMin, tMax)
	return &singleSegmentIterator{seg: seg}
}

type singleSegmentIterator struct {
	seg  medium.MajorantSegment
	done bool
}

func (it *singleSegmentIterator) Next() (medium.MajorantSegment, bool) {
	if it.done {
		return medium.MajorantSegment{}, false
	}
	it.done = true
	return it.seg, true
}

// currentMedium resolves which medium a ray travels through after
// crossing a (generally non-emissive, interface-only) primitive
// boundary, by comparing the ray direction against the surface normal:
// entering (dir opposes the normal) takes the Inside medium, exiting
// takes Outside.
func currentMedium(mi primitive.MediumInterface, normal, dir core.Vec3) medium.Medium {
	if dir.Dot(normal) < 0 {
		return mi.Inside
	}
	return mi.Outside
}

// NaiveVolumetricPath extends NaivePath with medium interaction: between
// surface events, the ray's free flight is sampled against the current
// medium's majorant iterator and resolved into absorption, real scatter
// or null-scatter, per spec §4.K. Surface handling is identical to
// NaivePath.
type NaiveVolumetricPath struct {
	MaxDepth          int
	RussianRouletteAt int
}

func NewNaiveVolumetricPath(maxDepth, rrAt int) *NaiveVolumetricPath {
	return &NaiveVolumetricPath{MaxDepth: maxDepth, RussianRouletteAt: rrAt}
}

func (p *NaiveVolumetricPath) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	rng := samplerRNG{sampler}
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3
	current := ray
	var currentMed medium.Medium = medium.Vacuum

	for bounce := 0; bounce < p.MaxDepth; bounce++ {
		hr, hit := s.Intersect(current, core.RayEpsilon, math.Inf(1))
		tHit := maxDistance
		if hit {
			tHit = hr.T
		}

		dummyRU := core.NewVec3(1, 1, 1)
		event, t, emitted := sampleMediumInteraction(currentMed, current, tHit, &throughput, &dummyRU, rng)
		radiance = radiance.Add(emitted)

		switch event {
		case eventAbsorb:
			return radiance

		case eventScatter:
			pt := current.At(t)
			u1, u2 := sampler.Next2D()
			wo := current.Direction.Negate()
			g := currentMed.G(pt)
			wi, _ := medium.SamplePhaseHG(wo, g, core.NewVec2(u1, u2))
			current = core.Ray{Origin: pt, Direction: wi}

			terminate, comp := russianRoulette(throughput, bounce, p.RussianRouletteAt, u1)
			if terminate {
				return radiance
			}
			throughput = throughput.Multiply(comp)
			continue

		case eventNone:
			// fall through to surface handling below
		}

		if !hit {
			radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)))
			break
		}

		wo := current.Direction.Negate()
		if al, ok := s.AreaLightFor(hr.Primitive); ok {
			radiance = radiance.Add(throughput.MultiplyVec(al.Le(hr.SurfaceInteraction, wo)))
		}

		bsdf, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wo)
		if !ok {
			// A BSDF-less hit is a pure medium boundary: cross it without
			// scattering, updating which medium bounds the continuing ray.
			currentMed = currentMedium(hr.Primitive.Medium, hr.Shading.Normal, current.Direction)
			current = core.SpawnTowards(hr.Point, current.Direction)
			bounce--
			continue
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

		currentMed = currentMedium(hr.Primitive.Medium, hr.Shading.Normal, sample.Wi)
		current = core.SpawnTowards(hr.Point, sample.Wi)
	}

	return radiance
}

// MISVolumetricPath extends MISPath with spectral rescaled-probability
// medium sampling and ratio-tracked shadow rays, per spec §4.K: every
// real scatter event (medium or surface) performs next-event estimation
// against one of the scene's lights chosen uniformly (see
// sampleOneLightVolumetric), weighting the transmittance-occluded
// contribution by r_u/r_l the way BSDF/phase sampling is weighted
// against light sampling on the surface-only path.
type MISVolumetricPath struct {
	MaxDepth          int
	RussianRouletteAt int
}

func NewMISVolumetricPath(maxDepth, rrAt int) *MISVolumetricPath {
	return &MISVolumetricPath{MaxDepth: maxDepth, RussianRouletteAt: rrAt}
}

func (p *MISVolumetricPath) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *core.Arena) core.Vec3 {
	rng := samplerRNG{sampler}
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3
	current := ray
	var currentMed medium.Medium = medium.Vacuum
	rescaled := medium.Identity()
	prevBSDFPDF := 0.0
	specularBounce := true

	for bounce := 0; bounce < p.MaxDepth; bounce++ {
		hr, hit := s.Intersect(current, core.RayEpsilon, math.Inf(1))
		tHit := maxDistance
		if hit {
			tHit = hr.T
		}

		event, t, emitted := sampleMediumInteraction(currentMed, current, tHit, &throughput, &rescaled.RU, rng)
		radiance = radiance.Add(emitted.Multiply(1 / math.Max(1e-8, rescaled.RU.Average())))

		if event == eventAbsorb {
			return radiance
		}

		if event == eventScatter {
			pt := current.At(t)
			wo := current.Direction.Negate()
			g := currentMed.G(pt)

			radiance = radiance.Add(sampleOneLightVolumetric(s, pt, currentMed, sampler, rng, rescaled, func(wi core.Vec3) (core.Vec3, float64) {
				ph := medium.HenyeyGreenstein(wo.Dot(wi), g)
				return core.NewVec3(ph, ph, ph), ph
			}))

			u1, u2 := sampler.Next2D()
			wi, phasePDF := medium.SamplePhaseHG(wo, g, core.NewVec2(u1, u2))
			current = core.Ray{Origin: pt, Direction: wi}
			prevBSDFPDF = phasePDF
			specularBounce = false

			terminate, comp := russianRoulette(throughput, bounce, p.RussianRouletteAt, u1)
			if terminate {
				break
			}
			throughput = throughput.Multiply(comp)
			continue
		}

		if !hit {
			if specularBounce {
				radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)).Multiply(1 / math.Max(1e-8, rescaled.RU.Average())))
			} else {
				lightPDF := lightPDFForDirection(s.Lights, current.Origin, current.Direction)
				weight := core.PowerHeuristic(1, prevBSDFPDF, 1, lightPDF)
				radiance = radiance.Add(throughput.MultiplyVec(s.Le(current.Direction)).Multiply(weight / math.Max(1e-8, rescaled.RU.Average())))
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
				radiance = radiance.Add(throughput.MultiplyVec(le).Multiply(weight / math.Max(1e-8, rescaled.RU.Average())))
			}
		}

		bsdf, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wo)
		if !ok {
			currentMed = currentMedium(hr.Primitive.Medium, hr.Shading.Normal, current.Direction)
			current = core.SpawnTowards(hr.Point, current.Direction)
			bounce--
			continue
		}

		if !bsdf.IsSpecular() {
			direct := sampleOneLightVolumetric(s, hr.Point, currentMed, sampler, rng, rescaled, func(wi core.Vec3) (core.Vec3, float64) {
				f := bsdf.F(wo, wi)
				cos := hr.Shading.Normal.AbsDot(wi)
				return f.Multiply(cos), bsdf.PDF(wo, wi)
			})
			radiance = radiance.Add(direct)
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

		currentMed = currentMedium(hr.Primitive.Medium, hr.Shading.Normal, sample.Wi)
		current = core.SpawnTowards(hr.Point, sample.Wi)
	}

	return radiance
}

// sampleOneLightVolumetric is sampleOneLight's volumetric counterpart:
// the shadow ray's transmittance is estimated by ratio tracking through
// whatever media lie between p and the light sample, rather than a
// binary occlusion test, per spec §4.K's "applies ratio tracking along
// the shadow ray" description of the MIS volumetric path.
func sampleOneLightVolumetric(s *scene.Scene, p core.Vec3, currentMed medium.Medium, sampler core.Sampler, rng core.RNG, rescaled medium.RescaledProbabilities, evalPhase func(wi core.Vec3) (f core.Vec3, pdf float64)) core.Vec3 {
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

	tr := shadowRayTransmittance(s, p, ls.Wi, ls.Distance, currentMed, rng)
	if tr.IsZero() {
		return core.Vec3{}
	}

	f, phasePDF := evalPhase(ls.Wi)
	if f.IsZero() {
		return core.Vec3{}
	}

	lightPDF := ls.PDF * selectPDF
	var weight float64
	if lt.IsDelta() {
		weight = 1
	} else {
		weight = core.PowerHeuristic(1, lightPDF, 1, phasePDF)
	}
	return f.MultiplyVec(ls.Li).MultiplyVec(tr).Multiply(weight / (lightPDF * math.Max(1e-8, rescaled.RL.Average())))
}

// shadowRayTransmittance marches the shadow ray towards a light sample,
// ratio-tracking through any participating media it crosses and
// treating a direct hit against opaque (BSDF-less-medium-boundary
// aside) geometry as full occlusion.
func shadowRayTransmittance(s *scene.Scene, p, wi core.Vec3, dist float64, currentMed medium.Medium, rng core.RNG) core.Vec3 {
	ray := core.SpawnTowards(p, wi)
	remaining := dist - 2*core.RayEpsilon
	tr := core.NewVec3(1, 1, 1)
	med := currentMed
	origin := ray.Origin

	for bounce := 0; bounce < 32; bounce++ {
		hr, hit := s.Intersect(core.Ray{Origin: origin, Direction: wi}, core.RayEpsilon, remaining)
		segEnd := remaining
		if hit {
			segEnd = hr.T
		}

		if med != nil && !med.IsVacuum() {
			tr = tr.MultiplyVec(medium.RatioTrackingTransmittance(med, core.Ray{Origin: origin, Direction: wi}, 0, segEnd, rng))
			if tr.MaxComponent() < 1e-6 {
				return core.Vec3{}
			}
		}

		if !hit {
			return tr
		}

		if hr.Primitive.Material != nil {
			if _, ok := hr.Primitive.Material.GetBSDF(hr.SurfaceInteraction, wi.Negate()); ok {
				return core.Vec3{}
			}
		}

		med = currentMedium(hr.Primitive.Medium, hr.Shading.Normal, wi)
		remaining -= hr.T
		origin = core.SpawnTowards(hr.Point, wi).Origin
	}
	return core.Vec3{}
}
