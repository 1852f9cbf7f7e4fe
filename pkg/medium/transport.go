package medium

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// RescaledProbabilities tracks the wavelength-decoupled path
// probabilities (r_u, r_l) of spec §4.J: r_u accumulates the ratio
// between a null-collision event's true probability and the
// channel-averaged probability used to drive the random walk (unidirectional
// estimator weight), r_l does the same under the light-sampling strategy,
// so a path that takes different null/real-collision branches per
// channel still combines into an unbiased MIS weight at the end.
type RescaledProbabilities struct {
	RU, RL core.Vec3
}

// Identity is the starting point before any medium interaction: both
// ratios are exactly 1.
func Identity() RescaledProbabilities { return RescaledProbabilities{RU: core.NewVec3(1, 1, 1), RL: core.NewVec3(1, 1, 1)} }

// ApplyNullCollision updates r_u/r_l after a null-scattering event with
// per-channel null coefficient sigmaN sampled at the hero-wavelength
// majorant pdfMaj.
func (r RescaledProbabilities) ApplyNullCollision(sigmaN core.Vec3, pdfMaj float64) RescaledProbabilities {
	if pdfMaj <= 0 {
		return r
	}
	return RescaledProbabilities{
		RU: r.RU.MultiplyVec(sigmaN).Multiply(1 / pdfMaj),
		RL: r.RL.MultiplyVec(sigmaN).Multiply(1 / pdfMaj),
	}
}

// RatioTrackingTransmittance estimates transmittance along [tMin, tMax]
// by ratio tracking through it's majorant segments: at each majorant
// collision, multiply by (1 - sigma_t/sigma_maj) instead of stochastically
// terminating, giving a lower-variance estimator than pure delta tracking
// when sigma_t/sigma_maj is not too far below 1 (spec §4.J).
func RatioTrackingTransmittance(m Medium, ray core.Ray, tMin, tMax float64, rng core.RNG) core.Vec3 {
	tr := core.NewVec3(1, 1, 1)
	it := majorantIteratorFor(m, ray, tMin, tMax)
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
			sigmaT := m.SigmaA(p).Add(m.SigmaS(p))
			sigmaN := core.NewVec3(seg.SigmaMaj, seg.SigmaMaj, seg.SigmaMaj).Subtract(sigmaT)
			tr = tr.MultiplyVec(sigmaN).Multiply(1 / seg.SigmaMaj)
			if tr.MaxComponent() < 0.05 {
				// Russian roulette on the transmittance weight itself.
				q := 0.75
				if rng.NextFloat() < q {
					return core.Vec3{}
				}
				tr = tr.Multiply(1 / (1 - q))
			}
		}
	}
	return tr
}

func logOneMinusU(u float64) float64 {
	if u >= 1 {
		u = 0.999999
	}
	return math.Log(1 - u)
}

// majorantIteratorFor dispatches to the concrete medium's Iterator
// method via a narrow interface, avoiding a type switch over every
// Medium implementation.
type iteratorProvider interface {
	Iterator(ray core.Ray, tMin, tMax float64) MajorantIterator
}

func majorantIteratorFor(m Medium, ray core.Ray, tMin, tMax float64) MajorantIterator {
	if p, ok := m.(iteratorProvider); ok {
		return p.Iterator(ray, tMin, tMax)
	}
	return &homogeneousIterator{seg: m.Majorant(ray, tMin, tMax)}
}
