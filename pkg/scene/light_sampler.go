package scene

import "github.com/anthropics/go-tracer-core/pkg/light"

// LightSampler picks which light next-event estimation should sample at
// a given bounce, grounded on the teacher's WeightedLightSampler: a
// fixed-weight selection independent of the shading point, normalized to
// sum to 1 so its probabilities compose directly into NEE's MIS weight.
type LightSampler struct {
	lights  []light.Light
	weights []float64
}

// NewUniformLightSampler gives every light in the scene equal selection
// probability, the default used when a scene config doesn't specify
// per-light importance.
func NewUniformLightSampler(lights []light.Light) *LightSampler {
	if len(lights) == 0 {
		return &LightSampler{}
	}
	w := make([]float64, len(lights))
	u := 1.0 / float64(len(lights))
	for i := range w {
		w[i] = u
	}
	return &LightSampler{lights: lights, weights: w}
}

// NewWeightedLightSampler builds a sampler with caller-specified
// relative weights (e.g. larger weight for a dominant key light),
// normalized to sum to 1.
func NewWeightedLightSampler(lights []light.Light, weights []float64) *LightSampler {
	if len(lights) != len(weights) {
		panic("scene: light/weight count mismatch")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	normalized := make([]float64, len(weights))
	if total == 0 {
		u := 1.0 / float64(len(weights))
		for i := range normalized {
			normalized[i] = u
		}
	} else {
		for i, w := range weights {
			normalized[i] = w / total
		}
	}
	return &LightSampler{lights: lights, weights: normalized}
}

// Sample selects a light via its cumulative weight at u in [0,1),
// returning the light, its selection probability (needed to un-bias the
// NEE estimator), and its index.
func (s *LightSampler) Sample(u float64) (light.Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}
	var cumulative float64
	for i, w := range s.weights {
		cumulative += w
		if u <= cumulative {
			return s.lights[i], w, i
		}
	}
	last := len(s.lights) - 1
	return s.lights[last], s.weights[last], last
}

// Probability returns the fixed selection probability of the light at
// index i.
func (s *LightSampler) Probability(i int) float64 {
	if i < 0 || i >= len(s.weights) {
		return 0
	}
	return s.weights[i]
}

// Count returns the number of lights this sampler draws from.
func (s *LightSampler) Count() int { return len(s.lights) }
