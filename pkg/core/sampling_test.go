package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCosineDirection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	normal := NewVec3(0, 0, 1)

	const numSamples = 10000
	var totalCosine float64
	belowHemisphere := 0

	for i := 0; i < numSamples; i++ {
		dir := RandomCosineDirection(normal, Vec2{rng.Float64(), rng.Float64()})

		require.InDelta(t, 1.0, dir.Length(), 1e-3)

		cosTheta := dir.Dot(normal)
		if cosTheta < 0 {
			belowHemisphere++
		}
		totalCosine += math.Max(0, cosTheta)
	}

	assert.Zero(t, belowHemisphere, "cosine-weighted samples must stay in the upper hemisphere")

	avgCosine := totalCosine / float64(numSamples)
	assert.InDelta(t, 2.0/3.0, avgCosine, 0.05)
}

func TestRandomCosineDirection_OrthonormalBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0.577, 0.577, 0.577).Normalize(),
	}

	for _, normal := range normals {
		for i := 0; i < 100; i++ {
			dir := RandomCosineDirection(normal, Vec2{rng.Float64(), rng.Float64()})
			require.InDelta(t, 1.0, dir.Length(), 1e-3)
			assert.GreaterOrEqual(t, dir.Dot(normal), -1e-9)
		}
	}
}

// TestCosineHemispherePDFNormalizes is invariant #4 from spec §8: the
// expected value of 1/pdf over cosine-weighted samples converges to the
// solid angle of the hemisphere of support, 2*pi. The mean is finite; only
// the variance of 1/pdf diverges at grazing angles, so the tolerance is
// loose.
func TestCosineHemispherePDFNormalizes(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n = 200000
	var sum float64
	for i := 0; i < n; i++ {
		d := CosineSampleHemisphere(Vec2{rng.Float64(), rng.Float64()})
		pdf := CosineHemispherePDF(CosTheta(d))
		require.Greater(t, pdf, 0.0)
		sum += 1.0 / pdf
	}
	assert.InDelta(t, 2*math.Pi, sum/float64(n), 0.1)
}

func TestDistributionGGXPeaksAtNormalIncidence(t *testing.T) {
	alpha2 := RoughnessToAlpha(0.2)
	alpha2 *= alpha2
	dNormal := DistributionGGX(1.0, alpha2)
	dGrazing := DistributionGGX(0.1, alpha2)
	assert.Greater(t, dNormal, dGrazing)
}

func TestPowerHeuristicSumsToOneAcrossStrategies(t *testing.T) {
	lightPdf, bsdfPdf := 0.3, 0.7
	w1 := PowerHeuristic(1, lightPdf, 1, bsdfPdf)
	w2 := PowerHeuristic(1, bsdfPdf, 1, lightPdf)
	assert.InDelta(t, 1.0, w1+w2, 1e-12)
}

func TestBalanceHeuristicSumsToOneAcrossStrategies(t *testing.T) {
	lightPdf, bsdfPdf := 0.3, 0.7
	w1 := BalanceHeuristic(1, lightPdf, 1, bsdfPdf)
	w2 := BalanceHeuristic(1, bsdfPdf, 1, lightPdf)
	assert.InDelta(t, 1.0, w1+w2, 1e-12)
}

func TestUniformSampleSphereIsUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		d := UniformSampleSphere(Vec2{rng.Float64(), rng.Float64()})
		require.InDelta(t, 1.0, d.Length(), 1e-9)
	}
}

func TestGGXSampleVNDFStaysInUpperHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	wo := Vec3{0.3, 0.1, 0.9}.Normalize()
	for i := 0; i < 1000; i++ {
		h := GGXSampleVNDF(wo, 0.3, 0.3, Vec2{rng.Float64(), rng.Float64()})
		assert.GreaterOrEqual(t, h.Z, 0.0)
	}
}
