package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/bxdf"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/medium"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/scene"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// litSphereScene builds a grey diffuse sphere lit by one overhead point
// light, the common fixture every integrator below is exercised against.
func litSphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder(nil)

	sphereMat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.8, 0.2, 0.2)))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 0, 0), 1), sphereMat))
	b.AddLight(light.NewPoint(core.NewVec3(0, 5, -5), core.NewVec3(50, 50, 50)))

	return b.Build()
}

func litSphereWithAreaLight(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder(nil)

	sphereMat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.8, 0.8, 0.8)))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 0, 0), 1), sphereMat))

	emissive := material.NewEmissive(texture.NewConstantColor(core.NewVec3(15, 15, 15)), false)
	lightPrim := primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 4, 0), 0.5), emissive)
	b.AddEmissivePrimitive(lightPrim, emissive)

	return b.Build()
}

func cameraRay() core.Ray {
	return core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
}

func TestAmbientOcclusionReturnsWhiteOnUnoccludedHit(t *testing.T) {
	s := litSphereScene(t)
	ao := NewAmbientOcclusion(0.01) // radius shorter than any self-occlusion distance
	sampler := core.NewSampler(0, 0, 0)
	arena := core.NewArena()

	c := ao.Li(cameraRay(), s, sampler, arena)
	require.InDelta(t, 1.0, c.X, 1e-9)
	require.InDelta(t, 1.0, c.Y, 1e-9)
	require.InDelta(t, 1.0, c.Z, 1e-9)
}

func TestAmbientOcclusionReturnsBlackOnMiss(t *testing.T) {
	s := litSphereScene(t)
	ao := NewAmbientOcclusion(10)
	sampler := core.NewSampler(0, 0, 0)
	arena := core.NewArena()

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(1, 0, 0))
	c := ao.Li(ray, s, sampler, arena)
	require.True(t, c.IsZero())
}

func TestWhittedProducesNonNegativeRadianceOnLitSphere(t *testing.T) {
	s := litSphereScene(t)
	w := NewWhitted(5)
	sampler := core.NewSampler(0, 0, 0)
	arena := core.NewArena()

	c := w.Li(cameraRay(), s, sampler, arena)
	require.GreaterOrEqual(t, c.X, 0.0)
	require.Greater(t, c.X+c.Y+c.Z, 0.0)
}

func TestNaivePathAndMISPathAgreeInExpectation(t *testing.T) {
	s := litSphereWithAreaLight(t)
	naive := NewNaivePath(12, 3)
	mis := NewMISPath(12, 3)
	arena := core.NewArena()

	const n = 2000
	var naiveSum, misSum core.Vec3
	for i := 0; i < n; i++ {
		sampler := core.NewSampler(0, 0, i)
		naiveSum = naiveSum.Add(naive.Li(cameraRay(), s, sampler, arena))
		misSum = misSum.Add(mis.Li(cameraRay(), s, sampler, arena))
	}
	naiveMean := naiveSum.Multiply(1.0 / n)
	misMean := misSum.Multiply(1.0 / n)

	// Both integrators estimate the same quantity; at 2000 samples each,
	// their means should agree within generous Monte-Carlo tolerance.
	require.InDelta(t, naiveMean.Luminance(), misMean.Luminance(), 0.5)
}

func TestNaiveVolumetricPathAttenuatesThroughFog(t *testing.T) {
	b := scene.NewBuilder(nil)

	fogMat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0, 0, 0)))
	fogBoundary := primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 0, 5), 2), fogMat)
	fogBoundary.Medium = primitive.MediumInterface{
		Inside:  medium.NewHomogeneous(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, 0, 0), 0),
		Outside: medium.Vacuum,
	}
	// Remove the BSDF so the boundary sphere is a pure medium interface,
	// not an opaque black occluder.
	fogBoundary.Material = &transparentBoundary{}
	b.AddPrimitive(fogBoundary)
	b.AddInfiniteLight(light.NewUniform(core.NewVec3(1, 1, 1)))

	s := b.Build()
	vol := NewNaiveVolumetricPath(16, 3)
	sampler := core.NewSampler(0, 0, 0)
	arena := core.NewArena()

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := vol.Li(ray, s, sampler, arena)

	// Absorption-only fog of optical depth ~2 should dim, not black out
	// or amplify, the background.
	require.Less(t, c.Luminance(), 1.0)
	require.GreaterOrEqual(t, c.Luminance(), 0.0)
}

func TestMISVolumetricPathRunsToCompletionOnLitSphere(t *testing.T) {
	s := litSphereWithAreaLight(t)
	vol := NewMISVolumetricPath(12, 3)
	sampler := core.NewSampler(0, 0, 0)
	arena := core.NewArena()

	c := vol.Li(cameraRay(), s, sampler, arena)
	require.False(t, math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z))
	require.GreaterOrEqual(t, c.X, 0.0)
}

// transparentBoundary is a Material with no BSDF at all, used in tests to
// model a pure medium-transition surface (no surface scattering, only a
// change of which participating medium bounds the continuing ray).
type transparentBoundary struct{}

func (transparentBoundary) GetBSDF(*material.SurfaceInteraction, core.Vec3) (*material.BSDF, bool) {
	return nil, false
}
func (transparentBoundary) GetBSSRDF(*material.SurfaceInteraction) (*bxdf.SeparableBSSRDF, bool) {
	return nil, false
}
func (transparentBoundary) Le(*material.SurfaceInteraction, core.Vec3) core.Vec3 { return core.Vec3{} }
func (transparentBoundary) TestAlpha(uv core.Vec2) bool                          { return true }
func (transparentBoundary) GetNormalMap() texture.SpectrumTexture                { return nil }
