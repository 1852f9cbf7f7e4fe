package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

func TestBuilderWiresEmissivePrimitiveToAreaLight(t *testing.T) {
	b := NewBuilder(nil)

	sphereShape := shapes.NewSphere(core.NewVec3(0, 5, 0), 1)
	emissive := material.NewEmissive(texture.NewConstantColor(core.NewVec3(10, 10, 10)), false)
	prim := primitive.NewPrimitive(sphereShape, emissive)
	b.AddEmissivePrimitive(prim, emissive)

	floorShape := shapes.NewSphere(core.NewVec3(0, -1000, 0), 1000)
	floorMat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.5, 0.5, 0.5)))
	b.AddPrimitive(primitive.NewPrimitive(floorShape, floorMat))

	s := b.Build()
	require.Len(t, s.Lights, 1)

	al, ok := s.AreaLightFor(prim)
	require.True(t, ok)
	require.NotNil(t, al)

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	hr, ok := s.Intersect(ray, core.RayEpsilon, math.Inf(1))
	require.True(t, ok)
	require.Same(t, prim, hr.Primitive)
}

func TestLightSamplerNormalizesWeights(t *testing.T) {
	lights := []light.Light{
		light.NewPoint(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		light.NewPoint(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 1)),
	}
	sampler := NewWeightedLightSampler(lights, []float64{3, 1})
	require.InDelta(t, 0.75, sampler.Probability(0), 1e-9)
	require.InDelta(t, 0.25, sampler.Probability(1), 1e-9)

	chosen, prob, idx := sampler.Sample(0.5)
	require.Equal(t, lights[0], chosen)
	require.InDelta(t, 0.75, prob, 1e-9)
	require.Equal(t, 0, idx)
}
