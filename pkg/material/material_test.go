package material

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

func isect() *SurfaceInteraction {
	si := &SurfaceInteraction{Point: core.NewVec3(0, 0, 0), UV: core.NewVec2(0.5, 0.5)}
	si.SetFaceNormal(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))
	return si
}

func TestDiffuseGetBSDF(t *testing.T) {
	d := NewDiffuse(texture.NewConstantColor(core.NewVec3(0.5, 0.5, 0.5)))
	bsdf, ok := d.GetBSDF(isect(), core.NewVec3(0, 0, 1))
	require.True(t, ok)
	require.NotNil(t, bsdf)
}

func TestEmissiveHasNoBSDF(t *testing.T) {
	e := NewEmissive(texture.NewConstantColor(core.NewVec3(5, 5, 5)), false)
	_, ok := e.GetBSDF(isect(), core.NewVec3(0, 0, 1))
	require.False(t, ok)

	le := e.Le(isect(), core.NewVec3(0, 0, 1))
	require.Equal(t, core.NewVec3(5, 5, 5), le)

	leBack := e.Le(isect(), core.NewVec3(0, 0, -1))
	require.Equal(t, core.Vec3{}, leBack)
}

func TestMixIsDeterministicPerPoint(t *testing.T) {
	a := NewDiffuse(texture.NewConstantColor(core.NewVec3(1, 0, 0)))
	b := NewDiffuse(texture.NewConstantColor(core.NewVec3(0, 1, 0)))
	mix := NewMix(a, b, texture.NewConstantFloat(0.5))

	si := isect()
	first := mix.pick(si)
	for i := 0; i < 10; i++ {
		require.Same(t, first, mix.pick(si))
	}
}
