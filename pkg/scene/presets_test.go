package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

func TestNewDefaultSceneHasLightsAndGeometry(t *testing.T) {
	sc, hint := NewDefaultScene(nil)
	require.NotNil(t, sc.Accel)
	require.Len(t, sc.InfiniteLights, 1)
	require.Equal(t, core.NewVec3(0, 0.5, -1), hint.LookAt)
	require.Equal(t, 40.0, hint.VFOV)
}

func TestNewCornellSceneBuildsAccelAndCameraHint(t *testing.T) {
	sc, hint := NewCornellScene(nil)
	require.NotNil(t, sc.Accel)
	require.Equal(t, 40.0, hint.VFOV)
	require.Equal(t, core.NewVec3(0, 1, 0), hint.Up)
}

func TestOrthonormalBasisIsPerpendicularToNormalAndEachOther(t *testing.T) {
	normals := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, -1),
	}
	for _, n := range normals {
		u, v := orthonormalBasis(n)
		require.InDelta(t, 0, u.Dot(n), 1e-9)
		require.InDelta(t, 0, v.Dot(n), 1e-9)
		require.InDelta(t, 0, u.Dot(v), 1e-9)
		require.InDelta(t, 1, u.Length(), 1e-9)
	}
}

func TestAddGroundPlaneAddsRenderableGeometry(t *testing.T) {
	b := NewBuilder(nil)
	mat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.5, 0.5, 0.5)))
	AddGroundPlane(b, 0, 10, mat)
	sc := b.Build()
	require.NotNil(t, sc.Accel)
}
