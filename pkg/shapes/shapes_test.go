package shapes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

func TestSphereIntersectFromOutside(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	isect, hitT, ok := s.Intersect(ray, 0.001, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 4.0, hitT, 1e-9)
	require.InDelta(t, 1.0, isect.GeometricNormal.Length(), 1e-9)
	require.True(t, isect.FrontFace)
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	_, _, ok := s.Intersect(ray, 0.001, math.Inf(1))
	require.False(t, ok)
}

func TestSphereAreaIsFourPiRSquared(t *testing.T) {
	s := NewSphere(core.Vec3{}, 2)
	require.InDelta(t, 4*math.Pi*4, s.Area(), 1e-9)
}

func TestTriangleIntersectMollerTrumbore(t *testing.T) {
	tri := NewTriangle(
		Vertex{Position: core.NewVec3(-1, -1, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0, 0)},
		Vertex{Position: core.NewVec3(1, -1, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(1, 0)},
		Vertex{Position: core.NewVec3(0, 1, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0.5, 1)},
	)
	ray := core.NewRay(core.NewVec3(0, -0.3, -5), core.NewVec3(0, 0, 1))
	isect, hitT, ok := tri.Intersect(ray, 0.001, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 5.0, hitT, 1e-9)
	require.InDelta(t, 0.5, isect.UV.X, 1e-6)
}

func TestTriangleMissesOutsideEdges(t *testing.T) {
	tri := NewTriangle(
		Vertex{Position: core.NewVec3(-1, -1, 0)},
		Vertex{Position: core.NewVec3(1, -1, 0)},
		Vertex{Position: core.NewVec3(0, 1, 0)},
	)
	ray := core.NewRay(core.NewVec3(5, 5, -5), core.NewVec3(0, 0, 1))
	_, _, ok := tri.Intersect(ray, 0.001, math.Inf(1))
	require.False(t, ok)
}

func TestSphereSolidAngleSamplingStaysWithinCone(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	ref := core.Vec3{}
	for i := 0; i < 16; i++ {
		u := core.NewVec2(float64(i)/16, 0.37)
		res := s.SampleSolidAngle(ref, u)
		require.True(t, res.Valid)
		require.Greater(t, res.PDF, 0.0)
	}
}
