package bvh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
)

func sphereAt(x float64) *primitive.Primitive {
	return primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(x, 0, 0), 0.4), nil)
}

func TestInsertThenIntersectFindsNearestSphere(t *testing.T) {
	tree := New()
	for i := 0; i < 20; i++ {
		tree.Insert(sphereAt(float64(i) * 2))
	}
	require.Equal(t, 20, tree.Len())

	ray := core.NewRay(core.NewVec3(4, 0, -10), core.NewVec3(0, 0, 1))
	hr, ok := tree.Intersect(ray, core.RayEpsilon, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 4.0, hr.Point.X, 1e-6)
}

func TestRemoveExcludesSphereFromResults(t *testing.T) {
	tree := New()
	var ids []int
	for i := 0; i < 8; i++ {
		ids = append(ids, tree.Insert(sphereAt(float64(i)*2)))
	}
	tree.Remove(ids[2]) // removes the sphere at x=4
	require.Equal(t, 7, tree.Len())

	ray := core.NewRay(core.NewVec3(4, 0, -10), core.NewVec3(0, 0, 1))
	_, ok := tree.Intersect(ray, core.RayEpsilon, math.Inf(1))
	require.False(t, ok)
}

func TestTreeAABBContainsAllLeaves(t *testing.T) {
	tree := New()
	for i := 0; i < 10; i++ {
		tree.Insert(sphereAt(float64(i) * 3))
	}
	box := tree.AABB()
	for i := 0; i < 10; i++ {
		leafBox := sphereAt(float64(i) * 3).AABB()
		require.True(t, box.Contains(leafBox))
	}
}

func TestRebuildMatchesIncrementalResults(t *testing.T) {
	var prims []*primitive.Primitive
	for i := 0; i < 15; i++ {
		prims = append(prims, sphereAt(float64(i)*2))
	}
	tree := Rebuild(prims)
	require.Equal(t, 15, tree.Len())

	ray := core.NewRay(core.NewVec3(10, 0, -10), core.NewVec3(0, 0, 1))
	hr, ok := tree.Intersect(ray, core.RayEpsilon, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 10.0, hr.Point.X, 1e-6)

	inc := New()
	for _, p := range prims {
		inc.Insert(p)
	}
	hrInc, okInc := inc.Intersect(ray, core.RayEpsilon, math.Inf(1))
	require.True(t, okInc)
	require.InDelta(t, hr.Point.X, hrInc.Point.X, 1e-6)
	require.InDelta(t, hr.T, hrInc.T, 1e-6)
}

func TestIntersectAnyShortCircuits(t *testing.T) {
	tree := New()
	tree.Insert(sphereAt(0))
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	require.True(t, tree.IntersectAny(ray, core.RayEpsilon, math.Inf(1)))
}
