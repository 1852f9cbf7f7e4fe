package medium

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
)

func TestHenyeyGreensteinIntegratesToOneIsotropic(t *testing.T) {
	// At g=0, HG reduces to the isotropic phase function 1/(4*pi).
	require.InDelta(t, 1.0/(4*math.Pi), HenyeyGreenstein(0.5, 0), 1e-9)
	require.InDelta(t, 1.0/(4*math.Pi), HenyeyGreenstein(-0.3, 0), 1e-9)
}

func TestHomogeneousMajorantIsSigmaTMax(t *testing.T) {
	h := NewHomogeneous(core.NewVec3(0.1, 0.2, 0.3), core.NewVec3(0.4, 0.1, 0.1), 0)
	seg := h.Majorant(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 0, 10)
	require.InDelta(t, 0.5, seg.SigmaMaj, 1e-9) // max(0.5, 0.3, 0.4)
}

func TestVoxelGridIteratorCoversFullSegment(t *testing.T) {
	box := bounds.NewAABB3(core.Vec3{}, core.NewVec3(2, 2, 2))
	density := make([]float32, 8)
	for i := range density {
		density[i] = 1
	}
	grid := NewVoxelGrid(box, 2, 2, 2, density, core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.5, 0.5, 0.5), 0)
	ray := core.NewRay(core.NewVec3(0.01, 0.01, -1), core.NewVec3(0, 0, 1))
	it := grid.Iterator(ray, 1, 3)

	var covered float64
	for {
		seg, ok := it.Next()
		if !ok {
			break
		}
		covered += seg.TMax - seg.TMin
		require.GreaterOrEqual(t, seg.SigmaMaj, 0.0)
	}
	require.InDelta(t, 2.0, covered, 1e-6)
}

func TestRescaledProbabilitiesIdentity(t *testing.T) {
	r := Identity()
	require.Equal(t, core.NewVec3(1, 1, 1), r.RU)
	require.Equal(t, core.NewVec3(1, 1, 1), r.RL)
}
