package bounds

import (
	"math"
	"testing"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAABBSlabHit is scenario S1 from spec §8.
func TestAABBSlabHit(t *testing.T) {
	box := NewAABB3(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	ok, tHit := box.HitT(ray, 0, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.0, tHit, 1e-9)
}

func TestAABBMissReturnsInf(t *testing.T) {
	box := NewAABB3(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(10, 10, -5), core.NewVec3(0, 0, 1))

	ok, tHit := box.HitT(ray, 0, math.Inf(1))
	assert.False(t, ok)
	assert.True(t, math.IsInf(tHit, 1))
}

func TestEmptyAABBUnionIsIdentity(t *testing.T) {
	box := NewAABB3(core.NewVec3(1, 2, 3), core.NewVec3(4, 5, 6))
	union := Empty3().Union(box)
	assert.Equal(t, box, union)
}

func TestAABBUnionContainsBoth(t *testing.T) {
	a := NewAABB3(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	b := NewAABB3(core.NewVec3(2, 2, 2), core.NewVec3(3, 3, 3))
	u := a.Union(b)
	assert.True(t, u.Contains(a))
	assert.True(t, u.Contains(b))
}

func TestSurfaceAreaOfUnitCube(t *testing.T) {
	box := NewAABB3(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	assert.InDelta(t, 6.0, box.SurfaceArea(), 1e-9)
}

func TestSplitIntoTilesCoversFilm(t *testing.T) {
	film := NewAABB2(0, 0, 37, 19)
	tiles := SplitIntoTiles(film, 16)

	total := 0
	for _, tile := range tiles {
		total += tile.Area()
	}
	assert.Equal(t, film.Area(), total)
}
