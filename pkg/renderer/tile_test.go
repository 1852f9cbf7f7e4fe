package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTileGridCoversWholeImageExactly(t *testing.T) {
	tiles := NewTileGrid(10, 7, 4)

	var covered int
	seen := map[[2]int]bool{}
	for _, tile := range tiles {
		b := tile.Bounds
		require.LessOrEqual(t, b.Max.X, 10)
		require.LessOrEqual(t, b.Max.Y, 7)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				key := [2]int{x, y}
				require.False(t, seen[key], "pixel (%d,%d) covered by more than one tile", x, y)
				seen[key] = true
				covered++
			}
		}
	}
	require.Equal(t, 10*7, covered)
}

func TestNewTileGridClipsTrailingTiles(t *testing.T) {
	tiles := NewTileGrid(5, 5, 4)
	require.Len(t, tiles, 4) // 2x2 grid of tiles, trailing row/col clipped to 1px
}
