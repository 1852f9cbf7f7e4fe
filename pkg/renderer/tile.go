package renderer

import "image"

// Tile is a rectangular region of the image assigned to one worker at a
// time, per spec §5's "scheduling is parallel across image tiles".
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
}

// NewTile creates a tile over bounds.
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid partitions a width x height image into tileSize x tileSize
// tiles (the last row/column clipped to the image edge).
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	id := 0
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := minInt(x0+tileSize, width)
			y1 := minInt(y0+tileSize, height)
			tiles = append(tiles, NewTile(id, image.Rect(x0, y0, x1, y1)))
			id++
		}
	}
	return tiles
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
