package bounds

import "math"

// AABB2 is an axis-aligned bounding box in integer-pixel space, used by
// the tile renderer to describe tile/film bounds.
type AABB2 struct {
	Min, Max [2]int
}

// NewAABB2 creates an AABB2 from corner coordinates.
func NewAABB2(minX, minY, maxX, maxY int) AABB2 {
	return AABB2{Min: [2]int{minX, minY}, Max: [2]int{maxX, maxY}}
}

// Width returns the box's extent along X.
func (b AABB2) Width() int { return b.Max[0] - b.Min[0] }

// Height returns the box's extent along Y.
func (b AABB2) Height() int { return b.Max[1] - b.Min[1] }

// Area returns the number of integer lattice points covered.
func (b AABB2) Area() int { return b.Width() * b.Height() }

// LatticeIterator yields every integer (x, y) pair covered by the box in
// row-major order.
type LatticeIterator struct {
	box  AABB2
	x, y int
	done bool
}

// NewLatticeIterator creates an iterator over the box's integer points.
func NewLatticeIterator(box AABB2) *LatticeIterator {
	return &LatticeIterator{box: box, x: box.Min[0], y: box.Min[1], done: box.Width() <= 0 || box.Height() <= 0}
}

// Next advances the iterator, returning false once exhausted.
func (it *LatticeIterator) Next() (x, y int, ok bool) {
	if it.done {
		return 0, 0, false
	}
	x, y = it.x, it.y
	it.x++
	if it.x >= it.box.Max[0] {
		it.x = it.box.Min[0]
		it.y++
		if it.y >= it.box.Max[1] {
			it.done = true
		}
	}
	return x, y, true
}

// SplitIntoTiles partitions the box into a grid of tileSize x tileSize
// sub-boxes (the last row/column clipped to the parent box), the layout
// the tile-parallel renderer dispatches across workers.
func SplitIntoTiles(box AABB2, tileSize int) []AABB2 {
	var tiles []AABB2
	for y := box.Min[1]; y < box.Max[1]; y += tileSize {
		for x := box.Min[0]; x < box.Max[0]; x += tileSize {
			tiles = append(tiles, NewAABB2(x, y, minInt(x+tileSize, box.Max[0]), minInt(y+tileSize, box.Max[1])))
		}
	}
	return tiles
}

func minInt(a, b int) int { return int(math.Min(float64(a), float64(b))) }
