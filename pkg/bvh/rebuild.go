package bvh

import (
	"sort"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
)

// Rebuild builds a new tree top-down over prims, splitting each node on
// its longest axis at the centroid midpoint, falling back to a
// median-of-centroids split when the midpoint split would leave one side
// empty (spec §4.E's rebuild path). scene.Builder.Build constructs the
// scene's tree with it rather than with a loop of Insert calls.
func Rebuild(prims []*primitive.Primitive) *Tree {
	t := New()
	if len(prims) == 0 {
		return t
	}

	type entry struct {
		prim     *primitive.Primitive
		box      bounds.AABB3
		centroid [3]float64
	}
	entries := make([]entry, len(prims))
	for i, p := range prims {
		box := p.AABB()
		c := box.Center()
		entries[i] = entry{prim: p, box: box, centroid: [3]float64{c.X, c.Y, c.Z}}
	}

	var build func(es []entry) int
	build = func(es []entry) int {
		box := bounds.Empty3()
		for _, e := range es {
			box = box.Union(e.box)
		}

		if len(es) == 1 {
			idx := t.allocNode()
			n := &t.nodes[idx]
			n.box = es[0].box.Expand(fatten)
			n.leaf = es[0].prim
			n.height = 0
			t.nodeCount++
			return idx
		}

		axis := box.LongestAxis()
		sort.Slice(es, func(i, j int) bool { return es[i].centroid[axis] < es[j].centroid[axis] })

		mid := box.Center()
		var midVal float64
		switch axis {
		case 0:
			midVal = mid.X
		case 1:
			midVal = mid.Y
		default:
			midVal = mid.Z
		}
		split := len(es) / 2
		for i, e := range es {
			if e.centroid[axis] >= midVal {
				split = i
				break
			}
		}
		if split == 0 || split == len(es) {
			split = len(es) / 2 // median-of-centroids fallback
		}

		leftIdx := build(es[:split])
		rightIdx := build(es[split:])

		idx := t.allocNode()
		n := &t.nodes[idx]
		n.left, n.right = leftIdx, rightIdx
		n.box = t.nodes[leftIdx].box.Union(t.nodes[rightIdx].box)
		n.height = 1 + maxInt(t.nodes[leftIdx].height, t.nodes[rightIdx].height)
		t.nodes[leftIdx].parent = idx
		t.nodes[rightIdx].parent = idx
		return idx
	}

	t.root = build(entries)
	t.nodes[t.root].parent = nullIndex
	return t
}
