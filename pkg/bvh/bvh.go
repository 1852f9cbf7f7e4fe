// Package bvh implements spec Component E: a dynamic, incrementally
// updatable bounding volume hierarchy over primitive.Intersectable
// leaves, addressed by arena index rather than pointer so nodes can be
// freed and recycled without invalidating sibling references.
package bvh

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
)

const nullIndex = -1

// fatten is the absolute margin, in world units, added on every side of
// a leaf's AABB so that small within-bound movements (e.g. an animated
// primitive nudging slightly) don't force a tree update, per spec §4.E.
const fatten = 0.05

// node is one arena slot: either an internal node (Left/Right both set,
// Leaf nil) or a leaf (Leaf set, Left/Right nullIndex).
type node struct {
	box         bounds.AABB3 // fattened for leaves, tight union for internals
	parent      int
	left, right int
	leaf        *primitive.Primitive
	height      int // longest path to a leaf below this node, for rotation heuristics
}

func (n *node) isLeaf() bool { return n.leaf != nil }

// Tree is the dynamic BVH. The zero value is not usable; use New.
type Tree struct {
	nodes     []node
	freeList  int
	root      int
	nodeCount int
}

// New creates an empty dynamic BVH.
func New() *Tree {
	return &Tree{root: nullIndex, freeList: nullIndex}
}

// Len returns the number of leaves currently in the tree.
func (t *Tree) Len() int { return t.nodeCount }

func (t *Tree) allocNode() int {
	if t.freeList != nullIndex {
		idx := t.freeList
		t.freeList = t.nodes[idx].left
		t.nodes[idx] = node{left: nullIndex, right: nullIndex, parent: nullIndex}
		return idx
	}
	t.nodes = append(t.nodes, node{left: nullIndex, right: nullIndex, parent: nullIndex})
	return len(t.nodes) - 1
}

func (t *Tree) freeNode(idx int) {
	t.nodes[idx] = node{left: t.freeList, right: nullIndex, parent: nullIndex}
	t.freeList = idx
}

// Insert adds prim to the tree using SAH-guided best-sibling search with
// branch-and-bound pruning (spec §4.E), then walks back up rotating
// nodes and refitting bounds.
func (t *Tree) Insert(prim *primitive.Primitive) int {
	leafIdx := t.allocNode()
	leaf := &t.nodes[leafIdx]
	leaf.box = prim.AABB().Expand(fatten)
	leaf.leaf = prim
	leaf.height = 0
	t.nodeCount++

	if t.root == nullIndex {
		t.root = leafIdx
		leaf.parent = nullIndex
		return leafIdx
	}

	sibling := t.findBestSibling(leaf.box)
	oldParent := t.nodes[sibling].parent
	newParent := t.allocNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].box = leaf.box.Union(t.nodes[sibling].box)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullIndex {
		if t.nodes[oldParent].left == sibling {
			t.nodes[oldParent].left = newParent
		} else {
			t.nodes[oldParent].right = newParent
		}
	} else {
		t.root = newParent
	}
	t.nodes[newParent].left = sibling
	t.nodes[newParent].right = leafIdx
	t.nodes[sibling].parent = newParent
	t.nodes[leafIdx].parent = newParent

	t.refitAndRotate(newParent)
	return leafIdx
}

// findBestSibling performs a branch-and-bound descent minimizing the
// total surface-area cost of inserting leafBox as a new sibling, per
// spec §4.E.
func (t *Tree) findBestSibling(leafBox bounds.AABB3) int {
	best := t.root
	bestCost := t.nodes[t.root].box.Union(leafBox).SurfaceArea()

	type frame struct {
		idx          int
		inheritedCost float64
	}
	stack := []frame{{idx: t.root, inheritedCost: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.idx]

		directCost := n.box.Union(leafBox).SurfaceArea()
		totalCost := directCost + f.inheritedCost
		if totalCost < bestCost {
			bestCost = totalCost
			best = f.idx
		}

		if n.isLeaf() {
			continue
		}
		inherited := f.inheritedCost + directCost - n.box.SurfaceArea()
		lowerBound := leafBox.SurfaceArea() + inherited
		if lowerBound < bestCost {
			stack = append(stack, frame{idx: n.left, inheritedCost: inherited})
			stack = append(stack, frame{idx: n.right, inheritedCost: inherited})
		}
	}
	return best
}

// refitAndRotate walks from idx to the root, refitting bounding boxes
// and applying the best of the four standard tree rotations at each
// ancestor if it reduces total surface area, per spec §4.E.
func (t *Tree) refitAndRotate(idx int) {
	for idx != nullIndex {
		idx = t.rotate(idx)
		n := &t.nodes[idx]
		l, r := &t.nodes[n.left], &t.nodes[n.right]
		n.box = l.box.Union(r.box)
		n.height = 1 + maxInt(l.height, r.height)
		idx = n.parent
	}
}

// rotate tries swapping each child of idx with each grandchild,
// returning idx itself (callers refit bounds regardless of whether a
// rotation happened).
func (t *Tree) rotate(idx int) int {
	n := &t.nodes[idx]
	if n.isLeaf() {
		return idx
	}
	left, right := n.left, n.right
	bestSA := 0.0
	bestSwap := [2]int{-1, -1} // (parent child index 0=left/1=right, grandchild index 0=left/1=right)

	tryRotation := func(childSlot, grandchildSlot int) float64 {
		var child, other int
		if childSlot == 0 {
			child, other = left, right
		} else {
			child, other = right, left
		}
		cn := &t.nodes[child]
		if cn.isLeaf() {
			return math.Inf(1)
		}
		var grandchild, sibling int
		if grandchildSlot == 0 {
			grandchild, sibling = cn.left, cn.right
		} else {
			grandchild, sibling = cn.right, cn.left
		}
		_ = grandchild
		// Only child's box changes: it becomes other+sibling.
		return t.nodes[sibling].box.Union(t.nodes[other].box).SurfaceArea() - cn.box.SurfaceArea()
	}

	for childSlot := 0; childSlot < 2; childSlot++ {
		for grandchildSlot := 0; grandchildSlot < 2; grandchildSlot++ {
			cost := tryRotation(childSlot, grandchildSlot)
			if cost < bestSA-1e-9 {
				bestSA = cost
				bestSwap = [2]int{childSlot, grandchildSlot}
			}
		}
	}

	if bestSwap[0] == -1 {
		return idx
	}
	var child, other int
	if bestSwap[0] == 0 {
		child, other = left, right
	} else {
		child, other = right, left
	}
	cn := &t.nodes[child]
	var grandchild, sibling int
	if bestSwap[1] == 0 {
		grandchild, sibling = cn.left, cn.right
	} else {
		grandchild, sibling = cn.right, cn.left
	}
	// Swap `other` (n's non-rotating child) with `grandchild`.
	t.nodes[other].parent = child
	t.nodes[grandchild].parent = idx
	if bestSwap[1] == 0 {
		cn.left = other
	} else {
		cn.right = other
	}
	if bestSwap[0] == 0 {
		n.right = grandchild
	} else {
		n.left = grandchild
	}
	cn.box = t.nodes[cn.left].box.Union(t.nodes[cn.right].box)
	cn.height = 1 + maxInt(t.nodes[cn.left].height, t.nodes[cn.right].height)
	return idx
}

// Remove detaches the leaf at idx from the tree, collapsing its sibling
// into the grandparent slot, per spec §4.E.
func (t *Tree) Remove(idx int) {
	n := t.nodes[idx]
	parent := n.parent
	if parent == nullIndex {
		t.root = nullIndex
		t.freeNode(idx)
		t.nodeCount--
		return
	}

	grandparent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].left == idx {
		sibling = t.nodes[parent].right
	} else {
		sibling = t.nodes[parent].left
	}

	if grandparent != nullIndex {
		if t.nodes[grandparent].left == parent {
			t.nodes[grandparent].left = sibling
		} else {
			t.nodes[grandparent].right = sibling
		}
		t.nodes[sibling].parent = grandparent
		t.freeNode(parent)
		t.refitAndRotate(grandparent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullIndex
		t.freeNode(parent)
	}
	t.freeNode(idx)
	t.nodeCount--
}

// Move updates the leaf at idx to a new world-space AABB, per spec
// §4.E: if the new tight bound still fits inside the leaf's existing
// fattened bound, nothing is touched; otherwise the leaf is removed and
// reinserted.
func (t *Tree) Move(idx int, tightBox bounds.AABB3) {
	if t.nodes[idx].box.Contains(tightBox) {
		return
	}
	prim := t.nodes[idx].leaf
	t.Remove(idx)
	t.Insert(prim)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Intersect performs stack-based ordered descent, visiting the
// nearer-first child at each internal node and pruning subtrees whose
// box entry distance exceeds the closest hit found so far, per spec
// §4.D/§4.E.
func (t *Tree) Intersect(ray core.Ray, tMin, tMax float64) (*primitive.HitRecord, bool) {
	if t.root == nullIndex {
		return nil, false
	}
	invDir := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)

	var closest *primitive.HitRecord
	closestT := tMax

	stack := make([]int, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]

		hit, entryT := n.box.HitTFast(ray, invDir, tMin, closestT)
		if !hit || entryT > closestT {
			continue
		}
		if n.isLeaf() {
			if hr, ok := n.leaf.Intersect(ray, tMin, closestT); ok {
				closest = hr
				closestT = hr.T
			}
			continue
		}
		_, dl := t.nodes[n.left].box.HitTFast(ray, invDir, tMin, closestT)
		_, dr := t.nodes[n.right].box.HitTFast(ray, invDir, tMin, closestT)
		if dl < dr {
			stack = append(stack, n.right, n.left)
		} else {
			stack = append(stack, n.left, n.right)
		}
	}
	return closest, closest != nil
}

func (t *Tree) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	if t.root == nullIndex {
		return false
	}
	invDir := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)

	stack := make([]int, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]

		if hit := n.box.Hit(ray, tMin, tMax); !hit {
			continue
		}
		_ = invDir
		if n.isLeaf() {
			if n.leaf.IntersectAny(ray, tMin, tMax) {
				return true
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
	return false
}

func (t *Tree) AABB() bounds.AABB3 {
	if t.root == nullIndex {
		return bounds.Empty3()
	}
	return t.nodes[t.root].box
}
