// Package spatialidx implements the D-dimensional k-d tree that indexes
// every node the planner ever samples. It mirrors the split/insert/
// nearest-neighbor shape of a pointcloud-style spatial index
// (NewKDTree, NearestNeighbor, RadiusNearestNeighbors) but generalizes
// the distance metric to honor per-dimension "wrap" (the heading axis
// of a Dubins configuration wraps at ±π) the way a fixed 3D Euclidean
// tree never needs to.
//
// The tree never rebalances and never deletes: RRTx orphans nodes in
// place rather than removing them from the index, and ties are broken
// by insertion order.
package spatialidx

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Item is implemented by anything the tree indexes. Position returns
// the D-dimensional coordinate; SetKDSplitDim, SetKDParent and
// SetKDChildren (with their getters) record the tree's own
// bookkeeping (split dimension and BSP children/parent) directly on the
// item so the tree needs no side table, the same "pointers into the
// spatial index... live on the node" arrangement the data model
// describes for Node.
type Item interface {
	Position() []float64
	SetKDParent(p Item)
	KDParent() Item
	SetKDChildren(left, right Item)
	KDChildren() (left, right Item)
	SetKDSplitDim(d int)
	KDSplitDim() int
	// InRangeList/SetInRangeList back the per-node "already collected by
	// this range query" flag that find_more_within_range needs to avoid
	// double-inserting a node into a growing result list.
	InRangeList() bool
	SetInRangeList(bool)
}

// Tree is a D-dimensional k-d tree with optional per-dimension wrap.
type Tree struct {
	dim     int
	wrap    []bool    // per-dimension: does distance wrap around?
	wrapW   []float64 // wrap width per dimension (only meaningful if wrap[d])
	hasWrap bool
	root    Item
	size    int
}

// New returns an empty tree over dim dimensions. wrapDims maps dimension
// index to wrap width (e.g. {2: 2*math.Pi} for a heading axis); absent
// dimensions never wrap.
func New(dim int, wrapDims map[int]float64) *Tree {
	t := &Tree{
		dim:   dim,
		wrap:  make([]bool, dim),
		wrapW: make([]float64, dim),
	}
	for d, w := range wrapDims {
		t.wrap[d] = true
		t.wrapW[d] = w
		t.hasWrap = true
	}
	return t
}

// Len reports how many items are indexed.
func (t *Tree) Len() int { return t.size }

func (t *Tree) axisDist(d int, a, b float64) float64 {
	delta := math.Abs(a - b)
	if t.wrap[d] {
		w := t.wrapW[d]
		if w-delta < delta {
			return w - delta
		}
	}
	return delta
}

// Distance computes the wrap-aware Euclidean distance between two
// positions of length t.dim. When the tree has no wrapped dimensions
// at all, this delegates to gonum's plain L2 norm over the full
// vector instead of summing axis-by-axis by hand.
func (t *Tree) Distance(a, b []float64) float64 {
	if !t.hasWrap {
		return floats.Distance(a[:t.dim], b[:t.dim], 2)
	}
	sum := 0.0
	for d := 0; d < t.dim; d++ {
		dd := t.axisDist(d, a[d], b[d])
		sum += dd * dd
	}
	return math.Sqrt(sum)
}

// Insert adds item to the tree via a standard BSP split cycling through
// dimensions 0..dim-1. The first inserted node at any location wins
// ties permanently: the tree never moves or rebalances existing nodes.
func (t *Tree) Insert(item Item) {
	item.SetKDChildren(nil, nil)
	item.SetKDParent(nil)
	t.size++
	if t.root == nil {
		item.SetKDSplitDim(0)
		t.root = item
		return
	}
	cur := t.root
	splitDim := 0
	for {
		splitDim = cur.KDSplitDim()
		pos := item.Position()
		curPos := cur.Position()
		left, right := cur.KDChildren()
		nextDim := (splitDim + 1) % t.dim
		if pos[splitDim] < curPos[splitDim] {
			if left == nil {
				item.SetKDSplitDim(nextDim)
				item.SetKDParent(cur)
				cur.SetKDChildren(item, right)
				return
			}
			cur = left
		} else {
			if right == nil {
				item.SetKDSplitDim(nextDim)
				item.SetKDParent(cur)
				cur.SetKDChildren(left, item)
				return
			}
			cur = right
		}
	}
}

// Nearest returns the item closest to point by wrap-aware distance,
// using a branch-and-bound descent with a partial-distance lower bound
// on the unexplored side (the bound itself is wrap-aware: the
// perpendicular distance to the splitting plane can never exceed half
// the wrap width).
func (t *Tree) Nearest(point []float64) (Item, float64, bool) {
	if t.root == nil {
		return nil, 0, false
	}
	var best Item
	bestDist := math.Inf(1)
	var walk func(node Item)
	walk = func(node Item) {
		if node == nil {
			return
		}
		d := t.Distance(point, node.Position())
		if d < bestDist {
			bestDist = d
			best = node
		}
		splitDim := node.KDSplitDim()
		left, right := node.KDChildren()
		nodePos := node.Position()
		var nearChild, farChild Item
		if point[splitDim] < nodePos[splitDim] {
			nearChild, farChild = left, right
		} else {
			nearChild, farChild = right, left
		}
		walk(nearChild)
		planeDist := t.axisDist(splitDim, point[splitDim], nodePos[splitDim])
		if planeDist < bestDist {
			walk(farChild)
		}
	}
	walk(t.root)
	return best, bestDist, best != nil
}

// FindWithinRange collects every indexed item within range of point,
// via full branch-and-bound pruning (find_within_range).
func (t *Tree) FindWithinRange(rng float64, point []float64) []Item {
	var out []Item
	var walk func(node Item)
	walk = func(node Item) {
		if node == nil {
			return
		}
		if d := t.Distance(point, node.Position()); d <= rng {
			node.SetInRangeList(true)
			out = append(out, node)
		}
		splitDim := node.KDSplitDim()
		left, right := node.KDChildren()
		nodePos := node.Position()
		planeDist := t.axisDist(splitDim, point[splitDim], nodePos[splitDim])
		if point[splitDim] < nodePos[splitDim] {
			walk(left)
			if planeDist <= rng {
				walk(right)
			}
		} else {
			walk(right)
			if planeDist <= rng {
				walk(left)
			}
		}
	}
	walk(t.root)
	return out
}

// FindMoreWithinRange extends a prior range-query result as the radius
// grows, skipping nodes already carrying the in-range-list flag so the
// caller's list is never double-populated.
func (t *Tree) FindMoreWithinRange(prior []Item, rng float64, point []float64) []Item {
	out := append([]Item(nil), prior...)
	var walk func(node Item)
	walk = func(node Item) {
		if node == nil {
			return
		}
		if !node.InRangeList() {
			if d := t.Distance(point, node.Position()); d <= rng {
				node.SetInRangeList(true)
				out = append(out, node)
			}
		}
		splitDim := node.KDSplitDim()
		left, right := node.KDChildren()
		nodePos := node.Position()
		planeDist := t.axisDist(splitDim, point[splitDim], nodePos[splitDim])
		if point[splitDim] < nodePos[splitDim] {
			walk(left)
			if planeDist <= rng {
				walk(right)
			}
		} else {
			walk(right)
			if planeDist <= rng {
				walk(left)
			}
		}
	}
	walk(t.root)
	return out
}

// ClearRangeFlags resets InRangeList on every item in a result set, to
// be called once the caller is done growing it (callers must not leak
// the flag across independent range queries).
func ClearRangeFlags(items []Item) {
	for _, it := range items {
		it.SetInRangeList(false)
	}
}
