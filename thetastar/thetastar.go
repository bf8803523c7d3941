// Package thetastar implements the any-angle bootstrap search that
// runs once at startup over an integer grid covering the bounded
// region, producing a heuristic path from goal to start and the
// heading of each path segment. The command pushes the path's points
// as pinned samples (ConfigSpace.PushSample); the headings are
// returned to the caller and not consumed elsewhere in this module.
//
// It shares the line-of-sight collision query the rest of the planner
// uses (ConfigSpace.LineCheck) but otherwise keeps its own small
// search state: nothing here is package-scope mutable, unlike the
// open/closed sets the reference implementation kept at file scope.
package thetastar

import (
	"math"

	"github.com/dynamicmotion/rrtx/internal/dllist"
	"github.com/dynamicmotion/rrtx/internal/pqueue"
)

const lineCheckSteps = 10

// gridNode is one cell of the integer lattice Search builds. g is the
// accumulated path cost from the goal; h is the straight-line
// distance to start, computed once at grid construction and never
// revised; the heap orders by f = g+h with g as the tie-break.
type gridNode struct {
	ix, iy  int
	pos     []float64
	heading float64

	g, h   float64
	parent *gridNode
}

func (n *gridNode) Key() (float64, float64) { return n.g + n.h, n.g }

// lineChecker is the one collaborator Search needs from the
// configuration space: a 2D line-of-sight query that ignores heading.
type lineChecker interface {
	LineCheck(a, b []float64, steps int) bool
}

// Result is a completed search: the any-angle path ordered from start
// to goal, and the heading of each segment (len(Path)-1 entries).
type Result struct {
	Path     [][]float64
	Headings []float64
}

// Search runs Theta* over the integer grid spanning [lower[0],
// upper[0]] x [lower[1], upper[1]], searching from goalXY back to
// startXY (both two-element [x,y] points within bounds). checker
// supplies the line-of-sight test. ok is false if the bounds are
// inverted, if start or goal do not land on a grid cell, or if the
// open set is exhausted without reaching start.
func Search(checker lineChecker, lower, upper, startXY, goalXY []float64) (Result, bool) {
	width := int(upper[0] - lower[0])
	height := int(upper[1] - lower[1])
	if width < 0 || height < 0 {
		return Result{}, false
	}

	grid := buildGrid(lower, width, height, startXY)

	startCell := cellOf(lower, startXY)
	goalCell := cellOf(lower, goalXY)
	start, ok := grid[startCell]
	if !ok {
		return Result{}, false
	}
	goal, ok := grid[goalCell]
	if !ok {
		return Result{}, false
	}

	goal.g = 0
	goal.parent = goal

	open := pqueue.New[*gridNode]()
	open.Push(goal)
	closed := dllist.New[*gridNode]()

	offsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}

	for open.Len() > 0 {
		node, _ := open.Pop()
		if node == start {
			path := extractPath(node)
			return Result{Path: path, Headings: segmentHeadings(path)}, true
		}
		closed.PushFront(node)

		for _, off := range offsets {
			nx, ny := node.ix+off[0], node.iy+off[1]
			if nx < 0 || ny < 0 || nx > width || ny > height {
				continue
			}
			neighbor := grid[[2]int{nx, ny}]
			if dllist.Contains(closed, neighbor) {
				continue
			}
			updateVertex(checker, node, neighbor, open)
		}
	}
	return Result{}, false
}

func buildGrid(lower []float64, width, height int, startXY []float64) map[[2]int]*gridNode {
	grid := make(map[[2]int]*gridNode, (width+1)*(height+1))
	for i := 0; i <= width; i++ {
		for j := 0; j <= height; j++ {
			x := lower[0] + float64(i)
			y := lower[1] + float64(j)
			grid[[2]int{i, j}] = &gridNode{
				ix: i, iy: j,
				pos:     []float64{x, y, 0},
				heading: math.Atan2(startXY[1]-y, startXY[0]-x),
				g:       math.Inf(1),
				h:       math.Hypot(startXY[0]-x, startXY[1]-y),
			}
		}
	}
	return grid
}

func cellOf(lower, point []float64) [2]int {
	return [2]int{int(point[0] - lower[0]), int(point[1] - lower[1])}
}

// updateVertex implements the parent-rewriting step: if node's parent
// has line-of-sight to neighbor, neighbor's tentative cost is computed
// through the parent (skipping node entirely, the any-angle shortcut);
// otherwise, if node itself has line-of-sight to neighbor, the
// tentative cost routes through node. A neighbor visible from neither
// is left untouched. The neighbor adopts the tentative cost only when
// it is strictly lower than its current g, and is (re)enqueued when it
// does.
func updateVertex(checker lineChecker, node, neighbor *gridNode, open *pqueue.Heap[*gridNode]) {
	through := node
	cost := node.g + dist2D(node.pos, neighbor.pos)

	if node.parent != node && !checker.LineCheck(node.parent.pos, neighbor.pos, lineCheckSteps) {
		through = node.parent
		cost = node.parent.g + dist2D(node.parent.pos, neighbor.pos)
	} else if checker.LineCheck(node.pos, neighbor.pos, lineCheckSteps) {
		return
	}

	if cost >= neighbor.g {
		return
	}
	neighbor.g = cost
	neighbor.parent = through
	if open.Contains(neighbor) {
		open.Update(neighbor)
	} else {
		open.Push(neighbor)
	}
}

func dist2D(a, b []float64) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

// extractPath walks the parent chain from node (the start cell) up to
// the self-parented goal, iteratively rather than recursively so the
// stack depth never exceeds the call itself regardless of grid size.
func extractPath(node *gridNode) [][]float64 {
	path := make([][]float64, 0, 8)
	cur := node
	for {
		path = append(path, append([]float64(nil), cur.pos...))
		if cur.parent == cur {
			return path
		}
		cur = cur.parent
	}
}

// segmentHeadings returns the direction of travel between each
// consecutive pair of path points (Result.Headings).
func segmentHeadings(path [][]float64) []float64 {
	if len(path) < 2 {
		return nil
	}
	heads := make([]float64, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		dx := path[i+1][0] - path[i][0]
		dy := path[i+1][1] - path[i][1]
		heads = append(heads, math.Atan2(dy, dx))
	}
	return heads
}
