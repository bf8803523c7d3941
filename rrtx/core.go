package rrtx

import (
	"context"
	"math"

	"github.com/dynamicmotion/rrtx/internal/dllist"
	"github.com/dynamicmotion/rrtx/logging"
	"github.com/dynamicmotion/rrtx/spatialidx"
)

// Planner bundles the collaborators the RRTx core needs on every call:
// the configuration space, the spatial index, the priority queue, and
// the edge factory that supplies Dubins trajectories. Grouping them
// here (rather than threading five parameters through every function,
// as the original C++ free functions do) is the one place this port
// departs from the source's call shape, in favor of idiomatic Go
// methods on a receiver.
type Planner struct {
	CSpace  *ConfigSpace
	Tree    *spatialidx.Tree
	Queue   *Queue
	Factory EdgeFactory
	Delta   float64

	// RetrySampler draws the synthesized fallback sample FindNewTarget
	// uses once its search radius exceeds the space's diameter.
	RetrySampler *Sampler

	Logger *logging.Logger

	nextID int
}

// NewPlanner builds a Planner over the given collaborators.
func NewPlanner(cspace *ConfigSpace, tree *spatialidx.Tree, queue *Queue, factory EdgeFactory, delta float64) *Planner {
	return &Planner{
		CSpace:       cspace,
		Tree:         tree,
		Queue:        queue,
		Factory:      factory,
		Delta:        delta,
		RetrySampler: NewSampler(cspace, PolicyDefault, 1),
		Logger:       logging.NewLogger("rrtx.core"),
	}
}

// NextNodeID returns a fresh, monotonically increasing node identifier.
func (p *Planner) NextNodeID() int {
	p.nextID++
	return p.nextID
}

// backEdge is the zero-distance bookkeeping edge pushed onto a parent's
// successor list by MakeParentOf. It carries no trajectory and is never
// evaluated for collision; it exists purely so propagateDescendants can
// walk from a parent down to its children.
type backEdge struct {
	start, end *Node
}

func (b *backEdge) StartNode() *Node                             { return b.start }
func (b *backEdge) EndNode() *Node                                { return b.end }
func (b *backEdge) Dist() float64                                 { return 0 }
func (b *backEdge) SetDist(float64)                               {}
func (b *backEdge) ValidMove() bool                               { return true }
func (b *backEdge) CalculateTrajectory(context.Context) error     { return nil }
func (b *backEdge) CalculateHoverTrajectory(context.Context) error { return nil }
func (b *backEdge) PoseAtDistAlongEdge(float64) ([]float64, error) { return b.end.Position(), nil }
func (b *backEdge) PoseAtTimeAlongEdge(float64) ([]float64, error) { return b.end.Position(), nil }

// selfEdge is the infinite-distance placeholder a node's parentEdge is
// reset to when it is orphaned (propagateDescendants step 3: "set
// parent edge to a self-edge of infinity").
func selfEdge(n *Node) Edge {
	return &infSelfEdge{node: n}
}

type infSelfEdge struct{ node *Node }

func (b *infSelfEdge) StartNode() *Node                             { return b.node }
func (b *infSelfEdge) EndNode() *Node                                { return b.node }
func (b *infSelfEdge) Dist() float64                                 { return math.Inf(1) }
func (b *infSelfEdge) SetDist(float64)                               {}
func (b *infSelfEdge) ValidMove() bool                               { return false }
func (b *infSelfEdge) CalculateTrajectory(context.Context) error     { return nil }
func (b *infSelfEdge) CalculateHoverTrajectory(context.Context) error { return nil }
func (b *infSelfEdge) PoseAtDistAlongEdge(float64) ([]float64, error) { return b.node.Position(), nil }
func (b *infSelfEdge) PoseAtTimeAlongEdge(float64) ([]float64, error) { return b.node.Position(), nil }

// MakeParentOf performs the parent-link bookkeeping: detach child from
// its old parent's successor list, adopt edge as child's new parent
// edge, and push a zero-distance back-edge onto newParent's successor
// list so the subtree can be walked top-down later.
func (p *Planner) MakeParentOf(newParent, child *Node, edge Edge) {
	if child.parentUsed && child.successorHandleInParent != nil {
		child.successorHandleInParent.Detach()
	}
	child.parentEdge = edge
	child.parentUsed = true

	back := &backEdge{start: newParent, end: child}
	child.successorHandleInParent = pushSuccessor(newParent, back)
}

// FindBestParent implements find_best_parent: seeds L with closestNode
// if empty (and newNode isn't the root/goal), then for each candidate
// near constructs a trajectory from newNode to near, stashes it on
// near.tempEdge, and adopts the best feasible parent found. Returns
// whether a parent was found.
func (p *Planner) FindBestParent(ctx context.Context, newNode *Node, candidates []*Node, closestNode *Node, saveAllEdges bool) bool {
	L := candidates
	if len(L) == 0 && newNode != p.CSpace.Goal {
		L = []*Node{closestNode}
	}

	newNode.lmc = math.Inf(1)
	newNode.parentUsed = false

	var bestParent *Node
	var bestEdge Edge

	for _, near := range L {
		edge := p.Factory.NewEdge(p.CSpace, newNode, near)
		_ = edge.CalculateTrajectory(ctx)
		if saveAllEdges {
			near.tempEdge = edge
		}
		if !edge.ValidMove() || p.CSpace.EdgeInCollision(edge) {
			edge.SetDist(math.Inf(1))
			continue
		}
		if newNode.lmc > near.lmc+edge.Dist() {
			newNode.lmc = near.lmc + edge.Dist()
			bestParent = near
			bestEdge = edge
		}
	}

	if bestParent == nil {
		return false
	}
	p.MakeParentOf(bestParent, newNode, bestEdge)
	return true
}

// Extend implements extend: find near neighbors, find the best parent
// among them, insert newNode into the spatial index on success, then
// link every near neighbor as a current/initial neighbor pair and
// opportunistically reparent neighbors that newNode improves on.
func (p *Planner) Extend(ctx context.Context, newNode, closestNode *Node, rBall float64) bool {
	L := p.Tree.FindWithinRange(rBall, newNode.Position())
	spatialidx.ClearRangeFlags(L)
	nearNodes := make([]*Node, len(L))
	for i, it := range L {
		nearNodes[i] = it.(*Node)
	}

	if !p.FindBestParent(ctx, newNode, nearNodes, closestNode, true) {
		return false
	}

	p.Tree.Insert(newNode)

	moveGoal := p.CSpace.MoveGoal
	for _, near := range nearNodes {
		if near.tempEdge == nil || math.IsInf(near.tempEdge.Dist(), 1) {
			continue
		}
		fwd := near.tempEdge
		near.tempEdge = nil
		linkInitialNeighbors(fwd)
		linkCurrentNeighbors(fwd)

		rev := p.Factory.NewEdge(p.CSpace, near, newNode)
		_ = rev.CalculateTrajectory(ctx)
		if rev.ValidMove() && !p.CSpace.EdgeInCollision(rev) {
			linkInitialNeighbors(rev)
			linkCurrentNeighbors(rev)

			currentParentEnd := (*Node)(nil)
			if newNode.parentUsed {
				currentParentEnd = newNode.parentEdge.EndNode()
			}
			if moveGoal != nil &&
				near.lmc > newNode.lmc+rev.Dist() &&
				currentParentEnd != near &&
				newNode.lmc+rev.Dist() < moveGoal.lmc {

				oldLMC := near.lmc
				near.lmc = newNode.lmc + rev.Dist()
				p.MakeParentOf(newNode, near, rev)
				if oldLMC-near.lmc > p.Queue.ChangeThresh && near != p.CSpace.Goal {
					p.Queue.VerifyInQueue(near)
				}
			}
		}
	}

	p.Queue.Add(newNode)
	return true
}

// RecalculateLMC implements recalculate_lmc: cull current neighbors
// beyond rBall, then scan all out-neighbors (skipping ones currently in
// the orphan set, ones whose own parent is node, and edges that are not
// valid moves) for a cheaper parent.
func (p *Planner) RecalculateLMC(node *Node, rBall float64) bool {
	if node == p.CSpace.Goal {
		return false
	}
	cullCurrentNeighbors(node, rBall)

	newParentFound := false
	var rrtParent *Node
	var parentEdge Edge

	forEachOutNeighbor(node, func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry]) {
		neighbor := edge.EndNode()
		if neighbor.inOrphanSet {
			return
		}
		alreadyParentOfNode := neighbor.parentUsed && neighbor.parentEdge.EndNode() == node
		if node.lmc > neighbor.lmc+edge.Dist() && !alreadyParentOfNode && edge.ValidMove() {
			node.lmc = neighbor.lmc + edge.Dist()
			rrtParent = neighbor
			parentEdge = edge
			newParentFound = true
		}
	})

	if newParentFound {
		p.MakeParentOf(rrtParent, node, parentEdge)
	}
	return true
}

// Rewire implements rewire: only runs if the node's inconsistency
// exceeds changeThresh. Culls current neighbors, then for every
// in-neighbor not already node's parent, reparents it to node if that
// strictly improves its lmc, and re-enqueues it if its resulting
// inconsistency (treeCost - lmc) exceeds changeThresh.
func (p *Planner) Rewire(node *Node, rBall float64) bool {
	deltaCost := node.treeCost - node.lmc
	if deltaCost <= p.Queue.ChangeThresh {
		return false
	}
	cullCurrentNeighbors(node, rBall)

	forEachInNeighbor(node, func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry]) {
		neighbor := edge.StartNode()
		if node.parentUsed && node.parentEdge.EndNode() == neighbor {
			return
		}
		if !edge.ValidMove() {
			return
		}
		alreadyParent := neighbor.parentUsed && neighbor.parentEdge.EndNode() == node
		if neighbor.lmc > node.lmc+edge.Dist() && !alreadyParent {
			neighbor.lmc = node.lmc + edge.Dist()
			p.MakeParentOf(node, neighbor, edge)
			if neighbor.treeCost-neighbor.lmc > p.Queue.ChangeThresh {
				p.Queue.VerifyInQueue(neighbor)
			}
		}
	})
	return true
}

// ReduceInconsistency implements reduce_inconsistency: pops the heap
// while its top is strictly less (by the two-level key) than the goal,
// or the goal is still infinite-cost, or the goal itself is marked.
// Each popped node recalculates its LMC and rewires its in-neighbors if
// its inconsistency exceeds the change threshold, then is marked
// consistent.
func (p *Planner) ReduceInconsistency(rBall float64) {
	goal := p.CSpace.MoveGoal
	for {
		top, ok := p.Queue.Top()
		if !ok {
			return
		}
		if !(keyLess(top, goal) || math.IsInf(goal.lmc, 1) || math.IsInf(goal.treeCost, 1) || p.Queue.Marked(goal)) {
			return
		}
		node, _ := p.Queue.Pop()
		if node.treeCost-node.lmc > p.Queue.ChangeThresh {
			p.RecalculateLMC(node, rBall)
			p.Rewire(node, rBall)
		}
		node.treeCost = node.lmc
	}
}

// keyLess reports whether a sorts strictly before b under the heap's
// two-level (lmc, treeCost) lexicographic key.
func keyLess(a, b *Node) bool {
	ap, as := a.Key()
	bp, bs := b.Key()
	if ap != bp {
		return ap < bp
	}
	return as < bs
}
