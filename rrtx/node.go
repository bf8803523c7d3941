// Package rrtx is the algorithmic heart of the planner: the RRTx tree
// maintenance core (extend, findBestParent, makeParentOf,
// recalculateLMC, rewire, reduceInconsistency), the neighbor-graph
// bookkeeping that backs it, the ConfigSpace/obstacle registry, the
// sampler, the priority queue, obstacle-change propagation, and the
// robot follower. Concrete Dubins kinematics and a concrete collision
// backend live outside this package (see the Edge, EdgeFactory and
// CollisionChecker interfaces below) and are supplied by packages
// dubins and collisionx at the call sites that need a runnable planner.
package rrtx

import (
	"math"

	"github.com/dynamicmotion/rrtx/internal/dllist"
	"github.com/dynamicmotion/rrtx/spatialidx"
)

// Node is a vertex of the RRTx search tree, simultaneously a k-d tree
// item and a priority-queue element. D is the dimensionality of its
// position: 2 for a plane, 3 when dimension 2 is a wrapped heading, 4
// when dimension 3 is additionally a time coordinate.
type Node struct {
	id  int
	pos []float64

	lmc      float64
	treeCost float64

	parentUsed bool
	parentEdge Edge

	kdParent       spatialidx.Item
	kdLeft         spatialidx.Item
	kdRight        spatialidx.Item
	kdSplitDim     int
	inRangeList    bool

	initialOut *dllist.List[*neighborEntry]
	initialIn  *dllist.List[*neighborEntry]
	currentOut *dllist.List[*neighborEntry]
	currentIn  *dllist.List[*neighborEntry]

	successorList           *dllist.List[Edge]
	successorHandleInParent *dllist.Element[Edge]

	inOrphanSet bool
	isMoveGoal  bool

	// tempEdge is scratch storage used by findBestParent to stash the
	// candidate trajectory to a near-neighbor before deciding whether to
	// adopt it; it has no meaning outside of a single extend() call.
	tempEdge Edge
}

// NewNode allocates a fresh, unattached node at pos. It starts in the
// Fresh state (lmc = treeCost = +Inf) per the cost state machine.
func NewNode(id int, pos []float64) *Node {
	p := make([]float64, len(pos))
	copy(p, pos)
	return &Node{
		id:         id,
		pos:        p,
		lmc:        math.Inf(1),
		treeCost:   math.Inf(1),
		initialOut: dllist.New[*neighborEntry](),
		initialIn:  dllist.New[*neighborEntry](),
		currentOut: dllist.New[*neighborEntry](),
		currentIn:  dllist.New[*neighborEntry](),
	}
}

// ID returns the node's stable, loggable identifier.
func (n *Node) ID() int { return n.id }

// Position returns the node's D-dimensional coordinate.
func (n *Node) Position() []float64 { return n.pos }

// LMC returns the locally-minimum cost-to-goal.
func (n *Node) LMC() float64 { return n.lmc }

// SetLMC sets the locally-minimum cost-to-goal.
func (n *Node) SetLMC(v float64) { n.lmc = v }

// TreeCost returns the cost-to-goal consistent with the tree edges
// actually in use.
func (n *Node) TreeCost() float64 { return n.treeCost }

// SetTreeCost sets the tree cost.
func (n *Node) SetTreeCost(v float64) { n.treeCost = v }

// Consistent reports lmc == treeCost.
func (n *Node) Consistent() bool { return n.lmc == n.treeCost }

// ParentUsed reports whether the node currently has a live parent edge.
func (n *Node) ParentUsed() bool { return n.parentUsed }

// ParentEdge returns the node's current parent edge, or nil.
func (n *Node) ParentEdge() Edge { return n.parentEdge }

// IsMoveGoal reports whether the robot currently targets this node.
func (n *Node) IsMoveGoal() bool { return n.isMoveGoal }

// SetIsMoveGoal sets the move-goal flag.
func (n *Node) SetIsMoveGoal(v bool) { n.isMoveGoal = v }

// InOrphanSet reports whether the node is currently staged in the
// orphan stack.
func (n *Node) InOrphanSet() bool { return n.inOrphanSet }

// Key implements pqueue.Keyer: the heap orders by (lmc, treeCost)
// lexicographically.
func (n *Node) Key() (float64, float64) { return n.lmc, n.treeCost }

// --- spatialidx.Item ---

func (n *Node) SetKDParent(p spatialidx.Item)   { n.kdParent = p }
func (n *Node) KDParent() spatialidx.Item       { return n.kdParent }
func (n *Node) SetKDChildren(l, r spatialidx.Item) { n.kdLeft, n.kdRight = l, r }
func (n *Node) KDChildren() (spatialidx.Item, spatialidx.Item) { return n.kdLeft, n.kdRight }
func (n *Node) SetKDSplitDim(d int)             { n.kdSplitDim = d }
func (n *Node) KDSplitDim() int                 { return n.kdSplitDim }
func (n *Node) InRangeList() bool               { return n.inRangeList }
func (n *Node) SetInRangeList(v bool)           { n.inRangeList = v }
