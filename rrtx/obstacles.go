package rrtx

import (
	"context"
	"math"

	"github.com/dynamicmotion/rrtx/internal/dllist"
)

// RobotTarget is implemented by the robot follower's data so
// propagateDescendants can flag an invalidated move target without this
// package depending on the robot.go types directly (both live in
// package rrtx, but keeping the dependency narrow mirrors the
// interface-seam style used for Edge/EdgeFactory/CollisionChecker).
type RobotTarget interface {
	NextMoveTarget() *Node
	InvalidateCurrentMove()
}

// PropagateDescendants implements propagate_descendants: given an
// orphan stack already seeded with the nodes whose parent edge just
// became invalid, it accumulates every descendant via successor lists,
// spreads inconsistency to each orphan's non-orphaned out-neighbors and
// parent, then disconnects every orphan from its parent and resets its
// costs to infinity.
func (p *Planner) PropagateDescendants(ctx context.Context, robot RobotTarget) bool {
	os := p.Queue.OrphanStack()
	if os.Empty() {
		return false
	}

	// Pass 1: accumulate descendants, back to front, pushing each onto
	// the front of OS and marking it so pass 2 can recognize it. The
	// walk re-reads each element's parent after processing it, so
	// elements pushed during the walk are visited too.
	for e := os.Back(); e != os.End(); e = e.Parent() {
		thisNode := e.Value
		if thisNode.successorList == nil {
			continue
		}
		thisNode.successorList.Each(func(se *dllist.Element[Edge]) {
			successor := se.Value.EndNode()
			p.Queue.PushOrphan(successor)
		})
	}

	// Pass 2: every out-neighbor of an orphan that is itself NOT an
	// orphan gets its tree cost blown out to infinity and is requeued,
	// guaranteeing it will propagate a new (finite) lmc forward on its
	// next pop. The orphan's own parent gets the same treatment unless
	// the parent is itself orphaned.
	os.EachBackToFront(func(e *dllist.Element[*Node]) {
		thisNode := e.Value
		forEachOutNeighbor(thisNode, func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry]) {
			neighbor := edge.EndNode()
			if neighbor.inOrphanSet {
				return
			}
			neighbor.treeCost = math.Inf(1)
			p.Queue.VerifyInQueue(neighbor)
		})
		if thisNode.parentUsed && !thisNode.parentEdge.EndNode().inOrphanSet {
			parentEnd := thisNode.parentEdge.EndNode()
			parentEnd.treeCost = math.Inf(1)
			p.Queue.VerifyInQueue(parentEnd)
		}
	})

	// Pass 3: pop every orphan, unmark it, sever its parent link, and
	// reset both costs to infinity, returning it to the Fresh state.
	for {
		n, ok := os.PopFront()
		if !ok {
			break
		}
		n.inOrphanSet = false

		if robot != nil && n == robot.NextMoveTarget() {
			robot.InvalidateCurrentMove()
		}

		if n.parentUsed {
			oldParentEnd := n.parentEdge.EndNode()
			if n.successorHandleInParent != nil {
				n.successorHandleInParent.Detach()
			}
			_ = oldParentEnd
			n.parentEdge = selfEdge(n)
			n.parentUsed = false
		}

		n.treeCost = math.Inf(1)
		n.lmc = math.Inf(1)
	}
	return true
}

// RevalidateAfterRemoval is the targeted edge-revalidation sweep run
// after an obstacle is removed (see SUPPLEMENTED FEATURES: the source
// has no symmetric re-attach pass for obstacle removal). Rather than
// re-sampling, it re-checks every edge in affectedNodes' current and
// initial neighbor lists that was previously marked infinite-distance
// by collision, and if the obstacle removal makes it valid again,
// re-enqueues both endpoints so reduceInconsistency can consider the
// edge on the next pass.
func (p *Planner) RevalidateAfterRemoval(ctx context.Context, affectedNodes []*Node) {
	for _, node := range affectedNodes {
		forEachOutNeighbor(node, func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry]) {
			if !math.IsInf(edge.Dist(), 1) {
				return
			}
			_ = edge.CalculateTrajectory(ctx)
			if edge.ValidMove() && !p.CSpace.EdgeInCollision(edge) {
				p.Queue.VerifyInQueue(edge.EndNode())
				p.Queue.VerifyInQueue(node)
			}
		})
	}
}
