package rrtx

import (
	"context"
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/dynamicmotion/rrtx/spatialidx"
)

func newTestPlanner(t *testing.T) (*Planner, *Node) {
	t.Helper()
	cspace := NewConfigSpace(2, []float64{0, 0}, []float64{10, 10}, noCollision{})
	goal := NewNode(0, []float64{9, 9})
	goal.SetLMC(0)
	goal.SetTreeCost(0)
	cspace.Goal = goal
	cspace.MoveGoal = goal

	tree := spatialidx.New(2, nil)
	tree.Insert(goal)

	queue := NewQueue(0.01)
	p := NewPlanner(cspace, tree, queue, straightFactory{}, 1.5)
	return p, goal
}

func TestExtendLinksToGoal(t *testing.T) {
	p, goal := newTestPlanner(t)
	ctx := context.Background()

	newNode := NewNode(1, []float64{8, 8})
	ok := p.Extend(ctx, newNode, goal, 5.0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, newNode.ParentUsed(), test.ShouldBeTrue)
	test.That(t, newNode.ParentEdge().EndNode(), test.ShouldEqual, goal)
	test.That(t, p.Tree.Len(), test.ShouldEqual, 2)
}

func TestExtendNoNeighborsFallsBackToClosest(t *testing.T) {
	p, goal := newTestPlanner(t)
	ctx := context.Background()

	// r_ball of 0 means FindWithinRange returns nothing, so
	// findBestParent must fall back to closestNode (goal).
	newNode := NewNode(1, []float64{5, 5})
	ok := p.Extend(ctx, newNode, goal, 0.0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, newNode.ParentEdge().EndNode(), test.ShouldEqual, goal)
}

func TestMakeParentOfDetachesOldSuccessorEntry(t *testing.T) {
	p, goal := newTestPlanner(t)
	child := NewNode(1, []float64{1, 1})
	otherParent := NewNode(2, []float64{2, 2})

	e1 := newStraightEdge(p.CSpace, goal, child)
	e1.dist = 1
	p.MakeParentOf(goal, child, e1)
	test.That(t, goal.successorList.Len(), test.ShouldEqual, 1)

	e2 := newStraightEdge(p.CSpace, otherParent, child)
	e2.dist = 2
	p.MakeParentOf(otherParent, child, e2)

	test.That(t, goal.successorList.Len(), test.ShouldEqual, 0)
	test.That(t, otherParent.successorList.Len(), test.ShouldEqual, 1)
	test.That(t, child.ParentEdge(), test.ShouldEqual, e2)
}

func TestRecalculateLMCFindsCheaperParent(t *testing.T) {
	p, goal := newTestPlanner(t)
	ctx := context.Background()

	mid := NewNode(1, []float64{5, 9})
	test.That(t, p.Extend(ctx, mid, goal, 20), test.ShouldBeTrue)

	node := NewNode(2, []float64{5, 5})
	test.That(t, p.Extend(ctx, node, goal, 20), test.ShouldBeTrue)

	// Force node to look worse than it should, then confirm
	// recalculateLMC restores the best-known parent from its neighbors.
	node.SetLMC(math.Inf(1))
	ok := p.RecalculateLMC(node, 20)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, math.IsInf(node.LMC(), 1), test.ShouldBeFalse)
}

func TestReduceInconsistencyStopsAtGoalKey(t *testing.T) {
	p, goal := newTestPlanner(t)
	goal.SetLMC(5)
	goal.SetTreeCost(5)

	below := NewNode(1, []float64{1, 1})
	below.SetLMC(1)
	below.SetTreeCost(2)

	above := NewNode(2, []float64{2, 2})
	above.SetLMC(6)
	above.SetTreeCost(7)

	p.Queue.Add(below)
	p.Queue.Add(above)

	p.ReduceInconsistency(20)

	// below's key (1, 2) sorted strictly before goal's (5, 5), so it gets
	// popped and its tree cost settles at its lmc; above's key (6, 7) does
	// not, so it is left untouched in the queue.
	test.That(t, below.TreeCost(), test.ShouldEqual, 1)
	test.That(t, p.Queue.Len(), test.ShouldEqual, 1)
	top, ok := p.Queue.Top()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, top, test.ShouldEqual, above)
}

func TestRewireSkipsBelowChangeThresh(t *testing.T) {
	p, goal := newTestPlanner(t)
	node := NewNode(1, []float64{5, 5})
	node.SetLMC(1)
	node.SetTreeCost(1)
	ok := p.Rewire(node, 10)
	test.That(t, ok, test.ShouldBeFalse)
	_ = goal
}
