package rrtx

import (
	"testing"

	"go.viam.com/test"

	"github.com/dynamicmotion/rrtx/internal/dllist"
)

func TestLinkNeighborsCreatesSymmetricPairs(t *testing.T) {
	a := NewNode(1, []float64{0, 0})
	b := NewNode(2, []float64{1, 1})
	e := newStraightEdge(nil, a, b)
	e.dist = 1.41

	linkInitialNeighbors(e)
	linkCurrentNeighbors(e)

	test.That(t, a.initialOut.Len(), test.ShouldEqual, 1)
	test.That(t, b.initialIn.Len(), test.ShouldEqual, 1)
	test.That(t, a.currentOut.Len(), test.ShouldEqual, 1)
	test.That(t, b.currentIn.Len(), test.ShouldEqual, 1)
}

func TestCullCurrentNeighborsRemovesSymmetricEntry(t *testing.T) {
	a := NewNode(1, []float64{0, 0})
	b := NewNode(2, []float64{10, 10})
	e := newStraightEdge(nil, a, b)
	e.dist = 14.14

	linkCurrentNeighbors(e)
	test.That(t, a.currentOut.Len(), test.ShouldEqual, 1)
	test.That(t, b.currentIn.Len(), test.ShouldEqual, 1)

	cullCurrentNeighbors(a, 5)
	test.That(t, a.currentOut.Len(), test.ShouldEqual, 0)
	test.That(t, b.currentIn.Len(), test.ShouldEqual, 0)
}

func TestForEachOutNeighborWalksInitialThenCurrent(t *testing.T) {
	a := NewNode(1, []float64{0, 0})
	b := NewNode(2, []float64{1, 1})
	c := NewNode(3, []float64{2, 2})

	e1 := newStraightEdge(nil, a, b)
	linkInitialNeighbors(e1)

	e2 := newStraightEdge(nil, a, c)
	linkCurrentNeighbors(e2)

	var seen []*Node
	forEachOutNeighbor(a, func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry]) {
		seen = append(seen, edge.EndNode())
	})
	test.That(t, seen, test.ShouldHaveLength, 2)
	test.That(t, seen[0], test.ShouldEqual, b)
	test.That(t, seen[1], test.ShouldEqual, c)
}

func TestPushSuccessorBuildsListLazily(t *testing.T) {
	parent := NewNode(1, []float64{0, 0})
	child := NewNode(2, []float64{1, 1})
	test.That(t, parent.successorList, test.ShouldBeNil)

	back := &backEdge{start: parent, end: child}
	pushSuccessor(parent, back)
	test.That(t, parent.successorList, test.ShouldNotBeNil)
	test.That(t, parent.successorList.Len(), test.ShouldEqual, 1)
}
