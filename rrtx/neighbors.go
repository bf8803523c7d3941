package rrtx

import "github.com/dynamicmotion/rrtx/internal/dllist"

// neighborEntry is the payload stored in a node's neighbor lists. Its
// counterpart field plays the role of the paired handles
// (handle_in_start_list / handle_in_end_list) the component design
// describes: rather than stashing the cross-list handle on the edge
// itself, each entry points directly at its mirror entry in the other
// endpoint's list, so culling one side in O(1) lets us remove the other
// side in O(1) too.
type neighborEntry struct {
	edge        Edge
	counterpart *dllist.Element[*neighborEntry]
}

// linkCurrentNeighbors registers edge as a current-out entry on
// edge.StartNode() and the symmetric current-in entry on
// edge.EndNode(), cross-referencing the two handles.
func linkCurrentNeighbors(edge Edge) {
	start := edge.StartNode()
	end := edge.EndNode()
	outEntry := &neighborEntry{edge: edge}
	inEntry := &neighborEntry{edge: edge}
	outElem := start.currentOut.PushFront(outEntry)
	inElem := end.currentIn.PushFront(inEntry)
	outEntry.counterpart = inElem
	inEntry.counterpart = outElem
}

// linkInitialNeighbors registers edge as a permanent initial-out /
// initial-in pair. Initial lists never shrink.
func linkInitialNeighbors(edge Edge) {
	start := edge.StartNode()
	end := edge.EndNode()
	start.initialOut.PushFront(&neighborEntry{edge: edge})
	end.initialIn.PushFront(&neighborEntry{edge: edge})
}

// cullCurrentNeighbors drops every current-out edge on node with
// distance greater than r, symmetrically removing the paired current-in
// entry on the other endpoint. Initial lists are untouched.
func cullCurrentNeighbors(node *Node, r float64) {
	node.currentOut.Each(func(e *dllist.Element[*neighborEntry]) {
		entry := e.Value
		if entry.edge.Dist() > r {
			node.currentOut.Remove(e)
			if entry.counterpart != nil {
				entry.counterpart.Value.edge.EndNode().currentIn.Remove(entry.counterpart)
			}
		}
	})
}

// forEachOutNeighbor walks initial-out then current-out, invoking fn
// with each edge. fn may remove the current element from node's current
// list (via cullCurrentNeighbors or a direct Remove) since dllist.Each
// snapshots the next pointer before the callback runs.
func forEachOutNeighbor(node *Node, fn func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry])) {
	node.initialOut.Each(func(e *dllist.Element[*neighborEntry]) {
		fn(e.Value.edge, false, e)
	})
	node.currentOut.Each(func(e *dllist.Element[*neighborEntry]) {
		fn(e.Value.edge, true, e)
	})
}

// forEachInNeighbor walks initial-in then current-in.
func forEachInNeighbor(node *Node, fn func(edge Edge, isCurrent bool, elem *dllist.Element[*neighborEntry])) {
	node.initialIn.Each(func(e *dllist.Element[*neighborEntry]) {
		fn(e.Value.edge, false, e)
	})
	node.currentIn.Each(func(e *dllist.Element[*neighborEntry]) {
		fn(e.Value.edge, true, e)
	})
}

// pushSuccessor registers edge (always a zero-distance back-edge, see
// makeParentOf) onto parent's successor list and returns the handle the
// child must remember as its successorHandleInParent.
func pushSuccessor(parent *Node, edge Edge) *dllist.Element[Edge] {
	if parent.successorList == nil {
		parent.successorList = dllist.New[Edge]()
	}
	return parent.successorList.PushFront(edge)
}
