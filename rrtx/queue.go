package rrtx

import (
	"github.com/dynamicmotion/rrtx/internal/dllist"
	"github.com/dynamicmotion/rrtx/internal/pqueue"
	"github.com/dynamicmotion/rrtx/logging"
)

// Queue is the priority queue driving reduceInconsistency: a min-heap
// of inconsistent nodes ordered by (lmc, treeCost), an orphan stack,
// and the change threshold below which a node's inconsistency is
// considered settled enough to skip a rewire pass.
type Queue struct {
	heap         *pqueue.Heap[*Node]
	orphanStack  *dllist.List[*Node]
	ChangeThresh float64
	Debug        bool
	Logger       *logging.Logger
}

// NewQueue builds an empty queue with the given change threshold.
func NewQueue(changeThresh float64) *Queue {
	return &Queue{
		heap:        pqueue.New[*Node](),
		orphanStack: dllist.New[*Node](),
		ChangeThresh: changeThresh,
		Logger:      logging.NewLogger("rrtx.queue"),
	}
}

// Add pushes node onto the heap (addToHeap in the original).
func (q *Queue) Add(n *Node) { q.heap.Push(n) }

// Marked reports whether node is currently in the heap (markedQ).
func (q *Queue) Marked(n *Node) bool { return q.heap.Contains(n) }

// Update re-sifts node after an external key change (updateHeap).
func (q *Queue) Update(n *Node) { q.heap.Update(n) }

// Remove drops node from the heap if present (removeFromHeap).
func (q *Queue) Remove(n *Node) { q.heap.Remove(n) }

// Top returns the minimum node without removing it.
func (q *Queue) Top() (*Node, bool) { return q.heap.Top() }

// Pop removes and returns the minimum node.
func (q *Queue) Pop() (*Node, bool) { return q.heap.Pop() }

// Len reports the number of nodes currently in the heap.
func (q *Queue) Len() int { return q.heap.Len() }

// VerifyInQueue re-sifts node if already enqueued, else enqueues it
// fresh (verify_in_queue).
func (q *Queue) VerifyInQueue(n *Node) {
	if q.Marked(n) {
		q.Update(n)
	} else {
		q.Add(n)
	}
}

// PushOrphan pushes node onto the orphan stack and marks it, used to
// seed propagateDescendants.
func (q *Queue) PushOrphan(n *Node) {
	if n.inOrphanSet {
		return
	}
	n.inOrphanSet = true
	q.orphanStack.PushFront(n)
}

// OrphanStack exposes the underlying orphan stack for obstacles.go.
func (q *Queue) OrphanStack() *dllist.List[*Node] { return q.orphanStack }

// CheckInvariants scans the heap for nodes that are marked but
// consistent (lmc == treeCost), which should never happen — a debug-
// only invariant scan carried forward from checkHeapForEdgeProblems.
// Gated by q.Debug; returns an *InconsistentGraphError describing the
// first violation found, or nil.
func (q *Queue) CheckInvariants() error {
	if !q.Debug {
		return nil
	}
	for _, n := range q.heap.Items() {
		if n.Consistent() {
			return NewInconsistentGraphError("node marked in queue but already consistent")
		}
		if n.LMC() > n.TreeCost() {
			return NewInconsistentGraphError("node has lmc > treeCost")
		}
	}
	return nil
}
