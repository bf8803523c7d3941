// Package pqueue implements the binary min-heap used to drive
// reduceInconsistency: nodes are ordered by the lexicographic key pair
// (lmc, treeCost), same two-level comparator as the original BinaryHeap,
// and each element remembers its own slot so updateHeap/removeFromHeap
// run in O(log n) instead of requiring a linear scan to find the node
// first (see drrt.cpp's addToHeap/updateHeap/removeFromHeap call sites).
package pqueue

// Keyer is implemented by anything stored in the heap. Key returns the
// two-level ordering key (lmc, treeCost); Theta*'s grid search, which
// shares this heap implementation, keys on (g+h, g), so ties in f are
// broken by the smaller g.
type Keyer interface {
	comparable
	Key() (primary, secondary float64)
}

// Heap is a binary min-heap over T, keyed via Keyer. The zero value is
// not usable; construct with New. T is expected to be a pointer type so
// that it works directly as the index table's map key (pointer
// identity), the same role KDTreeNode's heapIndex field plays in the
// original.
type Heap[T Keyer] struct {
	items []T
	index map[T]int
}

// New returns an empty heap.
func New[T Keyer]() *Heap[T] {
	return &Heap[T]{index: make(map[T]int)}
}

// Len reports the number of elements in the heap.
func (h *Heap[T]) Len() int { return len(h.items) }

func less[T Keyer](a, b T) bool {
	ap, as := a.Key()
	bp, bs := b.Key()
	if ap != bp {
		return ap < bp
	}
	return as < bs
}

func (h *Heap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i]] = i
	h.index[h.items[j]] = j
}

// Push adds an item to the heap (addToHeap in the original).
func (h *Heap[T]) Push(v T) {
	h.items = append(h.items, v)
	i := len(h.items) - 1
	h.index[v] = i
	h.siftUp(i)
}

// Contains reports whether v currently has a slot in the heap
// (markedQ in the original).
func (h *Heap[T]) Contains(v T) bool {
	_, ok := h.index[v]
	return ok
}

// Update re-establishes heap order for v after its key has changed in
// place (updateHeap in the original). It is a no-op if v is not in the
// heap.
func (h *Heap[T]) Update(v T) {
	i, ok := h.index[v]
	if !ok {
		return
	}
	h.siftUp(i)
	h.siftDown(i)
}

// Remove removes v from the heap (removeFromHeap in the original). It is
// a no-op if v is not in the heap.
func (h *Heap[T]) Remove(v T) {
	i, ok := h.index[v]
	if !ok {
		return
	}
	last := len(h.items) - 1
	h.swap(i, last)
	h.items = h.items[:last]
	delete(h.index, v)
	if i < len(h.items) {
		h.siftUp(i)
		h.siftDown(i)
	}
}

// Items returns a snapshot slice of every element currently in the
// heap, in internal array order (not sorted). Used only by debug
// invariant scans — callers must not mutate keys through it without
// calling Update.
func (h *Heap[T]) Items() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

// Top returns the minimum element without removing it (topHeap in the
// original). ok is false if the heap is empty.
func (h *Heap[T]) Top() (v T, ok bool) {
	if len(h.items) == 0 {
		return v, false
	}
	return h.items[0], true
}

// Pop removes and returns the minimum element (popHeap in the original).
func (h *Heap[T]) Pop() (v T, ok bool) {
	if len(h.items) == 0 {
		return v, false
	}
	top := h.items[0]
	h.Remove(top)
	return top, true
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && less(h.items[l], h.items[smallest]) {
			smallest = l
		}
		if r < n && less(h.items[r], h.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
