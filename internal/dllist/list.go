// Package dllist implements the intrusive doubly-linked list used
// throughout the planner: neighbor lists, successor lists, range-query
// results, the sample stack, and the orphan stack all share this single
// generic implementation, in place of a JList reused for every one of
// those roles via a "use nodes vs. use edges" flag.
//
// Unlike that C++ original, payloads here are ordinary Go values held by a
// generic Element; the sentinel-self-loop end-of-list trick is kept
// because callers (notably the neighbor-iterator in package rrtx) depend
// on comparing an Element's Child to itself to detect the list boundary.
package dllist

// Element is the handle returned by Push and accepted by Remove. Callers
// hold on to it to get O(1) removal from the middle of the list.
type Element[T any] struct {
	Value T
	Key   float64

	parent *Element[T]
	child  *Element[T]
	list   *List[T]
}

// Child exposes the next element for callers that need to walk the list
// manually (the neighbor-graph iterator in rrtx does this so it can
// snapshot the next pointer before a concurrent cull removes the current
// one). The sentinel property end-of-list == e.Child() == e holds for the
// list's own bound element, never for a real pushed element.
func (e *Element[T]) Child() *Element[T] { return e.child }

// Parent exposes the previous element.
func (e *Element[T]) Parent() *Element[T] { return e.parent }

// Detach removes the element from whichever list it currently belongs
// to, without the caller needing a reference to that list (used by
// makeParentOf, which only has the child's remembered handle, not the
// old parent's successor-list object itself).
func (e *Element[T]) Detach() {
	if e.list == nil {
		return
	}
	e.list.remove(e)
}

// List is a sentinel-bounded doubly linked list, LIFO on Push/Pop (new
// elements go to the front, PopFront removes the front).
type List[T any] struct {
	bound  *Element[T] // self-referential sentinel
	front  *Element[T]
	back   *Element[T]
	length int
}

// New returns an empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	sentinel := &Element[T]{list: l}
	sentinel.parent = sentinel
	sentinel.child = sentinel
	l.bound = sentinel
	l.front = sentinel
	l.back = sentinel
	return l
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.length }

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.length == 0 }

// Front returns the sentinel-bounded first element; callers must check
// Empty first, or compare the result against End().
func (l *List[T]) Front() *Element[T] { return l.front }

// Back returns the last real element, or the sentinel if empty.
func (l *List[T]) Back() *Element[T] { return l.back }

// End returns the sentinel element. e == End() (equivalently e.Child()
// == e) marks the end of an iteration.
func (l *List[T]) End() *Element[T] { return l.bound }

// PushFront pushes a value to the front of the list in O(1) and returns
// the handle needed for later O(1) removal.
func (l *List[T]) PushFront(v T) *Element[T] {
	return l.pushFrontKeyed(v, 0)
}

// PushFrontKeyed is PushFront but also records a caller-defined key on
// the element, used by range-query result lists to carry the computed
// distance alongside the node (mirrors JlistPush(node, key) in the
// original).
func (l *List[T]) PushFrontKeyed(v T, key float64) *Element[T] {
	return l.pushFrontKeyed(v, key)
}

func (l *List[T]) pushFrontKeyed(v T, key float64) *Element[T] {
	e := &Element[T]{Value: v, Key: key, list: l}
	e.parent = l.front.parent
	e.child = l.front
	if l.length == 0 {
		l.back = e
	} else {
		l.front.parent = e
	}
	l.front = e
	l.length++
	return e
}

// PopFront removes and returns the front value. The second return is
// false if the list was empty.
func (l *List[T]) PopFront() (T, bool) {
	var zero T
	if l.length == 0 {
		return zero, false
	}
	e := l.front
	l.remove(e)
	return e.Value, true
}

// Remove deletes the element identified by the handle in O(1). Removing
// an element not currently in any list (or already removed) is a no-op,
// matching JlistRemove's "already gone" tolerance.
func (l *List[T]) Remove(e *Element[T]) {
	if e == nil || e.list != l {
		return
	}
	l.remove(e)
}

func (l *List[T]) remove(e *Element[T]) {
	if l.front == e {
		l.front = e.child
	}
	if l.back == e {
		l.back = e.parent
	}
	next := e.child
	prev := e.parent
	if l.length > 1 {
		if prev != prev.child {
			prev.child = next
		}
		if next != next.parent {
			next.parent = prev
		}
	}
	l.length--
	if l.length == 0 {
		l.front = l.bound
		l.back = l.bound
	}
	// Detach: a removed element becomes its own sentinel so stray
	// iteration against a stale handle terminates immediately instead of
	// walking back into the live list.
	e.parent = e
	e.child = e
	e.list = nil
}

// Contains does an O(n) linear scan for a value; only used by Theta*'s
// closed-set membership test, same as the original (JlistContains).
func Contains[T comparable](l *List[T], v T) bool {
	for e := l.front; e != l.bound; e = e.child {
		if e.Value == v {
			return true
		}
	}
	return false
}

// Each walks the list front-to-back, snapshotting the next pointer
// before calling fn so fn may safely remove the current element (e.g.
// cullCurrentNeighbors removing entries while iterating).
func (l *List[T]) Each(fn func(e *Element[T])) {
	e := l.front
	for e != l.bound {
		next := e.child
		fn(e)
		e = next
	}
}

// EachBackToFront walks the list back-to-front, used by
// propagateDescendants' second pass over the orphan stack. It
// snapshots each element's parent before calling fn, so elements
// pushed to the front during the walk are not visited.
func (l *List[T]) EachBackToFront(fn func(e *Element[T])) {
	e := l.back
	for e != l.bound {
		prev := e.parent
		fn(e)
		e = prev
	}
}
