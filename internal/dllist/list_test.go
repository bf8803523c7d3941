package dllist

import (
	"testing"

	"go.viam.com/test"
)

func TestPushPopOrder(t *testing.T) {
	l := New[int]()
	test.That(t, l.Empty(), test.ShouldBeTrue)

	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	test.That(t, l.Len(), test.ShouldEqual, 3)

	v, ok := l.PopFront()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 3)

	v, ok = l.PopFront()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 2)

	v, ok = l.PopFront()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 1)

	_, ok = l.PopFront()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRemoveMiddle(t *testing.T) {
	l := New[string]()
	ea := l.PushFront("a")
	eb := l.PushFront("b")
	ec := l.PushFront("c")

	l.Remove(eb)
	test.That(t, l.Len(), test.ShouldEqual, 2)

	var got []string
	l.Each(func(e *Element[string]) { got = append(got, e.Value) })
	test.That(t, got, test.ShouldResemble, []string{"c", "a"})

	// Removing again is a no-op.
	l.Remove(eb)
	test.That(t, l.Len(), test.ShouldEqual, 2)

	l.Remove(ec)
	l.Remove(ea)
	test.That(t, l.Empty(), test.ShouldBeTrue)
}

func TestRemoveDuringEach(t *testing.T) {
	l := New[int]()
	es := make([]*Element[int], 0, 5)
	for i := 0; i < 5; i++ {
		es = append(es, l.PushFront(i))
	}

	// Remove every even-valued element while iterating.
	l.Each(func(e *Element[int]) {
		if e.Value%2 == 0 {
			l.Remove(e)
		}
	})
	test.That(t, l.Len(), test.ShouldEqual, 2)

	var got []int
	l.Each(func(e *Element[int]) { got = append(got, e.Value) })
	test.That(t, got, test.ShouldResemble, []int{3, 1})
	_ = es
}

func TestEachBackToFront(t *testing.T) {
	l := New[int]()
	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)

	var got []int
	l.EachBackToFront(func(e *Element[int]) { got = append(got, e.Value) })
	test.That(t, got, test.ShouldResemble, []int{1, 2, 3})
}

func TestPushFrontKeyed(t *testing.T) {
	l := New[string]()
	l.PushFrontKeyed("x", 4.5)
	test.That(t, l.Front().Key, test.ShouldEqual, 4.5)
}

func TestContains(t *testing.T) {
	l := New[int]()
	l.PushFront(10)
	l.PushFront(20)
	test.That(t, Contains(l, 20), test.ShouldBeTrue)
	test.That(t, Contains(l, 30), test.ShouldBeFalse)
}

func TestEndSentinel(t *testing.T) {
	l := New[int]()
	test.That(t, l.Front(), test.ShouldEqual, l.End())
	e := l.PushFront(1)
	test.That(t, e.Child(), test.ShouldEqual, l.End())
}
