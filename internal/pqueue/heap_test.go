package pqueue

import (
	"testing"

	"go.viam.com/test"
)

type item struct {
	name           string
	primary, extra float64
}

func (it *item) Key() (float64, float64) { return it.primary, it.extra }

func TestPushPopOrder(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 3}
	b := &item{name: "b", primary: 1}
	c := &item{name: "c", primary: 2}
	h.Push(a)
	h.Push(b)
	h.Push(c)
	test.That(t, h.Len(), test.ShouldEqual, 3)

	top, ok := h.Pop()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, top.name, test.ShouldEqual, "b")

	top, ok = h.Pop()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, top.name, test.ShouldEqual, "c")

	top, ok = h.Pop()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, top.name, test.ShouldEqual, "a")

	_, ok = h.Pop()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSecondaryKeyBreaksTies(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 1, extra: 5}
	b := &item{name: "b", primary: 1, extra: 2}
	h.Push(a)
	h.Push(b)

	top, _ := h.Pop()
	test.That(t, top.name, test.ShouldEqual, "b")
}

func TestUpdateReordersAfterKeyChange(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 1}
	b := &item{name: "b", primary: 2}
	h.Push(a)
	h.Push(b)

	a.primary = 5
	h.Update(a)

	top, _ := h.Top()
	test.That(t, top.name, test.ShouldEqual, "b")
}

func TestRemoveFromMiddle(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 1}
	b := &item{name: "b", primary: 2}
	c := &item{name: "c", primary: 3}
	h.Push(a)
	h.Push(b)
	h.Push(c)

	h.Remove(b)
	test.That(t, h.Len(), test.ShouldEqual, 2)
	test.That(t, h.Contains(b), test.ShouldBeFalse)

	top, _ := h.Pop()
	test.That(t, top.name, test.ShouldEqual, "a")
	top, _ = h.Pop()
	test.That(t, top.name, test.ShouldEqual, "c")
}

func TestRemoveNotPresentIsNoop(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 1}
	h.Remove(a)
	test.That(t, h.Len(), test.ShouldEqual, 0)
}

func TestContains(t *testing.T) {
	h := New[*item]()
	a := &item{name: "a", primary: 1}
	test.That(t, h.Contains(a), test.ShouldBeFalse)
	h.Push(a)
	test.That(t, h.Contains(a), test.ShouldBeTrue)
}

func TestHeapPropertyUnderRandomOps(t *testing.T) {
	h := New[*item]()
	vals := []float64{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}
	items := make([]*item, 0, len(vals))
	for i, v := range vals {
		it := &item{name: string(rune('a' + i)), primary: v}
		items = append(items, it)
		h.Push(it)
	}
	h.Remove(items[2])
	items[5].primary = -1
	h.Update(items[5])

	var got []float64
	for h.Len() > 0 {
		top, _ := h.Pop()
		got = append(got, top.primary)
	}
	for i := 1; i < len(got); i++ {
		test.That(t, got[i-1], test.ShouldBeLessThanOrEqualTo, got[i])
	}
}
