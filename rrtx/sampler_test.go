package rrtx

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestSamplerDefaultStaysWithinBounds(t *testing.T) {
	cspace := NewConfigSpace(3, []float64{0, 0, -10}, []float64{5, 5, 10}, noCollision{})
	s := NewSampler(cspace, PolicyDefault, 1)
	for i := 0; i < 200; i++ {
		p := s.Sample()
		test.That(t, p[0], test.ShouldBeBetweenOrEqual, 0, 5)
		test.That(t, p[1], test.ShouldBeBetweenOrEqual, 0, 5)
		test.That(t, p[2], test.ShouldBeBetweenOrEqual, -3.1415926536, 3.1415926536)
	}
}

func TestSamplerGoalBiasedReturnsGoalWhenProbIsOne(t *testing.T) {
	cspace := NewConfigSpace(2, []float64{0, 0}, []float64{5, 5}, noCollision{})
	cspace.Goal = NewNode(0, []float64{4, 4})
	cspace.GoalProb = 1
	s := NewSampler(cspace, PolicyGoalBiased, 1)
	p := s.Sample()
	test.That(t, p, test.ShouldResemble, []float64{4, 4})
}

func TestSamplerCountBasedEmitsPinnedPointOnSchedule(t *testing.T) {
	cspace := NewConfigSpace(2, []float64{0, 0}, []float64{5, 5}, noCollision{})
	cspace.GoalProb = 0
	s := NewSampler(cspace, PolicyCountBased, 1)
	s.ItsUntilSample = 3
	s.ItsSamplePoint = []float64{1, 1}

	var hits int
	for i := 0; i < 9; i++ {
		p := s.Sample()
		if p[0] == 1 && p[1] == 1 {
			hits++
		}
	}
	test.That(t, hits, test.ShouldEqual, 3)
}

func TestSamplerStackFirstDrainsLIFOThenFallsBack(t *testing.T) {
	cspace := NewConfigSpace(2, []float64{0, 0}, []float64{5, 5}, noCollision{})
	cspace.GoalProb = 0
	cspace.PushSample([]float64{1, 1})
	cspace.PushSample([]float64{2, 2})

	s := NewSampler(cspace, PolicyStackFirst, 1)
	first := s.Sample()
	second := s.Sample()
	test.That(t, first, test.ShouldResemble, []float64{2, 2})
	test.That(t, second, test.ShouldResemble, []float64{1, 1})

	// Stack now empty; falls back to goalBiased -> uniform.
	third := s.Sample()
	test.That(t, third[0], test.ShouldBeBetweenOrEqual, 0, 5)
}

func TestSamplerTimeTriggeredWaitsForElapsed(t *testing.T) {
	cspace := NewConfigSpace(2, []float64{0, 0}, []float64{5, 5}, noCollision{})
	cspace.GoalProb = 0
	s := NewSampler(cspace, PolicyTimeTriggered, 1)
	s.WaitTime = 10 * time.Millisecond
	s.TimeSamplePoint = []float64{3, 3}

	early := s.Sample()
	test.That(t, early, test.ShouldNotResemble, []float64{3, 3})

	time.Sleep(15 * time.Millisecond)
	late := s.Sample()
	test.That(t, late, test.ShouldResemble, []float64{3, 3})
}

func TestWrapToPiKeepsRange(t *testing.T) {
	test.That(t, wrapToPi(0), test.ShouldEqual, 0)
	test.That(t, wrapToPi(3*3.1415926536), test.ShouldBeBetweenOrEqual, -3.1415926536, 3.1415926536)
}
