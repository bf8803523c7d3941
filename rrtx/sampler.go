package rrtx

import (
	"math"
	"math/rand"
	"time"
)

// SamplerPolicy selects which of the five sampling strategies a Sampler
// runs.
type SamplerPolicy int

const (
	// PolicyDefault samples uniformly over [lower, upper] with the
	// heading dimension wrapped into [-pi, pi].
	PolicyDefault SamplerPolicy = iota
	// PolicyGoalBiased returns the goal with probability GoalProb, else
	// falls back to PolicyDefault.
	PolicyGoalBiased
	// PolicyCountBased emits a pinned point every ItsUntilSample
	// iterations, else falls back to PolicyGoalBiased.
	PolicyCountBased
	// PolicyTimeTriggered emits a pinned point after WaitTime has
	// elapsed, else falls back to PolicyGoalBiased.
	PolicyTimeTriggered
	// PolicyStackFirst pops from the sample stack while nonempty, else
	// falls back to PolicyGoalBiased.
	PolicyStackFirst
)

// Sampler draws candidate node positions according to a configured
// policy.
type Sampler struct {
	CSpace *ConfigSpace
	Policy SamplerPolicy
	Rand   *rand.Rand

	ItsUntilSample int
	ItsSamplePoint []float64
	itCount        int

	WaitTime       time.Duration
	TimeSamplePoint []float64
	start          time.Time

	// TimeAware clamps the time coordinate (dimension 3) of stack-first
	// samples to [MinReachTime, MoveGoal.time].
	TimeAware    bool
	MinReachTime float64
}

// NewSampler builds a sampler over cspace with the given policy, seeded
// deterministically from seed (callers pass a fixed seed in tests for
// reproducibility).
func NewSampler(cspace *ConfigSpace, policy SamplerPolicy, seed int64) *Sampler {
	return &Sampler{
		CSpace: cspace,
		Policy: policy,
		Rand:   rand.New(rand.NewSource(seed)),
		start:  time.Now(),
	}
}

// Sample draws the next candidate position per the configured policy.
func (s *Sampler) Sample() []float64 {
	switch s.Policy {
	case PolicyStackFirst:
		if p, ok := s.CSpace.PopSample(); ok {
			if s.TimeAware && s.CSpace.Dim == 4 {
				p = s.clampTime(p)
			}
			return p
		}
		return s.goalBiased()
	case PolicyTimeTriggered:
		if time.Since(s.start) >= s.WaitTime && s.TimeSamplePoint != nil {
			return append([]float64(nil), s.TimeSamplePoint...)
		}
		return s.goalBiased()
	case PolicyCountBased:
		s.itCount++
		if s.ItsUntilSample > 0 && s.itCount%s.ItsUntilSample == 0 && s.ItsSamplePoint != nil {
			return append([]float64(nil), s.ItsSamplePoint...)
		}
		return s.goalBiased()
	case PolicyGoalBiased:
		return s.goalBiased()
	default:
		return s.uniform()
	}
}

func (s *Sampler) clampTime(p []float64) []float64 {
	out := append([]float64(nil), p...)
	maxT := math.Inf(1)
	if s.CSpace.MoveGoal != nil {
		maxT = s.CSpace.MoveGoal.Position()[3]
	}
	if out[3] < s.MinReachTime {
		out[3] = s.MinReachTime
	}
	if out[3] > maxT {
		out[3] = maxT
	}
	return out
}

func (s *Sampler) goalBiased() []float64 {
	if s.CSpace.Goal != nil && s.Rand.Float64() < s.CSpace.GoalProb {
		return append([]float64(nil), s.CSpace.Goal.Position()...)
	}
	return s.uniform()
}

func (s *Sampler) uniform() []float64 {
	p := make([]float64, s.CSpace.Dim)
	for d := 0; d < s.CSpace.Dim; d++ {
		lo, hi := s.CSpace.LowerBounds[d], s.CSpace.UpperBounds[d]
		p[d] = lo + s.Rand.Float64()*(hi-lo)
	}
	if s.CSpace.Dim >= 3 {
		p[2] = wrapToPi(p[2])
	}
	return p
}

func wrapToPi(theta float64) float64 {
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}
