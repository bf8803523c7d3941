package rrtx

import (
	"context"
	"math"
)

// straightEdge is a minimal Edge implementation used only by this
// package's own tests: a straight-line segment with no Dubins
// kinematics. It lets core.go's algorithms (extend, recalculateLMC,
// rewire, reduceInconsistency, propagateDescendants) be exercised
// end-to-end without depending on the concrete dubins package, the
// same way a fake node stands in for a real kinematic frame when
// testing planner graph algorithms in isolation.
type straightEdge struct {
	start, end *Node
	dist       float64
	valid      bool
}

func newStraightEdge(cspace *ConfigSpace, start, end *Node) *straightEdge {
	return &straightEdge{start: start, end: end, valid: true}
}

func (e *straightEdge) StartNode() *Node { return e.start }
func (e *straightEdge) EndNode() *Node   { return e.end }
func (e *straightEdge) Dist() float64    { return e.dist }
func (e *straightEdge) SetDist(d float64) { e.dist = d }
func (e *straightEdge) ValidMove() bool  { return e.valid }

func (e *straightEdge) CalculateTrajectory(ctx context.Context) error {
	sum := 0.0
	a, b := e.start.Position(), e.end.Position()
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	e.dist = math.Sqrt(sum)
	return nil
}

func (e *straightEdge) CalculateHoverTrajectory(ctx context.Context) error {
	e.dist = 0
	return nil
}

func (e *straightEdge) PoseAtDistAlongEdge(d float64) ([]float64, error) {
	a, b := e.start.Position(), e.end.Position()
	if e.dist == 0 {
		return append([]float64(nil), a...), nil
	}
	t := d / e.dist
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + t*(b[i]-a[i])
	}
	return out, nil
}

func (e *straightEdge) PoseAtTimeAlongEdge(t float64) ([]float64, error) {
	return e.PoseAtDistAlongEdge(t)
}

type straightFactory struct{}

func (straightFactory) NewEdge(cspace *ConfigSpace, start, end *Node) Edge {
	return newStraightEdge(cspace, start, end)
}

func (straightFactory) Saturate(point, toward []float64, delta, distance float64) []float64 {
	if distance <= delta {
		return append([]float64(nil), toward...)
	}
	t := delta / distance
	out := make([]float64, len(point))
	for i := range point {
		out[i] = point[i] + t*(toward[i]-point[i])
	}
	return out
}

// noCollision never reports a collision; used by tests that don't
// exercise the obstacle registry.
type noCollision struct{}

func (noCollision) PointInCollision(point []float64) bool                  { return false }
func (noCollision) ObstacleIntersectsEdge(o Obstacle, edge Edge) bool { return false }

// circleObstacle is a minimal Obstacle + CollisionChecker test double:
// a disc in the first two dimensions.
type circleObstacle struct {
	id     string
	center []float64
	radius float64
}

func (c *circleObstacle) ID() string { return c.id }

type circleChecker struct {
	obstacles []*circleObstacle
}

func (c *circleChecker) PointInCollision(point []float64) bool {
	for _, o := range c.obstacles {
		sum := 0.0
		for i := 0; i < 2; i++ {
			d := point[i] - o.center[i]
			sum += d * d
		}
		if math.Sqrt(sum) <= o.radius {
			return true
		}
	}
	return false
}

func (c *circleChecker) ObstacleIntersectsEdge(obstacle Obstacle, edge Edge) bool {
	o, ok := obstacle.(*circleObstacle)
	if !ok {
		return false
	}
	a, b := edge.StartNode().Position(), edge.EndNode().Position()
	const steps = 10
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		p := make([]float64, len(a))
		for d := range a {
			p[d] = a[d] + t*(b[d]-a[d])
		}
		sum := 0.0
		for d := 0; d < 2; d++ {
			dd := p[d] - o.center[d]
			sum += dd * dd
		}
		if math.Sqrt(sum) <= o.radius {
			return true
		}
	}
	return false
}
