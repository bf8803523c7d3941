package collisionx

import (
	"context"
	"math"

	"testing"

	"github.com/dynamicmotion/rrtx/rrtx"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// straightEdge is a minimal rrtx.Edge double tracing a straight line
// between two poses, for exercising ObstacleIntersectsEdge without
// depending on the dubins package.
type straightEdge struct {
	start, end *rrtx.Node
	dist       float64
	valid      bool
}

func (e *straightEdge) StartNode() *rrtx.Node                          { return e.start }
func (e *straightEdge) EndNode() *rrtx.Node                            { return e.end }
func (e *straightEdge) Dist() float64                                  { return e.dist }
func (e *straightEdge) SetDist(v float64)                              { e.dist = v }
func (e *straightEdge) ValidMove() bool                                { return e.valid }
func (e *straightEdge) CalculateTrajectory(ctx context.Context) error  { return nil }
func (e *straightEdge) CalculateHoverTrajectory(ctx context.Context) error { return nil }
func (e *straightEdge) PoseAtTimeAlongEdge(t float64) ([]float64, error) {
	return e.PoseAtDistAlongEdge(t)
}

func (e *straightEdge) PoseAtDistAlongEdge(d float64) ([]float64, error) {
	s, en := e.start.Position(), e.end.Position()
	if e.dist == 0 {
		return []float64{s[0], s[1]}, nil
	}
	t := d / e.dist
	return []float64{s[0] + t*(en[0]-s[0]), s[1] + t*(en[1]-s[1])}, nil
}

func newStraightEdge(start, end []float64) *straightEdge {
	sn := rrtx.NewNode(0, start)
	en := rrtx.NewNode(1, end)
	dx, dy := end[0]-start[0], end[1]-start[1]
	return &straightEdge{start: sn, end: en, dist: math.Hypot(dx, dy), valid: true}
}

func TestPointInCollisionDetectsCircleAndBox(t *testing.T) {
	c := NewChecker()
	c.AddCircle(&Circle{IDValue: "c1", Center: r3.Vector{X: 5, Y: 5}, Radius: 1})
	c.AddBox(&Box{IDValue: "b1", Min: r3.Vector{X: 10, Y: 10}, Max: r3.Vector{X: 12, Y: 12}})

	test.That(t, c.PointInCollision([]float64{5, 5}), test.ShouldBeTrue)
	test.That(t, c.PointInCollision([]float64{11, 11}), test.ShouldBeTrue)
	test.That(t, c.PointInCollision([]float64{0, 0}), test.ShouldBeFalse)
}

func TestObstacleIntersectsEdgeCatchesMidSegmentCircle(t *testing.T) {
	c := NewChecker()
	circle := c.AddCircle(&Circle{IDValue: "mid", Center: r3.Vector{X: 5, Y: 0}, Radius: 1})

	edge := newStraightEdge([]float64{0, 0}, []float64{10, 0})
	test.That(t, c.ObstacleIntersectsEdge(circle, edge), test.ShouldBeTrue)
}

func TestObstacleIntersectsEdgeMissesWhenClear(t *testing.T) {
	c := NewChecker()
	circle := c.AddCircle(&Circle{IDValue: "far", Center: r3.Vector{X: 50, Y: 50}, Radius: 1})

	edge := newStraightEdge([]float64{0, 0}, []float64{10, 0})
	test.That(t, c.ObstacleIntersectsEdge(circle, edge), test.ShouldBeFalse)
}

func TestObstacleIntersectsEdgeIgnoresInvalidEdge(t *testing.T) {
	c := NewChecker()
	circle := c.AddCircle(&Circle{IDValue: "mid", Center: r3.Vector{X: 5, Y: 0}, Radius: 1})

	edge := newStraightEdge([]float64{0, 0}, []float64{10, 0})
	edge.valid = false
	test.That(t, c.ObstacleIntersectsEdge(circle, edge), test.ShouldBeFalse)
}

func TestObstacleIntersectsEdgeUnknownShapeNeverCollides(t *testing.T) {
	c := NewChecker()
	edge := newStraightEdge([]float64{0, 0}, []float64{10, 0})
	test.That(t, c.ObstacleIntersectsEdge(opaqueObstacle{}, edge), test.ShouldBeFalse)
}

type opaqueObstacle struct{}

func (opaqueObstacle) ID() string { return "opaque" }
