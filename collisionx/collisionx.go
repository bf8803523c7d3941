// Package collisionx implements the concrete collision-checking
// backend consumed through rrtx.CollisionChecker: circle and
// axis-aligned box obstacles in the 2D plane, checked by sampling an
// edge's trajectory at fixed arclength resolution (the same
// line-sweep approach ConfigSpace.LineCheck uses for Theta*'s
// grid queries, generalized here to the planner's actual Edge type).
package collisionx

import (
	"github.com/dynamicmotion/rrtx/rrtx"
	"github.com/golang/geo/r3"
)

// Circle is a disc obstacle in the XY plane.
type Circle struct {
	IDValue string
	Center  r3.Vector
	Radius  float64
}

func (c *Circle) ID() string { return c.IDValue }

func (c *Circle) containsPoint(p []float64) bool {
	dx := p[0] - c.Center.X
	dy := p[1] - c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Box is an axis-aligned rectangular obstacle in the XY plane.
type Box struct {
	IDValue    string
	Min, Max   r3.Vector
}

func (b *Box) ID() string { return b.IDValue }

func (b *Box) containsPoint(p []float64) bool {
	return p[0] >= b.Min.X && p[0] <= b.Max.X && p[1] >= b.Min.Y && p[1] <= b.Max.Y
}

var _ rrtx.Obstacle = (*Circle)(nil)
var _ rrtx.Obstacle = (*Box)(nil)

// shapeChecker is implemented by every obstacle geometry this package
// knows how to test a point against.
type shapeChecker interface {
	containsPoint(p []float64) bool
}

// Checker is the concrete rrtx.CollisionChecker backend: a flat list of
// shapes (each independently addable), plus the along-edge sample
// resolution used for sweeping.
type Checker struct {
	Shapes       []shapeChecker
	SampleCount  int // number of equal intervals an edge is split into; both endpoints are tested
}

var _ rrtx.CollisionChecker = (*Checker)(nil)

// NewChecker returns a Checker with a reasonable default sample count.
func NewChecker() *Checker {
	return &Checker{SampleCount: 10}
}

// AddCircle appends a circle obstacle and returns it for registration
// with the config space's obstacle registry.
func (c *Checker) AddCircle(o *Circle) *Circle {
	c.Shapes = append(c.Shapes, o)
	return o
}

// AddBox appends a box obstacle and returns it for registration.
func (c *Checker) AddBox(o *Box) *Box {
	c.Shapes = append(c.Shapes, o)
	return o
}

// PointInCollision reports whether point lies inside any registered
// shape.
func (c *Checker) PointInCollision(point []float64) bool {
	for _, s := range c.Shapes {
		if s.containsPoint(point) {
			return true
		}
	}
	return false
}

// ObstacleIntersectsEdge samples edge's trajectory at SampleCount+1
// evenly spaced arclengths (both endpoints included) and reports whether
// any sample lies inside obstacle. obstacle must be one of this
// package's shapes; any other Obstacle implementation never collides,
// since this checker has no geometry for it.
func (c *Checker) ObstacleIntersectsEdge(obstacle rrtx.Obstacle, edge rrtx.Edge) bool {
	shape, ok := obstacle.(shapeChecker)
	if !ok {
		return false
	}
	if !edge.ValidMove() {
		return false
	}
	total := edge.Dist()
	if total <= 0 {
		pose, err := edge.PoseAtDistAlongEdge(0)
		return err == nil && shape.containsPoint(pose)
	}
	steps := c.SampleCount
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		d := total * float64(i) / float64(steps)
		pose, err := edge.PoseAtDistAlongEdge(d)
		if err != nil {
			continue
		}
		if shape.containsPoint(pose) {
			return true
		}
	}
	return false
}
