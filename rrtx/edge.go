package rrtx

import "context"

// Edge is the abstract trajectory contract between two nodes. Concrete
// Dubins-car kinematics and interpolation live outside this package
// (see package dubins); the core only ever calls through this
// interface, which is the "deliberately out of scope" external
// collaborator boundary.
type Edge interface {
	StartNode() *Node
	EndNode() *Node

	// Dist returns the edge's cost, or +Inf if the edge is invalid
	// (infeasible kinematically or in collision).
	Dist() float64
	SetDist(float64)

	// ValidMove reports kinematic feasibility, independent of collision.
	ValidMove() bool

	// CalculateTrajectory fills in the sampled trajectory used for
	// geometric collision checking and interpolation.
	CalculateTrajectory(ctx context.Context) error

	// CalculateHoverTrajectory produces a zero-motion edge for the time
	// dimension (the node stays in place while time advances).
	CalculateHoverTrajectory(ctx context.Context) error

	// PoseAtDistAlongEdge interpolates a pose at distance d along the
	// edge's trajectory (time-less mode).
	PoseAtDistAlongEdge(d float64) ([]float64, error)

	// PoseAtTimeAlongEdge interpolates a pose at time t along the
	// edge's trajectory (time-aware mode).
	PoseAtTimeAlongEdge(t float64) ([]float64, error)
}

// EdgeFactory builds edges and performs the saturation step that keeps
// every tree extension within delta of its nearest existing node.
type EdgeFactory interface {
	// NewEdge builds an edge from start to end, without yet computing
	// its trajectory.
	NewEdge(cspace *ConfigSpace, start, end *Node) Edge

	// Saturate shortens toward so that the step from point is at most
	// delta, given the (already known) distance between them.
	Saturate(point, toward []float64, delta, distance float64) []float64
}

// CollisionChecker is the consumed collision backend (§6). ConfigSpace
// is the only caller; the planner core never calls it directly.
type CollisionChecker interface {
	PointInCollision(point []float64) bool
	ObstacleIntersectsEdge(obstacle Obstacle, edge Edge) bool
}

// Obstacle is an opaque registry entry; concrete geometry is owned by
// the collision backend (package collisionx), not by this package.
type Obstacle interface {
	ID() string
}
