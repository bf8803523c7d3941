package rrtx

import (
	"context"
	"math"
	"sync"

	"github.com/dynamicmotion/rrtx/logging"
	"github.com/dynamicmotion/rrtx/spatialidx"
)

// RobotData holds the robot's pose and the bookkeeping needed to
// advance it one time-slice at a time along the tree's parent
// pointers. robotMutex guards the pose fields (and, in SeedMoveTarget,
// the initial move target); it is taken by Pose, SeedMoveTarget and
// MoveRobot's pose update. The robot never touches tree topology.
type RobotData struct {
	robotMutex sync.Mutex

	pose     []float64
	nextPose []float64

	nextMoveTarget *Node
	edge           Edge

	distAlongEdge float64
	timeAlongEdge float64

	moving             bool
	currentMoveInvalid bool

	localPath [][]float64
	movePath  [][]float64

	Logger *logging.Logger
}

// NewRobotData constructs a RobotData starting at pose.
func NewRobotData(pose []float64) *RobotData {
	return &RobotData{
		pose:   append([]float64(nil), pose...),
		Logger: logging.NewLogger("rrtx.robot"),
	}
}

// Pose returns a copy of the robot's current pose, under the mutex.
func (r *RobotData) Pose() []float64 {
	r.robotMutex.Lock()
	defer r.robotMutex.Unlock()
	return append([]float64(nil), r.pose...)
}

// NextMoveTarget implements the RobotTarget interface consumed by
// PropagateDescendants.
func (r *RobotData) NextMoveTarget() *Node { return r.nextMoveTarget }

// SeedMoveTarget aims the robot at target before its first move step.
// MoveRobot only assigns nextMoveTarget itself once the robot already
// has a parent-chain edge to follow (robot.go's first-move branch, hit
// when moveGoal.ParentUsed() is true); callers must seed this once,
// up front, at the root so that first call has somewhere to aim.
func (r *RobotData) SeedMoveTarget(target *Node) {
	r.robotMutex.Lock()
	defer r.robotMutex.Unlock()
	r.nextMoveTarget = target
}

// InvalidateCurrentMove implements the RobotTarget interface.
func (r *RobotData) InvalidateCurrentMove() { r.currentMoveInvalid = true }

// LocalPath returns the most recent slice's traversed points.
func (r *RobotData) LocalPath() [][]float64 { return r.localPath }

// MovePath returns the accumulated path the robot has followed so far.
func (r *RobotData) MovePath() [][]float64 { return r.movePath }

// DistanceToRoot returns the Euclidean distance from the robot's
// current pose to root's position, ignoring wrap (used by the main
// loop's cancellation check against RobotRadius).
func (r *RobotData) DistanceToRoot(root *Node) float64 {
	pose := r.Pose()
	sum := 0.0
	for i := range pose {
		if i < len(root.Position()) {
			d := pose[i] - root.Position()[i]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// MoveRobot implements move_robot: advances the robot one time-slice
// along the tree's parent-pointer chain, re-targeting via
// FindNewTarget if the current move was invalidated, and recording
// every node traversed into robot.localPath.
func (p *Planner) MoveRobot(ctx context.Context, sliceTime, rBall float64, r *RobotData, spaceHasTime bool) error {
	if r.moving {
		r.robotMutex.Lock()
		r.pose = r.nextPose
		r.robotMutex.Unlock()
		if len(r.localPath) > 1 {
			r.movePath = append(r.movePath, r.localPath[:len(r.localPath)-1]...)
		}
	} else {
		r.moving = true
		moveGoal := p.CSpace.MoveGoal
		if !moveGoal.parentUsed {
			r.currentMoveInvalid = true
		} else {
			r.nextMoveTarget = moveGoal
			r.edge = moveGoal.parentEdge
			r.distAlongEdge = 0
			r.timeAlongEdge = 0
		}
	}

	if r.currentMoveInvalid {
		r.Logger.Debugw("move target invalidated, searching for replacement", "cause", ErrMoveTargetInvalidated)
		if err := p.FindNewTarget(ctx, r, rBall); err != nil {
			return err
		}
	} else {
		old := p.CSpace.MoveGoal
		if old != nil {
			old.SetIsMoveGoal(false)
		}
		p.CSpace.MoveGoal = r.nextMoveTarget
		r.nextMoveTarget.SetIsMoveGoal(true)
	}

	if !spaceHasTime {
		return p.advanceByDistance(ctx, sliceTime, r)
	}
	return p.advanceByTime(ctx, sliceTime, r)
}

func (p *Planner) advanceByDistance(ctx context.Context, sliceTime float64, r *RobotData) error {
	nextNode := r.nextMoveTarget
	nextDist := r.edge.Dist() - r.distAlongEdge
	distRemaining := p.CSpace.RobotVelocity * sliceTime

	r.localPath = [][]float64{r.Pose()}

	root := p.CSpace.Goal
	for nextDist <= distRemaining && nextNode != root && nextNode.parentUsed && nextNode != nextNode.parentEdge.EndNode() {
		r.localPath = append(r.localPath, nextNode.Position())
		distRemaining -= nextDist
		r.distAlongEdge = 0
		r.edge = nextNode.parentEdge
		nextDist = r.edge.Dist()
		nextNode = r.edge.EndNode()
	}

	var next []float64
	var err error
	if nextDist > distRemaining {
		r.distAlongEdge += distRemaining
		next, err = r.edge.PoseAtDistAlongEdge(r.distAlongEdge)
	} else {
		next = nextNode.Position()
		r.distAlongEdge = r.edge.Dist()
	}
	if err != nil {
		return err
	}

	r.nextMoveTarget = r.edge.EndNode()
	r.nextPose = next
	r.localPath = append(r.localPath, next)
	return nil
}

func (p *Planner) advanceByTime(ctx context.Context, sliceTime float64, r *RobotData) error {
	nextNode := r.nextMoveTarget
	pose := r.Pose()
	r.localPath = [][]float64{pose}
	// Time flows downward toward the root as the robot progresses, the
	// same decreasing-target convention the reference data uses; we
	// restate it explicitly here per the design note raising it as an
	// open question.
	targetTime := pose[3] - sliceTime

	root := p.CSpace.Goal
	for targetTime < r.edge.EndNode().Position()[3] && nextNode != root && nextNode.parentUsed && nextNode != nextNode.parentEdge.EndNode() {
		r.localPath = append(r.localPath, nextNode.Position())
		r.edge = nextNode.parentEdge
		nextNode = r.edge.EndNode()
	}

	var next []float64
	var err error
	if targetTime >= nextNode.Position()[3] {
		r.timeAlongEdge = r.edge.StartNode().Position()[3] - targetTime
		next, err = r.edge.PoseAtTimeAlongEdge(r.timeAlongEdge)
	} else {
		next = nextNode.Position()
		r.timeAlongEdge = r.edge.StartNode().Position()[3] - r.edge.EndNode().Position()[3]
	}
	if err != nil {
		return err
	}

	r.nextMoveTarget = r.edge.EndNode()
	r.nextPose = next
	r.localPath = append(r.localPath, next)
	return nil
}

// FindNewTarget implements find_new_target: expands a search radius
// (starting at max(rBall, dist(pose, nextPose)), capped at the space's
// diameter) until a collision-free, kinematically-valid edge from the
// robot's pose to some indexed node is found; if the radius cap is
// exhausted, inserts a saturated random node and keeps searching.
func (p *Planner) FindNewTarget(ctx context.Context, r *RobotData, rBall float64) error {
	r.distAlongEdge = 0
	r.timeAlongEdge = 0
	nextPose := r.nextMoveTarget.Position()
	robPose := r.Pose()

	searchBallRad := math.Max(rBall, p.Tree.Distance(robPose, nextPose))
	maxSearchBallRad := p.Tree.Distance(p.CSpace.LowerBounds, p.CSpace.UpperBounds)
	if searchBallRad > maxSearchBallRad {
		searchBallRad = maxSearchBallRad
	}

	dummy := NewNode(-1, robPose)

	l := p.Tree.FindWithinRange(searchBallRad, robPose)
	defer func() { spatialidx.ClearRangeFlags(l) }()

	for {
		bestDistToGoal := math.Inf(1)
		var bestNeighbor *Node
		var bestEdge Edge

		for _, it := range l {
			neighbor := it.(*Node)
			edge := p.Factory.NewEdge(p.CSpace, dummy, neighbor)
			_ = edge.CalculateTrajectory(ctx)
			if !edge.ValidMove() || p.CSpace.EdgeInCollision(edge) {
				continue
			}
			distToGoal := neighbor.lmc + edge.Dist()
			if distToGoal < bestDistToGoal {
				bestDistToGoal = distToGoal
				bestNeighbor = neighbor
				bestEdge = edge
			}
		}

		if bestNeighbor != nil {
			r.nextMoveTarget = bestNeighbor
			r.currentMoveInvalid = false
			r.edge = bestEdge
			r.distAlongEdge = 0
			r.timeAlongEdge = 0

			old := p.CSpace.MoveGoal
			if old != nil {
				old.SetIsMoveGoal(false)
			}
			p.CSpace.MoveGoal = bestNeighbor
			bestNeighbor.SetIsMoveGoal(true)
			return nil
		}

		searchBallRad *= 2
		if searchBallRad > maxSearchBallRad {
			r.Logger.Debugw("radius cap exhausted, synthesizing a sample", "cause", ErrNoTargetFound)
			sample := p.RetrySampler.Sample()
			dist := p.Tree.Distance(sample, robPose)
			saturated := p.Factory.Saturate(robPose, sample, p.Delta, dist)
			newNode := NewNode(p.NextNodeID(), saturated)
			p.Tree.Insert(newNode)
		}
		l = p.Tree.FindMoreWithinRange(l, searchBallRad, robPose)
	}
}
