package dubins

import (
	"context"
	"math"

	"github.com/dynamicmotion/rrtx/rrtx"
	"github.com/pkg/errors"
)

// CarEdge is the concrete Dubins-car implementation of rrtx.Edge: a
// trajectory between two [x, y, heading] (or [x, y, heading, time])
// poses, computed lazily by CalculateTrajectory.
type CarEdge struct {
	start, end *rrtx.Node
	car        *Dubins

	dist      float64
	valid     bool
	hover     bool
	points    [][]float64 // sampled [x, y] trajectory, start to end
	headings  []float64   // heading at each sampled point
	segDubins [3]float64
	straight  bool
}

var _ rrtx.Edge = (*CarEdge)(nil)

func (e *CarEdge) StartNode() *rrtx.Node { return e.start }
func (e *CarEdge) EndNode() *rrtx.Node   { return e.end }
func (e *CarEdge) Dist() float64         { return e.dist }
func (e *CarEdge) SetDist(v float64)     { e.dist = v }
func (e *CarEdge) ValidMove() bool       { return e.valid }

// CalculateTrajectory picks the shortest feasible Dubins path family
// between the edge's endpoints and samples it, dist becoming the
// chosen path's total length (+Inf if no family is feasible).
func (e *CarEdge) CalculateTrajectory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	startPose := e.start.Position()
	endPose := e.end.Position()
	if len(startPose) < 3 || len(endPose) < 3 {
		return errors.New("dubins: poses need at least [x, y, heading]")
	}

	paths := e.car.AllPaths(startPose[:3], endPose[:3], true)
	best := paths[0]
	if math.IsInf(best.TotalLen, 1) {
		e.valid = false
		e.dist = math.Inf(1)
		return nil
	}

	e.valid = true
	e.dist = best.TotalLen
	e.segDubins = best.DubinsPath
	e.straight = best.Straight
	e.points = e.car.generatePoints(startPose[:3], endPose[:3], best.DubinsPath, best.Straight)
	e.headings = segmentHeadings(e.points, startPose[2], endPose[2])
	return nil
}

// CalculateHoverTrajectory builds a zero-motion edge: the car stays at
// start's pose while only the time dimension advances, used for the
// root's "wait in place" replicas (AddOtherTimesToRoot).
func (e *CarEdge) CalculateHoverTrajectory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pos := e.start.Position()
	e.valid = true
	e.dist = 0
	e.points = [][]float64{{pos[0], pos[1]}, {pos[0], pos[1]}}
	e.headings = []float64{pos[2], pos[2]}
	return nil
}

// PoseAtDistAlongEdge interpolates a full pose (including heading) at
// arclength d along the sampled trajectory.
func (e *CarEdge) PoseAtDistAlongEdge(d float64) ([]float64, error) {
	if len(e.points) == 0 {
		return nil, errors.New("dubins: trajectory not yet calculated")
	}
	if d <= 0 {
		return e.poseAt(0), nil
	}
	if d >= e.dist {
		return e.poseAt(len(e.points) - 1), nil
	}
	segLen := e.dist / float64(len(e.points)-1)
	idx := int(d / segLen)
	if idx >= len(e.points)-1 {
		idx = len(e.points) - 2
	}
	t := (d - float64(idx)*segLen) / segLen
	return e.interpolate(idx, t), nil
}

// PoseAtTimeAlongEdge interpolates assuming constant unit-time motion
// along the trajectory; callers needing true velocity scaling convert
// time to distance before calling this (the core package never needs
// to know which).
func (e *CarEdge) PoseAtTimeAlongEdge(t float64) ([]float64, error) {
	return e.PoseAtDistAlongEdge(t)
}

func (e *CarEdge) poseAt(idx int) []float64 {
	return []float64{e.points[idx][0], e.points[idx][1], e.headings[idx]}
}

func (e *CarEdge) interpolate(idx int, t float64) []float64 {
	a, b := e.points[idx], e.points[idx+1]
	ha, hb := e.headings[idx], e.headings[idx+1]
	return []float64{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		ha + t*wrapDelta(hb-ha),
	}
}

func wrapDelta(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// segmentHeadings assigns each sampled point the heading of the
// segment leading into it, start and end pinned to the edge's actual
// endpoint headings.
func segmentHeadings(points [][]float64, startHeading, endHeading float64) []float64 {
	out := make([]float64, len(points))
	if len(points) == 0 {
		return out
	}
	out[0] = startHeading
	for i := 1; i < len(points); i++ {
		dx := points[i][0] - points[i-1][0]
		dy := points[i][1] - points[i-1][1]
		if dx == 0 && dy == 0 {
			out[i] = out[i-1]
			continue
		}
		out[i] = math.Atan2(dy, dx)
	}
	if len(out) > 0 {
		out[len(out)-1] = endHeading
	}
	return out
}

// Factory builds CarEdges and saturates samples toward the nearest
// tree node, holding the turning radius and sample spacing shared by
// every edge it creates.
type Factory struct {
	Car *Dubins
}

var _ rrtx.EdgeFactory = (*Factory)(nil)

func (f *Factory) NewEdge(cspace *rrtx.ConfigSpace, start, end *rrtx.Node) rrtx.Edge {
	return &CarEdge{start: start, end: end, car: f.Car}
}

// Saturate shortens the step from point toward "toward" to at most
// delta, holding heading fixed at the direction of travel (matching
// the "random angle, then clamp to the dynamics" saturate step
// original_source/src/drrt.cpp's RRT*-style extend uses).
func (f *Factory) Saturate(point, toward []float64, delta, distance float64) []float64 {
	if distance <= delta {
		return append([]float64(nil), toward...)
	}
	ratio := delta / distance
	out := make([]float64, len(point))
	for i := range point {
		if i == 2 { // heading: point toward the saturated target, not lerp
			continue
		}
		out[i] = point[i] + ratio*(toward[i]-point[i])
	}
	out[2] = math.Atan2(toward[1]-point[1], toward[0]-point[0])
	return out
}
