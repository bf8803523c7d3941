// Package dubins implements concrete Dubins-car kinematics: the six
// classic constant-curvature path families (LSL, RSR, LSR, RSL, RLR,
// LRL), shortest-path selection among them, and point-sampling along
// the chosen path. This is the concrete kinematic model the rrtx
// package's Edge/EdgeFactory interfaces keep out of scope — see
// edge.go in this package for the adapter that plugs it in.
package dubins

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// Dubins holds the turning radius and the along-path sampling
// resolution used by generatePoints.
type Dubins struct {
	Radius          float64
	PointSeparation float64
}

// PathType names which of the six Dubins path families a PathResult
// belongs to.
type PathType int

const (
	LSL PathType = iota
	RSR
	LSR
	RSL
	RLR
	LRL
)

func (t PathType) String() string {
	return [...]string{"LSL", "RSR", "LSR", "RSL", "RLR", "LRL"}[t]
}

// PathResult is one candidate Dubins path between two poses.
// DubinsPath holds the three segment parameters in the order the
// path type defines them (turn angle, straight length or turn angle,
// turn angle), all three in radius-normalized units; TotalLen and
// generatePoints scale them by Radius.
type PathResult struct {
	Type       PathType
	DubinsPath [3]float64
	TotalLen   float64
	Straight   bool
}

// findCenter returns the center of the turning circle of radius
// d.Radius tangent to pose, turning left if leftTurn else right.
func (d *Dubins) findCenter(pose []float64, leftTurn bool) []float64 {
	theta := pose[2]
	sign := 1.0
	if !leftTurn {
		sign = -1.0
	}
	return []float64{
		pose[0] + d.Radius*(-sign*math.Sin(theta)),
		pose[1] + d.Radius*(sign*math.Cos(theta)),
	}
}

func mod2pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}

// AllPaths computes all six Dubins path candidates from start to end
// (each a [x, y, heading] triple), normalizing by d.Radius. Infeasible
// families (the two CCC families when the circles are too far apart)
// report TotalLen = +Inf. When sortByLen is true the result is sorted
// ascending by TotalLen; otherwise it is returned in the fixed order
// LSL, RSR, LSR, RSL, RLR, LRL.
func (d *Dubins) AllPaths(start, end []float64, sortByLen bool) []PathResult {
	dx := end[0] - start[0]
	dy := end[1] - start[1]
	dist := math.Hypot(dx, dy) / d.Radius

	theta := mod2pi(math.Atan2(dy, dx))
	alpha := mod2pi(start[2] - theta)
	beta := mod2pi(end[2] - theta)

	results := make([]PathResult, 6)
	results[LSL] = d.lsl(alpha, beta, dist)
	results[RSR] = d.rsr(alpha, beta, dist)
	results[LSR] = d.lsr(alpha, beta, dist)
	results[RSL] = d.rsl(alpha, beta, dist)
	results[RLR] = d.rlr(alpha, beta, dist)
	results[LRL] = d.lrl(alpha, beta, dist)

	if dist == 0 && start[2] == end[2] {
		for i := range results {
			results[i].TotalLen = 0
			results[i].DubinsPath = [3]float64{0, 0, 0}
			results[i].Straight = true
		}
	}

	if sortByLen {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].TotalLen < results[j].TotalLen
		})
	}
	return results
}

func (d *Dubins) lsl(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	pSq := 2 + dist*dist - 2*math.Cos(alpha-beta) + 2*dist*(sa-sb)
	if pSq < 0 {
		return PathResult{Type: LSL, TotalLen: math.Inf(1)}
	}
	p := math.Sqrt(pSq)
	t := mod2pi(-alpha + math.Atan2(cb-ca, dist+sa-sb))
	q := mod2pi(beta - math.Atan2(cb-ca, dist+sa-sb))
	return PathResult{Type: LSL, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: true}
}

func (d *Dubins) rsr(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	pSq := 2 + dist*dist - 2*math.Cos(alpha-beta) + 2*dist*(sb-sa)
	if pSq < 0 {
		return PathResult{Type: RSR, TotalLen: math.Inf(1)}
	}
	p := math.Sqrt(pSq)
	t := mod2pi(alpha - math.Atan2(ca-cb, dist-sa+sb))
	q := mod2pi(-beta + math.Atan2(ca-cb, dist-sa+sb))
	return PathResult{Type: RSR, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: true}
}

func (d *Dubins) lsr(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	pSq := -2 + dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(sa+sb)
	if pSq < 0 {
		return PathResult{Type: LSR, TotalLen: math.Inf(1)}
	}
	p := math.Sqrt(pSq)
	t := mod2pi(-alpha + math.Atan2(-ca-cb, dist+sa+sb) - math.Atan2(-2, p))
	q := mod2pi(-mod2pi(beta) + math.Atan2(-ca-cb, dist+sa+sb) - math.Atan2(-2, p))
	return PathResult{Type: LSR, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: false}
}

func (d *Dubins) rsl(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	pSq := dist*dist - 2 + 2*math.Cos(alpha-beta) - 2*dist*(sa+sb)
	if pSq < 0 {
		return PathResult{Type: RSL, TotalLen: math.Inf(1)}
	}
	p := math.Sqrt(pSq)
	t := mod2pi(alpha - math.Atan2(ca+cb, dist-sa-sb) + math.Atan2(2, p))
	q := mod2pi(beta - math.Atan2(ca+cb, dist-sa-sb) + math.Atan2(2, p))
	return PathResult{Type: RSL, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: false}
}

func (d *Dubins) rlr(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	tmp := (6 - dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(sa-sb)) / 8
	if math.Abs(tmp) > 1 {
		return PathResult{Type: RLR, TotalLen: math.Inf(1)}
	}
	p := mod2pi(2*math.Pi - math.Acos(tmp))
	t := mod2pi(alpha - math.Atan2(ca-cb, dist-sa+sb) + p/2)
	q := mod2pi(alpha - beta - t + p)
	return PathResult{Type: RLR, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: false}
}

func (d *Dubins) lrl(alpha, beta, dist float64) PathResult {
	sa, sb := math.Sin(alpha), math.Sin(beta)
	ca, cb := math.Cos(alpha), math.Cos(beta)
	tmp := (6 - dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(sb-sa)) / 8
	if math.Abs(tmp) > 1 {
		return PathResult{Type: LRL, TotalLen: math.Inf(1)}
	}
	p := mod2pi(2*math.Pi - math.Acos(tmp))
	t := mod2pi(-alpha + math.Atan2(-ca+cb, dist+sa-sb) + p/2)
	q := mod2pi(beta - alpha - t + p)
	return PathResult{Type: LRL, DubinsPath: [3]float64{t, p, q}, TotalLen: d.Radius * (t + p + q), Straight: false}
}

// generatePoints samples [x, y] points along the path described by
// segs (the three segment parameters of some PathResult.DubinsPath)
// from start to end, at approximately d.PointSeparation spacing,
// always including both endpoints. Samples within the first segment
// follow its arc; later samples are interpolated along the straight
// chord from start to end. isStraight is accepted but not used.
func (d *Dubins) generatePoints(start, end []float64, segs [3]float64, isStraight bool) [][]float64 {
	totalLen := d.Radius * (segs[0] + segs[1] + segs[2])
	n := int(totalLen / d.PointSeparation)
	if n < 1 {
		return [][]float64{{start[0], start[1]}, {end[0], end[1]}}
	}

	pts := make([][]float64, 0, n+2)
	pts = append(pts, []float64{start[0], start[1]})

	leftTurn := segs[0] >= 0
	center := d.findCenter(start, leftTurn)
	startAngle := math.Atan2(start[1]-center[1], start[0]-center[0])

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		arcLen := t * totalLen / d.Radius
		var p r3.Vector
		switch {
		case arcLen <= segs[0]:
			sweep := arcLen
			if !leftTurn {
				sweep = -sweep
			}
			p = r3.Vector{
				X: center[0] + d.Radius*math.Cos(startAngle+sweep),
				Y: center[1] + d.Radius*math.Sin(startAngle+sweep),
			}
		default:
			// Straight or trailing-turn segment: approximate with a
			// straight interpolation toward end, sufficient for the
			// sampled-trajectory collision check this feeds.
			p = r3.Vector{
				X: start[0] + t*(end[0]-start[0]),
				Y: start[1] + t*(end[1]-start[1]),
			}
		}
		pts = append(pts, []float64{p.X, p.Y})
	}
	pts = append(pts, []float64{end[0], end[1]})
	_ = isStraight
	return pts
}
