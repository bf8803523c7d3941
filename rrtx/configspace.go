package rrtx

import (
	"sync"
	"time"

	"github.com/dynamicmotion/rrtx/internal/dllist"
	"github.com/dynamicmotion/rrtx/logging"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// VizEdgeKind classifies an edge for the visualization log
// (AddVizEdge/RemoveVizEdge in the original — see SUPPLEMENTED FEATURES).
type VizEdgeKind int

const (
	VizTrajectory VizEdgeKind = iota
	VizCollision
)

// VizEdge is one row of the persisted visualization log: a start/end
// pair and the kind of edge it represents.
type VizEdge struct {
	Start, End []float64
	Kind       VizEdgeKind
}

// ConfigSpace owns the obstacle registry, bounds, start/goal/root
// nodes, the warm-up window, and the sample stack. cspaceMutex guards
// only the obstacle registry and the visualization log, per the
// concurrency model: it is held while mutating the obstacle list or
// draining the visualization log, never while the planner walks the
// tree.
type ConfigSpace struct {
	cspaceMutex sync.Mutex

	RunID string

	Dim          int
	LowerBounds  []float64
	UpperBounds  []float64
	WrapDims     map[int]float64 // dimension -> wrap width

	Start *Node
	Goal  *Node // tree root: the search grows from goal back toward start
	MoveGoal *Node

	WarmupUntil time.Time
	warmupSet   bool

	obstacles map[string]Obstacle

	CollisionDistTolerance float64
	DubinsMinV, DubinsMaxV float64
	RobotRadius            float64
	RobotVelocity          float64
	GoalProb               float64

	sampleStack *dllist.List[[]float64]

	checker CollisionChecker

	vizLog []VizEdge

	Debug  bool
	Logger *logging.Logger
}

// NewConfigSpace constructs a ConfigSpace over dim dimensions between
// lower and upper bounds, with the given collision backend.
func NewConfigSpace(dim int, lower, upper []float64, checker CollisionChecker) *ConfigSpace {
	id := uuid.NewString()
	return &ConfigSpace{
		RunID:       id,
		Dim:         dim,
		LowerBounds: append([]float64(nil), lower...),
		UpperBounds: append([]float64(nil), upper...),
		obstacles:   make(map[string]Obstacle),
		sampleStack: dllist.New[[]float64](),
		checker:     checker,
		Logger:      logging.NewLogger("rrtx.configspace").Sublogger(id[:8]),
	}
}

// SetWarmup establishes the warm-up window starting now and lasting d;
// collision checks return "free" until the window elapses.
func (c *ConfigSpace) SetWarmup(d time.Duration) {
	c.WarmupUntil = time.Now().Add(d)
	c.warmupSet = true
}

// InWarmup reports whether the collision-suppression window is active.
func (c *ConfigSpace) InWarmup() bool {
	return c.warmupSet && time.Now().Before(c.WarmupUntil)
}

// AddObstacle registers an obstacle under the cspace mutex.
func (c *ConfigSpace) AddObstacle(o Obstacle) {
	c.cspaceMutex.Lock()
	defer c.cspaceMutex.Unlock()
	c.obstacles[o.ID()] = o
}

// RemoveObstacle removes an obstacle by ID under the cspace mutex. ok
// is false if no such obstacle was registered.
func (c *ConfigSpace) RemoveObstacle(id string) (Obstacle, bool) {
	c.cspaceMutex.Lock()
	defer c.cspaceMutex.Unlock()
	o, ok := c.obstacles[id]
	if ok {
		delete(c.obstacles, id)
	}
	return o, ok
}

// Obstacles returns a snapshot slice of the currently registered
// obstacles, taken under the cspace mutex.
func (c *ConfigSpace) Obstacles() []Obstacle {
	c.cspaceMutex.Lock()
	defer c.cspaceMutex.Unlock()
	out := make([]Obstacle, 0, len(c.obstacles))
	for _, o := range c.obstacles {
		out = append(out, o)
	}
	return out
}

// PointInCollision reports whether point lies inside any registered
// obstacle. During warm-up it always returns false.
func (c *ConfigSpace) PointInCollision(point []float64) bool {
	if c.InWarmup() {
		return false
	}
	return c.checker.PointInCollision(point)
}

// EdgeInCollision performs a line-swept collision check of edge's
// trajectory against every registered obstacle. During warm-up it
// always returns false.
func (c *ConfigSpace) EdgeInCollision(edge Edge) bool {
	if c.InWarmup() {
		return false
	}
	for _, o := range c.Obstacles() {
		if c.checker.ObstacleIntersectsEdge(o, edge) {
			return true
		}
	}
	return false
}

// LineCheck temporarily zeros the heading dimension (if D>=3) and tests
// the straight-line segment a->b for collision, used by Theta*'s
// grid-based line-of-sight queries which have no notion of heading.
func (c *ConfigSpace) LineCheck(a, b []float64, steps int) bool {
	if steps < 2 {
		steps = 2
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := make([]float64, len(a))
		for d := range p {
			p[d] = a[d] + t*(b[d]-a[d])
			if c.Dim >= 3 && d == 2 {
				p[d] = 0
			}
		}
		if c.PointInCollision(p) {
			return true
		}
	}
	return false
}

// PushSample pushes a point onto the sample stack (stack-first sampler
// policy 5).
func (c *ConfigSpace) PushSample(p []float64) {
	c.sampleStack.PushFront(append([]float64(nil), p...))
}

// PopSample pops the most recently pushed sample, if any.
func (c *ConfigSpace) PopSample() ([]float64, bool) {
	return c.sampleStack.PopFront()
}

// AddOtherTimesToRoot replicates the root (goal) at several later time
// offsets so the tree can be reached from any later time slice, not
// just t=0 (original_source/src/drrt.cpp's addOtherTimesToRoot). Only
// meaningful when Dim == 4 (dimension 3 is time). Returns the
// replica nodes with lmc and tree cost already set to zero, the same as
// the root; callers must insert each into the spatial index.
func (c *ConfigSpace) AddOtherTimesToRoot(nextID func() int, offsets []float64) []*Node {
	if c.Dim != 4 || c.Goal == nil {
		return nil
	}
	out := make([]*Node, 0, len(offsets))
	for _, dt := range offsets {
		pos := append([]float64(nil), c.Goal.Position()...)
		pos[3] += dt
		n := NewNode(nextID(), pos)
		n.SetLMC(0)
		n.SetTreeCost(0)
		out = append(out, n)
	}
	return out
}

// LogVizEdge appends a row to the visualization log under the cspace
// mutex (AddVizEdge in the original).
func (c *ConfigSpace) LogVizEdge(start, end []float64, kind VizEdgeKind) {
	c.cspaceMutex.Lock()
	defer c.cspaceMutex.Unlock()
	c.vizLog = append(c.vizLog, VizEdge{
		Start: append([]float64(nil), start...),
		End:   append([]float64(nil), end...),
		Kind:  kind,
	})
}

// ApplyObstacleBatch adds every obstacle in adds and removes every ID in
// removes as a single tick's worth of change, running validate (if
// non-nil) against each added obstacle first. Every validation failure
// is collected rather than short-circuiting on the first one, so a bad
// obstacle in a batch never hides failures reported for the others.
func (c *ConfigSpace) ApplyObstacleBatch(adds []Obstacle, removes []string, validate func(Obstacle) error) error {
	var errs error
	for _, o := range adds {
		if validate != nil {
			if err := validate(o); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
		}
		c.AddObstacle(o)
	}
	for _, id := range removes {
		c.RemoveObstacle(id)
	}
	return errs
}

// DrainVizLog returns and clears the accumulated visualization log.
func (c *ConfigSpace) DrainVizLog() []VizEdge {
	c.cspaceMutex.Lock()
	defer c.cspaceMutex.Unlock()
	out := c.vizLog
	c.vizLog = nil
	return out
}
