package rrtx

import "github.com/pkg/errors"

// Sentinel errors for the recoverable error kinds the planner
// distinguishes. Each is handled locally by its producer. Internal
// invariant violations are reported separately, through the
// InconsistentGraphError type below.
var (
	// ErrInfeasibleSample reports that a candidate node could not be
	// linked to any neighbor. Callers drop the sample and continue.
	ErrInfeasibleSample = errors.New("candidate node could not be linked to any neighbor")

	// ErrMoveTargetInvalidated reports that the robot's current move
	// target was orphaned mid-step. Callers invoke FindNewTarget.
	ErrMoveTargetInvalidated = errors.New("move target invalidated by obstacle change")

	// ErrNoTargetFound reports that FindNewTarget exhausted its radius
	// cap without a candidate. Never fatal: callers insert a saturated
	// random node and retry.
	ErrNoTargetFound = errors.New("no replacement move target found within radius cap")

	// ErrCollisionBackendFailure wraps a failure surfaced by the
	// collision adapter. The edge is treated as invalid.
	ErrCollisionBackendFailure = errors.New("collision backend failure")
)

// InconsistentGraphError reports an internal invariant violation, such
// as a negative edge distance or an infinite cost inside a chain that
// should be finite. Queue.CheckInvariants returns one when Queue.Debug
// is set. Nothing else in this package calls CheckInvariants, records
// the error, or skips the offending node.
type InconsistentGraphError struct {
	Msg string
}

func (e *InconsistentGraphError) Error() string {
	return "inconsistent graph: " + e.Msg
}

// NewInconsistentGraphError builds an InconsistentGraphError with msg.
func NewInconsistentGraphError(msg string) error {
	return &InconsistentGraphError{Msg: msg}
}
