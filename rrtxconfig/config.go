// Package rrtxconfig parses the scenario input file (dimension, bounds,
// start/goal, and the initial obstacle set) the CLI entrypoint reads
// before starting a run. Scenario files are hand-edited JSON5 — trailing
// commas and comments are common when a person is sketching out bounds
// and obstacle circles by hand — so this package parses with
// github.com/yosuke-furukawa/json5 rather than encoding/json.
package rrtxconfig

import (
	"os"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// CircleObstacle is one obstacle entry in a scenario file.
type CircleObstacle struct {
	ID     string    `json5:"id"`
	Center []float64 `json5:"center"`
	Radius float64   `json5:"radius"`
}

// Scenario is the parsed shape of a CLI input file: dimension, bounds,
// start/goal poses, and the obstacles present at t=0.
type Scenario struct {
	Dim         int              `json5:"dim"`
	LowerBounds []float64        `json5:"lower_bounds"`
	UpperBounds []float64        `json5:"upper_bounds"`
	Start       []float64        `json5:"start"`
	Goal        []float64        `json5:"goal"`
	Obstacles   []CircleObstacle `json5:"obstacles"`
}

// Validate checks the scenario's internal consistency: dimension must
// be 2, 3, or 4 (matching the CLI's positional dimension argument), and
// every pose/bounds vector must have exactly Dim entries.
func (s *Scenario) Validate() error {
	if s.Dim != 2 && s.Dim != 3 && s.Dim != 4 {
		return errors.Errorf("dim must be 2, 3, or 4, got %d", s.Dim)
	}
	for name, v := range map[string][]float64{
		"lower_bounds": s.LowerBounds,
		"upper_bounds": s.UpperBounds,
		"start":        s.Start,
		"goal":         s.Goal,
	} {
		if len(v) != s.Dim {
			return errors.Errorf("%s must have %d entries, got %d", name, s.Dim, len(v))
		}
	}
	for _, o := range s.Obstacles {
		if o.ID == "" {
			return errors.New("obstacle missing id")
		}
		if len(o.Center) != 2 {
			return errors.Errorf("obstacle %s center must be 2D, got %d entries", o.ID, len(o.Center))
		}
		if o.Radius <= 0 {
			return errors.Errorf("obstacle %s radius must be positive", o.ID)
		}
	}
	return nil
}

// Load reads and parses a scenario file from path, returning a bad-input
// error (matching the CLI's exit code 2 contract) wrapped with context
// on any failure.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario file %s", path)
	}
	var s Scenario
	if err := json5.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario file %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scenario file %s", path)
	}
	return &s, nil
}
