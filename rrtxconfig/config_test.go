package rrtxconfig

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json5")
	test.That(t, os.WriteFile(path, []byte(body), 0o600), test.ShouldBeNil)
	return path
}

func TestLoadParsesWellFormedScenario(t *testing.T) {
	path := writeScenario(t, `{
		// hand-edited scenario, trailing commas allowed
		dim: 2,
		lower_bounds: [0, 0],
		upper_bounds: [10, 10],
		start: [1, 1],
		goal: [9, 9],
		obstacles: [
			{ id: "o1", center: [5, 5], radius: 1 },
		],
	}`)

	s, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Dim, test.ShouldEqual, 2)
	test.That(t, s.Obstacles, test.ShouldHaveLength, 1)
	test.That(t, s.Obstacles[0].ID, test.ShouldEqual, "o1")
}

func TestLoadRejectsBadDimension(t *testing.T) {
	path := writeScenario(t, `{
		dim: 5,
		lower_bounds: [0, 0],
		upper_bounds: [10, 10],
		start: [1, 1],
		goal: [9, 9],
	}`)

	_, err := Load(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "dim must be")
}

func TestLoadRejectsMismatchedBoundsLength(t *testing.T) {
	path := writeScenario(t, `{
		dim: 3,
		lower_bounds: [0, 0],
		upper_bounds: [10, 10, 10],
		start: [1, 1, 0],
		goal: [9, 9, 0],
	}`)

	_, err := Load(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lower_bounds")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/scenario.json5")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadRejectsObstacleWithoutID(t *testing.T) {
	path := writeScenario(t, `{
		dim: 2,
		lower_bounds: [0, 0],
		upper_bounds: [10, 10],
		start: [1, 1],
		goal: [9, 9],
		obstacles: [
			{ center: [5, 5], radius: 1 },
		],
	}`)

	_, err := Load(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "missing id")
}
