// Command rrtx runs a dynamic RRTx planning session for a Dubins-car
// robot: it reads a scenario file, bootstraps an initial path with
// Theta*, then runs the planner and robot-controller loops until the
// robot reaches the goal or the user cancels.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/dynamicmotion/rrtx/collisionx"
	"github.com/dynamicmotion/rrtx/dubins"
	"github.com/dynamicmotion/rrtx/logging"
	"github.com/dynamicmotion/rrtx/rrtx"
	"github.com/dynamicmotion/rrtx/rrtxconfig"
	"github.com/dynamicmotion/rrtx/spatialidx"
	"github.com/dynamicmotion/rrtx/thetastar"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/stat"
)

const (
	exitOK          = 0
	exitInfeasible  = 1
	exitBadInput    = 2
)

func main() {
	app := &cli.App{
		Name:      "rrtx",
		Usage:     "dynamic RRTx motion planning for a Dubins-car robot",
		ArgsUsage: "<dim> <algorithm> <input-file>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "delta", Value: 1.0, Usage: "saturation step"},
			&cli.Float64Flag{Name: "ball-constant", Value: 1.5, Usage: "factor in r_ball = ball_constant * (log n / n)^(1/d)"},
			&cli.Float64Flag{Name: "slice", Value: 0.1, Usage: "seconds per planning slice"},
			&cli.Float64Flag{Name: "goal-prob", Value: 0.1, Usage: "goal-biased sample probability"},
			&cli.DurationFlag{Name: "warmup", Value: 0, Usage: "collision-check suppression window after start"},
			&cli.Float64Flag{Name: "robot-radius", Value: 0.5, Usage: "robot radius"},
			&cli.Float64Flag{Name: "robot-velocity", Value: 1.0, Usage: "robot cruise velocity"},
			&cli.Float64Flag{Name: "dubins-min-v", Value: 0.5, Usage: "minimum Dubins-car velocity"},
			&cli.Float64Flag{Name: "dubins-max-v", Value: 2.0, Usage: "maximum Dubins-car velocity"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "infeasibility time budget before exiting 1"},
		},
		Action: runPlanner,
	}
	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitBadInput)
	}
}

func runPlanner(c *cli.Context) error {
	logger := logging.NewLogger("rrtx.cmd")

	if c.Args().Len() < 3 {
		return cli.Exit("usage: rrtx <dim> <algorithm> <input-file>", exitBadInput)
	}
	dim := c.Args().Get(0)
	algorithm := c.Args().Get(1)
	inputPath := c.Args().Get(2)
	if algorithm != "rrtx" {
		return cli.Exit(fmt.Sprintf("unsupported algorithm %q", algorithm), exitBadInput)
	}

	scenario, err := rrtxconfig.Load(inputPath)
	if err != nil {
		return cli.Exit(err.Error(), exitBadInput)
	}
	if fmt.Sprintf("%d", scenario.Dim) != dim {
		return cli.Exit(fmt.Sprintf("positional dim %s does not match scenario dim %d", dim, scenario.Dim), exitBadInput)
	}

	checker := collisionx.NewChecker()
	circles := make([]*collisionx.Circle, 0, len(scenario.Obstacles))
	for _, o := range scenario.Obstacles {
		circles = append(circles, checker.AddCircle(&collisionx.Circle{
			IDValue: o.ID,
			Center:  vec2(o.Center),
			Radius:  o.Radius,
		}))
	}

	cspace := rrtx.NewConfigSpace(scenario.Dim, scenario.LowerBounds, scenario.UpperBounds, checker)
	if scenario.Dim >= 3 {
		cspace.WrapDims = map[int]float64{2: 2 * math.Pi}
	}
	cspace.CollisionDistTolerance = c.Float64("delta") / 4
	cspace.DubinsMinV = c.Float64("dubins-min-v")
	cspace.DubinsMaxV = c.Float64("dubins-max-v")
	cspace.RobotRadius = c.Float64("robot-radius")
	cspace.RobotVelocity = c.Float64("robot-velocity")
	cspace.GoalProb = c.Float64("goal-prob")
	if warmup := c.Duration("warmup"); warmup > 0 {
		cspace.SetWarmup(warmup)
	}
	for _, circle := range circles {
		cspace.AddObstacle(circle)
	}

	tree := spatialidx.New(scenario.Dim, cspace.WrapDims)
	queue := rrtx.NewQueue(1e-6)
	factory := &dubins.Factory{Car: &dubins.Dubins{Radius: c.Float64("delta") / 2, PointSeparation: c.Float64("delta") / 8}}
	planner := rrtx.NewPlanner(cspace, tree, queue, factory, c.Float64("delta"))
	planner.Logger = logger.Sublogger("planner")

	nextID := func() int { return planner.NextNodeID() }

	goal := rrtx.NewNode(nextID(), scenario.Goal)
	goal.SetLMC(0)
	goal.SetTreeCost(0)
	cspace.Goal = goal
	cspace.Start = rrtx.NewNode(nextID(), scenario.Start)
	cspace.MoveGoal = goal
	tree.Insert(goal)

	// Theta* any-angle bootstrap: seed the sample stack with a coarse
	// path so the first several planner iterations extend toward
	// something useful rather than pure uniform sampling.
	if res, ok := thetastar.Search(cspace, scenario.LowerBounds, scenario.UpperBounds, scenario.Start, scenario.Goal); ok {
		logger.Infow("theta* bootstrap found a path", "waypoints", len(res.Path))
		for i := len(res.Path) - 1; i >= 0; i-- {
			cspace.PushSample(res.Path[i])
		}
	} else {
		logger.Infow("theta* bootstrap found no path; falling back to uniform sampling")
	}

	sampler := rrtx.NewSampler(cspace, rrtx.PolicyStackFirst, time.Now().UnixNano())
	robot := rrtx.NewRobotData(append([]float64(nil), scenario.Start...))
	// Aim the robot at the root before the first move step, the same
	// precondition rrtx/robot_test.go sets up by hand.
	robot.SeedMoveTarget(goal)

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	sliceSeconds := c.Float64("slice")
	sliceDuration := time.Duration(sliceSeconds * float64(time.Second))
	ballConstant := c.Float64("ball-constant")

	pathLengths := []float64{}
	iterations := 0

	utils.PanicCapturingGo(func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			runPlannerSlice(ctx, planner, sampler, robot, ballConstant, sliceSeconds, &iterations, &pathLengths)
		}
	})

	for {
		if cspace.Start != nil {
			dist := robot.DistanceToRoot(goal)
			if dist < cspace.RobotRadius {
				printReport(iterations, pathLengths)
				return nil
			}
		}
		select {
		case <-ctx.Done():
			printReport(iterations, pathLengths)
			if ctx.Err() == context.DeadlineExceeded {
				return cli.Exit("root unreachable within time budget", exitInfeasible)
			}
			return nil
		case <-time.After(sliceDuration):
		}
	}
}

// runPlannerSlice performs one sample -> extend -> reduce_inconsistency
// -> move_robot slice. It applies no obstacle changes and does not call
// propagate_descendants.
func runPlannerSlice(
	ctx context.Context,
	planner *rrtx.Planner,
	sampler *rrtx.Sampler,
	robot *rrtx.RobotData,
	ballConstant, sliceSeconds float64,
	iterations *int,
	pathLengths *[]float64,
) {
	*iterations++
	n := *iterations
	rBall := ballConstant * math.Pow(math.Log(float64(n+1))/float64(n+1), 1.0/float64(planner.CSpace.Dim))

	point := sampler.Sample()
	newNode := rrtx.NewNode(planner.NextNodeID(), point)
	closest, _, ok := planner.Tree.Nearest(point)
	if !ok {
		return
	}
	closestNode, ok := closest.(*rrtx.Node)
	if !ok {
		return
	}

	if planner.Extend(ctx, newNode, closestNode, rBall) {
		*pathLengths = append(*pathLengths, newNode.LMC())
	}
	planner.ReduceInconsistency(rBall)

	if err := planner.MoveRobot(ctx, sliceSeconds, rBall, robot, planner.CSpace.Dim == 4); err != nil {
		planner.Logger.Debugw("move robot", "err", err)
	}
}

func printReport(iterations int, pathLengths []float64) {
	if len(pathLengths) == 0 {
		fmt.Printf("iterations=%d no path lengths sampled\n", iterations)
		return
	}
	mean := stat.Mean(pathLengths, nil)
	variance := stat.Variance(pathLengths, nil)
	fmt.Printf("iterations=%d samples=%d mean_path_len=%.3f stddev=%.3f\n",
		iterations, len(pathLengths), mean, math.Sqrt(variance))
}

func vec2(p []float64) r3.Vector {
	return r3.Vector{X: p[0], Y: p[1]}
}
