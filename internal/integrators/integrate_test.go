package integrators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/physics"
)

// blowup is x' = x^2: finite-time escape at t = 1/x0. Exercises the
// divergence reporting path.
type blowup struct{}

func (blowup) StateDim() int { return 1 }
func (blowup) Derive(x dynamo.State, _ float64) dynamo.State {
	return dynamo.State{x[0] * x[0]}
}

// poison returns NaN immediately.
type poison struct{}

func (poison) StateDim() int { return 1 }
func (poison) Derive(x dynamo.State, _ float64) dynamo.State {
	return dynamo.State{math.NaN()}
}

func scenarioGrid(t *testing.T) dynamo.TimeGrid {
	t.Helper()
	grid, err := dynamo.UniformGrid(0, math.Pi/2, 100)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return grid
}

func TestIntegrateScenario(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.Params{M1: 1, M2: 1, L1: 1, L2: 1, G: 9.8})
	x0 := dynamo.NewState(math.Pi/4, 0, math.Pi/4, 0)
	grid := scenarioGrid(t)

	traj, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}
	if traj.Len() != 100 {
		t.Fatalf("expected 100 samples, got %d", traj.Len())
	}

	// Released from rest at pi/4: no energy is injected, so phi1 can
	// never exceed the release angle.
	for i, v := range traj.Phi1s() {
		if v > math.Pi/4+1e-9 {
			t.Fatalf("phi1[%d] = %g exceeds release angle", i, v)
		}
	}
}

func TestIntegrateDeterministic(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.DefaultParams())
	x0 := dynamo.NewState(math.Pi/4, 0, math.Pi/4, 0)
	grid := scenarioGrid(t)

	a, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range a.States {
		for j := range a.States[i] {
			if a.States[i][j] != b.States[i][j] {
				t.Fatalf("run differs at sample %d component %d: %g vs %g",
					i, j, a.States[i][j], b.States[i][j])
			}
		}
	}
}

// Exact and linearized trajectories must agree to quadratic order in
// the initial displacement.
func TestSmallAngleTrajectoryConvergence(t *testing.T) {
	p := dynamo.DefaultParams()
	grid, _ := dynamo.UniformGrid(0, 2, 50)

	run := func(eps float64) float64 {
		x0 := dynamo.NewState(eps, 0, eps, 0)
		exact, err := Integrate(context.Background(), physics.NewDoublePendulum(p), x0, grid, DefaultOptions())
		if err != nil {
			t.Fatalf("exact eps=%g: %v", eps, err)
		}
		lin, err := Integrate(context.Background(), physics.NewSmallAngle(p), x0, grid, DefaultOptions())
		if err != nil {
			t.Fatalf("linear eps=%g: %v", eps, err)
		}
		worst := 0.0
		for i := range exact.States {
			d := exact.States[i].Sub(lin.States[i]).Norm()
			if d > worst {
				worst = d
			}
		}
		return worst
	}

	big := run(0.05)
	small := run(0.005)

	if big > 1e-3 {
		t.Errorf("eps=0.05 divergence %g too large", big)
	}
	if small > 1e-5 {
		t.Errorf("eps=0.005 divergence %g too large", small)
	}
	if small > big/50 {
		t.Errorf("divergence did not shrink with angle: %g vs %g", small, big)
	}
}

func TestTimeReversalSymmetry(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.DefaultParams())
	x0 := dynamo.NewState(math.Pi/4, 0, math.Pi/4, 0)
	grid, _ := dynamo.UniformGrid(0, 1.5, 16)

	opts := DefaultOptions()
	opts.AbsTol = 1e-10
	opts.RelTol = 1e-8

	fwd, err := Integrate(context.Background(), sys, x0, grid, opts)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	back, err := Integrate(context.Background(), sys, fwd.States[fwd.Len()-1].Reversed(), grid, opts)
	if err != nil {
		t.Fatalf("backward: %v", err)
	}

	// The reversed run retraces the forward trajectory: sample i of the
	// backward run matches sample n-1-i of the forward run with
	// velocities negated.
	n := fwd.Len()
	for i := 0; i < n; i++ {
		want := fwd.States[n-1-i].Reversed()
		got := back.States[i]
		if d := got.Sub(want).Norm(); d > 1e-4 {
			t.Fatalf("reversal mismatch at sample %d: %g", i, d)
		}
	}
}

func TestEnergyConservation(t *testing.T) {
	p := dynamo.DefaultParams()
	sys := physics.NewDoublePendulum(p)
	x0 := dynamo.NewState(math.Pi/4, 0, math.Pi/4, 0)
	grid := scenarioGrid(t)

	traj, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}

	e0 := sys.Energy(x0)
	for i, s := range traj.States {
		drift := math.Abs(sys.Energy(s)-e0) / math.Abs(e0)
		if drift > 1e-5 {
			t.Fatalf("energy drift %g at sample %d", drift, i)
		}
	}
}

func TestIntegrateDivergenceReported(t *testing.T) {
	grid, _ := dynamo.UniformGrid(0, 2, 5)

	_, err := Integrate(context.Background(), blowup{}, dynamo.State{1}, grid, DefaultOptions())
	if err == nil {
		t.Fatal("expected divergence error")
	}
	if !errors.Is(err, dynamo.ErrUnstable) && !errors.Is(err, dynamo.ErrStepTooSmall) {
		t.Fatalf("expected ErrUnstable or ErrStepTooSmall, got %v", err)
	}

	var stepErr *dynamo.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
}

func TestIntegrateNonFiniteRHS(t *testing.T) {
	grid, _ := dynamo.UniformGrid(0, 1, 5)

	_, err := Integrate(context.Background(), poison{}, dynamo.State{1}, grid, DefaultOptions())
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
}

func TestIntegrateInputValidation(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.DefaultParams())

	if _, err := Integrate(context.Background(), sys, dynamo.NewState(0, 0, 0, 0), nil, DefaultOptions()); !errors.Is(err, dynamo.ErrEmptyGrid) {
		t.Errorf("empty grid: got %v", err)
	}

	grid, _ := dynamo.UniformGrid(0, 1, 5)
	if _, err := Integrate(context.Background(), sys, dynamo.State{1, 2}, grid, DefaultOptions()); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("dimension mismatch: got %v", err)
	}
	if _, err := Integrate(context.Background(), sys, dynamo.State{math.NaN(), 0, 0, 0}, grid, DefaultOptions()); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("NaN initial state: got %v", err)
	}
}

func TestIntegrateCancellation(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.DefaultParams())
	grid := scenarioGrid(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Integrate(ctx, sys, dynamo.NewState(0.1, 0, 0.1, 0), grid, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIntegrateFixedMatchesAdaptive(t *testing.T) {
	sys := physics.NewDoublePendulum(dynamo.DefaultParams())
	x0 := dynamo.NewState(math.Pi/4, 0, math.Pi/4, 0)
	grid, _ := dynamo.UniformGrid(0, 1, 20)

	adaptive, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("adaptive: %v", err)
	}
	fixed, err := IntegrateFixed(sys, NewRK4(), x0, grid, 1e-4)
	if err != nil {
		t.Fatalf("fixed: %v", err)
	}

	for i := range adaptive.States {
		if d := adaptive.States[i].Sub(fixed.States[i]).Norm(); d > 1e-4 {
			t.Fatalf("methods disagree at sample %d: %g", i, d)
		}
	}
}

func TestIntegrateFixedSubstepBlowup(t *testing.T) {
	grid, _ := dynamo.UniformGrid(0, 1, 2)

	_, err := IntegrateFixed(poison{}, NewEuler(), dynamo.State{1}, grid, 0.25)
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}

	var se *dynamo.StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %T", err)
	}
	// The first substep already poisons the state, so the reported time
	// is the first substep boundary, not the grid point.
	if se.Time > 0.25+1e-12 {
		t.Errorf("failure time %g not attributed to the failing substep", se.Time)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	sys := physics.NewSmallAngle(dynamo.DefaultParams())
	x0 := dynamo.NewState(0.01, 0, 0.01, 0)
	grid, _ := dynamo.UniformGrid(0, 0.5, 6)

	ref, err := Integrate(context.Background(), sys, x0, grid, DefaultOptions())
	if err != nil {
		t.Fatalf("reference: %v", err)
	}

	coarse, _ := IntegrateFixed(sys, NewEuler(), x0, grid, 1e-3)
	fine, _ := IntegrateFixed(sys, NewEuler(), x0, grid, 1e-4)

	last := grid.Len() - 1
	errCoarse := coarse.States[last].Sub(ref.States[last]).Norm()
	errFine := fine.States[last].Sub(ref.States[last]).Norm()

	if errFine >= errCoarse {
		t.Errorf("euler error did not shrink with step: %g vs %g", errFine, errCoarse)
	}
}
