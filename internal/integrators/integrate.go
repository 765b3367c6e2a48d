package integrators

import (
	"context"
	"math"

	"github.com/san-kum/pendlab/internal/dynamo"
)

// Options controls adaptive integration.
type Options struct {
	// AbsTol and RelTol bound the local error per step, component-wise,
	// against the scale AbsTol + RelTol*|x|.
	AbsTol float64
	RelTol float64

	// InitialStep seeds the adaptive step size. Zero picks a fraction of
	// the first grid interval.
	InitialStep float64

	// MaxReject bounds consecutive step rejections before the
	// integration is declared divergent.
	MaxReject int
}

func DefaultOptions() Options {
	return Options{
		AbsTol:    1e-8,
		RelTol:    1e-6,
		MaxReject: 40,
	}
}

func (o Options) withDefaults() Options {
	if o.AbsTol <= 0 {
		o.AbsTol = 1e-8
	}
	if o.RelTol <= 0 {
		o.RelTol = 1e-6
	}
	if o.MaxReject <= 0 {
		o.MaxReject = 40
	}
	return o
}

// Integrate advances x0 across the grid with adaptive Dormand-Prince
// steps, reporting the state at exactly the grid times. Internal steps
// are clipped so they land on each requested time rather than crossing
// it; between grid points the step size adapts freely within the
// tolerances.
//
// x0 is the state at grid[0]. The returned trajectory is aligned 1:1
// with the grid. Identical inputs produce identical output: nothing
// here reads global state.
//
// Integrate fails with a StepError wrapping dynamo.ErrUnstable when the
// RHS or a candidate state goes non-finite, and with one wrapping
// dynamo.ErrStepTooSmall when MaxReject consecutive rejections cannot
// bring the local error within tolerance.
func Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, grid dynamo.TimeGrid, opts Options) (*dynamo.Trajectory, error) {
	if len(grid) == 0 {
		return nil, dynamo.ErrEmptyGrid
	}
	if len(x0) != sys.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	opts = opts.withDefaults()

	traj := &dynamo.Trajectory{
		Times:  grid,
		States: make([]dynamo.State, 0, len(grid)),
	}
	traj.States = append(traj.States, x0.Clone())

	rk := NewRK45()
	x := x0.Clone()
	t := grid[0]

	dt := opts.InitialStep
	if dt <= 0 && len(grid) > 1 {
		dt = (grid[1] - grid[0]) / 10
	}

	for gi := 1; gi < len(grid); gi++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		target := grid[gi]
		rejects := 0

		for t < target {
			h := dt
			if t+h > target {
				h = target - t
			}

			xNew, errRatio := rk.attempt(sys, x, t, h, opts.AbsTol, opts.RelTol)

			if !xNew.IsValid() || math.IsNaN(errRatio) {
				return traj, &dynamo.StepError{Step: gi, Time: t, Wrapped: dynamo.ErrUnstable}
			}

			if errRatio > 1 {
				rejects++
				if rejects > opts.MaxReject {
					return traj, &dynamo.StepError{Step: gi, Time: t, Wrapped: dynamo.ErrStepTooSmall}
				}
				dt = rk.next(h, errRatio)
				continue
			}

			rejects = 0
			x = xNew
			t += h
			// Grow from the attempted size only when the step was not
			// clipped to the grid boundary.
			if h == dt {
				dt = rk.next(h, errRatio)
			}
		}

		t = target
		traj.States = append(traj.States, x.Clone())
	}

	return traj, nil
}

// IntegrateFixed samples a fixed-step integrator at the grid points,
// subdividing each grid interval into substeps of at most maxDt. Used
// for method comparisons and reference runs; no error control.
func IntegrateFixed(sys dynamo.System, integ Integrator, x0 dynamo.State, grid dynamo.TimeGrid, maxDt float64) (*dynamo.Trajectory, error) {
	if len(grid) == 0 {
		return nil, dynamo.ErrEmptyGrid
	}
	if maxDt <= 0 {
		return nil, dynamo.ErrParameterBounds
	}

	traj := &dynamo.Trajectory{
		Times:  grid,
		States: make([]dynamo.State, 0, len(grid)),
	}
	traj.States = append(traj.States, x0.Clone())

	x := x0.Clone()
	for gi := 1; gi < len(grid); gi++ {
		span := grid[gi] - grid[gi-1]
		n := int(math.Ceil(span / maxDt))
		if n < 1 {
			n = 1
		}
		h := span / float64(n)
		t := grid[gi-1]
		for i := 0; i < n; i++ {
			x = integ.Step(sys, x, t, h)
			t += h
			if !x.IsValid() {
				return traj, &dynamo.StepError{Step: gi, Time: t, Wrapped: dynamo.ErrUnstable}
			}
		}
		traj.States = append(traj.States, x.Clone())
	}

	return traj, nil
}
