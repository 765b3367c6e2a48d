package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/integrators"
	"github.com/san-kum/pendlab/internal/physics"
)

// Dimension selects which input a sweep varies.
type Dimension int

const (
	DimPhi1 Dimension = iota
	DimPhi2
	DimL1
	DimL2
	DimM1
	DimM2
)

var dimNames = map[Dimension]string{
	DimPhi1: "phi1",
	DimPhi2: "phi2",
	DimL1:   "l1",
	DimL2:   "l2",
	DimM1:   "m1",
	DimM2:   "m2",
}

func (d Dimension) String() string {
	if s, ok := dimNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

func ParseDimension(s string) (Dimension, error) {
	for d, name := range dimNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown sweep dimension: %q", s)
}

// apply substitutes v into the varied slot, leaving the base values
// untouched.
func (d Dimension) apply(p dynamo.Params, x0 dynamo.State, v float64) (dynamo.Params, dynamo.State) {
	x := x0.Clone()
	switch d {
	case DimPhi1:
		x[dynamo.IdxPhi1] = v
	case DimPhi2:
		x[dynamo.IdxPhi2] = v
	case DimL1:
		p.L1 = v
	case DimL2:
		p.L2 = v
	case DimM1:
		p.M1 = v
	case DimM2:
		p.M2 = v
	}
	return p, x
}

// SystemBuilder constructs the RHS evaluator for one grid point's
// parameters. Defaults to the exact dynamics.
type SystemBuilder func(dynamo.Params) dynamo.System

func exactSystem(p dynamo.Params) dynamo.System { return physics.NewDoublePendulum(p) }

// SweepSpec describes a one-dimensional sweep: substitute each value
// into the varied dimension, integrate, and read -omega2 (or omega2
// with NegateObservable off) at the vertical crossing.
type SweepSpec struct {
	Base dynamo.Params
	Init dynamo.State
	Grid dynamo.TimeGrid
	Opts integrators.Options

	Dim    Dimension
	Values []float64

	// NegateObservable reports the swing-back angular velocity as
	// positive (the release-from-rest convention). It is a caller
	// choice, not part of the locator contract.
	NegateObservable bool

	// Parallel distributes grid points across goroutines. Results are
	// indexed by grid position, so output order is unaffected.
	Parallel bool

	// NewSystem overrides the RHS built per grid point. Nil means the
	// exact dynamics.
	NewSystem SystemBuilder
}

// SweepPoint is one grid point's outcome. A failed integration leaves
// Observable NaN and records the cause in Err; the sweep continues.
type SweepPoint struct {
	Value         float64
	Observable    float64
	CrossingIndex int
	Err           error
}

type SweepResult struct {
	Dim    Dimension
	Points []SweepPoint
}

// Values returns the independent variable series.
func (r *SweepResult) Values() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Value
	}
	return out
}

// Observables returns the dependent series; failed points are NaN.
func (r *SweepResult) Observables() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Observable
	}
	return out
}

// Failed counts grid points whose integration did not converge.
func (r *SweepResult) Failed() int {
	n := 0
	for _, p := range r.Points {
		if p.Err != nil {
			n++
		}
	}
	return n
}

func (s *SweepSpec) builder() SystemBuilder {
	if s.NewSystem != nil {
		return s.NewSystem
	}
	return exactSystem
}

func (s *SweepSpec) runPoint(ctx context.Context, v float64) SweepPoint {
	p, x0 := s.Dim.apply(s.Base, s.Init, v)
	pt := SweepPoint{Value: v, Observable: math.NaN(), CrossingIndex: -1}

	if err := p.Validate(); err != nil {
		pt.Err = err
		return pt
	}

	traj, err := integrators.Integrate(ctx, s.builder()(p), x0, s.Grid, s.Opts)
	if err != nil {
		pt.Err = err
		return pt
	}

	idx, obs, err := CrossingObservable(traj, p.L1, p.L2, s.NegateObservable)
	if err != nil {
		pt.Err = err
		return pt
	}

	pt.CrossingIndex = idx
	pt.Observable = obs
	return pt
}

// Sweep1D drives one integration per value in spec.Values, in grid
// order. One bad parameter combination does not abort the sweep; its
// point is marked and the rest proceed.
func Sweep1D(ctx context.Context, spec SweepSpec) (*SweepResult, error) {
	if len(spec.Values) == 0 {
		return nil, dynamo.ErrEmptyGrid
	}
	if err := spec.Base.Validate(); err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(spec.Values))
	run := func(start, end int) {
		for i := start; i < end; i++ {
			points[i] = spec.runPoint(ctx, spec.Values[i])
		}
	}

	if spec.Parallel {
		dynamo.ParallelFor(len(spec.Values), 1, run)
	} else {
		run(0, len(spec.Values))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &SweepResult{Dim: spec.Dim, Points: points}, nil
}

// LinSpace builds a sweep value grid of n points over [min, max].
func LinSpace(min, max float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	vs := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vs {
		vs[i] = min + float64(i)*step
	}
	vs[n-1] = max
	return vs
}
