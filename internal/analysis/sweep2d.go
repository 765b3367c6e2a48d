package analysis

import (
	"context"
	"math"

	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/integrators"
)

// Sweep2DSpec varies both release angles: phi1 over Outer, phi2 over
// Inner, outer-to-inner traversal.
type Sweep2DSpec struct {
	Base dynamo.Params
	Init dynamo.State
	Grid dynamo.TimeGrid
	Opts integrators.Options

	Outer []float64 // phi1 values
	Inner []float64 // phi2 values

	NegateObservable bool

	// Parallel runs outer rows concurrently; rows land in preallocated
	// slots and the envelope fold happens afterward in grid order, so
	// first-encountered tie-breaking is preserved.
	Parallel bool

	NewSystem SystemBuilder
}

// Triple is one 2-D grid point: (phi1, phi2, observable).
type Triple struct {
	V1         float64
	V2         float64
	Observable float64
	Err        error
}

// RowEnvelope carries the extrema of one outer row over the inner grid,
// with the inner value at which each extremum first occurred.
type RowEnvelope struct {
	V1     float64
	Max    float64
	ArgMax float64
	Min    float64
	ArgMin float64
	Valid  bool
}

type Sweep2DResult struct {
	Triples []Triple      // flat, outer-major order
	Rows    []RowEnvelope // one per outer value
}

// foldEnvelope reduces one row to its extrema with an explicit
// (best, companion) accumulator. Strict comparisons keep the first
// encountered extremum on ties; NaN observables are skipped.
func foldEnvelope(v1 float64, inner []float64, obs []float64) RowEnvelope {
	env := RowEnvelope{V1: v1, Max: math.Inf(-1), Min: math.Inf(1)}
	for i, o := range obs {
		if math.IsNaN(o) {
			continue
		}
		if o > env.Max {
			env.Max = o
			env.ArgMax = inner[i]
		}
		if o < env.Min {
			env.Min = o
			env.ArgMin = inner[i]
		}
		env.Valid = true
	}
	return env
}

// Sweep2D integrates once per (phi1, phi2) pair and reports the flat
// observable grid plus per-row envelopes. Like Sweep1D, a failed grid
// point is marked NaN and the sweep continues.
func Sweep2D(ctx context.Context, spec Sweep2DSpec) (*Sweep2DResult, error) {
	if len(spec.Outer) == 0 || len(spec.Inner) == 0 {
		return nil, dynamo.ErrEmptyGrid
	}
	if err := spec.Base.Validate(); err != nil {
		return nil, err
	}

	ni := len(spec.Inner)
	triples := make([]Triple, len(spec.Outer)*ni)

	runRow := func(start, end int) {
		for oi := start; oi < end; oi++ {
			v1 := spec.Outer[oi]
			rowSpec := SweepSpec{
				Base:             spec.Base,
				Init:             spec.Init.Clone(),
				Grid:             spec.Grid,
				Opts:             spec.Opts,
				Dim:              DimPhi2,
				NegateObservable: spec.NegateObservable,
				NewSystem:        spec.NewSystem,
			}
			rowSpec.Init[dynamo.IdxPhi1] = v1

			for ii, v2 := range spec.Inner {
				pt := rowSpec.runPoint(ctx, v2)
				triples[oi*ni+ii] = Triple{
					V1:         v1,
					V2:         v2,
					Observable: pt.Observable,
					Err:        pt.Err,
				}
			}
		}
	}

	if spec.Parallel {
		dynamo.ParallelFor(len(spec.Outer), 1, runRow)
	} else {
		runRow(0, len(spec.Outer))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]RowEnvelope, len(spec.Outer))
	obs := make([]float64, ni)
	for oi, v1 := range spec.Outer {
		for ii := range spec.Inner {
			obs[ii] = triples[oi*ni+ii].Observable
		}
		rows[oi] = foldEnvelope(v1, spec.Inner, obs)
	}

	return &Sweep2DResult{Triples: triples, Rows: rows}, nil
}
