package physics

import (
	"math"
	"testing"

	"github.com/san-kum/pendlab/internal/dynamo"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := NewDoublePendulum(dynamo.DefaultParams())

	dx := dp.Derive(dynamo.NewState(0, 0, 0, 0), 0)

	for i, v := range dx {
		if math.Abs(v) > 1e-12 {
			t.Errorf("component %d not zero at equilibrium: %g", i, v)
		}
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	dp := NewDoublePendulum(dynamo.DefaultParams())

	dx1 := dp.Derive(dynamo.NewState(0.1, 0, 0.1, 0), 0)
	dx2 := dp.Derive(dynamo.NewState(-0.1, 0, -0.1, 0), 0)

	// Mirroring the angles mirrors the accelerations.
	if math.Abs(dx1[dynamo.IdxOmega1]+dx2[dynamo.IdxOmega1]) > 1e-9 {
		t.Errorf("alpha1 not antisymmetric: %g vs %g", dx1[dynamo.IdxOmega1], dx2[dynamo.IdxOmega1])
	}
	if math.Abs(dx1[dynamo.IdxOmega2]+dx2[dynamo.IdxOmega2]) > 1e-9 {
		t.Errorf("alpha2 not antisymmetric: %g vs %g", dx1[dynamo.IdxOmega2], dx2[dynamo.IdxOmega2])
	}
}

func TestDoublePendulumAnglePassThrough(t *testing.T) {
	dp := NewDoublePendulum(dynamo.DefaultParams())

	x := dynamo.NewState(0.3, 1.7, -0.2, -0.4)
	dx := dp.Derive(x, 0)

	if dx[dynamo.IdxPhi1] != 1.7 {
		t.Errorf("dphi1 = %g, want omega1 = 1.7", dx[dynamo.IdxPhi1])
	}
	if dx[dynamo.IdxPhi2] != -0.4 {
		t.Errorf("dphi2 = %g, want omega2 = -0.4", dx[dynamo.IdxPhi2])
	}
}

func TestSmallAngleFixedPoint(t *testing.T) {
	sa := NewSmallAngle(dynamo.DefaultParams())

	dx := sa.Derive(dynamo.NewState(0, 0, 0, 0), 0)

	for i, v := range dx {
		if v != 0 {
			t.Errorf("component %d not exactly zero: %g", i, v)
		}
	}
}

// The linearized derivative must converge to the exact one quadratically
// as the displacement shrinks.
func TestSmallAngleDerivativeConvergence(t *testing.T) {
	p := dynamo.DefaultParams()
	dp := NewDoublePendulum(p)
	sa := NewSmallAngle(p)

	maxDiff := func(eps float64) float64 {
		x := dynamo.NewState(eps, 0, -eps, 0)
		de := dp.Derive(x, 0)
		dl := sa.Derive(x, 0)
		worst := 0.0
		for i := range de {
			if d := math.Abs(de[i] - dl[i]); d > worst {
				worst = d
			}
		}
		return worst
	}

	big := maxDiff(0.1)
	small := maxDiff(0.01)

	if small >= big {
		t.Fatalf("error did not shrink with angle: %g vs %g", small, big)
	}
	// Third-order terms dominate the residual: factor 10 in angle gives
	// roughly a factor 1000 in error. Allow generous slack.
	if small > big/100 {
		t.Errorf("convergence too slow: eps=0.1 -> %g, eps=0.01 -> %g", big, small)
	}
}

func TestEnergyAtRest(t *testing.T) {
	p := dynamo.Params{M1: 1, M2: 1, L1: 1, L2: 1, G: 9.8}
	dp := NewDoublePendulum(p)

	// Hanging straight down, at rest: PE = -(m1*g*l1 + m2*g*(l1+l2)).
	e := dp.Energy(dynamo.NewState(0, 0, 0, 0))
	want := -(1*9.8*1 + 1*9.8*2)
	if math.Abs(e-want) > 1e-12 {
		t.Errorf("rest energy = %g, want %g", e, want)
	}
}

func TestSingularConfigurationPropagates(t *testing.T) {
	// m1 -> 0 drives the shared denominator toward zero when the arms
	// are aligned. The RHS must propagate the blowup, not clamp it.
	p := dynamo.Params{M1: 1e-300, M2: 1, L1: 1, L2: 1, G: 9.8}
	dp := NewDoublePendulum(p)

	dx := dp.Derive(dynamo.NewState(0.5, 1, 0.5, 1), 0)
	finite := dx.IsValid()
	huge := math.Abs(dx[dynamo.IdxOmega1]) > 1e100
	if finite && !huge {
		t.Errorf("near-singular configuration neither blew up nor went non-finite: %v", dx)
	}
}

func TestTipDeviation(t *testing.T) {
	if d := TipDeviation(1, 1, 0, 0); d != 0 {
		t.Errorf("hanging arm deviation = %g, want 0", d)
	}
	// Opposed angles with equal lengths cancel.
	if d := TipDeviation(2, 2, 0.3, -0.3); math.Abs(d) > 1e-15 {
		t.Errorf("opposed angles deviation = %g, want 0", d)
	}
	want := 2*math.Sin(0.4) + 3*math.Sin(-0.1)
	if d := TipDeviation(2, 3, 0.4, -0.1); math.Abs(d-want) > 1e-15 {
		t.Errorf("deviation = %g, want %g", d, want)
	}
}
