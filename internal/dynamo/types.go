package dynamo

import (
	"fmt"
	"math"
)

// StateDim is the dimension of the double-pendulum state vector.
const StateDim = 4

// State vector layout: [phi1, omega1, phi2, omega2] — angle of the first
// arm from vertical (radians, unwrapped), its angular velocity, angle of
// the second arm, its angular velocity.
const (
	IdxPhi1 = iota
	IdxOmega1
	IdxPhi2
	IdxOmega2
)

type State []float64

func NewState(phi1, omega1, phi2, omega2 float64) State {
	return State{phi1, omega1, phi2, omega2}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Reversed negates the angular velocities, turning a forward state into
// the initial condition of the time-reversed motion.
func (s State) Reversed() State {
	c := s.Clone()
	if len(c) == StateDim {
		c[IdxOmega1] = -c[IdxOmega1]
		c[IdxOmega2] = -c[IdxOmega2]
	}
	return c
}

// Params holds the physical configuration: two point masses, two rod
// lengths, and gravitational acceleration. All values must be positive.
//
// The exact equations of motion share the denominator
// (m1+m2)*l1 - m2*l1*cos²(phi1-phi2), which can approach zero only in
// degenerate mass configurations; that is a property of the model, not
// checked here. The RHS propagates the resulting non-finite values.
type Params struct {
	M1 float64
	M2 float64
	L1 float64
	L2 float64
	G  float64
}

func DefaultParams() Params {
	return Params{M1: 1.0, M2: 1.0, L1: 1.0, L2: 1.0, G: 9.8}
}

func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%g, must be positive", ErrParameterBounds, name, v)
		}
		return nil
	}
	if err := check("m1", p.M1); err != nil {
		return err
	}
	if err := check("m2", p.M2); err != nil {
		return err
	}
	if err := check("l1", p.L1); err != nil {
		return err
	}
	if err := check("l2", p.L2); err != nil {
		return err
	}
	return check("g", p.G)
}

// System is an ODE right-hand side dx/dt = f(x, t). Implementations must
// be pure: no internal state, no side effects.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems with a conserved total energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// Trajectory pairs a time grid with the states sampled at its points.
// Produced once by an integration, read-only afterward.
type Trajectory struct {
	Times  TimeGrid
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) At(i int) (float64, State) {
	return tr.Times[i], tr.States[i]
}

// Component extracts one state component as a flat series.
func (tr *Trajectory) Component(idx int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s[idx]
	}
	return out
}

func (tr *Trajectory) Phi1s() []float64   { return tr.Component(IdxPhi1) }
func (tr *Trajectory) Phi2s() []float64   { return tr.Component(IdxPhi2) }
func (tr *Trajectory) Omega1s() []float64 { return tr.Component(IdxOmega1) }
func (tr *Trajectory) Omega2s() []float64 { return tr.Component(IdxOmega2) }
