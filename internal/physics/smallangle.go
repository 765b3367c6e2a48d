package physics

import "github.com/san-kum/pendlab/internal/dynamo"

// SmallAngle is the linearization of the double-pendulum dynamics about
// the hanging equilibrium: sin(x) -> x, cos(x) -> 1, quadratic velocity
// terms dropped. Derived independently from the Lagrangian:
//
//	phi1'' = (m2*g*phi2 - (m1+m2)*g*phi1) / (m1*l1)
//	phi2'' = (m1+m2)*g*(phi1 - phi2) / (m1*l2)
//
// Used as a reference model for quantifying the approximation error at
// small displacements, never as the system of record.
type SmallAngle struct {
	P dynamo.Params
}

func NewSmallAngle(p dynamo.Params) *SmallAngle {
	return &SmallAngle{P: p}
}

func (s *SmallAngle) StateDim() int { return dynamo.StateDim }

func (s *SmallAngle) Derive(x dynamo.State, _ float64) dynamo.State {
	phi1, omega1 := x[dynamo.IdxPhi1], x[dynamo.IdxOmega1]
	phi2, omega2 := x[dynamo.IdxPhi2], x[dynamo.IdxOmega2]
	m1, m2, l1, l2, g := s.P.M1, s.P.M2, s.P.L1, s.P.L2, s.P.G

	alpha1 := (m2*g*phi2 - (m1+m2)*g*phi1) / (m1 * l1)
	alpha2 := (m1 + m2) * g * (phi1 - phi2) / (m1 * l2)

	return dynamo.State{omega1, alpha1, omega2, alpha2}
}
