package physics

import (
	"math"

	"github.com/san-kum/pendlab/internal/dynamo"
)

// DoublePendulum is the exact nonlinear Lagrangian dynamics of a planar
// double pendulum with point masses. Derive is pure; a vanishing
// denominator (degenerate mass configuration) produces Inf/NaN, which is
// propagated so callers can detect model breakdown.
type DoublePendulum struct {
	P dynamo.Params
}

func NewDoublePendulum(p dynamo.Params) *DoublePendulum {
	return &DoublePendulum{P: p}
}

func (d *DoublePendulum) StateDim() int { return dynamo.StateDim }

func (d *DoublePendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	phi1, omega1 := x[dynamo.IdxPhi1], x[dynamo.IdxOmega1]
	phi2, omega2 := x[dynamo.IdxPhi2], x[dynamo.IdxOmega2]
	m1, m2, l1, l2, g := d.P.M1, d.P.M2, d.P.L1, d.P.L2, d.P.G

	delta := phi2 - phi1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den1 := (m1+m2)*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	alpha1 := (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(phi2)*cosD +
		m2*l2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(phi1)) / den1

	alpha2 := (-m2*l2*omega2*omega2*sinD*cosD +
		(m1+m2)*(g*math.Sin(phi1)*cosD-
			l1*omega1*omega1*sinD-
			g*math.Sin(phi2))) / den2

	return dynamo.State{omega1, alpha1, omega2, alpha2}
}

// Energy is the total mechanical energy, conserved by the exact dynamics.
func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	phi1, omega1 := x[dynamo.IdxPhi1], x[dynamo.IdxOmega1]
	phi2, omega2 := x[dynamo.IdxPhi2], x[dynamo.IdxOmega2]
	m1, m2, l1, l2, g := d.P.M1, d.P.M2, d.P.L1, d.P.L2, d.P.G

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(phi1-phi2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(phi1)
	y2 := y1 - l2*math.Cos(phi2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

// TipDeviation is the horizontal offset of the second bob from the
// vertical axis, l1*sin(phi1) + l2*sin(phi2). Zero at a vertical
// crossing of the arm.
func TipDeviation(l1, l2, phi1, phi2 float64) float64 {
	return l1*math.Sin(phi1) + l2*math.Sin(phi2)
}
