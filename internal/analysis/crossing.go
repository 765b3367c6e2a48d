package analysis

import (
	"math"

	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/physics"
)

// VerticalCrossing returns the sample index at which the second bob is
// closest to the vertical axis, minimizing |l1*sin(phi1) + l2*sin(phi2)|.
//
// The scan is linear and keeps the earliest index on ties; precision is
// bounded by the grid resolution (no interpolation between samples).
// An empty series yields dynamo.ErrEmptySeries.
func VerticalCrossing(l1, l2 float64, phi1s, phi2s []float64) (int, error) {
	n := len(phi1s)
	if len(phi2s) < n {
		n = len(phi2s)
	}
	if n == 0 {
		return -1, dynamo.ErrEmptySeries
	}

	best := 0
	bestDev := math.Abs(physics.TipDeviation(l1, l2, phi1s[0], phi2s[0]))
	for i := 1; i < n; i++ {
		dev := math.Abs(physics.TipDeviation(l1, l2, phi1s[i], phi2s[i]))
		if dev < bestDev {
			best = i
			bestDev = dev
		}
	}
	return best, nil
}

// CrossingObservable locates the vertical crossing of a trajectory and
// returns its index together with omega2 there. With negate set, the
// sign is flipped so a pendulum released from rest reports its
// swing-back angular velocity as positive.
func CrossingObservable(traj *dynamo.Trajectory, l1, l2 float64, negate bool) (int, float64, error) {
	idx, err := VerticalCrossing(l1, l2, traj.Phi1s(), traj.Phi2s())
	if err != nil {
		return -1, math.NaN(), err
	}
	obs := traj.States[idx][dynamo.IdxOmega2]
	if negate {
		obs = -obs
	}
	return idx, obs, nil
}
