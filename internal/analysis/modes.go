package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendlab/internal/dynamo"
)

// Modes holds the small-angle normal-mode angular frequencies, slow
// mode first.
type Modes struct {
	Omega [2]float64
}

func (m Modes) Periods() [2]float64 {
	return [2]float64{2 * math.Pi / m.Omega[0], 2 * math.Pi / m.Omega[1]}
}

// NormalModes solves the generalized eigenproblem of the linearized
// dynamics, M q'' = -K q with
//
//	M = | (m1+m2)*l1  m2*l2 |    K = | (m1+m2)*g    0 |
//	    |     l1        l2  |        |     0        g |
//
// The eigenvalues of M^-1 K are the squared mode frequencies. Both are
// real and positive for any valid parameter set.
func NormalModes(p dynamo.Params) (Modes, error) {
	if err := p.Validate(); err != nil {
		return Modes{}, err
	}

	m := mat.NewDense(2, 2, []float64{
		(p.M1 + p.M2) * p.L1, p.M2 * p.L2,
		p.L1, p.L2,
	})
	k := mat.NewDense(2, 2, []float64{
		(p.M1 + p.M2) * p.G, 0,
		0, p.G,
	})

	var a mat.Dense
	if err := a.Solve(m, k); err != nil {
		return Modes{}, fmt.Errorf("mass matrix singular: %w", err)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(&a, mat.EigenNone); !ok {
		return Modes{}, fmt.Errorf("eigendecomposition failed for %+v", p)
	}

	vals := eig.Values(nil)
	freqs := make([]float64, 0, 2)
	for _, v := range vals {
		if math.Abs(imag(v)) > 1e-9 || real(v) <= 0 {
			return Modes{}, fmt.Errorf("non-oscillatory mode %v for %+v", v, p)
		}
		freqs = append(freqs, math.Sqrt(real(v)))
	}
	sort.Float64s(freqs)

	return Modes{Omega: [2]float64{freqs[0], freqs[1]}}, nil
}
