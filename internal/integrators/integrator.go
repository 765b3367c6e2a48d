package integrators

import "github.com/san-kum/pendlab/internal/dynamo"

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State
}
