// Package physics implements the double-pendulum right-hand sides: the
// exact nonlinear equations of motion and their small-angle
// linearization. Both satisfy dynamo.System.
package physics
