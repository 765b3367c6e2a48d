// Package dynamo provides the core primitives for double-pendulum
// integration and analysis:
//
//   - [State]: the state vector [phi1, omega1, phi2, omega2]
//   - [Params]: masses, rod lengths, gravitational acceleration
//   - [System]: interface for ODE right-hand sides (dx/dt = f(x, t))
//   - [TimeGrid] / [Trajectory]: sample times and states aligned 1:1
//
// # Example
//
//	sys := physics.NewDoublePendulum(dynamo.DefaultParams())
//	grid, _ := dynamo.UniformGrid(0, math.Pi/2, 100)
//	traj, _ := integrators.Integrate(ctx, sys, x0, grid, integrators.DefaultOptions())
//
// # Thread Safety
//
// All types here are plain values. Nothing in this package carries
// hidden state, so independent integrations may run concurrently as long
// as each owns its Trajectory.
package dynamo
