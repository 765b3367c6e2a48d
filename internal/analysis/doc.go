// Package analysis extracts observables from double-pendulum
// trajectories: the vertical-crossing locator, the 1-D and 2-D
// parameter sweep drivers, and the small-angle normal-mode frequencies.
package analysis
