// Package sir implements the Susceptible-Infected-Recovered compartmental
// model and its explicit Euler integrator.
//
// The package is split into a pure numerical core and a validating runner:
//
//   - [Derivatives]: instantaneous rates of change for one (S, I, R) state
//   - [Simulate]: fixed-step forward Euler with per-compartment clamping
//   - [Simulator]: validates inputs, runs [Simulate] and feeds [Metric] and
//     [Observer] implementations
//   - [Sweep]: concurrent runs over many parameter sets
//
// # Example
//
//	x0 := sir.State{S: 990, I: 10, R: 0}
//	p := sir.Params{Beta: 0.3, Gamma: 0.1}
//	series := sir.Simulate(x0, p, 0.1, 600)
//
// # Preconditions
//
// [Derivatives] divides by N = S + I + R. Callers of [Simulate] must keep the
// total population positive; [Simulator.Run] rejects a non-positive initial
// total with [ErrDegeneratePopulation].
//
// # Thread Safety
//
// [Simulate] and [Derivatives] share no state and may be called from any
// number of goroutines. A [Simulator] owns its metrics and is not safe for
// concurrent use; [Sweep] builds one per run.
package sir
