// Package analysis turns a simulated SIR trajectory into numbers and
// pictures a person can read.
//
//   - [Summarize]: peak, final state, attack rate, R0, herd-immunity
//     threshold and population conservation of a run
//   - [Summary.WriteText]: the post-run report printed by the CLI
//   - [NewPhasePortrait]: the trajectory in the S–I plane
//   - [PhasePortraitToASCII]: terminal rendering of a portrait
//
// # Reading a Summary
//
// The outbreak flag follows R0: above 1 the infected count grows before it
// declines, below 1 it decays from the start.
//
//	sum := analysis.Summarize(series, params)
//	if sum.Outbreak {
//	    fmt.Printf("peak %.0f at t=%.1f\n", sum.PeakInfected, sum.PeakTime)
//	}
package analysis
