package sir

// Simulate integrates the model with forward Euler for steps increments of
// dt starting from x0. The returned series hold steps+1 points, the first
// being (0, x0). After every step a compartment that went negative is set to
// exactly 0; compartments are clamped independently, so S+I+R is only
// approximately conserved once clamping kicks in.
//
// Simulate does not guard against a zero total population. A negative steps
// value is treated as zero.
func Simulate(x0 State, p Params, dt float64, steps int) *Series {
	series, _ := integrate(x0, p, dt, steps)
	return series
}

// integrate is Simulate plus the number of steps that needed clamping.
func integrate(x0 State, p Params, dt float64, steps int) (*Series, int) {
	if steps < 0 {
		steps = 0
	}

	out := newSeries(steps + 1)
	out.T[0], out.S[0], out.I[0], out.R[0] = 0, x0.S, x0.I, x0.R

	clamped := 0
	for k := 0; k < steps; k++ {
		dS, dI, dR := Derivatives(out.S[k], out.I[k], out.R[k], p.Beta, p.Gamma)

		s := out.S[k] + dt*dS
		i := out.I[k] + dt*dI
		r := out.R[k] + dt*dR
		out.T[k+1] = out.T[k] + dt

		if s < 0 || i < 0 || r < 0 {
			clamped++
		}
		out.S[k+1] = floor(s)
		out.I[k+1] = floor(i)
		out.R[k+1] = floor(r)
	}

	return out, clamped
}

func floor(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
