package sir

// Derivatives returns the rates of change of the three compartments.
//
//	dS = -beta*S*I/N
//	dI =  beta*S*I/N - gamma*I
//	dR =  gamma*I
//
// with N = S+I+R. The three rates sum to zero. N must be positive; for N == 0
// the division yields NaN and the result is meaningless.
func Derivatives(s, i, r, beta, gamma float64) (dS, dI, dR float64) {
	n := s + i + r
	infection := beta * s * i / n
	recovery := gamma * i

	dS = -infection
	dI = infection - recovery
	dR = recovery
	return dS, dI, dR
}
