package stochastic

import "math"

// synthesizeFourier builds, for each of the n white-noise rows, the complex
// Fourier coefficients of the simulated acceleration over the padded
// simulation axis.
//
// Per time sample i the filter pair contributes a frequency response
// sqrt(S_i(w) * dw / variance_i), unit-variance by construction, which is
// scaled by the envelope and phase-shifted to t_i:
//
//	F[r][j] = sum_i wn[r][i] * mdl[i] * sqrt(S_i(w_j) dw / var_i) * e^(-i w_j t_i)
//
// Samples with zero envelope or non-positive variance contribute nothing.
// S_i(0) = 0, so the zero-frequency coefficient is always exactly zero.
func synthesizeFourier(n, npts int, t, freqSim, mdl, wu, zu, wl, zl, variance, whiteNoise []float64) [][]complex128 {
	nf := len(freqSim)
	out := make([][]complex128, n)
	for r := range out {
		out[r] = make([]complex128, nf)
	}
	if nf < 2 {
		return out
	}
	dw := freqSim[1] - freqSim[0]

	coef := make([]float64, nf)
	for i := 0; i < npts; i++ {
		if mdl[i] == 0 || variance[i] <= 0 {
			continue
		}
		scale := mdl[i] * mdl[i] * dw / variance[i]
		for j, w := range freqSim {
			coef[j] = math.Sqrt(scale * filterPSD(w, w*w, wu[i], zu[i], wl[i], zl[i]))
		}
		// e^(-i w_j t_i) advances by a fixed rotation per bin, so the
		// phasor is generated by recurrence instead of nf sincos calls.
		sinD, cosD := math.Sincos(-dw * t[i])
		for r := 0; r < n; r++ {
			wn := whiteNoise[r*npts+i]
			if wn == 0 {
				continue
			}
			pr, pi := 1.0, 0.0
			row := out[r]
			for j := 0; j < nf; j++ {
				a := wn * coef[j]
				row[j] += complex(a*pr, a*pi)
				pr, pi = pr*cosD-pi*sinD, pr*sinD+pi*cosD
			}
		}
	}
	return out
}
