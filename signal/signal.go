// Package signal provides the elementary signal-metric primitives used to
// characterize recorded and simulated ground motions: Fourier amplitude
// spectra, cumulative energy, extrema counting, integration and response
// spectra. All series are uniform with time step dt.
package signal

import (
	"fmt"
	"math"

	dspspectrum "github.com/cwbudde/algo-dsp/dsp/spectrum"
	algofft "github.com/cwbudde/algo-fft"
)

// FAS returns the Fourier amplitude spectrum of x over the analysis
// frequency axis: len(x) bins spaced pi/(len(x)*dt) rad/s. The transform is
// evaluated on a power-of-two padded grid and interpolated onto the
// analysis axis.
func FAS(dt float64, x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("signal: empty input")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("signal: dt must be > 0, got %g", dt)
	}
	fftSize := nextPow2(2 * n)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("signal: fft plan: %w", err)
	}
	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("signal: forward fft: %w", err)
	}

	half := dspspectrum.Magnitude(out[:fftSize/2+1])
	for i := range half {
		half[i] *= dt
	}
	padAxis := make([]float64, len(half))
	dwPad := 2 * math.Pi / (float64(fftSize) * dt)
	for i := range padAxis {
		padAxis[i] = float64(i) * dwPad
	}
	queryAxis := make([]float64, n)
	dw := math.Pi / (float64(n) * dt)
	for i := range queryAxis {
		queryAxis[i] = float64(i) * dw
	}
	fas, err := dspspectrum.InterpolateLinear(padAxis, half, queryAxis)
	if err != nil {
		return nil, fmt.Errorf("signal: fas interpolation: %w", err)
	}
	return fas, nil
}

// CumulativeEnergy returns cumsum(x^2)*dt.
func CumulativeEnergy(dt float64, x []float64) []float64 {
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		sum += v * v * dt
		out[i] = sum
	}
	return out
}

// Integrate returns the running time integral of x (rectangle rule).
func Integrate(dt float64, x []float64) []float64 {
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		sum += v * dt
		out[i] = sum
	}
	return out
}

// PeakValue returns max(|x|).
func PeakValue(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// CountLocalExtrema returns the cumulative count of local extrema (peaks
// and valleys): sign changes of the first difference.
func CountLocalExtrema(x []float64) []float64 {
	out := make([]float64, len(x))
	var count float64
	prevDiff := 0.0
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		if prevDiff != 0 && d != 0 && (d > 0) != (prevDiff > 0) {
			count++
		}
		if d != 0 {
			prevDiff = d
		}
		out[i] = count
	}
	return out
}

// CountZeroCrossings returns the cumulative count of zero crossings (up
// and down).
func CountZeroCrossings(x []float64) []float64 {
	out := make([]float64, len(x))
	var count float64
	for i := 1; i < len(x); i++ {
		if x[i-1] != 0 && x[i] != 0 && (x[i] > 0) != (x[i-1] > 0) {
			count++
		}
		out[i] = count
	}
	return out
}

// CountPosMinNegMax returns the cumulative count of positive local minima
// and negative local maxima.
func CountPosMinNegMax(x []float64) []float64 {
	out := make([]float64, len(x))
	var count float64
	for i := 1; i < len(x)-1; i++ {
		isMin := x[i] < x[i-1] && x[i] < x[i+1]
		isMax := x[i] > x[i-1] && x[i] > x[i+1]
		if (isMin && x[i] > 0) || (isMax && x[i] < 0) {
			count++
		}
		out[i] = count
	}
	if len(x) > 1 {
		out[len(x)-1] = count
	}
	return out
}

// EnergyMask selects the samples between the given total-energy fractions,
// e.g. (0.001, 0.999) keeps the central 99.8% of the energy build-up.
func EnergyMask(dt float64, x []float64, lowFrac, highFrac float64) ([]bool, error) {
	if lowFrac < 0 || highFrac > 1 || lowFrac >= highFrac {
		return nil, fmt.Errorf("signal: energy range must satisfy 0 <= low < high <= 1, got (%g, %g)", lowFrac, highFrac)
	}
	ce := CumulativeEnergy(dt, x)
	total := ce[len(ce)-1]
	mask := make([]bool, len(x))
	if total <= 0 {
		return mask, nil
	}
	for i, e := range ce {
		frac := e / total
		mask[i] = frac >= lowFrac && frac <= highFrac
	}
	return mask, nil
}

// MovingAverage returns the centered moving average of x with the given
// odd window length; edges shrink the window symmetrically.
func MovingAverage(x []float64, window int) []float64 {
	if window < 2 {
		return append([]float64(nil), x...)
	}
	half := window / 2
	out := make([]float64, len(x))
	for i := range x {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(x)-1 {
			hi = len(x) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
