package stochastic

import (
	"fmt"
	"math"
)

// Grid owns the time/frequency discretization shared by every layer of the
// stochastic model. Derived axes are computed lazily and cached; mutating
// npts or dt bumps the revision counter and discards every cached array.
type Grid struct {
	npts int
	dt   float64

	rev uint64

	t       []float64
	freq    []float64
	freqSim []float64

	freqP2    []float64
	freqP4    []float64
	freqN2    []float64 // excludes the zero bin, len(freq)-1
	freqN4    []float64
	freqSimP2 []float64

	freqMask []bool
	periods  []float64
}

// Default analysis passband and period axis, matching the recorded-motion
// conventions of the library.
const (
	defaultMaskLowHz  = 0.1
	defaultMaskHighHz = 25.0

	defaultPeriodStart = 0.04
	defaultPeriodStop  = 10.04
	defaultPeriodStep  = 0.01
)

// NewGrid validates npts and dt and returns an empty-cache grid.
func NewGrid(npts int, dt float64) (*Grid, error) {
	if npts <= 0 {
		return nil, fmt.Errorf("grid: npts must be > 0, got %d", npts)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("grid: dt must be > 0, got %g", dt)
	}
	return &Grid{npts: npts, dt: dt}, nil
}

// Npts returns the sample count.
func (g *Grid) Npts() int { return g.npts }

// Dt returns the time step in seconds.
func (g *Grid) Dt() float64 { return g.dt }

// Rev returns the revision counter. Downstream caches compare against it to
// detect staleness.
func (g *Grid) Rev() uint64 { return g.rev }

// SetNpts replaces the sample count and invalidates all cached axes.
func (g *Grid) SetNpts(npts int) error {
	if npts <= 0 {
		return fmt.Errorf("grid: npts must be > 0, got %d", npts)
	}
	g.npts = npts
	g.invalidate()
	return nil
}

// SetDt replaces the time step and invalidates all cached axes.
func (g *Grid) SetDt(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("grid: dt must be > 0, got %g", dt)
	}
	g.dt = dt
	g.invalidate()
	return nil
}

func (g *Grid) invalidate() {
	g.rev++
	g.t = nil
	g.freq = nil
	g.freqSim = nil
	g.freqP2 = nil
	g.freqP4 = nil
	g.freqN2 = nil
	g.freqN4 = nil
	g.freqSimP2 = nil
	g.freqMask = nil
	g.periods = nil
}

// T returns the time axis: npts samples starting at 0 with step dt.
func (g *Grid) T() []float64 {
	if g.t == nil {
		g.t = timeAxis(g.npts, g.dt)
	}
	return g.t
}

// Freq returns the analysis angular-frequency axis for an npts-length real
// signal: npts bins spaced pi/(npts*dt), so the axis spans [0, Nyquist).
func (g *Grid) Freq() []float64 {
	if g.freq == nil {
		g.freq = freqAxis(g.npts, g.dt)
	}
	return g.freq
}

// FreqSim returns the simulation angular-frequency axis: nextPow2(2*npts)
// bins with the same spacing rule applied to the padded length. The 2x
// oversampling is what keeps the truncated inverse transform alias-free.
func (g *Grid) FreqSim() []float64 {
	if g.freqSim == nil {
		g.freqSim = freqAxis(NextPow2(2*g.npts), g.dt)
	}
	return g.freqSim
}

// FreqP2 returns freq squared, elementwise.
func (g *Grid) FreqP2() []float64 {
	if g.freqP2 == nil {
		g.freqP2 = elementPow(g.Freq(), 2)
	}
	return g.freqP2
}

// FreqP4 returns freq to the fourth power, elementwise.
func (g *Grid) FreqP4() []float64 {
	if g.freqP4 == nil {
		g.freqP4 = elementPow(g.Freq(), 4)
	}
	return g.freqP4
}

// FreqN2 returns freq^-2 for every bin except the zero bin, so it has
// length len(Freq())-1 and FreqN2()[i] corresponds to Freq()[i+1].
func (g *Grid) FreqN2() []float64 {
	if g.freqN2 == nil {
		g.freqN2 = elementPow(g.Freq()[1:], -2)
	}
	return g.freqN2
}

// FreqN4 returns freq^-4, zero bin excluded as in FreqN2.
func (g *Grid) FreqN4() []float64 {
	if g.freqN4 == nil {
		g.freqN4 = elementPow(g.Freq()[1:], -4)
	}
	return g.freqN4
}

// FreqSimP2 returns the simulation axis squared, elementwise.
func (g *Grid) FreqSimP2() []float64 {
	if g.freqSimP2 == nil {
		g.freqSimP2 = elementPow(g.FreqSim(), 2)
	}
	return g.freqSimP2
}

// FreqMask returns the boolean passband selection over Freq. The default
// band is 0.1-25 Hz.
func (g *Grid) FreqMask() []bool {
	if g.freqMask == nil {
		g.SetFreqMask(defaultMaskLowHz, defaultMaskHighHz)
	}
	return g.freqMask
}

// SetFreqMask selects the bins of Freq inside [lowHz, highHz].
func (g *Grid) SetFreqMask(lowHz, highHz float64) {
	freq := g.Freq()
	lo := 2 * math.Pi * lowHz
	hi := 2 * math.Pi * highHz
	mask := make([]bool, len(freq))
	for i, w := range freq {
		mask[i] = w >= lo && w <= hi
	}
	g.freqMask = mask
}

// Periods returns the response-spectrum period axis. The default range is
// 0.04 s to 10.04 s with a 0.01 s step.
func (g *Grid) Periods() []float64 {
	if g.periods == nil {
		g.SetPeriodRange(defaultPeriodStart, defaultPeriodStop, defaultPeriodStep)
	}
	return g.periods
}

// SetPeriodRange replaces the period axis with [start, stop) stepped by step.
func (g *Grid) SetPeriodRange(start, stop, step float64) {
	n := int(math.Ceil((stop - start) / step))
	if n < 0 {
		n = 0
	}
	p := make([]float64, n)
	for i := range p {
		p[i] = start + float64(i)*step
	}
	g.periods = p
}

// NextPow2 returns the smallest power of two not less than n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func timeAxis(npts int, dt float64) []float64 {
	t := make([]float64, npts)
	for i := range t {
		t[i] = float64(i) * dt
	}
	return t
}

// freqAxis returns n angular-frequency bins spaced pi/(n*dt): the
// non-negative rfft frequencies of a zero-padded 2n-length real signal,
// Nyquist bin dropped.
func freqAxis(n int, dt float64) []float64 {
	dw := math.Pi / (float64(n) * dt)
	w := make([]float64, n)
	for i := range w {
		w[i] = float64(i) * dw
	}
	return w
}

func elementPow(in []float64, p int) []float64 {
	out := make([]float64, len(in))
	switch p {
	case 2:
		for i, v := range in {
			out[i] = v * v
		}
	case 4:
		for i, v := range in {
			v2 := v * v
			out[i] = v2 * v2
		}
	case -2:
		for i, v := range in {
			out[i] = 1 / (v * v)
		}
	case -4:
		for i, v := range in {
			v2 := v * v
			out[i] = 1 / (v2 * v2)
		}
	default:
		for i, v := range in {
			out[i] = math.Pow(v, float64(p))
		}
	}
	return out
}
