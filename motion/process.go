package motion

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"

	"github.com/Sajad-Hussaini/SGSIM/signal"
)

// bandpassOrder is the order of each Butterworth half of the band-pass.
const bandpassOrder = 4

// Filter band-passes every acceleration row between lowHz and highHz with a
// Butterworth high-pass/low-pass cascade, then re-derives velocity and
// displacement by time integration.
func (m *Motion) Filter(lowHz, highHz float64) error {
	if lowHz <= 0 || highHz <= lowHz {
		return fmt.Errorf("motion: band-pass requires 0 < low < high, got (%g, %g)", lowHz, highHz)
	}
	sampleRate := 1 / m.Dt()
	if highHz >= sampleRate/2 {
		return fmt.Errorf("motion: high cut %g Hz is at or above Nyquist %g Hz", highHz, sampleRate/2)
	}
	hp := pass.ButterworthHP(lowHz, bandpassOrder, sampleRate)
	lp := pass.ButterworthLP(highHz, bandpassOrder, sampleRate)

	for i := range m.Ac {
		row := append([]float64(nil), m.Ac[i]...)
		chain := biquad.NewChain(append(append([]biquad.Coefficients(nil), hp...), lp...))
		chain.ProcessBlock(row)
		m.Ac[i] = row
		m.Vel[i] = signal.Integrate(m.Dt(), row)
		m.Disp[i] = signal.Integrate(m.Dt(), m.Vel[i])
	}
	m.resetDerived()
	return nil
}

// Resample changes the time step of every realization, re-deriving velocity
// and displacement from the resampled acceleration.
func (m *Motion) Resample(newDt float64) error {
	if newDt <= 0 {
		return fmt.Errorf("motion: new dt must be > 0, got %g", newDt)
	}
	if newDt == m.Dt() {
		return nil
	}
	npts := 0
	for i := range m.Ac {
		// Resamplers are stateful, so each row gets a fresh one.
		r, err := dspresample.NewForRates(1/m.Dt(), 1/newDt, dspresample.WithQuality(dspresample.QualityBest))
		if err != nil {
			return fmt.Errorf("motion: resampler: %w", err)
		}
		out := r.Process(m.Ac[i])
		if npts == 0 {
			npts = len(out)
		}
		if len(out) != npts {
			out = out[:npts]
		}
		m.Ac[i] = out
		m.Vel[i] = signal.Integrate(newDt, out)
		m.Disp[i] = signal.Integrate(newDt, m.Vel[i])
	}
	if err := m.grid.SetDt(newDt); err != nil {
		return err
	}
	if err := m.grid.SetNpts(npts); err != nil {
		return err
	}
	m.resetDerived()
	return nil
}
