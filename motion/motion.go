// Package motion describes ground motions, recorded or simulated, in terms
// of spectra, peak values, energy and extrema characteristics. A Motion
// wraps one or more realizations sharing a common time step; derived
// quantities are cached lazily and reset whenever the underlying series
// change.
package motion

import (
	"fmt"
	"strings"

	"github.com/Sajad-Hussaini/SGSIM/signal"
	"github.com/Sajad-Hussaini/SGSIM/stochastic"
)

// Motion holds acceleration, velocity and displacement realizations shaped
// (n, npts) plus the grid that owns their time/frequency axes.
type Motion struct {
	grid *stochastic.Grid

	Ac   [][]float64
	Vel  [][]float64
	Disp [][]float64

	fas     [][]float64
	fasStar [][]float64
	ce      [][]float64
	mle     map[stochastic.ResponseKind][][]float64
	mzc     map[stochastic.ResponseKind][][]float64
	pmnm    map[stochastic.ResponseKind][][]float64
	spectra []*signal.Spectra
}

// New wraps a single recorded motion.
func New(dt float64, ac, vel, disp []float64) (*Motion, error) {
	if len(ac) == 0 {
		return nil, fmt.Errorf("motion: empty acceleration record")
	}
	if len(vel) != len(ac) || len(disp) != len(ac) {
		return nil, fmt.Errorf("motion: series length mismatch: ac=%d vel=%d disp=%d", len(ac), len(vel), len(disp))
	}
	grid, err := stochastic.NewGrid(len(ac), dt)
	if err != nil {
		return nil, err
	}
	m := &Motion{
		grid: grid,
		Ac:   [][]float64{ac},
		Vel:  [][]float64{vel},
		Disp: [][]float64{disp},
	}
	m.resetDerived()
	return m, nil
}

// FromEnsemble wraps a simulated ensemble.
func FromEnsemble(ens *stochastic.Ensemble) (*Motion, error) {
	if ens == nil || len(ens.Ac) == 0 {
		return nil, fmt.Errorf("motion: empty ensemble")
	}
	grid, err := stochastic.NewGrid(ens.Npts, ens.Dt)
	if err != nil {
		return nil, err
	}
	m := &Motion{
		grid: grid,
		Ac:   ens.Ac,
		Vel:  ens.Vel,
		Disp: ens.Disp,
	}
	m.resetDerived()
	return m, nil
}

// Grid returns the time/frequency grid of the motion.
func (m *Motion) Grid() *stochastic.Grid { return m.grid }

// Npts returns the per-realization sample count.
func (m *Motion) Npts() int { return m.grid.Npts() }

// Dt returns the time step.
func (m *Motion) Dt() float64 { return m.grid.Dt() }

// Realizations returns the number of rows.
func (m *Motion) Realizations() int { return len(m.Ac) }

func (m *Motion) resetDerived() {
	m.fas = nil
	m.fasStar = nil
	m.ce = nil
	m.mle = nil
	m.mzc = nil
	m.pmnm = nil
	m.spectra = nil
}

func (m *Motion) series(kind stochastic.ResponseKind) [][]float64 {
	switch kind {
	case stochastic.ResponseVelocity:
		return m.Vel
	case stochastic.ResponseDisplacement:
		return m.Disp
	default:
		return m.Ac
	}
}

// FAS returns the Fourier amplitude spectrum of each acceleration row over
// the grid's analysis axis.
func (m *Motion) FAS() ([][]float64, error) {
	if m.fas == nil {
		out := make([][]float64, len(m.Ac))
		for i, row := range m.Ac {
			fas, err := signal.FAS(m.Dt(), row)
			if err != nil {
				return nil, err
			}
			out[i] = fas
		}
		m.fas = out
	}
	return m.fas, nil
}

// smoothingWindow is the moving-average length applied before masking the
// FAS to the analysis passband.
const smoothingWindow = 9

// SmoothedFAS returns the moving-average smoothed FAS restricted to the
// grid's frequency mask.
func (m *Motion) SmoothedFAS() ([][]float64, error) {
	if m.fasStar == nil {
		fas, err := m.FAS()
		if err != nil {
			return nil, err
		}
		mask := m.grid.FreqMask()
		out := make([][]float64, len(fas))
		for i, row := range fas {
			smoothed := signal.MovingAverage(row, smoothingWindow)
			sel := make([]float64, 0, len(smoothed))
			for j, keep := range mask {
				if keep {
					sel = append(sel, smoothed[j])
				}
			}
			out[i] = sel
		}
		m.fasStar = out
	}
	return m.fasStar, nil
}

// CumulativeEnergy returns the cumulative energy of each acceleration row.
func (m *Motion) CumulativeEnergy() [][]float64 {
	if m.ce == nil {
		out := make([][]float64, len(m.Ac))
		for i, row := range m.Ac {
			out[i] = signal.CumulativeEnergy(m.Dt(), row)
		}
		m.ce = out
	}
	return m.ce
}

// LocalExtrema returns the cumulative count of local extrema of each row of
// the chosen response view.
func (m *Motion) LocalExtrema(kind stochastic.ResponseKind) [][]float64 {
	if m.mle == nil {
		m.mle = make(map[stochastic.ResponseKind][][]float64)
	}
	if m.mle[kind] == nil {
		rows := m.series(kind)
		out := make([][]float64, len(rows))
		for i, row := range rows {
			out[i] = signal.CountLocalExtrema(row)
		}
		m.mle[kind] = out
	}
	return m.mle[kind]
}

// ZeroCrossings returns the cumulative count of zero crossings of each row
// of the chosen response view.
func (m *Motion) ZeroCrossings(kind stochastic.ResponseKind) [][]float64 {
	if m.mzc == nil {
		m.mzc = make(map[stochastic.ResponseKind][][]float64)
	}
	if m.mzc[kind] == nil {
		rows := m.series(kind)
		out := make([][]float64, len(rows))
		for i, row := range rows {
			out[i] = signal.CountZeroCrossings(row)
		}
		m.mzc[kind] = out
	}
	return m.mzc[kind]
}

// PosMinNegMax returns the cumulative count of positive minima and negative
// maxima of each row of the chosen response view.
func (m *Motion) PosMinNegMax(kind stochastic.ResponseKind) [][]float64 {
	if m.pmnm == nil {
		m.pmnm = make(map[stochastic.ResponseKind][][]float64)
	}
	if m.pmnm[kind] == nil {
		rows := m.series(kind)
		out := make([][]float64, len(rows))
		for i, row := range rows {
			out[i] = signal.CountPosMinNegMax(row)
		}
		m.pmnm[kind] = out
	}
	return m.pmnm[kind]
}

// PGA returns the peak absolute acceleration of each row.
func (m *Motion) PGA() []float64 { return peaks(m.Ac) }

// PGV returns the peak absolute velocity of each row.
func (m *Motion) PGV() []float64 { return peaks(m.Vel) }

// PGD returns the peak absolute displacement of each row.
func (m *Motion) PGD() []float64 { return peaks(m.Disp) }

func peaks(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = signal.PeakValue(row)
	}
	return out
}

// spectraDamping is the reference damping ratio of the response spectra.
const spectraDamping = 0.05

// Spectra returns the 5%-damped elastic response spectra of each row over
// the grid's period axis.
func (m *Motion) Spectra() ([]*signal.Spectra, error) {
	if m.spectra == nil {
		periods := m.grid.Periods()
		out := make([]*signal.Spectra, len(m.Ac))
		for i, row := range m.Ac {
			sp, err := signal.ResponseSpectra(m.Dt(), row, periods, spectraDamping)
			if err != nil {
				return nil, err
			}
			out[i] = sp
		}
		m.spectra = out
	}
	return m.spectra, nil
}

// RangeOption selects how SetRange builds its sample mask.
type RangeOption string

const (
	// RangeEnergy keeps the samples between two total-energy fractions.
	RangeEnergy RangeOption = "energy"
	// RangeMask applies a caller-provided boolean mask.
	RangeMask RangeOption = "mask"
)

// SetRange trims every realization to a sub-range of samples. With
// RangeEnergy, bounds are total-energy fractions of the first row's
// acceleration; with RangeMask, mask must have npts entries. Unsupported
// options fail rather than defaulting.
func (m *Motion) SetRange(option RangeOption, bounds [2]float64, mask []bool) error {
	switch RangeOption(strings.ToLower(string(option))) {
	case RangeEnergy:
		var err error
		mask, err = signal.EnergyMask(m.Dt(), m.Ac[0], bounds[0], bounds[1])
		if err != nil {
			return err
		}
	case RangeMask:
		if len(mask) != m.Npts() {
			return fmt.Errorf("motion: mask length %d does not match npts %d", len(mask), m.Npts())
		}
	default:
		return fmt.Errorf("motion: range option %q is not supported", option)
	}

	kept := 0
	for _, keep := range mask {
		if keep {
			kept++
		}
	}
	if kept == 0 {
		return fmt.Errorf("motion: range selection keeps no samples")
	}
	for i := range m.Ac {
		m.Ac[i] = applyMask(m.Ac[i], mask, kept)
		m.Vel[i] = applyMask(m.Vel[i], mask, kept)
		m.Disp[i] = applyMask(m.Disp[i], mask, kept)
	}
	if err := m.grid.SetNpts(kept); err != nil {
		return err
	}
	m.resetDerived()
	return nil
}

func applyMask(x []float64, mask []bool, kept int) []float64 {
	out := make([]float64, 0, kept)
	for i, keep := range mask {
		if keep {
			out = append(out, x[i])
		}
	}
	return out
}
