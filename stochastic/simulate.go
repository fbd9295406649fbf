package stochastic

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	algofft "github.com/cwbudde/algo-fft"
)

// Ensemble holds one batch of simulated motions, one row per realization.
type Ensemble struct {
	Ac   [][]float64
	Vel  [][]float64
	Disp [][]float64

	Npts int
	Dt   float64
}

// Model is the user-facing stochastic ground-motion model: a grid, the
// evolutionary configuration, the statistics engine on top of it, and the
// Monte Carlo synthesizer with its private PRNG stream.
type Model struct {
	grid  *Grid
	cfg   *Config
	stats *Stats

	rng *rand.Rand
}

// NewModel builds a model with one shape function per quantity, in the
// order mdl, wu, zu, wl, zl.
func NewModel(npts int, dt float64, mdl, wu, zu, wl, zl FuncType) (*Model, error) {
	grid, err := NewGrid(npts, dt)
	if err != nil {
		return nil, err
	}
	cfg, err := NewConfig(grid, mdl, wu, zu, wl, zl)
	if err != nil {
		return nil, err
	}
	return &Model{
		grid:  grid,
		cfg:   cfg,
		stats: NewStats(cfg),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Grid returns the time/frequency grid.
func (m *Model) Grid() *Grid { return m.grid }

// Config returns the evolutionary model configuration.
func (m *Model) Config() *Config { return m.cfg }

// Stats returns the statistics engine.
func (m *Model) Stats() *Stats { return m.stats }

// Reseed replaces the whole PRNG stream with a freshly seeded one. There is
// no partial reseed; correlation with any previous stream is destroyed.
func (m *Model) Reseed(seed int64) {
	m.rng = rand.New(rand.NewSource(seed))
}

// Simulate draws n realizations of the model and returns acceleration,
// velocity and displacement ensembles shaped (n, npts). Velocity and
// displacement come from frequency-domain integration of the acceleration
// spectrum; the zero-frequency bin is dropped rather than divided.
func (m *Model) Simulate(n int) (*Ensemble, error) {
	if n <= 0 {
		return nil, fmt.Errorf("stochastic: simulation count must be > 0, got %d", n)
	}
	for id := QuantityModulating; id <= QuantityLowerDamp; id++ {
		if len(m.cfg.Quantity(id).Params) == 0 {
			return nil, fmt.Errorf("stochastic: %s has no parameters assigned", id)
		}
	}
	m.stats.Refresh()

	grid := m.grid
	npts := grid.Npts()
	freqSim := grid.FreqSim()
	freqSimP2 := grid.FreqSimP2()
	nf := len(freqSim)
	fftSize := 2 * nf

	whiteNoise := make([]float64, n*npts)
	for i := range whiteNoise {
		whiteNoise[i] = m.rng.NormFloat64()
	}

	fourier := synthesizeFourier(n, npts, grid.T(), freqSim,
		m.cfg.Mdl(), m.cfg.Wu(), m.cfg.Zu(), m.cfg.Wl(), m.cfg.Zl(),
		m.stats.Moments().Variance, whiteNoise)

	ens := &Ensemble{
		Ac:   make([][]float64, n),
		Vel:  make([][]float64, n),
		Disp: make([][]float64, n),
		Npts: npts,
		Dt:   grid.Dt(),
	}

	// Rows are independent; the inverse transforms run on worker lanes for
	// throughput only. Each worker owns its FFT plan and scratch buffers,
	// and row r writes only to slot r, so ordering is deterministic.
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	rows := make(chan int)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(lane int) {
			defer wg.Done()
			plan, err := algofft.NewPlan64(fftSize)
			if err != nil {
				errs[lane] = fmt.Errorf("stochastic: fft plan: %w", err)
				for range rows {
				}
				return
			}
			spec := make([]complex128, fftSize)
			work := make([]complex128, fftSize)
			for r := range rows {
				row := fourier[r]

				ens.Ac[r], err = inverseReal(plan, spec, work, row, npts)
				if err != nil {
					errs[lane] = err
					continue
				}

				integ := make([]complex128, nf)
				for j := 1; j < nf; j++ {
					integ[j] = row[j] / complex(0, freqSim[j])
				}
				ens.Vel[r], err = inverseReal(plan, spec, work, integ, npts)
				if err != nil {
					errs[lane] = err
					continue
				}

				for j := 1; j < nf; j++ {
					integ[j] = -row[j] / complex(freqSimP2[j], 0)
				}
				ens.Disp[r], err = inverseReal(plan, spec, work, integ, npts)
				if err != nil {
					errs[lane] = err
				}
			}
		}(w)
	}
	for r := 0; r < n; r++ {
		rows <- r
	}
	close(rows)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ens, nil
}

// inverseReal hermitian-extends the half spectrum, inverse-transforms it at
// the padded length and keeps the first npts real samples. The padding plus
// truncation is the anti-aliasing step.
func inverseReal(plan *algofft.Plan[complex128], spec, work []complex128, half []complex128, npts int) ([]float64, error) {
	fftSize := len(spec)
	nf := len(half)
	spec[0] = complex(real(half[0]), 0)
	for j := 1; j < nf; j++ {
		spec[j] = half[j]
		spec[fftSize-j] = complex(real(half[j]), -imag(half[j]))
	}
	spec[nf] = 0 // Nyquist bin is outside the synthesized band
	if err := plan.Inverse(work, spec); err != nil {
		return nil, fmt.Errorf("stochastic: inverse fft: %w", err)
	}
	out := make([]float64, npts)
	for i := range out {
		out[i] = real(work[i])
	}
	return out, nil
}
