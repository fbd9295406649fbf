package stochastic

import "math"

// ResponseKind selects which view of the process a rate statistic refers to.
type ResponseKind int

const (
	ResponseAcceleration ResponseKind = iota
	ResponseVelocity
	ResponseDisplacement
)

func (r ResponseKind) String() string {
	switch r {
	case ResponseAcceleration:
		return "ac"
	case ResponseVelocity:
		return "vel"
	case ResponseDisplacement:
		return "disp"
	}
	return "unknown"
}

// Stats derives the evolutionary statistics of the model: the five spectral
// moment arrays, the Fourier amplitude spectrum, cumulative energy, and the
// twelve cumulative extrema-rate curves.
//
// Invalidation is eager, recomputation is explicit: when any upstream
// parameter changes, every derived array reads as zero until Refresh is
// called. Refresh recomputes all of them together and is a no-op while the
// configuration revision has not moved.
type Stats struct {
	cfg *Config

	rev   uint64
	fresh bool

	moments StatsMoments
	fas     []float64
	ce      []float64

	mle  [3][]float64
	mzc  [3][]float64
	pmnm [3][]float64
}

// NewStats wraps a model configuration with zeroed statistics.
func NewStats(cfg *Config) *Stats {
	s := &Stats{cfg: cfg}
	s.zero()
	return s
}

// Config returns the wrapped configuration.
func (s *Stats) Config() *Config { return s.cfg }

// Stale reports whether an upstream parameter changed since the last
// Refresh.
func (s *Stats) Stale() bool {
	return !s.fresh || s.rev != s.cfg.Rev()
}

// sync zeroes every derived array when the upstream configuration moved.
func (s *Stats) sync() {
	if s.fresh && s.rev != s.cfg.Rev() {
		s.fresh = false
		s.zero()
		return
	}
	if !s.fresh && len(s.ce) != s.cfg.Grid().Npts() {
		s.zero()
	}
}

func (s *Stats) zero() {
	npts := s.cfg.Grid().Npts()
	nfreq := len(s.cfg.Grid().Freq())
	s.moments = StatsMoments{
		Variance:     make([]float64, npts),
		VarianceDot:  make([]float64, npts),
		Variance2Dot: make([]float64, npts),
		VarianceBar:  make([]float64, npts),
		Variance2Bar: make([]float64, npts),
	}
	s.fas = make([]float64, nfreq)
	s.ce = make([]float64, npts)
	for k := 0; k < 3; k++ {
		s.mle[k] = make([]float64, npts)
		s.mzc[k] = make([]float64, npts)
		s.pmnm[k] = make([]float64, npts)
	}
}

// Refresh recomputes every derived statistic if any upstream parameter
// changed since the last computation. It is cheap when nothing moved.
func (s *Stats) Refresh() {
	if !s.Stale() {
		return
	}
	grid := s.cfg.Grid()
	freq := grid.Freq()
	dt := grid.Dt()

	s.moments = computeStats(s.cfg.Wu(), s.cfg.Zu(), s.cfg.Wl(), s.cfg.Zl(), freq)
	s.fas = computeFAS(s.cfg.Mdl(), s.cfg.Wu(), s.cfg.Zu(), s.cfg.Wl(), s.cfg.Zl(), freq)
	s.ce = cumulativeEnergy(s.cfg.Mdl(), dt)

	m := s.moments
	s.mle[ResponseAcceleration] = cumulativeRate(m.Variance2Dot, m.VarianceDot, dt, 2*math.Pi)
	s.mle[ResponseVelocity] = cumulativeRate(m.VarianceDot, m.Variance, dt, 2*math.Pi)
	s.mle[ResponseDisplacement] = cumulativeRate(m.Variance, m.VarianceBar, dt, 2*math.Pi)

	s.mzc[ResponseAcceleration] = cumulativeRate(m.VarianceDot, m.Variance, dt, 2*math.Pi)
	s.mzc[ResponseVelocity] = cumulativeRate(m.Variance, m.VarianceBar, dt, 2*math.Pi)
	s.mzc[ResponseDisplacement] = cumulativeRate(m.VarianceBar, m.Variance2Bar, dt, 2*math.Pi)

	s.pmnm[ResponseAcceleration] = cumulativeDiffRate(m.Variance2Dot, m.VarianceDot, m.VarianceDot, m.Variance, dt)
	s.pmnm[ResponseVelocity] = cumulativeDiffRate(m.VarianceDot, m.Variance, m.Variance, m.VarianceBar, dt)
	s.pmnm[ResponseDisplacement] = cumulativeDiffRate(m.Variance, m.VarianceBar, m.VarianceBar, m.Variance2Bar, dt)

	s.rev = s.cfg.Rev()
	s.fresh = true
}

// Moments returns the five spectral-moment arrays. They read as zero when
// the statistics are stale.
func (s *Stats) Moments() StatsMoments {
	s.sync()
	return s.moments
}

// FAS returns the Fourier amplitude spectrum of the model over Freq.
func (s *Stats) FAS() []float64 {
	s.sync()
	return s.fas
}

// CumulativeEnergy returns the cumulative energy of the envelope.
func (s *Stats) CumulativeEnergy() []float64 {
	s.sync()
	return s.ce
}

// MeanLocalExtrema returns the cumulative expected count of local extrema
// (peaks and valleys) of the given response view.
func (s *Stats) MeanLocalExtrema(kind ResponseKind) []float64 {
	s.sync()
	return s.mle[kind]
}

// MeanZeroCrossings returns the cumulative expected count of zero crossings
// (up and down) of the given response view.
func (s *Stats) MeanZeroCrossings(kind ResponseKind) []float64 {
	s.sync()
	return s.mzc[kind]
}

// MeanPosMinNegMax returns the cumulative expected count of positive minima
// and negative maxima of the given response view. The raw rate is the
// difference of two Rice rates and can be locally negative near degenerate
// spectra; the cumulative sum is intentionally not clamped.
func (s *Stats) MeanPosMinNegMax(kind ResponseKind) []float64 {
	s.sync()
	return s.pmnm[kind]
}

// safeRatio guards a spectral-moment ratio: a non-positive denominator
// yields a zero rate instead of a non-finite value.
func safeRatio(num, den float64) float64 {
	if den <= 0 || num <= 0 {
		return 0
	}
	return num / den
}

// cumulativeRate integrates sqrt(num/den)/scale with the rectangle rule.
func cumulativeRate(num, den []float64, dt, scale float64) []float64 {
	out := make([]float64, len(num))
	var sum float64
	for i := range num {
		sum += math.Sqrt(safeRatio(num[i], den[i])) / scale * dt
		out[i] = sum
	}
	return out
}

// cumulativeDiffRate integrates (sqrt(ra)-sqrt(rb))/(4*pi), the
// positive-minima/negative-maxima rate, without clamping the sign.
func cumulativeDiffRate(numA, denA, numB, denB []float64, dt float64) []float64 {
	out := make([]float64, len(numA))
	var sum float64
	for i := range numA {
		rate := (math.Sqrt(safeRatio(numA[i], denA[i])) - math.Sqrt(safeRatio(numB[i], denB[i]))) / (4 * math.Pi)
		sum += rate * dt
		out[i] = sum
	}
	return out
}

// cumulativeEnergy integrates the squared envelope with the rectangle rule.
func cumulativeEnergy(x []float64, dt float64) []float64 {
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		sum += v * v * dt
		out[i] = sum
	}
	return out
}
