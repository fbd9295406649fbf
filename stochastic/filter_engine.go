package stochastic

import "math"

// The evolutionary power spectral density of the model is a Clough-Penzien
// filter pair evaluated with the time-varying parameters: a second-order
// low-pass stage at the upper frequency shaping the plateau and a
// second-order high-pass stage at the lower frequency killing the
// low-frequency (displacement-divergent) content.
//
//	S(w) = wu^4 + (2 zu wu w)^2                 w^4
//	       ----------------------------- * -----------------------------
//	       (wu^2 - w^2)^2 + (2 zu wu w)^2  (wl^2 - w^2)^2 + (2 zl wl w)^2
//
// S(0) = 0 for every parameter set. The zero bin is pinned explicitly:
// at w = 0 with wl = 0 the high-pass factor degenerates to 0/0.
func filterPSD(w, w2, wu, zu, wl, zl float64) float64 {
	if w == 0 {
		return 0
	}
	wu2 := wu * wu
	wl2 := wl * wl
	du := wu2 - w2
	dl := wl2 - w2
	cu := 2 * zu * wu * w
	cl := 2 * zl * wl * w
	lp := (wu2*wu2 + cu*cu) / (du*du + cu*cu)
	hp := (w2 * w2) / (dl*dl + cl*cl)
	return lp * hp
}

// StatsMoments holds the five evolutionary spectral-moment arrays, one value per
// time sample: the process variance, its first/second time derivatives and
// first/second time integrals.
type StatsMoments struct {
	Variance     []float64
	VarianceDot  []float64
	Variance2Dot []float64
	VarianceBar  []float64
	Variance2Bar []float64
}

// computeStats evaluates the spectral moments of the filter pair at each
// time sample, integrating the PSD over the analysis frequency axis. The
// moments weighted by negative powers of frequency skip the zero bin.
func computeStats(wu, zu, wl, zl, freq []float64) StatsMoments {
	n := len(wu)
	m := StatsMoments{
		Variance:     make([]float64, n),
		VarianceDot:  make([]float64, n),
		Variance2Dot: make([]float64, n),
		VarianceBar:  make([]float64, n),
		Variance2Bar: make([]float64, n),
	}
	if len(freq) < 2 {
		return m
	}
	dw := freq[1] - freq[0]
	for i := 0; i < n; i++ {
		var m0, m2, m4, mn2, mn4 float64
		for j, w := range freq {
			w2 := w * w
			s := filterPSD(w, w2, wu[i], zu[i], wl[i], zl[i])
			m0 += s
			m2 += s * w2
			m4 += s * w2 * w2
			if j > 0 {
				mn2 += s / w2
				mn4 += s / (w2 * w2)
			}
		}
		m.Variance[i] = m0 * dw
		m.VarianceDot[i] = m2 * dw
		m.Variance2Dot[i] = m4 * dw
		m.VarianceBar[i] = mn2 * dw
		m.Variance2Bar[i] = mn4 * dw
	}
	return m
}

// computeFAS returns the Fourier amplitude spectrum of the combined
// envelope/filter system over the analysis axis: at each frequency, the
// envelope energy accumulated through time weighted by the unit-variance
// normalized instantaneous PSD.
func computeFAS(mdl, wu, zu, wl, zl, freq []float64) []float64 {
	fas := make([]float64, len(freq))
	if len(freq) < 2 {
		return fas
	}
	dw := freq[1] - freq[0]
	row := make([]float64, len(freq))
	for i := range mdl {
		var total float64
		for j, w := range freq {
			row[j] = filterPSD(w, w*w, wu[i], zu[i], wl[i], zl[i])
			total += row[j]
		}
		total *= dw
		if total <= 0 {
			continue
		}
		e := mdl[i] * mdl[i] / total
		for j := range row {
			fas[j] += e * row[j]
		}
	}
	for j := range fas {
		fas[j] = math.Sqrt(fas[j])
	}
	return fas
}
