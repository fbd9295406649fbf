package analysis

import (
	"fmt"
	"math"

	"github.com/Sajad-Hussaini/SGSIM/motion"
	"github.com/Sajad-Hussaini/SGSIM/signal"
)

// Metrics contains distance and similarity measurements between a
// reference motion and a simulated candidate ensemble.
type Metrics struct {
	ReferenceNpts int     `json:"reference_npts"`
	CandidateNpts int     `json:"candidate_npts"`
	Realizations  int     `json:"realizations"`
	Dt            float64 `json:"dt"`

	FASRMSEDB     float64 `json:"fas_rmse_db"`
	SpectraRMSEDB float64 `json:"spectra_rmse_db"`
	EnergyRMSE    float64 `json:"energy_rmse"`

	PGARatio float64 `json:"pga_ratio"`
	PGVRatio float64 `json:"pgv_ratio"`
	PGDRatio float64 `json:"pgd_ratio"`

	RefDurationS  float64 `json:"ref_duration_s"`
	CandDurationS float64 `json:"cand_duration_s"`
	DurationDiffS float64 `json:"duration_diff_s"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Compare returns objective distance metrics and a combined score in [0,1].
// The candidate curves are averaged across realizations before comparison,
// so a single-record candidate and a full ensemble go through the same path.
func Compare(reference *motion.Motion, candidate *motion.Motion) (Metrics, error) {
	m := Metrics{}
	if reference == nil || candidate == nil {
		m.Score = 1.0
		m.Similarity = 0.0
		return m, fmt.Errorf("analysis: nil motion")
	}
	m.ReferenceNpts = reference.Npts()
	m.CandidateNpts = candidate.Npts()
	m.Realizations = candidate.Realizations()
	m.Dt = reference.Dt()

	if reference.Npts() == 0 || candidate.Npts() == 0 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m, fmt.Errorf("analysis: empty motion")
	}
	if math.Abs(reference.Dt()-candidate.Dt()) > 1e-12 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m, fmt.Errorf("analysis: time step mismatch %g vs %g", reference.Dt(), candidate.Dt())
	}

	refFAS, err := reference.SmoothedFAS()
	if err != nil {
		return m, err
	}
	candFAS, err := candidate.SmoothedFAS()
	if err != nil {
		return m, err
	}
	m.FASRMSEDB = logRMSEDB(refFAS[0], ensembleMean(candFAS))

	refSpec, err := reference.Spectra()
	if err != nil {
		return m, err
	}
	candSpec, err := candidate.Spectra()
	if err != nil {
		return m, err
	}
	m.SpectraRMSEDB = logRMSEDB(refSpec[0].Sa, ensembleMean(saRows(candSpec)))

	refCE := normalizeFinal(reference.CumulativeEnergy()[0])
	candCE := normalizeFinal(ensembleMean(candidate.CumulativeEnergy()))
	m.EnergyRMSE = rmse(refCE, candCE)

	m.PGARatio = amplitudeRatio(reference.PGA(), candidate.PGA())
	m.PGVRatio = amplitudeRatio(reference.PGV(), candidate.PGV())
	m.PGDRatio = amplitudeRatio(reference.PGD(), candidate.PGD())

	m.RefDurationS = significantDuration(reference.CumulativeEnergy()[0], reference.Dt())
	m.CandDurationS = significantDuration(ensembleMean(candidate.CumulativeEnergy()), candidate.Dt())
	if isFinite(m.RefDurationS) && isFinite(m.CandDurationS) {
		m.DurationDiffS = math.Abs(m.RefDurationS - m.CandDurationS)
	}

	// Normalize sub-metrics and combine.
	fasNorm := clamp01(m.FASRMSEDB / 20.0)
	specNorm := clamp01(m.SpectraRMSEDB / 20.0)
	energyNorm := clamp01(m.EnergyRMSE / 0.25)
	ampNorm := clamp01((ratioError(m.PGARatio) + ratioError(m.PGVRatio) + ratioError(m.PGDRatio)) / 3.0)
	durRef := m.RefDurationS
	if durRef < 1.0 {
		durRef = 1.0
	}
	durNorm := clamp01(m.DurationDiffS / durRef)
	m.Score = clamp01(0.30*fasNorm + 0.30*specNorm + 0.15*energyNorm + 0.15*ampNorm + 0.10*durNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))

	return m, nil
}

func saRows(spectra []*signal.Spectra) [][]float64 {
	out := make([][]float64, len(spectra))
	for i, sp := range spectra {
		out[i] = sp.Sa
	}
	return out
}

func ensembleMean(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]float64, len(rows[0]))
	for _, row := range rows {
		for i, v := range row {
			out[i] += v
		}
	}
	inv := 1.0 / float64(len(rows))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func normalizeFinal(x []float64) []float64 {
	out := append([]float64(nil), x...)
	if len(out) == 0 {
		return out
	}
	total := out[len(out)-1]
	if total <= 1e-12 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func amplitudeRatio(ref []float64, cand []float64) float64 {
	if len(ref) == 0 || len(cand) == 0 {
		return math.NaN()
	}
	r := ref[0]
	var c float64
	for _, v := range cand {
		c += v
	}
	c /= float64(len(cand))
	if r <= 1e-12 {
		return math.NaN()
	}
	return c / r
}

func ratioError(r float64) float64 {
	if !isFinite(r) || r <= 0 {
		return 1.0
	}
	return math.Abs(math.Log(r))
}

// significantDuration is the time between the 5% and 95% crossings of
// the cumulative energy curve.
func significantDuration(ce []float64, dt float64) float64 {
	if len(ce) < 2 || dt <= 0 {
		return math.NaN()
	}
	total := ce[len(ce)-1]
	if total <= 1e-12 {
		return math.NaN()
	}
	lo, hi := -1, -1
	for i, v := range ce {
		if lo < 0 && v >= 0.05*total {
			lo = i
		}
		if v >= 0.95*total {
			hi = i
			break
		}
	}
	if lo < 0 || hi < 0 || hi < lo {
		return math.NaN()
	}
	return float64(hi-lo) * dt
}

func rmse(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func logRMSEDB(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		da := linToDB(a[i])
		db := linToDB(b[i])
		d := da - db
		sum += d * d
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
