package motion

import (
	"math"
	"testing"

	"github.com/Sajad-Hussaini/SGSIM/stochastic"
)

func simulated(t *testing.T, n, npts int) *Motion {
	t.Helper()
	m, err := stochastic.NewModel(npts, 0.01,
		stochastic.FuncBetaSingle, stochastic.FuncLinear, stochastic.FuncConstant,
		stochastic.FuncLinear, stochastic.FuncConstant)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	cfg := m.Config()
	tn := float64(npts-1) * 0.01
	if err := cfg.SetModulating([]float64{0.4, 12, 1.0, tn}); err != nil {
		t.Fatalf("SetModulating: %v", err)
	}
	if err := cfg.SetUpperFrequency([]float64{8, 4}); err != nil {
		t.Fatalf("SetUpperFrequency: %v", err)
	}
	if err := cfg.SetUpperDamping([]float64{0.4}); err != nil {
		t.Fatalf("SetUpperDamping: %v", err)
	}
	if err := cfg.SetLowerFrequency([]float64{0.5, 1.0}); err != nil {
		t.Fatalf("SetLowerFrequency: %v", err)
	}
	if err := cfg.SetLowerDamping([]float64{0.6}); err != nil {
		t.Fatalf("SetLowerDamping: %v", err)
	}
	m.Reseed(11)
	ens, err := m.Simulate(n)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	mot, err := FromEnsemble(ens)
	if err != nil {
		t.Fatalf("FromEnsemble: %v", err)
	}
	return mot
}

func TestFromEnsembleAccessors(t *testing.T) {
	mot := simulated(t, 2, 256)
	if mot.Realizations() != 2 || mot.Npts() != 256 || mot.Dt() != 0.01 {
		t.Fatalf("accessors: n=%d npts=%d dt=%g", mot.Realizations(), mot.Npts(), mot.Dt())
	}
	for _, pg := range [][]float64{mot.PGA(), mot.PGV(), mot.PGD()} {
		if len(pg) != 2 {
			t.Fatalf("peak vector length: got=%d", len(pg))
		}
		for i, v := range pg {
			if v <= 0 || math.IsNaN(v) {
				t.Fatalf("peak[%d]: got=%g", i, v)
			}
		}
	}
}

func TestNewRejectsMismatchedSeries(t *testing.T) {
	if _, err := New(0.01, []float64{1, 2}, []float64{1}, []float64{1, 2}); err == nil {
		t.Fatalf("New must reject mismatched lengths")
	}
	if _, err := New(0.01, nil, nil, nil); err == nil {
		t.Fatalf("New must reject an empty record")
	}
}

func TestFASAndSmoothedFAS(t *testing.T) {
	mot := simulated(t, 2, 256)
	fas, err := mot.FAS()
	if err != nil {
		t.Fatalf("FAS: %v", err)
	}
	if len(fas) != 2 || len(fas[0]) != 256 {
		t.Fatalf("fas shape: %d x %d", len(fas), len(fas[0]))
	}

	masked := 0
	for _, keep := range mot.Grid().FreqMask() {
		if keep {
			masked++
		}
	}
	smoothed, err := mot.SmoothedFAS()
	if err != nil {
		t.Fatalf("SmoothedFAS: %v", err)
	}
	if len(smoothed[0]) != masked {
		t.Fatalf("smoothed fas length: got=%d want=%d", len(smoothed[0]), masked)
	}
	for _, v := range smoothed[0] {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("smoothed fas sample: got=%g", v)
		}
	}
}

func TestCumulativeEnergyMonotone(t *testing.T) {
	mot := simulated(t, 1, 256)
	ce := mot.CumulativeEnergy()
	row := ce[0]
	for i := 1; i < len(row); i++ {
		if row[i] < row[i-1] {
			t.Fatalf("energy must be non-decreasing at sample %d", i)
		}
	}
	if row[len(row)-1] <= 0 {
		t.Fatalf("final energy: got=%g", row[len(row)-1])
	}
}

func TestExtremaCountsPerKind(t *testing.T) {
	mot := simulated(t, 1, 256)
	for _, kind := range []stochastic.ResponseKind{
		stochastic.ResponseAcceleration,
		stochastic.ResponseVelocity,
		stochastic.ResponseDisplacement,
	} {
		mle := mot.LocalExtrema(kind)[0]
		mzc := mot.ZeroCrossings(kind)[0]
		pmnm := mot.PosMinNegMax(kind)[0]
		last := len(mle) - 1
		if mle[last] < mzc[last] {
			t.Fatalf("%s: extrema count %g below crossing count %g", kind, mle[last], mzc[last])
		}
		if pmnm[last] < 0 {
			t.Fatalf("%s: negative pmnm count", kind)
		}
	}
}

func TestSpectraShape(t *testing.T) {
	mot := simulated(t, 2, 256)
	spectra, err := mot.Spectra()
	if err != nil {
		t.Fatalf("Spectra: %v", err)
	}
	if len(spectra) != 2 {
		t.Fatalf("spectra rows: got=%d", len(spectra))
	}
	periods := mot.Grid().Periods()
	for r, sp := range spectra {
		if len(sp.Sa) != len(periods) {
			t.Fatalf("row %d Sa length: got=%d want=%d", r, len(sp.Sa), len(periods))
		}
		for i, v := range sp.Sa {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("row %d Sa[%d]: got=%g", r, i, v)
			}
		}
	}
}

func TestSetRangeEnergyTrims(t *testing.T) {
	mot := simulated(t, 2, 512)
	before := mot.Npts()
	if err := mot.SetRange(RangeEnergy, [2]float64{0.001, 0.999}, nil); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	after := mot.Npts()
	if after >= before || after == 0 {
		t.Fatalf("trim must shrink the record: before=%d after=%d", before, after)
	}
	for r := 0; r < mot.Realizations(); r++ {
		if len(mot.Ac[r]) != after || len(mot.Vel[r]) != after || len(mot.Disp[r]) != after {
			t.Fatalf("row %d not trimmed consistently", r)
		}
	}
}

func TestSetRangeMask(t *testing.T) {
	mot := simulated(t, 1, 128)
	mask := make([]bool, 128)
	for i := 20; i < 100; i++ {
		mask[i] = true
	}
	if err := mot.SetRange(RangeMask, [2]float64{}, mask); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	if mot.Npts() != 80 {
		t.Fatalf("masked npts: got=%d want=80", mot.Npts())
	}
	if err := mot.SetRange(RangeOption("noise"), [2]float64{}, nil); err == nil {
		t.Fatalf("SetRange must reject unknown options")
	}
}

func TestFilterValidation(t *testing.T) {
	mot := simulated(t, 1, 128)
	if err := mot.Filter(0, 20); err == nil {
		t.Fatalf("Filter must reject a non-positive low cut")
	}
	if err := mot.Filter(10, 5); err == nil {
		t.Fatalf("Filter must reject an inverted band")
	}
	if err := mot.Filter(0.5, 60); err == nil {
		t.Fatalf("Filter must reject a high cut above Nyquist")
	}
}

func TestFilterKeepsShape(t *testing.T) {
	mot := simulated(t, 2, 256)
	if err := mot.Filter(0.2, 20); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if mot.Npts() != 256 || mot.Realizations() != 2 {
		t.Fatalf("filter must preserve shape: npts=%d n=%d", mot.Npts(), mot.Realizations())
	}
	for _, v := range mot.Ac[0] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("filtered sample not finite")
		}
	}
}

func TestResampleChangesGrid(t *testing.T) {
	mot := simulated(t, 1, 256)
	if err := mot.Resample(0.02); err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if mot.Dt() != 0.02 {
		t.Fatalf("dt after resample: got=%g want=0.02", mot.Dt())
	}
	if mot.Npts() < 100 || mot.Npts() > 160 {
		t.Fatalf("npts after halving the rate: got=%d", mot.Npts())
	}
	if err := mot.Resample(-1); err == nil {
		t.Fatalf("Resample must reject non-positive dt")
	}
}
