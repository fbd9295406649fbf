package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	dsptime "github.com/cwbudde/algo-dsp/stats/time"

	"github.com/Sajad-Hussaini/SGSIM/analysis"
	"github.com/Sajad-Hussaini/SGSIM/internal/simcommon"
	"github.com/Sajad-Hussaini/SGSIM/motion"
	"github.com/Sajad-Hussaini/SGSIM/preset"
	"github.com/Sajad-Hussaini/SGSIM/signal"
)

func main() {
	presetPath := flag.String("preset", "assets/presets/default.json", "Model preset JSON path")
	n := flag.Int("n", 1, "Number of realizations to simulate")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	workers := flag.String("workers", "auto", "Worker threads: integer >= 1 or 'auto'")
	outDir := flag.String("out-dir", "output", "Output directory for CSV and WAV files")
	timeseriesCSV := flag.String("timeseries", "", "Write t,ac,vel,disp CSV to this file (relative to -out-dir)")
	fasCSV := flag.String("fas", "", "Write freq,fas CSV to this file")
	spectraCSV := flag.String("spectra", "", "Write tp,sa,sv,sd CSV to this file")
	energyCSV := flag.String("energy", "", "Write t,ce CSV to this file")
	filterLow := flag.Float64("filter-low", 0, "Bandpass low corner in Hz (0 disables filtering)")
	filterHigh := flag.Float64("filter-high", 0, "Bandpass high corner in Hz (0 disables filtering)")
	resampleDt := flag.Float64("resample-dt", 0, "Resample records to this time step in seconds (0 disables)")
	trimEnergy := flag.String("trim-energy", "", "Trim to energy fraction range, e.g. 0.001,0.999")
	wavOut := flag.String("wav", "", "Sonify the first realization to this WAV file")
	wavRate := flag.Int("wav-rate", 44100, "WAV sample rate in Hz")
	speedup := flag.Float64("speedup", 100, "Sonification time compression factor")
	referencePath := flag.String("reference", "", "Reference record CSV (t,ac columns) to compare against")
	jsonOut := flag.Bool("json", false, "Print summary as JSON")
	flag.Parse()

	w, err := simcommon.ParseWorkers(*workers)
	if err != nil {
		die("invalid -workers: %v", err)
	}
	if w > 0 {
		runtime.GOMAXPROCS(w)
	}

	model, err := preset.LoadJSON(*presetPath)
	if err != nil {
		die("failed to load preset %q: %v", *presetPath, err)
	}
	if *seed != 0 {
		model.Reseed(*seed)
	}

	ens, err := model.Simulate(*n)
	if err != nil {
		die("simulation failed: %v", err)
	}
	mot, err := motion.FromEnsemble(ens)
	if err != nil {
		die("failed to build motion: %v", err)
	}

	if *trimEnergy != "" {
		lo, hi, err := parseBounds(*trimEnergy)
		if err != nil {
			die("invalid -trim-energy: %v", err)
		}
		if err := mot.SetRange(motion.RangeEnergy, [2]float64{lo, hi}, nil); err != nil {
			die("failed to trim records: %v", err)
		}
	}
	if *filterLow > 0 || *filterHigh > 0 {
		if err := mot.Filter(*filterLow, *filterHigh); err != nil {
			die("failed to filter records: %v", err)
		}
	}
	if *resampleDt > 0 {
		if err := mot.Resample(*resampleDt); err != nil {
			die("failed to resample records: %v", err)
		}
	}

	saveCSV(mot, *outDir, *timeseriesCSV, motion.VarTime, []motion.Variable{motion.VarAc, motion.VarVel, motion.VarDisp})
	saveCSV(mot, *outDir, *fasCSV, motion.VarFreq, []motion.Variable{motion.VarFAS})
	saveCSV(mot, *outDir, *spectraCSV, motion.VarPeriods, []motion.Variable{motion.VarSa, motion.VarSv, motion.VarSd})
	saveCSV(mot, *outDir, *energyCSV, motion.VarTime, []motion.Variable{motion.VarCE})

	if *wavOut != "" {
		sp := simcommon.Clamp(*speedup, 1, 400)
		samples, err := simcommon.Sonify(mot.Ac[0], mot.Dt(), *wavRate, sp)
		if err != nil {
			die("sonification failed: %v", err)
		}
		path := filepath.Join(*outDir, *wavOut)
		if err := simcommon.WriteMonoWAV(path, samples, *wavRate); err != nil {
			die("failed to write %q: %v", path, err)
		}
	}

	summary := buildSummary(mot)
	if *referencePath != "" {
		ref, err := readReferenceCSV(*referencePath)
		if err != nil {
			die("failed to read reference %q: %v", *referencePath, err)
		}
		metrics, err := analysis.Compare(ref, mot)
		if err != nil {
			die("comparison failed: %v", err)
		}
		summary.Comparison = &metrics
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			die("failed to encode summary: %v", err)
		}
		return
	}
	printSummary(summary)
}

type summary struct {
	Realizations int     `json:"realizations"`
	Npts         int     `json:"npts"`
	Dt           float64 `json:"dt"`
	DurationS    float64 `json:"duration_s"`

	MeanPGA float64 `json:"mean_pga"`
	MeanPGV float64 `json:"mean_pgv"`
	MeanPGD float64 `json:"mean_pgd"`

	FirstRMS         float64 `json:"first_rms"`
	FirstPeak        float64 `json:"first_peak"`
	FirstCrestFactor float64 `json:"first_crest_factor"`

	Comparison *analysis.Metrics `json:"comparison,omitempty"`
}

func buildSummary(m *motion.Motion) summary {
	s := summary{
		Realizations: m.Realizations(),
		Npts:         m.Npts(),
		Dt:           m.Dt(),
		DurationS:    float64(m.Npts()-1) * m.Dt(),
		MeanPGA:      mean(m.PGA()),
		MeanPGV:      mean(m.PGV()),
		MeanPGD:      mean(m.PGD()),
	}
	if m.Realizations() > 0 {
		s.FirstRMS = dsptime.RMS(m.Ac[0])
		s.FirstPeak = dsptime.Peak(m.Ac[0])
		s.FirstCrestFactor = dsptime.CrestFactor(m.Ac[0])
	}
	return s
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func printSummary(s summary) {
	fmt.Printf("Simulated %d realization(s), %d samples at dt=%g s (%.2f s)\n",
		s.Realizations, s.Npts, s.Dt, s.DurationS)
	fmt.Printf("Mean PGA %.5g, PGV %.5g, PGD %.5g\n", s.MeanPGA, s.MeanPGV, s.MeanPGD)
	fmt.Printf("First record: RMS %.5g, peak %.5g, crest factor %.3g\n",
		s.FirstRMS, s.FirstPeak, s.FirstCrestFactor)
	if s.Comparison != nil {
		c := s.Comparison
		fmt.Printf("Reference comparison: FAS RMSE %.2f dB, spectra RMSE %.2f dB, score %.3f, similarity %.3f\n",
			c.FASRMSEDB, c.SpectraRMSEDB, c.Score, c.Similarity)
	}
}

func saveCSV(m *motion.Motion, dir, name string, xVar motion.Variable, yVars []motion.Variable) {
	if name == "" {
		return
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		die("failed to create %q: %v", filepath.Dir(path), err)
	}
	if err := m.SaveCSV(path, xVar, yVars); err != nil {
		die("failed to write %q: %v", path, err)
	}
}

func parseBounds(raw string) (float64, float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated fractions, got %q", raw)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	if lo < 0 || hi > 1 || lo >= hi {
		return 0, 0, fmt.Errorf("bounds must satisfy 0 <= low < high <= 1, got %g,%g", lo, hi)
	}
	return lo, hi, nil
}

// readReferenceCSV loads a two-column t,ac record and derives velocity
// and displacement by integration.
func readReferenceCSV(path string) (*motion.Motion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	var t, ac []float64
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least 2 columns", i+1)
		}
		tv, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: %v", i+1, err)
		}
		av, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", i+1, err)
		}
		t = append(t, tv)
		ac = append(ac, av)
	}
	if len(t) < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", len(t))
	}
	dt := t[1] - t[0]
	if dt <= 0 {
		return nil, fmt.Errorf("non-increasing time axis")
	}
	vel := signal.Integrate(dt, ac)
	disp := signal.Integrate(dt, vel)
	return motion.New(dt, ac, vel, disp)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
