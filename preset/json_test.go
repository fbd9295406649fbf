package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sajad-Hussaini/SGSIM/stochastic"
)

func buildModel(t *testing.T) *stochastic.Model {
	t.Helper()
	m, err := stochastic.NewModel(256, 0.01,
		stochastic.FuncBetaSingle, stochastic.FuncLinear, stochastic.FuncConstant,
		stochastic.FuncLinear, stochastic.FuncConstant)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	cfg := m.Config()
	if err := cfg.SetModulating([]float64{0.4, 12, 1.0, 2.55}); err != nil {
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
	return m
}

func TestRoundTrip(t *testing.T) {
	m := buildModel(t)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := SaveJSON(path, m); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if loaded.Grid().Npts() != 256 || loaded.Grid().Dt() != 0.01 {
		t.Fatalf("grid mismatch: npts=%d dt=%g", loaded.Grid().Npts(), loaded.Grid().Dt())
	}

	for id := stochastic.QuantityModulating; id <= stochastic.QuantityLowerDamp; id++ {
		orig := m.Config().Quantity(id)
		got := loaded.Config().Quantity(id)
		if got.Func != orig.Func {
			t.Fatalf("%s func mismatch: got=%q want=%q", id, got.Func, orig.Func)
		}
		if len(got.Params) != len(orig.Params) {
			t.Fatalf("%s param count mismatch: got=%d want=%d", id, len(got.Params), len(orig.Params))
		}
		for i := range orig.Params {
			if got.Params[i] != orig.Params[i] {
				t.Fatalf("%s param %d: got=%g want=%g", id, i, got.Params[i], orig.Params[i])
			}
		}
		ws, gs := orig.Series(), got.Series()
		if len(ws) != len(gs) {
			t.Fatalf("%s series length mismatch: got=%d want=%d", id, len(gs), len(ws))
		}
		for i := range ws {
			if ws[i] != gs[i] {
				t.Fatalf("%s series sample %d: got=%g want=%g", id, i, gs[i], ws[i])
			}
		}
	}
}

func TestCaptureRejectsUnassignedQuantity(t *testing.T) {
	m, err := stochastic.NewModel(64, 0.01,
		stochastic.FuncBetaSingle, stochastic.FuncLinear, stochastic.FuncConstant,
		stochastic.FuncLinear, stochastic.FuncConstant)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if _, err := Capture(m); err == nil {
		t.Fatalf("Capture must reject a model with unassigned quantities")
	}
}

func TestBuildRejectsMissingRecord(t *testing.T) {
	f := &File{
		Npts: 64,
		Dt:   0.01,
		Mdl:  Record{Func: "beta_single", Params: []float64{0.4, 12, 1, 0.63}},
		Wu:   Record{Func: "linear", Params: []float64{8, 4}},
		Zu:   Record{Func: "constant", Params: []float64{0.4}},
		Wl:   Record{Func: "linear", Params: []float64{0.5, 1}},
		// Zl left empty.
	}
	if _, err := Build(f); err == nil {
		t.Fatalf("Build must reject a file with a missing record")
	}
}

func TestLoadJSONRejectsUnknownFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	content := `{
  "npts": 64,
  "dt": 0.01,
  "mdl": {"func": "parabolic", "params": [1, 2]},
  "wu": {"func": "constant", "params": [5]},
  "zu": {"func": "constant", "params": [0.4]},
  "wl": {"func": "constant", "params": [0.5]},
  "zl": {"func": "constant", "params": [0.6]}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if _, err := LoadJSON(path); err == nil {
		t.Fatalf("LoadJSON must reject an unknown shape function")
	}
}
