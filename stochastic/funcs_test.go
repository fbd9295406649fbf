package stochastic

import (
	"math"
	"testing"
)

func TestParseFuncType(t *testing.T) {
	for _, name := range []string{
		"constant", "linear", "exponential", "bilinear",
		"beta_basic", "beta_single", "beta_dual", "gamma", "housner",
	} {
		if _, err := ParseFuncType(name); err != nil {
			t.Fatalf("ParseFuncType(%q): %v", name, err)
		}
	}
	if _, err := ParseFuncType("parabolic"); err == nil {
		t.Fatalf("ParseFuncType must reject unknown names")
	}
}

func TestEvaluateLinear(t *testing.T) {
	out, err := FuncLinear.Evaluate([]float64{0, 5, 10}, []float64{2.0, 0.5})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := []float64{2.0, 1.25, 0.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("linear[%d]: got=%g want=%g", i, out[i], want[i])
		}
	}
}

func TestEvaluateConstant(t *testing.T) {
	out, err := FuncConstant.Evaluate([]float64{0, 1, 2, 3}, []float64{4.2})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i, v := range out {
		if v != 4.2 {
			t.Fatalf("constant[%d]: got=%g want=4.2", i, v)
		}
	}
}

func TestEvaluateExponential(t *testing.T) {
	out, err := FuncExponential.Evaluate([]float64{0, 5, 10}, []float64{4.0, 1.0})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(out[0]-4.0) > 1e-12 || math.Abs(out[2]-1.0) > 1e-12 {
		t.Fatalf("exponential endpoints: got %g, %g", out[0], out[2])
	}
	if math.Abs(out[1]-2.0) > 1e-12 {
		t.Fatalf("exponential midpoint must be the geometric mean: got=%g", out[1])
	}
	if _, err := FuncExponential.Evaluate([]float64{0, 1}, []float64{0, 1}); err == nil {
		t.Fatalf("exponential must reject non-positive endpoints")
	}
}

func TestEvaluateBilinear(t *testing.T) {
	out, err := FuncBilinear.Evaluate([]float64{0, 2, 4, 6, 8}, []float64{1, 3, 0, 4})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if out[0] != 1 || math.Abs(out[2]-3) > 1e-12 {
		t.Fatalf("bilinear breakpoints: got %g, %g", out[0], out[2])
	}
	if out[4] != 0 {
		t.Fatalf("bilinear end value: got=%g want=0", out[4])
	}
	if _, err := FuncBilinear.Evaluate([]float64{0, 1, 2}, []float64{1, 2, 3, 5}); err == nil {
		t.Fatalf("bilinear must reject tmax outside the record")
	}
}

func TestEvaluateBetaEndpoints(t *testing.T) {
	const tn = 10.0
	axis := []float64{0, 2.5, 5, 7.5, tn}
	for _, f := range []FuncType{FuncBetaBasic, FuncBetaSingle} {
		out, err := f.Evaluate(axis, []float64{0.4, 10, 1.0, tn})
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if out[0] != 0 || out[len(out)-1] != 0 {
			t.Fatalf("%s endpoints must be exactly zero: got %g, %g", f, out[0], out[len(out)-1])
		}
		for i := 1; i < len(out)-1; i++ {
			if out[i] <= 0 || math.IsNaN(out[i]) {
				t.Fatalf("%s interior sample %d: got=%g", f, i, out[i])
			}
		}
	}

	out, err := FuncBetaDual.Evaluate(axis, []float64{0.25, 12, 0.7, 15, 0.5, 1.0, tn})
	if err != nil {
		t.Fatalf("beta_dual: %v", err)
	}
	if out[0] != 0 || out[len(out)-1] != 0 {
		t.Fatalf("beta_dual endpoints must be exactly zero: got %g, %g", out[0], out[len(out)-1])
	}
}

func TestEvaluateBetaRejectsBadParams(t *testing.T) {
	axis := []float64{0, 1, 2}
	if _, err := FuncBetaSingle.Evaluate(axis, []float64{0.4, 10, 0, 2}); err == nil {
		t.Fatalf("beta_single must reject Et <= 0")
	}
	if _, err := FuncBetaSingle.Evaluate(axis, []float64{0.4, 10, 1, -1}); err == nil {
		t.Fatalf("beta_single must reject tn <= 0")
	}
	if _, err := FuncBetaDual.Evaluate(axis, []float64{0.4, 10, 0.6, 8, 1.5, 1, 2}); err == nil {
		t.Fatalf("beta_dual must reject a1 above the strong-phase weight")
	}
}

func TestEvaluateGamma(t *testing.T) {
	out, err := FuncGamma.Evaluate([]float64{0, 1, 2}, []float64{2, 1, 0.5})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if out[0] != 0 {
		t.Fatalf("gamma at t=0 with positive exponent: got=%g want=0", out[0])
	}
	want := 2 * math.Exp(-0.5)
	if math.Abs(out[1]-want) > 1e-12 {
		t.Fatalf("gamma[1]: got=%g want=%g", out[1], want)
	}
}

func TestEvaluateHousner(t *testing.T) {
	out, err := FuncHousner.Evaluate([]float64{0, 1, 2, 3, 4, 6}, []float64{5, 0.7, 1.0, 2, 4})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if out[0] != 0 {
		t.Fatalf("housner ramp start: got=%g want=0", out[0])
	}
	if math.Abs(out[1]-5*0.25) > 1e-12 {
		t.Fatalf("housner quadratic ramp: got=%g want=%g", out[1], 5*0.25)
	}
	if out[2] != 5 || out[3] != 5 || out[4] != 5 {
		t.Fatalf("housner plateau: got %g, %g, %g", out[2], out[3], out[4])
	}
	want := 5 * math.Exp(-0.7*2)
	if math.Abs(out[5]-want) > 1e-12 {
		t.Fatalf("housner decay: got=%g want=%g", out[5], want)
	}
}

func TestEvaluateParamCount(t *testing.T) {
	if _, err := FuncLinear.Evaluate([]float64{0, 1}, []float64{1.0}); err == nil {
		t.Fatalf("linear must reject a short parameter vector")
	}
	if _, err := FuncGamma.Evaluate([]float64{0, 1}, []float64{1, 2, 3, 4}); err == nil {
		t.Fatalf("gamma must reject a long parameter vector")
	}
	if _, err := FuncConstant.Evaluate(nil, []float64{1}); err == nil {
		t.Fatalf("empty time axis must be rejected")
	}
}

func TestEvaluateBetaEnergyScales(t *testing.T) {
	const tn = 8.0
	axis := make([]float64, 801)
	for i := range axis {
		axis[i] = float64(i) * 0.01
	}
	base, err := FuncBetaSingle.Evaluate(axis, []float64{0.35, 15, 1.0, tn})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	scaled, err := FuncBetaSingle.Evaluate(axis, []float64{0.35, 15, 4.0, tn})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i := range base {
		if base[i] == 0 {
			continue
		}
		if r := scaled[i] / base[i]; math.Abs(r-2.0) > 1e-9 {
			t.Fatalf("quadrupling Et must double the envelope, sample %d ratio %g", i, r)
		}
	}
}
