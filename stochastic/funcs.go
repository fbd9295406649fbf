package stochastic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
)

// FuncType names one of the parametric shape functions used to describe how
// a scalar model quantity evolves over the record duration.
type FuncType string

const (
	FuncConstant    FuncType = "constant"
	FuncLinear      FuncType = "linear"
	FuncExponential FuncType = "exponential"
	FuncBilinear    FuncType = "bilinear"
	FuncBetaBasic   FuncType = "beta_basic"
	FuncBetaSingle  FuncType = "beta_single"
	FuncBetaDual    FuncType = "beta_dual"
	FuncGamma       FuncType = "gamma"
	FuncHousner     FuncType = "housner"
)

// Mixture weights of the beta-family envelopes. The quadratic background
// carries a fixed 5% of the total energy; the remaining 95% is split among
// the strong phases.
const (
	betaBackgroundWeight = 0.05
	betaStrongWeight     = 0.95
)

// ParseFuncType validates a shape-function name.
func ParseFuncType(name string) (FuncType, error) {
	switch FuncType(name) {
	case FuncConstant, FuncLinear, FuncExponential, FuncBilinear,
		FuncBetaBasic, FuncBetaSingle, FuncBetaDual, FuncGamma, FuncHousner:
		return FuncType(name), nil
	}
	return "", fmt.Errorf("stochastic: unsupported shape function %q", name)
}

// ParamNames returns the ordered parameter names of the variant, as stored
// alongside the raw vector for persistence.
func (f FuncType) ParamNames() []string {
	switch f {
	case FuncConstant:
		return []string{"pc"}
	case FuncLinear, FuncExponential:
		return []string{"pf", "pl"}
	case FuncBilinear:
		return []string{"pf", "pm", "pl", "tmax"}
	case FuncBetaBasic, FuncBetaSingle:
		return []string{"p1", "c1", "Et", "tn"}
	case FuncBetaDual:
		return []string{"p1", "c1", "p2", "c2", "a1", "Et", "tn"}
	case FuncGamma:
		return []string{"p0", "p1", "p2"}
	case FuncHousner:
		return []string{"p0", "p1", "p2", "t1", "t2"}
	}
	return nil
}

// Evaluate applies the shape function over the time axis t. The returned
// series has len(t) samples. Wrong parameter counts and out-of-domain
// parameters are configuration errors.
func (f FuncType) Evaluate(t, params []float64) ([]float64, error) {
	want := len(f.ParamNames())
	if want == 0 {
		return nil, fmt.Errorf("stochastic: unsupported shape function %q", string(f))
	}
	if len(params) != want {
		return nil, fmt.Errorf("stochastic: %s expects %d parameters, got %d", string(f), want, len(params))
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("stochastic: empty time axis")
	}

	switch f {
	case FuncConstant:
		return evalConstant(t, params[0]), nil
	case FuncLinear:
		return evalLinear(t, params[0], params[1]), nil
	case FuncExponential:
		return evalExponential(t, params[0], params[1])
	case FuncBilinear:
		return evalBilinear(t, params[0], params[1], params[2], params[3])
	case FuncBetaBasic:
		return evalBetaBasic(t, params[0], params[1], params[2], params[3])
	case FuncBetaSingle:
		return evalBetaSingle(t, params[0], params[1], params[2], params[3])
	case FuncBetaDual:
		return evalBetaDual(t, params[0], params[1], params[2], params[3], params[4], params[5], params[6])
	case FuncGamma:
		return evalGamma(t, params[0], params[1], params[2]), nil
	case FuncHousner:
		return evalHousner(t, params[0], params[1], params[2], params[3], params[4]), nil
	}
	return nil, fmt.Errorf("stochastic: unsupported shape function %q", string(f))
}

func evalConstant(t []float64, pc float64) []float64 {
	out := make([]float64, len(t))
	for i := range out {
		out[i] = pc
	}
	return out
}

func evalLinear(t []float64, pf, pl float64) []float64 {
	out := make([]float64, len(t))
	last := t[len(t)-1]
	if last == 0 {
		for i := range out {
			out[i] = pf
		}
		return out
	}
	for i, ti := range t {
		out[i] = pf - (pf-pl)*(ti/last)
	}
	return out
}

func evalExponential(t []float64, pf, pl float64) ([]float64, error) {
	if pf <= 0 || pl <= 0 {
		return nil, fmt.Errorf("stochastic: exponential requires pf, pl > 0, got pf=%g pl=%g", pf, pl)
	}
	out := make([]float64, len(t))
	last := t[len(t)-1]
	if last == 0 {
		for i := range out {
			out[i] = pf
		}
		return out, nil
	}
	ratio := math.Log(pl / pf)
	for i, ti := range t {
		out[i] = pf * math.Exp(ratio*(ti/last))
	}
	return out, nil
}

func evalBilinear(t []float64, pf, pm, pl, tmax float64) ([]float64, error) {
	last := t[len(t)-1]
	if tmax <= 0 || tmax >= last {
		return nil, fmt.Errorf("stochastic: bilinear requires 0 < tmax < %g, got %g", last, tmax)
	}
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti <= tmax {
			out[i] = pf - (pf-pm)*ti/tmax
		} else {
			out[i] = pm - (pm-pl)*(ti-tmax)/(last-tmax)
		}
	}
	return out, nil
}

// betaLogDensity evaluates log of the normalized Beta-pdf-shaped density
// t^(c*p) * (tn-t)^(c*(1-p)) / (B(1+c*p, 1+c*(1-p)) * tn^(1+c))
// on the open interval (0, tn).
func betaLogDensity(ti, p, c, tn float64) float64 {
	a := c * p
	b := c * (1 - p)
	return a*math.Log(ti) + b*math.Log(tn-ti) - mathext.Lbeta(1+a, 1+b) - (1+c)*math.Log(tn)
}

func checkBetaParams(f FuncType, et, tn float64) error {
	if et <= 0 {
		return fmt.Errorf("stochastic: %s requires Et > 0, got %g", string(f), et)
	}
	if tn <= 0 {
		return fmt.Errorf("stochastic: %s requires tn > 0, got %g", string(f), tn)
	}
	return nil
}

func evalBetaBasic(t []float64, p1, c1, et, tn float64) ([]float64, error) {
	if err := checkBetaParams(FuncBetaBasic, et, tn); err != nil {
		return nil, err
	}
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti <= 0 || ti >= tn {
			continue
		}
		out[i] = math.Sqrt(et * math.Exp(betaLogDensity(ti, p1, c1, tn)))
	}
	return out, nil
}

func evalBetaSingle(t []float64, p1, c1, et, tn float64) ([]float64, error) {
	if err := checkBetaParams(FuncBetaSingle, et, tn); err != nil {
		return nil, err
	}
	tn3 := tn * tn * tn
	out := make([]float64, len(t))
	for i, ti := range t {
		// Endpoints are defined as exactly zero; the density is evaluated
		// only on the open interval.
		if ti <= 0 || ti >= tn {
			continue
		}
		background := betaBackgroundWeight * 6 * ti * (tn - ti) / tn3
		strong := betaStrongWeight * math.Exp(betaLogDensity(ti, p1, c1, tn))
		out[i] = math.Sqrt(et * (background + strong))
	}
	return out, nil
}

func evalBetaDual(t []float64, p1, c1, p2, c2, a1, et, tn float64) ([]float64, error) {
	if err := checkBetaParams(FuncBetaDual, et, tn); err != nil {
		return nil, err
	}
	if a1 < 0 || a1 > betaStrongWeight {
		return nil, fmt.Errorf("stochastic: beta_dual requires 0 <= a1 <= %g, got %g", betaStrongWeight, a1)
	}
	tn3 := tn * tn * tn
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti <= 0 || ti >= tn {
			continue
		}
		background := betaBackgroundWeight * 6 * ti * (tn - ti) / tn3
		first := a1 * math.Exp(betaLogDensity(ti, p1, c1, tn))
		second := (betaStrongWeight - a1) * math.Exp(betaLogDensity(ti, p2, c2, tn))
		out[i] = math.Sqrt(et * (background + first + second))
	}
	return out, nil
}

func evalGamma(t []float64, p0, p1, p2 float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti == 0 {
			// 0^0 = 1 by convention; negative exponents would blow up at
			// the origin, so the first sample is pinned.
			if p1 == 0 {
				out[i] = p0
			}
			continue
		}
		out[i] = p0 * math.Pow(ti, p1) * math.Exp(-p2*ti)
	}
	return out
}

func evalHousner(t []float64, p0, p1, p2, t1, t2 float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		switch {
		case ti < t1:
			r := ti / t1
			out[i] = p0 * r * r
		case ti <= t2:
			out[i] = p0
		default:
			out[i] = p0 * math.Exp(-p1*math.Pow(ti-t2, p2))
		}
	}
	return out
}
