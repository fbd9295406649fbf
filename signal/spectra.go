package signal

import (
	"fmt"
	"math"
)

// Spectra holds elastic response spectra over a period axis: relative
// displacement, relative velocity and absolute acceleration ordinates.
type Spectra struct {
	Periods []float64
	Sd      []float64
	Sv      []float64
	Sa      []float64
}

// ResponseSpectra integrates a damped single-degree-of-freedom oscillator
// over the acceleration record for each period using the Newmark
// average-acceleration scheme, and returns the peak responses.
func ResponseSpectra(dt float64, ac []float64, periods []float64, zeta float64) (*Spectra, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("signal: dt must be > 0, got %g", dt)
	}
	if len(ac) == 0 {
		return nil, fmt.Errorf("signal: empty acceleration record")
	}
	if zeta <= 0 || zeta >= 1 {
		return nil, fmt.Errorf("signal: damping ratio must be in (0,1), got %g", zeta)
	}
	sp := &Spectra{
		Periods: append([]float64(nil), periods...),
		Sd:      make([]float64, len(periods)),
		Sv:      make([]float64, len(periods)),
		Sa:      make([]float64, len(periods)),
	}

	const gamma = 0.5
	const beta = 0.25
	for p, T := range periods {
		if T <= 0 {
			return nil, fmt.Errorf("signal: period must be > 0, got %g", T)
		}
		wn := 2 * math.Pi / T
		k := wn * wn
		c := 2 * zeta * wn

		// Effective stiffness of the implicit step.
		kEff := k + gamma/(beta*dt)*c + 1/(beta*dt*dt)

		var u, v float64
		a := -ac[0]
		maxU := math.Abs(u)
		maxV := math.Abs(v)
		maxA := math.Abs(a + ac[0])
		for i := 1; i < len(ac); i++ {
			rhs := -(ac[i] - ac[i-1]) +
				(v/(beta*dt) + a/(2*beta)) +
				c*(gamma/beta*v+dt*(gamma/(2*beta)-1)*a)
			du := rhs / kEff
			dv := gamma/(beta*dt)*du - gamma/beta*v + dt*(1-gamma/(2*beta))*a
			da := du/(beta*dt*dt) - v/(beta*dt) - a/(2*beta)
			u += du
			v += dv
			a += da
			if au := math.Abs(u); au > maxU {
				maxU = au
			}
			if av := math.Abs(v); av > maxV {
				maxV = av
			}
			if aa := math.Abs(a + ac[i]); aa > maxA {
				maxA = aa
			}
		}
		sp.Sd[p] = maxU
		sp.Sv[p] = maxV
		sp.Sa[p] = maxA
	}
	return sp, nil
}
