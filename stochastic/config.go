package stochastic

import (
	"fmt"
	"math"
)

// QuantityID names one of the five time-varying physical quantities of the
// evolutionary model.
type QuantityID int

const (
	QuantityModulating QuantityID = iota // mdl, instantaneous std of the process
	QuantityUpperFreq                    // wu, upper filter angular frequency
	QuantityUpperDamp                    // zu, upper filter damping ratio
	QuantityLowerFreq                    // wl, lower filter angular frequency
	QuantityLowerDamp                    // zl, lower filter damping ratio
)

func (q QuantityID) String() string {
	switch q {
	case QuantityModulating:
		return "mdl"
	case QuantityUpperFreq:
		return "wu"
	case QuantityUpperDamp:
		return "zu"
	case QuantityLowerFreq:
		return "wl"
	case QuantityLowerDamp:
		return "zl"
	}
	return "unknown"
}

// Quantity holds one evaluated model quantity together with the shape
// function and raw parameter vector that produced it, kept for persistence.
type Quantity struct {
	Func       FuncType
	Params     []float64
	ParamNames []string

	series []float64
}

// Series returns the current dense series. It is all zero before the first
// parameter assignment.
func (q *Quantity) Series() []float64 { return q.series }

// Config is the evolutionary model state: the envelope and the four filter
// quantities evaluated over the grid's time axis. Every mutation bumps the
// revision counter so downstream statistics know to recompute.
type Config struct {
	grid *Grid

	quantities [5]Quantity

	rev     uint64
	gridRev uint64
}

// NewConfig assigns one shape function per quantity. The order is
// mdl, wu, zu, wl, zl.
func NewConfig(grid *Grid, mdl, wu, zu, wl, zl FuncType) (*Config, error) {
	if grid == nil {
		return nil, fmt.Errorf("stochastic: nil grid")
	}
	funcs := [5]FuncType{mdl, wu, zu, wl, zl}
	c := &Config{grid: grid, gridRev: grid.Rev()}
	for i, f := range funcs {
		if _, err := ParseFuncType(string(f)); err != nil {
			return nil, err
		}
		c.quantities[i] = Quantity{
			Func:       f,
			ParamNames: f.ParamNames(),
			series:     make([]float64, grid.Npts()),
		}
	}
	return c, nil
}

// Grid returns the underlying time/frequency grid.
func (c *Config) Grid() *Grid { return c.grid }

// Rev returns the revision counter covering both the five quantities and
// the grid underneath them.
func (c *Config) Rev() uint64 {
	c.syncGrid()
	return c.rev
}

// syncGrid folds grid mutations into the config revision and resizes the
// stored series when npts changed.
func (c *Config) syncGrid() {
	if c.gridRev == c.grid.Rev() {
		return
	}
	c.gridRev = c.grid.Rev()
	c.rev++
	for i := range c.quantities {
		if len(c.quantities[i].series) != c.grid.Npts() {
			c.quantities[i].series = make([]float64, c.grid.Npts())
		}
	}
}

// Quantity returns the stored state for one quantity.
func (c *Config) Quantity(id QuantityID) *Quantity {
	c.syncGrid()
	return &c.quantities[id]
}

// Set evaluates the assigned shape function over the time axis and stores
// the result. Frequencies are given in Hz by the shape functions and stored
// in angular units. Any successful call invalidates all derived statistics.
func (c *Config) Set(id QuantityID, params []float64) error {
	c.syncGrid()
	q := &c.quantities[id]
	series, err := q.Func.Evaluate(c.grid.T(), params)
	if err != nil {
		return fmt.Errorf("stochastic: set %s: %w", id, err)
	}
	if id == QuantityUpperFreq || id == QuantityLowerFreq {
		for i := range series {
			series[i] *= 2 * math.Pi
		}
	}
	q.series = series
	q.Params = append([]float64(nil), params...)
	q.ParamNames = q.Func.ParamNames()
	c.rev++
	return nil
}

// SetModulating sets the envelope (modulating function) parameters.
func (c *Config) SetModulating(params []float64) error {
	return c.Set(QuantityModulating, params)
}

// SetUpperFrequency sets the upper filter frequency parameters (Hz).
func (c *Config) SetUpperFrequency(params []float64) error {
	return c.Set(QuantityUpperFreq, params)
}

// SetUpperDamping sets the upper filter damping-ratio parameters.
func (c *Config) SetUpperDamping(params []float64) error {
	return c.Set(QuantityUpperDamp, params)
}

// SetLowerFrequency sets the lower filter frequency parameters (Hz).
func (c *Config) SetLowerFrequency(params []float64) error {
	return c.Set(QuantityLowerFreq, params)
}

// SetLowerDamping sets the lower filter damping-ratio parameters.
func (c *Config) SetLowerDamping(params []float64) error {
	return c.Set(QuantityLowerDamp, params)
}

// Mdl returns the envelope series.
func (c *Config) Mdl() []float64 { return c.Quantity(QuantityModulating).Series() }

// Wu returns the upper angular-frequency series (rad/s).
func (c *Config) Wu() []float64 { return c.Quantity(QuantityUpperFreq).Series() }

// Zu returns the upper damping-ratio series.
func (c *Config) Zu() []float64 { return c.Quantity(QuantityUpperDamp).Series() }

// Wl returns the lower angular-frequency series (rad/s).
func (c *Config) Wl() []float64 { return c.Quantity(QuantityLowerFreq).Series() }

// Zl returns the lower damping-ratio series.
func (c *Config) Zl() []float64 { return c.Quantity(QuantityLowerDamp).Series() }
