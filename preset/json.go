package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sajad-Hussaini/SGSIM/stochastic"
)

// File is the JSON schema for stochastic-model parameter files. One record
// per filter quantity plus the grid scalars and the materialized time axis,
// so a loaded file reproduces the original model bit-for-bit.
type File struct {
	Description string `json:"description,omitempty"`

	Npts int       `json:"npts"`
	Dt   float64   `json:"dt"`
	T    []float64 `json:"t,omitempty"`

	Mdl Record `json:"mdl"`
	Wu  Record `json:"wu"`
	Zu  Record `json:"zu"`
	Wl  Record `json:"wl"`
	Zl  Record `json:"zl"`
}

// Record stores one quantity: the shape-function name, the raw parameter
// vector and the ordered parameter names.
type Record struct {
	Func   string    `json:"func"`
	Params []float64 `json:"params"`
	Vars   []string  `json:"vars,omitempty"`
}

const fileDescription = "Parameters of the stochastic model: modulating function, upper and lower filter frequencies and damping ratios"

// Capture extracts the persistable state of a model. It fails when any of
// the five quantities has not been assigned parameters yet.
func Capture(m *stochastic.Model) (*File, error) {
	f := &File{
		Description: fileDescription,
		Npts:        m.Grid().Npts(),
		Dt:          m.Grid().Dt(),
		T:           m.Grid().T(),
	}
	records := []struct {
		id  stochastic.QuantityID
		dst *Record
	}{
		{stochastic.QuantityModulating, &f.Mdl},
		{stochastic.QuantityUpperFreq, &f.Wu},
		{stochastic.QuantityUpperDamp, &f.Zu},
		{stochastic.QuantityLowerFreq, &f.Wl},
		{stochastic.QuantityLowerDamp, &f.Zl},
	}
	for _, rec := range records {
		q := m.Config().Quantity(rec.id)
		if len(q.Params) == 0 {
			return nil, fmt.Errorf("preset: %s has no parameters assigned", rec.id)
		}
		*rec.dst = Record{
			Func:   string(q.Func),
			Params: append([]float64(nil), q.Params...),
			Vars:   append([]string(nil), q.ParamNames...),
		}
	}
	return f, nil
}

// SaveJSON writes the model parameters to path.
func SaveJSON(path string, m *stochastic.Model) error {
	f, err := Capture(m)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// LoadJSON reads a parameter file and reconstructs the model by re-invoking
// the named shape functions with the stored parameter vectors. A missing
// record or invalid field fails before any state is exposed.
func LoadJSON(path string) (*stochastic.Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, err)
	}
	return Build(&f)
}

// Build reconstructs a model from a parsed parameter file.
func Build(f *File) (*stochastic.Model, error) {
	if f == nil {
		return nil, fmt.Errorf("preset: nil file")
	}
	records := []struct {
		name string
		rec  *Record
	}{
		{"mdl", &f.Mdl},
		{"wu", &f.Wu},
		{"zu", &f.Zu},
		{"wl", &f.Wl},
		{"zl", &f.Zl},
	}
	funcs := make([]stochastic.FuncType, len(records))
	for i, r := range records {
		if r.rec.Func == "" {
			return nil, fmt.Errorf("preset: missing %s record", r.name)
		}
		ft, err := stochastic.ParseFuncType(r.rec.Func)
		if err != nil {
			return nil, fmt.Errorf("preset: %s: %w", r.name, err)
		}
		if len(r.rec.Params) == 0 {
			return nil, fmt.Errorf("preset: %s record has no parameters", r.name)
		}
		funcs[i] = ft
	}

	m, err := stochastic.NewModel(f.Npts, f.Dt, funcs[0], funcs[1], funcs[2], funcs[3], funcs[4])
	if err != nil {
		return nil, err
	}
	setters := []func([]float64) error{
		m.Config().SetModulating,
		m.Config().SetUpperFrequency,
		m.Config().SetUpperDamping,
		m.Config().SetLowerFrequency,
		m.Config().SetLowerDamping,
	}
	for i, set := range setters {
		if err := set(records[i].rec.Params); err != nil {
			return nil, err
		}
	}
	return m, nil
}
