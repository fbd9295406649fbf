package motion

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Variable names one exportable quantity of a Motion. The lookup table is
// enum-keyed rather than built from attribute-name strings.
type Variable string

const (
	VarTime    Variable = "t"
	VarFreq    Variable = "freq"
	VarPeriods Variable = "tp"
	VarAc      Variable = "ac"
	VarVel     Variable = "vel"
	VarDisp    Variable = "disp"
	VarFAS     Variable = "fas"
	VarCE      Variable = "ce"
	VarSa      Variable = "sa"
	VarSv      Variable = "sv"
	VarSd      Variable = "sd"
)

// axis resolves an independent-variable column.
func (m *Motion) axis(v Variable) ([]float64, error) {
	switch v {
	case VarTime:
		return m.grid.T(), nil
	case VarFreq:
		return m.grid.Freq(), nil
	case VarPeriods:
		return m.grid.Periods(), nil
	}
	return nil, fmt.Errorf("motion: %q is not an independent variable", v)
}

// columns resolves a dependent variable to one column per realization.
func (m *Motion) columns(v Variable) ([][]float64, error) {
	switch v {
	case VarAc:
		return m.Ac, nil
	case VarVel:
		return m.Vel, nil
	case VarDisp:
		return m.Disp, nil
	case VarFAS:
		return m.FAS()
	case VarCE:
		return m.CumulativeEnergy(), nil
	case VarSa, VarSv, VarSd:
		spectra, err := m.Spectra()
		if err != nil {
			return nil, err
		}
		out := make([][]float64, len(spectra))
		for i, sp := range spectra {
			switch v {
			case VarSa:
				out[i] = sp.Sa
			case VarSv:
				out[i] = sp.Sv
			default:
				out[i] = sp.Sd
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("motion: %q is not a dependent variable", v)
}

// SaveCSV writes the independent variable plus one column per (dependent
// variable, realization) pair with header
// "xvar,dep1_1,dep1_2,...,dep2_1,...".
func (m *Motion) SaveCSV(filename string, xVar Variable, yVars []Variable) error {
	x, err := m.axis(xVar)
	if err != nil {
		return err
	}
	if len(yVars) == 0 {
		return fmt.Errorf("motion: no dependent variables given")
	}

	blocks := make([][][]float64, len(yVars))
	for i, v := range yVars {
		cols, err := m.columns(v)
		if err != nil {
			return err
		}
		for _, col := range cols {
			if len(col) != len(x) {
				return fmt.Errorf("motion: %s has %d samples but %s has %d", v, len(col), xVar, len(x))
			}
		}
		blocks[i] = cols
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{string(xVar)}
	for i, v := range yVars {
		for r := range blocks[i] {
			header = append(header, fmt.Sprintf("%s_%d", v, r+1))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for row := range x {
		record[0] = strconv.FormatFloat(x[row], 'g', -1, 64)
		k := 1
		for i := range blocks {
			for _, col := range blocks[i] {
				record[k] = strconv.FormatFloat(col[row], 'g', -1, 64)
				k++
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
