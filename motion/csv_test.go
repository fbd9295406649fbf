package motion

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestSaveCSVTimeSeries(t *testing.T) {
	mot := simulated(t, 2, 128)
	path := filepath.Join(t.TempDir(), "motions.csv")
	if err := mot.SaveCSV(path, VarTime, []Variable{VarAc, VarVel}); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 129 {
		t.Fatalf("row count: got=%d want=129", len(rows))
	}
	header := rows[0]
	want := []string{"t", "ac_1", "ac_2", "vel_1", "vel_2"}
	if len(header) != len(want) {
		t.Fatalf("header length: got=%d want=%d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("header[%d]: got=%q want=%q", i, header[i], want[i])
		}
	}
	v, err := strconv.ParseFloat(rows[2][0], 64)
	if err != nil {
		t.Fatalf("parse time cell: %v", err)
	}
	if v != 0.01 {
		t.Fatalf("second time sample: got=%g want=0.01", v)
	}
}

func TestSaveCSVSpectra(t *testing.T) {
	mot := simulated(t, 1, 128)
	path := filepath.Join(t.TempDir(), "spectra.csv")
	if err := mot.SaveCSV(path, VarPeriods, []Variable{VarSa, VarSv, VarSd}); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	periods := mot.Grid().Periods()
	if len(rows) != len(periods)+1 {
		t.Fatalf("row count: got=%d want=%d", len(rows), len(periods)+1)
	}
	if rows[0][0] != "tp" || rows[0][1] != "sa_1" {
		t.Fatalf("header: got=%v", rows[0][:2])
	}
}

func TestSaveCSVRejectsAxisMismatch(t *testing.T) {
	mot := simulated(t, 1, 128)
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := mot.SaveCSV(path, VarPeriods, []Variable{VarAc}); err == nil {
		t.Fatalf("SaveCSV must reject a period axis with time-domain columns")
	}
	if err := mot.SaveCSV(path, VarAc, []Variable{VarVel}); err == nil {
		t.Fatalf("SaveCSV must reject a dependent variable as the axis")
	}
	if err := mot.SaveCSV(path, VarTime, nil); err == nil {
		t.Fatalf("SaveCSV must reject an empty dependent list")
	}
}
