package mathutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMat(t *testing.T) {
	m := NewMat(3, 4)
	if len(m) != 3 {
		t.Fatalf("rows = %d, want 3", len(m))
	}
	for i, row := range m {
		if len(row) != 4 {
			t.Fatalf("row %d cols = %d, want 4", i, len(row))
		}
	}
}

func TestNewMatFill(t *testing.T) {
	m := NewMatFill(2, 3, 1.5)
	for i, row := range m {
		for j, v := range row {
			if v != 1.5 {
				t.Errorf("m[%d][%d] = %f, want 1.5", i, j, v)
			}
		}
	}
}

func TestNewIndexMat(t *testing.T) {
	m := NewIndexMat(2, 5)
	m[1][4] = 7
	if len(m) != 2 || len(m[0]) != 5 {
		t.Fatalf("shape = %dx%d, want 2x5", len(m), len(m[0]))
	}
	if m[0][4] != 0 || m[1][4] != 7 {
		t.Errorf("rows share storage incorrectly: %v", m)
	}
}

func TestApplyDense(t *testing.T) {
	d := mat.NewDense(3, 3, []float64{
		0.5, 0.5, 0,
		0, 0.25, 0.75,
		0, 0, 0,
	})
	m := ApplyDense(d, 2, 2, SafeLog)
	want := [][]float64{
		{math.Log(0.5), math.Log(0.5)},
		{0, math.Log(0.25)},
	}
	if len(m) != 2 || len(m[0]) != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", len(m), len(m[0]))
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("m[%d][%d] = %f, want %f", i, j, m[i][j], want[i][j])
			}
		}
	}
}
