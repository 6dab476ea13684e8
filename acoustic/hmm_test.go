package acoustic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func unitState(mean float64) *State {
	return NewState(NewComponent(1, []float64{mean}, []float64{1}))
}

func denseRows(d *mat.Dense) [][]float64 {
	r, _ := d.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = append([]float64(nil), d.RawRowView(i)...)
	}
	return rows
}

func TestNewHMMShape(t *testing.T) {
	h := NewHMM("a", []*State{unitState(0), unitState(1)}, []float64{1, 0, 0.5},
		[][]float64{
			{0.6, 0.4, 0, 9},
			{0, 0.7, 0.3},
			{0, 0, 0},
			{9, 9, 9},
		})
	if h.Side() != 3 {
		t.Fatalf("Side = %d, want 3", h.Side())
	}
	want := [][]float64{
		{0.6, 0.4, 0},
		{0, 0.7, 0.3},
		{0, 0, 0},
	}
	if diff := cmp.Diff(want, denseRows(h.Trans)); diff != "" {
		t.Errorf("Trans mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 0}, h.Initial); diff != "" {
		t.Errorf("Initial mismatch (-want +got):\n%s", diff)
	}
	if h.ExitProb() != 0.3 {
		t.Errorf("ExitProb = %g, want 0.3", h.ExitProb())
	}
}

func TestNewHMMPadsMissingRows(t *testing.T) {
	h := NewHMM("a", []*State{unitState(0), unitState(1)}, nil, [][]float64{{0.5}})
	if h.Side() != 3 {
		t.Fatalf("Side = %d, want 3", h.Side())
	}
	if h.Transition(0, 0) != 0.5 || h.Transition(1, 2) != 0 {
		t.Errorf("unexpected transitions %v", denseRows(h.Trans))
	}
	if len(h.Initial) != 2 {
		t.Errorf("len(Initial) = %d, want 2", len(h.Initial))
	}
}

func TestCombine(t *testing.T) {
	a := NewHMM("a", []*State{unitState(0)}, []float64{1}, [][]float64{
		{0.6, 0.4},
		{0, 0},
	})
	b := NewHMM("b", []*State{unitState(1), unitState(2)}, []float64{1, 0}, [][]float64{
		{0.5, 0.5, 0},
		{0, 0.8, 0.2},
		{0, 0, 0},
	})

	c := Combine(a, b)
	if got, want := c.Side(), a.Side()+b.Side()-1; got != want {
		t.Fatalf("Side = %d, want %d", got, want)
	}
	if c.NumStates() != 3 {
		t.Fatalf("NumStates = %d, want 3", c.NumStates())
	}
	want := [][]float64{
		{0.6, 0.4, 0, 0},
		{0, 0.5, 0.5, 0},
		{0, 0, 0.8, 0.2},
		{0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, denseRows(c.Trans)); diff != "" {
		t.Errorf("Trans mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 0, 0}, c.Initial); diff != "" {
		t.Errorf("Initial mismatch (-want +got):\n%s", diff)
	}
	if c.States[0] != a.States[0] || c.States[2] != b.States[1] {
		t.Error("states not concatenated in order")
	}
	if c.ExitProb() != 0.2 {
		t.Errorf("ExitProb = %g, want 0.2", c.ExitProb())
	}
}

func TestCombineAllLeavesInputsUntouched(t *testing.T) {
	a := NewHMM("a", []*State{unitState(0)}, []float64{1}, [][]float64{{0.6, 0.4}, {0, 0}})
	single := CombineAll(a)
	single.Offset = 7
	single.Trans.Set(0, 0, 0.1)
	if a.Offset != 0 || a.Transition(0, 0) != 0.6 {
		t.Error("CombineAll of a single model aliases the input")
	}

	three := CombineAll(a, a, a)
	if three.NumStates() != 3 || three.Side() != 4 {
		t.Errorf("NumStates = %d, Side = %d, want 3, 4", three.NumStates(), three.Side())
	}
	if CombineAll() != nil {
		t.Error("CombineAll() != nil")
	}
}
