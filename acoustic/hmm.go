package acoustic

import (
	"gonum.org/v1/gonum/mat"
)

// State is an emitting HMM state.
type State struct {
	Mixture Mixture
}

// NewState creates a state whose emission density is the given components.
func NewState(components ...*Component) *State {
	return &State{Mixture: *NewMixture(components...)}
}

// LogDensity computes log P(x | state).
func (s *State) LogDensity(x []float64) float64 {
	return s.Mixture.LogDensity(x)
}

// HMM is a left-to-right model with N emitting states.
//
// Trans is (N+1)x(N+1) in the linear domain. Index N is a virtual non-emitting
// exit: Trans.At(N-1, N) is the probability of leaving the model, and it is
// the column that Combine reuses as the entry of the following model.
type HMM struct {
	Name        string
	States      []*State
	Trans       *mat.Dense
	Initial     []float64 // [N] P(q0 = i)
	InitialExit float64   // entry -> exit probability of the source row
	Offset      int       // index of States[0] inside an enclosing model
}

// NewHMM creates a model from linear-domain transition rows. Rows and
// columns beyond N+1 are dropped and missing entries are zero, so the result
// always satisfies the (N+1)x(N+1) shape. initial is truncated or
// zero-padded to N.
func NewHMM(name string, states []*State, initial []float64, rows [][]float64) *HMM {
	n := len(states)
	side := n + 1
	trans := mat.NewDense(side, side, nil)
	for i, row := range rows {
		if i >= side {
			break
		}
		for j, v := range row {
			if j >= side {
				break
			}
			trans.Set(i, j, v)
		}
	}
	init := make([]float64, n)
	copy(init, initial)
	return &HMM{
		Name:    name,
		States:  states,
		Trans:   trans,
		Initial: init,
	}
}

// NumStates returns the number of emitting states.
func (h *HMM) NumStates() int { return len(h.States) }

// Side returns the side of the transition matrix.
func (h *HMM) Side() int {
	r, _ := h.Trans.Dims()
	return r
}

// Transition returns P(q(t+1) = j | q(t) = i).
func (h *HMM) Transition(i, j int) float64 {
	return h.Trans.At(i, j)
}

// ExitProb returns the probability of leaving the model from its last
// emitting state.
func (h *HMM) ExitProb() float64 {
	n := len(h.States)
	if n == 0 {
		return 0
	}
	return h.Trans.At(n-1, n)
}

// Clone returns a copy with its own transition matrix and initial vector.
// States are shared; they are read-only once built.
func (h *HMM) Clone() *HMM {
	c := *h
	c.States = append([]*State(nil), h.States...)
	c.Trans = mat.DenseCopyOf(h.Trans)
	c.Initial = append([]float64(nil), h.Initial...)
	return &c
}

// Combine chains b after a. The states are a's followed by b's and the
// transition matrices overlap by one index: b's block starts at a.Side()-1,
// so a's exit column becomes the entry into b's first state. The initial
// distribution is a's, extended with zeros for b's states.
func Combine(a, b *HMM) *HMM {
	as, bs := a.Side(), b.Side()
	size := as + bs - 1
	off := as - 1

	trans := mat.NewDense(size, size, nil)
	if off > 0 {
		dst := trans.Slice(0, off, 0, as).(*mat.Dense)
		dst.Copy(a.Trans.Slice(0, off, 0, as))
	}
	dst := trans.Slice(off, off+bs, off, off+bs).(*mat.Dense)
	dst.Copy(b.Trans)

	states := make([]*State, 0, len(a.States)+len(b.States))
	states = append(states, a.States...)
	states = append(states, b.States...)

	initial := make([]float64, len(a.Initial)+len(b.States))
	copy(initial, a.Initial)

	return &HMM{
		Name:        a.Name + "+" + b.Name,
		States:      states,
		Trans:       trans,
		Initial:     initial,
		InitialExit: a.InitialExit,
	}
}

// CombineAll folds Combine over models from left to right. A single model is
// returned as a clone so callers may set its Offset freely.
func CombineAll(models ...*HMM) *HMM {
	if len(models) == 0 {
		return nil
	}
	r := models[0].Clone()
	for _, m := range models[1:] {
		r = Combine(r, m)
	}
	return r
}
