package decoder

import (
	"errors"
	"math"

	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/internal/mathutil"
)

// ErrEmptyObservations is returned when scoring an empty observation
// sequence.
var ErrEmptyObservations = errors.New("decoder: empty observation sequence")

// Forward computes log P(obs | h) with the forward algorithm in the log
// domain. Zero initial or transition probabilities become -Inf; emission
// densities go through mathutil.SafeLog.
func Forward(obs [][]float64, h *acoustic.HMM) (float64, error) {
	if len(obs) == 0 {
		return 0, ErrEmptyObservations
	}
	n := h.NumStates()
	if n == 0 {
		return mathutil.LogZero, nil
	}

	logTrans := mathutil.ApplyDense(h.Trans, n, n, math.Log)

	alpha := make([]float64, n)
	next := make([]float64, n)
	terms := make([]float64, n)
	for s, st := range h.States {
		alpha[s] = math.Log(h.Initial[s]) + st.LogDensity(obs[0])
	}

	for t := 1; t < len(obs); t++ {
		for s, st := range h.States {
			for k := 0; k < n; k++ {
				terms[k] = alpha[k] + logTrans[k][s]
			}
			next[s] = st.LogDensity(obs[t]) + mathutil.LogSum(terms)
		}
		alpha, next = next, alpha
	}
	return mathutil.LogSum(alpha), nil
}
