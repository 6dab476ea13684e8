package decoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/internal/mathutil"
	"github.com/ieee0824/wordhmm/lexicon"
)

// ErrNoAlignment is returned when no state path explains the observations
// with the given transcript.
var ErrNoAlignment = errors.New("decoder: no valid alignment")

// Align performs Viterbi forced alignment of obs against a known word
// sequence and returns one entry per word with its frame span (EndFrame
// inclusive) and the log score accumulated over it.
//
// The word models are chained with acoustic.CombineAll and the path must
// leave through the exit of the last word.
func Align(obs [][]float64, words []lexicon.Word) ([]Word, error) {
	T := len(obs)
	N := len(words)
	if T == 0 {
		return nil, ErrEmptyObservations
	}
	if N == 0 {
		return nil, errors.New("decoder: empty transcript")
	}
	if T < N {
		return nil, fmt.Errorf("decoder: too few frames (%d) for %d words", T, N)
	}

	hmms := make([]*acoustic.HMM, N)
	for i, w := range words {
		if w.HMM == nil || w.HMM.NumStates() == 0 {
			return nil, fmt.Errorf("decoder: word %q has no states", w.Name)
		}
		hmms[i] = w.HMM
	}
	h := acoustic.CombineAll(hmms...)
	S := h.NumStates()

	// owner[s] is the transcript position of state s.
	owner := make([]int, 0, S)
	for i, m := range hmms {
		for range m.States {
			owner = append(owner, i)
		}
	}

	// Emissions are computed state-outer, frame-inner.
	emit := mathutil.NewMat(S, T)
	for s, st := range h.States {
		st.Mixture.LogDensityBatch(obs, emit[s])
		for t := range emit[s] {
			if mathutil.IsSentinel(emit[s][t]) {
				emit[s][t] = mathutil.LogZero
			}
		}
	}
	logTrans := mathutil.ApplyDense(h.Trans, S+1, S+1, math.Log)

	delta := mathutil.NewMatFill(T, S, mathutil.LogZero)
	bp := make([][]int32, T)
	for t := range bp {
		bp[t] = make([]int32, S)
	}
	for s := 0; s < S; s++ {
		delta[0][s] = math.Log(h.Initial[s]) + emit[s][0]
	}

	for t := 1; t < T; t++ {
		for j := 0; j < S; j++ {
			best := mathutil.LogZero
			bestPrev := int32(-1)
			for i := 0; i < S; i++ {
				score := delta[t-1][i] + logTrans[i][j]
				if score > best {
					best = score
					bestPrev = int32(i)
				}
			}
			bp[t][j] = bestPrev
			if bestPrev >= 0 {
				delta[t][j] = best + emit[j][t]
			}
		}
	}

	bestJ := -1
	bestScore := mathutil.LogZero
	for s := 0; s < S; s++ {
		score := delta[T-1][s] + logTrans[s][S]
		if score > bestScore {
			bestScore = score
			bestJ = s
		}
	}
	if bestJ < 0 {
		return nil, ErrNoAlignment
	}

	path := make([]int, T)
	path[T-1] = bestJ
	for t := T - 1; t > 0; t-- {
		path[t-1] = int(bp[t][path[t]])
	}

	out := make([]Word, 0, N)
	start := 0
	for t := 1; t <= T; t++ {
		if t < T && owner[path[t]] == owner[path[t-1]] {
			continue
		}
		score := delta[t-1][path[t-1]]
		if start > 0 {
			score -= delta[start-1][path[start-1]]
		}
		out = append(out, Word{
			Text:       words[owner[path[t-1]]].Name,
			StartFrame: start,
			EndFrame:   t - 1,
			LogScore:   score,
		})
		start = t
	}
	if len(out) != N {
		return nil, fmt.Errorf("%w: %d of %d words visited", ErrNoAlignment, len(out), N)
	}
	glog.V(2).Infof("aligned %d words over %d frames, score %.2f", N, T, bestScore)
	return out, nil
}
