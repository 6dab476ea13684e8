package decoder

import (
	"strings"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/internal/mathutil"
	"github.com/ieee0824/wordhmm/sentence"
)

// Progress reports the running best hypothesis after one frame.
type Progress struct {
	Frame     int
	BestState int
	LogScore  float64
	Words     []string // words on the best partial path
}

// Config holds decoding options.
type Config struct {
	// Progress, when set, is called after every frame.
	Progress func(Progress)
}

// DefaultConfig returns the default decoding options.
func DefaultConfig() Config {
	return Config{}
}

// Decode finds the most probable state path through m for obs and reads
// the word sequence off it.
//
// Only word-start states are entered at the first frame. A candidate
// extension is dropped when the previous score, the log transition or the
// log emission is the mathutil sentinel; dropped candidates rank below
// every real score. Among equal candidates the lowest predecessor wins.
// The path ends in the state most recently tracked as the global best.
func Decode(obs [][]float64, m *sentence.Model, cfg Config) *Result {
	T := len(obs)
	if T == 0 {
		glog.Warning("decode: empty observation sequence")
		return &Result{}
	}
	S := m.NumStates()
	if S == 0 {
		glog.Warning("decode: sentence model has no states")
		return &Result{}
	}

	logTrans := mathutil.ApplyDense(m.Trans, S, S, mathutil.SafeLog)

	// Predecessor lists skip sentinel transitions; they can never yield a
	// candidate.
	preds := make([][]int, S)
	for s := 0; s < S; s++ {
		for p := 0; p < S; p++ {
			if !mathutil.IsSentinel(logTrans[p][s]) {
				preds[s] = append(preds[s], p)
			}
		}
	}

	// Emission cache: word models share phoneme states.
	ord := make([]int, S)
	var unique []*acoustic.State
	seen := make(map[*acoustic.State]int)
	for s, st := range m.States {
		i, ok := seen[st]
		if !ok {
			i = len(unique)
			seen[st] = i
			unique = append(unique, st)
		}
		ord[s] = i
	}
	emit := make([]float64, len(unique))
	fillEmissions := func(x []float64) {
		for i, st := range unique {
			emit[i] = st.LogDensity(x)
		}
	}

	delta := mathutil.NewMatFill(T, S, mathutil.LogZero)
	back := mathutil.NewIndexMat(T, S)

	bestT, bestState := -1, -1
	bestScore := mathutil.LogZero

	fillEmissions(obs[0])
	for s := 0; s < S; s++ {
		back[0][s] = -1
		if !m.IsWordStart(s) {
			delta[0][s] = mathutil.Sentinel
			continue
		}
		delta[0][s] = emit[ord[s]]
		if score := rank(delta[0][s]); score > bestScore {
			bestT, bestState, bestScore = 0, s, score
		}
	}
	report(cfg, m, back, 0, bestT, bestState, delta)

	for t := 1; t < T; t++ {
		fillEmissions(obs[t])
		prev, cur := delta[t-1], delta[t]
		stepBest, stepScore := -1, mathutil.LogZero
		for s := 0; s < S; s++ {
			pdf := emit[ord[s]]
			best, bestPrev := mathutil.LogZero, -1
			if !mathutil.IsSentinel(pdf) {
				for _, p := range preds[s] {
					if mathutil.IsSentinel(prev[p]) {
						continue
					}
					if c := prev[p] + logTrans[p][s] + pdf; c > best {
						best, bestPrev = c, p
					}
				}
			}
			cur[s] = best
			back[t][s] = bestPrev
			if bestPrev >= 0 && best > stepScore {
				stepBest, stepScore = s, best
			}
		}
		if stepBest >= 0 {
			bestT, bestState, bestScore = t, stepBest, stepScore
		}
		report(cfg, m, back, t, bestT, bestState, delta)
	}

	if bestState < 0 {
		glog.Warning("decode: no path reaches any state")
		return &Result{}
	}

	path := backtrack(back, bestT, bestState)
	words := readWords(m, path, delta)
	res := &Result{
		Words:    words,
		WordEnds: wordEnds(m, path),
		Path:     path,
		LogScore: delta[bestT][bestState],
	}
	res.Text = strings.Join(res.WordTexts(), " ")
	if bestT < T-1 {
		glog.V(1).Infof("decode: best path ends at frame %d of %d", bestT, T)
	}
	return res
}

// rank orders a score with sentinels below every real value.
func rank(v float64) float64 {
	if mathutil.IsSentinel(v) {
		return mathutil.LogZero
	}
	return v
}

func backtrack(back [][]int, t, s int) []int {
	path := make([]int, t+1)
	for ; t >= 0; t-- {
		path[t] = s
		s = back[t][s]
	}
	return path
}

// wordEnds maps every path index through the word-end table, keeping each
// hit in path order.
func wordEnds(m *sentence.Model, path []int) []string {
	var out []string
	for _, s := range path {
		if name, ok := m.WordEndAt(s); ok {
			out = append(out, name)
		}
	}
	return out
}

// readWords emits one word per visit to a word-end state. Consecutive
// frames in the same end state count once.
func readWords(m *sentence.Model, path []int, delta [][]float64) []Word {
	var words []Word
	segStart := 0
	for i := 0; i < len(path); i++ {
		s := path[i]
		if i > 0 {
			prevWord, _ := m.WordAt(path[i-1])
			curWord, _ := m.WordAt(s)
			if prevWord != curWord || (m.IsWordStart(s) && path[i-1] != s) {
				segStart = i
			}
		}
		name, ok := m.WordEndAt(s)
		if !ok || (i > 0 && path[i-1] == s) {
			continue
		}
		end := i
		for end+1 < len(path) && path[end+1] == s {
			end++
		}
		score := delta[end][s]
		if segStart > 0 {
			score -= delta[segStart-1][path[segStart-1]]
		}
		words = append(words, Word{
			Text:       name,
			StartFrame: segStart,
			EndFrame:   end,
			LogScore:   score,
		})
	}
	return words
}

func report(cfg Config, m *sentence.Model, back [][]int, t, bestT, bestState int, delta [][]float64) {
	if cfg.Progress == nil {
		return
	}
	p := Progress{Frame: t, BestState: bestState}
	if bestState >= 0 {
		path := backtrack(back, bestT, bestState)
		p.LogScore = delta[bestT][bestState]
		for _, w := range readWords(m, path, delta) {
			p.Words = append(p.Words, w.Text)
		}
	}
	cfg.Progress(p)
}
