package sentence

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/language"
	"github.com/ieee0824/wordhmm/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(name string, n int, self, exit float64) *acoustic.HMM {
	states := make([]*acoustic.State, n)
	rows := make([][]float64, n+1)
	for i := range states {
		states[i] = acoustic.NewState(acoustic.NewComponent(1, []float64{float64(i)}, []float64{1}))
		rows[i] = make([]float64, n+1)
		rows[i][i] = self
		if i < n-1 {
			rows[i][i+1] = 1 - self
		} else {
			rows[i][i+1] = exit
		}
	}
	initial := make([]float64, n)
	initial[0] = 1
	return acoustic.NewHMM(name, states, initial, rows)
}

func TestBuildLayout(t *testing.T) {
	sil := chain("sil", 1, 0.9, 0.1)
	words := []lexicon.Word{
		{Name: "one", HMM: chain("one", 2, 0.5, 0.4)},
		{Name: "two", HMM: chain("two", 3, 0.6, 0.2)},
	}
	m := Build(words, sil, nil)

	require.Equal(t, 6, m.NumStates())
	require.Equal(t, 7, m.Side())
	assert.Equal(t, map[int]string{0: StartWord, 1: "one", 3: "two"}, m.WordStart)
	assert.Equal(t, map[int]string{0: StartWord, 2: "one", 5: "two"}, m.WordEnd)
	assert.Equal(t, []float64{1, 1, 0, 1, 0, 0}, m.Initial)

	// Blocks exclude each word's exit column.
	assert.Equal(t, 0.9, m.Transition(0, 0))
	assert.Equal(t, 0.0, m.Transition(0, 1))
	assert.Equal(t, 0.5, m.Transition(1, 2))
	assert.Equal(t, 0.0, m.Transition(2, 3))
	assert.Equal(t, 0.6, m.Transition(5, 5))
	for j := 0; j < m.Side(); j++ {
		assert.Equal(t, 0.0, m.Transition(6, j), "exit row stays empty")
	}

	offsets := make([]int, len(m.Spans))
	for i, sp := range m.Spans {
		offsets[i] = sp.HMM.Offset
	}
	if diff := cmp.Diff([]int{0, 1, 3}, offsets); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, words[1].HMM.Offset, "input word untouched")
}

func TestBuildBigrams(t *testing.T) {
	sil := chain("sil", 1, 0.9, 0.1)
	words := []lexicon.Word{
		{Name: "one", HMM: chain("one", 2, 0.5, 0.4)},
		{Name: "two", HMM: chain("two", 1, 0.6, 0.2)},
	}
	bigrams := []language.Bigram{
		{From: StartWord, To: "one", Weight: 0.5},
		{From: "one", To: "two", Weight: 0.25},
		{From: "two", To: "two", Weight: 1},
		{From: "nine", To: "one", Weight: 1},
		{From: "one", To: "nine", Weight: 1},
	}
	m := Build(words, sil, bigrams)

	assert.InDelta(t, 0.5*0.1, m.Transition(0, 1), 1e-15)
	assert.InDelta(t, 0.25*0.4, m.Transition(2, 3), 1e-15)
	assert.InDelta(t, 1*0.2, m.Transition(3, 3), 1e-15, "bigram overwrites the self loop")
}

func TestBuildWithoutSilence(t *testing.T) {
	m := Build([]lexicon.Word{{Name: "one", HMM: chain("one", 2, 0.5, 0.4)}}, nil, nil)
	assert.Equal(t, 2, m.NumStates())
	assert.Equal(t, map[int]string{0: "one"}, m.WordStart)
	assert.True(t, m.IsWordStart(0))
	assert.False(t, m.IsWordStart(1))

	w, ok := m.WordEndAt(1)
	assert.True(t, ok)
	assert.Equal(t, "one", w)

	name, ok := m.WordAt(1)
	assert.True(t, ok)
	assert.Equal(t, "one", name)
	_, ok = m.WordAt(5)
	assert.False(t, ok)
}

func TestBuildEmpty(t *testing.T) {
	m := Build(nil, nil, nil)
	assert.Equal(t, 0, m.NumStates())
	assert.Equal(t, 1, m.Side())
}

func TestFromHMM(t *testing.T) {
	h := chain("w", 3, 0.5, 0.5)
	h.Initial = []float64{0.7, 0.3, 0}
	m := FromHMM("w", h)

	assert.Equal(t, map[int]string{0: "w", 1: "w"}, m.WordStart)
	assert.Equal(t, map[int]string{2: "w"}, m.WordEnd)
	assert.Same(t, h, m.HMM)

	h2 := chain("z", 2, 0.5, 0.5)
	h2.Initial = []float64{0, 0}
	assert.True(t, FromHMM("z", h2).IsWordStart(0))
}

func TestWordAtEveryState(t *testing.T) {
	words := []lexicon.Word{
		{Name: "one", HMM: chain("one", 2, 0.5, 0.4)},
		{Name: "two", HMM: chain("two", 3, 0.6, 0.2)},
	}
	m := Build(words, chain("sil", 1, 0.9, 0.1), nil)

	want := []string{StartWord, "one", "one", "two", "two", "two"}
	got := make([]string, m.NumStates())
	for i := range got {
		name, ok := m.WordAt(i)
		require.True(t, ok, "state %d", i)
		got[i] = name
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WordAt mismatch (-want +got):\n%s", diff)
	}
	for _, i := range []int{-1, 6, 100} {
		_, ok := m.WordAt(i)
		assert.False(t, ok, "state %d", i)
	}

	name, ok := FromHMM("w", chain("w", 2, 0.5, 0.5)).WordAt(1)
	assert.True(t, ok)
	assert.Equal(t, "w", name)

	manual := &Model{Spans: []Span{{Name: "x", Start: 2, End: 3}}}
	name, ok = manual.WordAt(3)
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	_, ok = manual.WordAt(1)
	assert.False(t, ok)
}
