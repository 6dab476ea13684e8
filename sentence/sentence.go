package sentence

import (
	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/language"
	"github.com/ieee0824/wordhmm/lexicon"
	"gonum.org/v1/gonum/mat"
)

// StartWord names the silence model that opens every sentence.
const StartWord = language.SentenceStart

// Span locates one embedded word inside the sentence model.
type Span struct {
	Name  string
	Start int           // global index of the first state
	End   int           // global index of the last state
	HMM   *acoustic.HMM // embedded copy, HMM.Offset == Start
}

// Model is a sentence HMM with word boundary annotations.
type Model struct {
	*acoustic.HMM
	WordStart map[int]string // first state index -> word
	WordEnd   map[int]string // last state index -> word
	Spans     []Span         // embedded words in state order

	spanOf []int // state index -> index into Spans, -1 outside any span
}

// Build lays out the silence model (as StartWord) followed by every word,
// in order, on one state axis. Each word keeps its own transitions inside
// its block; a bigram (a, b, w) links the last state of a to the first
// state of b with probability w * ExitProb(a). Bigrams naming unknown words
// are skipped. silence may be nil.
func Build(words []lexicon.Word, silence *acoustic.HMM, bigrams []language.Bigram) *Model {
	m := &Model{
		WordStart: make(map[int]string),
		WordEnd:   make(map[int]string),
	}

	offset := 0
	add := func(name string, h *acoustic.HMM) {
		if h == nil || h.NumStates() == 0 {
			glog.V(2).Infof("word %q has no states, skipped", name)
			return
		}
		c := h.Clone()
		c.Offset = offset
		n := c.NumStates()
		m.Spans = append(m.Spans, Span{Name: name, Start: offset, End: offset + n - 1, HMM: c})
		m.WordStart[offset] = name
		m.WordEnd[offset+n-1] = name
		offset += n
	}
	if silence != nil {
		add(StartWord, silence)
	}
	for _, w := range words {
		add(w.Name, w.HMM)
	}

	total := offset
	trans := mat.NewDense(total+1, total+1, nil)
	initial := make([]float64, total)
	states := make([]*acoustic.State, 0, total)
	for _, sp := range m.Spans {
		n := sp.HMM.NumStates()
		dst := trans.Slice(sp.Start, sp.Start+n, sp.Start, sp.Start+n).(*mat.Dense)
		dst.Copy(sp.HMM.Trans.Slice(0, n, 0, n))
		copy(initial[sp.Start:], sp.HMM.Initial)
		states = append(states, sp.HMM.States...)
	}

	byName := make(map[string]*Span, len(m.Spans))
	for i := range m.Spans {
		byName[m.Spans[i].Name] = &m.Spans[i]
	}
	linked := 0
	for _, bg := range bigrams {
		from, ok := byName[bg.From]
		if !ok {
			glog.V(2).Infof("bigram %s -> %s: unknown word %q, skipped", bg.From, bg.To, bg.From)
			continue
		}
		to, ok := byName[bg.To]
		if !ok {
			glog.V(2).Infof("bigram %s -> %s: unknown word %q, skipped", bg.From, bg.To, bg.To)
			continue
		}
		trans.Set(from.End, to.Start, bg.Weight*from.HMM.ExitProb())
		linked++
	}

	m.indexSpans(total)
	m.HMM = &acoustic.HMM{
		Name:    "sentence",
		States:  states,
		Trans:   trans,
		Initial: initial,
	}
	glog.V(1).Infof("sentence model: %d words, %d states, %d of %d bigrams linked",
		len(m.Spans), total, linked, len(bigrams))
	return m
}

// FromHMM wraps a single model as a one-word sentence. Its word starts are
// the states with non-zero initial probability (state 0 if there are none)
// and its word end is the last state.
func FromHMM(name string, h *acoustic.HMM) *Model {
	m := &Model{
		HMM:       h,
		WordStart: make(map[int]string),
		WordEnd:   make(map[int]string),
	}
	n := h.NumStates()
	if n == 0 {
		return m
	}
	for i, p := range h.Initial {
		if p != 0 {
			m.WordStart[i] = name
		}
	}
	if len(m.WordStart) == 0 {
		m.WordStart[0] = name
	}
	m.WordEnd[n-1] = name
	m.Spans = []Span{{Name: name, Start: 0, End: n - 1, HMM: h}}
	m.indexSpans(n)
	return m
}

func (m *Model) indexSpans(states int) {
	m.spanOf = make([]int, states)
	for i := range m.spanOf {
		m.spanOf[i] = -1
	}
	for k, sp := range m.Spans {
		for i := sp.Start; i <= sp.End && i < states; i++ {
			m.spanOf[i] = k
		}
	}
}

// IsWordStart reports whether state i begins a word.
func (m *Model) IsWordStart(i int) bool {
	_, ok := m.WordStart[i]
	return ok
}

// WordEndAt returns the word that ends at state i.
func (m *Model) WordEndAt(i int) (string, bool) {
	w, ok := m.WordEnd[i]
	return w, ok
}

// WordAt returns the word whose block contains state i. Models not made by
// Build or FromHMM fall back to a scan of Spans.
func (m *Model) WordAt(i int) (string, bool) {
	if m.spanOf != nil {
		if i < 0 || i >= len(m.spanOf) || m.spanOf[i] < 0 {
			return "", false
		}
		return m.Spans[m.spanOf[i]].Name, true
	}
	for _, sp := range m.Spans {
		if i >= sp.Start && i <= sp.End {
			return sp.Name, true
		}
	}
	return "", false
}
