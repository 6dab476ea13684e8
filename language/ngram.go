package language

import (
	"math"
	"sort"

	"github.com/ieee0824/wordhmm/internal/mathutil"
)

// SentenceStart is the history token that opens every sentence.
const SentenceStart = "<s>"

// BigramModel is a backoff bigram language model in the natural-log
// domain.
type BigramModel struct {
	Unigrams map[string]entry
	Bigrams  map[[2]string]entry
}

type entry struct {
	LogProb    float64
	LogBackoff float64
}

// NewBigramModel creates an empty model.
func NewBigramModel() *BigramModel {
	return &BigramModel{
		Unigrams: make(map[string]entry),
		Bigrams:  make(map[[2]string]entry),
	}
}

// LogProb returns log P(word | prev). A missing bigram backs off to the
// unigram of word weighted by the backoff of prev; a word outside the
// vocabulary has LogZero.
func (m *BigramModel) LogProb(prev, word string) float64 {
	if e, ok := m.Bigrams[[2]string{prev, word}]; ok {
		return e.LogProb
	}
	u, ok := m.Unigrams[word]
	if !ok {
		return mathutil.LogZero
	}
	return m.Unigrams[prev].LogBackoff + u.LogProb
}

// Vocab returns all words in the unigram vocabulary, sorted.
func (m *BigramModel) Vocab() []string {
	words := make([]string, 0, len(m.Unigrams))
	for w := range m.Unigrams {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// BigramsFor expands the model into word transition weights over vocab.
// Every ordered pair (a, b) gets the backed-off P(b | a) in the linear
// domain. Pairs with zero probability and transitions back into
// SentenceStart are left out. A nil vocab means the model's own vocabulary.
func (m *BigramModel) BigramsFor(vocab []string) []Bigram {
	if vocab == nil {
		vocab = m.Vocab()
	}
	var out []Bigram
	for _, a := range vocab {
		for _, b := range vocab {
			if b == SentenceStart {
				continue
			}
			w := math.Exp(m.LogProb(a, b))
			if w == 0 {
				continue
			}
			out = append(out, Bigram{From: a, To: b, Weight: w})
		}
	}
	return out
}
