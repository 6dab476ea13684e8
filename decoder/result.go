package decoder

import "github.com/ieee0824/wordhmm/sentence"

// Result holds the recognition output.
type Result struct {
	Text     string   // recognized text, sentence-start silence excluded
	Words    []Word   // word-level details, in path order
	WordEnds []string // word ending at each path frame in a word-end state
	Path     []int    // best state sequence, one entry per decoded frame
	LogScore float64  // log score of the best path
}

// Word holds per-word timing and score information.
type Word struct {
	Text       string
	StartFrame int
	EndFrame   int
	LogScore   float64
}

// WordTexts returns the recognized words without the sentence-start
// silence.
func (r *Result) WordTexts() []string {
	var out []string
	for _, w := range r.Words {
		if w.Text == sentence.StartWord {
			continue
		}
		out = append(out, w.Text)
	}
	return out
}
