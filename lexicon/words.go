package lexicon

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/ieee0824/wordhmm/acoustic"
)

// Word is a dictionary word bound to the concatenation of its phoneme HMMs.
type Word struct {
	Name     string
	Phonemes []acoustic.Phoneme
	HMM      *acoustic.HMM
}

// UnknownPhonemeError reports a pronunciation that references a phoneme
// missing from the model set.
type UnknownPhonemeError struct {
	Word    string
	Phoneme acoustic.Phoneme
}

func (e *UnknownPhonemeError) Error() string {
	return fmt.Sprintf("word %q: unknown phoneme %q", e.Word, e.Phoneme)
}

type buildOptions struct {
	shortPause    acoustic.Phoneme
	useShortPause bool
}

// BuildOption configures BuildWords.
type BuildOption func(*buildOptions)

// WithShortPause sets the model appended to every word. Defaults to "sp".
func WithShortPause(p acoustic.Phoneme) BuildOption {
	return func(o *buildOptions) {
		o.shortPause = p
		o.useShortPause = true
	}
}

// WithoutShortPause builds words from their pronunciation only.
func WithoutShortPause() BuildOption {
	return func(o *buildOptions) { o.useShortPause = false }
}

// BuildWords concatenates the phoneme HMMs of every dictionary word, in
// dictionary order, using the first pronunciation of each word. A word that
// references a missing phoneme is skipped; the returned error collects one
// *UnknownPhonemeError per skipped word while the other words are still
// returned.
func BuildWords(d *Dictionary, models *acoustic.ModelSet, opts ...BuildOption) ([]Word, error) {
	o := buildOptions{shortPause: acoustic.PhonSP, useShortPause: true}
	for _, opt := range opts {
		opt(&o)
	}

	var spModel *acoustic.HMM
	if o.useShortPause {
		var ok bool
		spModel, ok = models.Model(o.shortPause)
		if !ok {
			glog.V(1).Infof("short pause model %q not found, words built without it", o.shortPause)
		}
	}

	var result *multierror.Error
	words := make([]Word, 0, d.Len())
	for _, name := range d.Words() {
		phonemes, _ := d.PhonemeSequence(name)
		if len(phonemes) == 0 {
			glog.V(2).Infof("word %q has no pronunciation, skipped", name)
			continue
		}
		hmms := make([]*acoustic.HMM, 0, len(phonemes)+1)
		var missing error
		for _, p := range phonemes {
			h, ok := models.Model(p)
			if !ok {
				missing = &UnknownPhonemeError{Word: name, Phoneme: p}
				break
			}
			hmms = append(hmms, h)
		}
		if missing != nil {
			result = multierror.Append(result, missing)
			continue
		}

		seq := phonemes
		if spModel != nil && phonemes[len(phonemes)-1] != o.shortPause {
			hmms = append(hmms, spModel)
			seq = append(append([]acoustic.Phoneme(nil), phonemes...), o.shortPause)
		}

		h := acoustic.CombineAll(hmms...)
		h.Name = name
		words = append(words, Word{Name: name, Phonemes: seq, HMM: h})
		if glog.V(3) {
			glog.Infof("word %q: %d phonemes, %d states", name, len(seq), h.NumStates())
		}
	}
	return words, result.ErrorOrNil()
}

// Names returns the word names in order.
func Names(words []Word) []string {
	names := make([]string, len(words))
	for i, w := range words {
		names[i] = w.Name
	}
	return names
}
