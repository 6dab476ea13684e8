package wordhmm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/ieee0824/wordhmm/decoder"
	"github.com/ieee0824/wordhmm/feature"
	"github.com/ieee0824/wordhmm/language"
	"github.com/ieee0824/wordhmm/lexicon"
	"github.com/ieee0824/wordhmm/sentence"
)

// Recognizer is the top-level word and sentence recognizer.
type Recognizer struct {
	Models   *acoustic.ModelSet
	Dict     *lexicon.Dictionary
	Words    []lexicon.Word
	Bigrams  []language.Bigram
	Sentence *sentence.Model
	DecCfg   decoder.Config
	UseCMN   bool

	silence    acoustic.Phoneme // "" = no sentence-start silence
	shortPause acoustic.Phoneme // "" = no short pause after words
	lm         *language.BigramModel
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithDecoderConfig sets custom decoder parameters.
func WithDecoderConfig(cfg decoder.Config) Option {
	return func(r *Recognizer) {
		r.DecCfg = cfg
	}
}

// WithShortPause sets the model appended to every word. An empty name
// disables the short pause.
func WithShortPause(name string) Option {
	return func(r *Recognizer) {
		r.shortPause = acoustic.Phoneme(name)
	}
}

// WithSilenceModel sets the model placed at the start of the sentence. An
// empty name leaves it out.
func WithSilenceModel(name string) Option {
	return func(r *Recognizer) {
		r.silence = acoustic.Phoneme(name)
	}
}

// WithCMN enables or disables cepstral mean normalization of observations.
func WithCMN(enabled bool) Option {
	return func(r *Recognizer) {
		r.UseCMN = enabled
	}
}

// WithLanguageModel derives the word bigrams from an n-gram model when no
// explicit bigrams are given.
func WithLanguageModel(lm *language.BigramModel) Option {
	return func(r *Recognizer) {
		r.lm = lm
	}
}

func newRecognizer(opts []Option) *Recognizer {
	r := &Recognizer{
		DecCfg:     decoder.DefaultConfig(),
		silence:    acoustic.PhonSil,
		shortPause: acoustic.PhonSP,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRecognizer creates a Recognizer from model files. hmmPath may be a
// text definition or a .gob cache; bigramPath may be a tab-separated
// bigram list, an .arpa language model, or empty.
func NewRecognizer(hmmPath, dictPath, bigramPath string, opts ...Option) (*Recognizer, error) {
	models, err := acoustic.LoadFile(hmmPath)
	if err != nil {
		return nil, fmt.Errorf("load acoustic model: %w", err)
	}
	dict, err := lexicon.LoadFile(dictPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	var bigrams []language.Bigram
	switch {
	case bigramPath == "":
	case strings.EqualFold(filepath.Ext(bigramPath), ".arpa"):
		lm, err := language.LoadARPAFile(bigramPath)
		if err != nil {
			return nil, fmt.Errorf("load language model: %w", err)
		}
		opts = append(opts, WithLanguageModel(lm))
	default:
		bigrams, err = language.LoadBigramsFile(bigramPath)
		if err != nil {
			return nil, fmt.Errorf("load bigrams: %w", err)
		}
	}

	glog.Infof("loaded %d models, %d dictionary words, %d bigrams", models.Len(), dict.Len(), len(bigrams))
	return NewRecognizerFromModels(models, dict, bigrams, opts...)
}

// NewRecognizerFromModels creates a Recognizer from pre-loaded models.
// Words referencing unknown phonemes are logged and left out; it fails only
// when no word can be built.
func NewRecognizerFromModels(models *acoustic.ModelSet, dict *lexicon.Dictionary, bigrams []language.Bigram, opts ...Option) (*Recognizer, error) {
	r := newRecognizer(opts)
	r.Models = models
	r.Dict = dict

	m, words, err := r.build(bigrams)
	if err != nil {
		glog.Warningf("some words were skipped: %v", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no word could be built from %d dictionary entries", dict.Len())
	}
	r.Words = words
	r.Sentence = m
	return r, nil
}

// BuildSentenceModel composes the dictionary words, the silence model and
// the bigram weights into one sentence model. The model is returned even
// when some words could not be built; the error then lists them.
func BuildSentenceModel(dict *lexicon.Dictionary, bigrams []language.Bigram, models *acoustic.ModelSet, opts ...Option) (*sentence.Model, error) {
	r := newRecognizer(opts)
	r.Models = models
	r.Dict = dict
	m, _, err := r.build(bigrams)
	return m, err
}

func (r *Recognizer) build(bigrams []language.Bigram) (*sentence.Model, []lexicon.Word, error) {
	var buildOpts []lexicon.BuildOption
	if r.shortPause == "" {
		buildOpts = append(buildOpts, lexicon.WithoutShortPause())
	} else {
		buildOpts = append(buildOpts, lexicon.WithShortPause(r.shortPause))
	}
	words, err := lexicon.BuildWords(r.Dict, r.Models, buildOpts...)

	var silence *acoustic.HMM
	if r.silence != "" {
		var ok bool
		if silence, ok = r.Models.Model(r.silence); !ok {
			glog.Warningf("silence model %q not found, sentences start without it", r.silence)
		}
	}

	if bigrams == nil && r.lm != nil {
		vocab := append([]string{sentence.StartWord}, lexicon.Names(words)...)
		bigrams = r.lm.BigramsFor(vocab)
	}
	r.Bigrams = bigrams
	return sentence.Build(words, silence, bigrams), words, err
}

func (r *Recognizer) prepare(obs [][]float64) [][]float64 {
	if !r.UseCMN {
		return obs
	}
	cp := make([][]float64, len(obs))
	for i, f := range obs {
		cp[i] = append([]float64(nil), f...)
	}
	feature.ApplyCMN(cp)
	return cp
}

// Classify scores obs against every word and returns the scores best first.
func (r *Recognizer) Classify(obs [][]float64) ([]decoder.Score, error) {
	return decoder.Classify(r.prepare(obs), r.Words)
}

// ClassifyFile classifies the observations stored at path.
func (r *Recognizer) ClassifyFile(path string) ([]decoder.Score, error) {
	obs, err := feature.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return r.Classify(obs)
}

// RecognizeFeatures decodes obs against the sentence model.
func (r *Recognizer) RecognizeFeatures(obs [][]float64) *decoder.Result {
	return decoder.Decode(r.prepare(obs), r.Sentence, r.DecCfg)
}

// RecognizeFile runs recognition on the observations stored at path.
func (r *Recognizer) RecognizeFile(path string) (*decoder.Result, error) {
	obs, err := feature.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return r.RecognizeFeatures(obs), nil
}

// Align force-aligns obs against transcript, a sequence of dictionary
// words, and returns the frame span of each word.
func (r *Recognizer) Align(obs [][]float64, transcript []string) ([]decoder.Word, error) {
	byName := make(map[string]lexicon.Word, len(r.Words))
	for _, w := range r.Words {
		byName[w.Name] = w
	}
	words := make([]lexicon.Word, len(transcript))
	for i, name := range transcript {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("word %q is not in the recognizer vocabulary", name)
		}
		words[i] = w
	}
	return decoder.Align(r.prepare(obs), words)
}

// AlignFile force-aligns the observations stored at path against
// transcript.
func (r *Recognizer) AlignFile(path string, transcript []string) ([]decoder.Word, error) {
	obs, err := feature.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return r.Align(obs, transcript)
}
