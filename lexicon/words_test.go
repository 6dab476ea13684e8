package lexicon

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneStateModel(name string, exit float64) *acoustic.HMM {
	st := acoustic.NewState(acoustic.NewComponent(1, []float64{0}, []float64{1}))
	return acoustic.NewHMM(name, []*acoustic.State{st}, []float64{1}, [][]float64{
		{1 - exit, exit},
		{0, 0},
	})
}

func testModels(names ...string) *acoustic.ModelSet {
	set := acoustic.NewModelSet()
	for _, n := range names {
		set.Add(oneStateModel(n, 0.5))
	}
	return set
}

func TestBuildWords(t *testing.T) {
	d, err := Load(strings.NewReader("one\tw ah n\ntwo\tt uw\n"))
	require.NoError(t, err)

	words, err := BuildWords(d, testModels("w", "ah", "n", "t", "uw", "sp"))
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, Names(words))

	one := words[0]
	assert.Equal(t, "one", one.HMM.Name)
	assert.Equal(t, []acoustic.Phoneme{"w", "ah", "n", "sp"}, one.Phonemes)
	assert.Equal(t, 4, one.HMM.NumStates())
	assert.Equal(t, 5, one.HMM.Side())
}

func TestBuildWordsShortPauseOptions(t *testing.T) {
	d, err := Load(strings.NewReader("two\tt uw sp\nsil\tsil\n"))
	require.NoError(t, err)
	models := testModels("t", "uw", "sp", "sil")

	words, err := BuildWords(d, models)
	require.NoError(t, err)
	assert.Equal(t, 3, words[0].HMM.NumStates(), "sp not appended twice")
	assert.Equal(t, 2, words[1].HMM.NumStates())

	words, err = BuildWords(d, models, WithoutShortPause())
	require.NoError(t, err)
	assert.Equal(t, 1, words[1].HMM.NumStates())

	words, err = BuildWords(d, models, WithShortPause("sil"))
	require.NoError(t, err)
	assert.Equal(t, 4, words[0].HMM.NumStates())
	assert.Equal(t, 1, words[1].HMM.NumStates(), "word already ends in the pause model")
}

func TestBuildWordsUnknownPhoneme(t *testing.T) {
	d, err := Load(strings.NewReader("one\tw ah n\nbad\tq x\nworse\tzz\n"))
	require.NoError(t, err)

	words, err := BuildWords(d, testModels("w", "ah", "n"))
	require.Error(t, err)
	assert.Equal(t, []string{"one"}, Names(words))

	var unknown *UnknownPhonemeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bad", unknown.Word)
	assert.Equal(t, acoustic.Phoneme("q"), unknown.Phoneme)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestBuildWordsDoesNotMutateModels(t *testing.T) {
	models := testModels("a")
	d := NewDictionary()
	d.Add("x", []acoustic.Phoneme{"a"})

	words, err := BuildWords(d, models, WithoutShortPause())
	require.NoError(t, err)
	words[0].HMM.Offset = 3
	a, _ := models.Get("a")
	assert.Equal(t, 0, a.Offset)
	assert.Equal(t, "a", a.Name)
}
