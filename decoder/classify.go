package decoder

import (
	"sort"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/lexicon"
)

// Score is the forward log-likelihood of one word model.
type Score struct {
	Word          string
	LogLikelihood float64
}

// Classify scores obs against every word model and returns the scores
// best first. Equal scores keep word order.
func Classify(obs [][]float64, words []lexicon.Word) ([]Score, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyObservations
	}
	scores := make([]Score, 0, len(words))
	for _, w := range words {
		ll, err := Forward(obs, w.HMM)
		if err != nil {
			return nil, err
		}
		scores = append(scores, Score{Word: w.Name, LogLikelihood: ll})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].LogLikelihood > scores[j].LogLikelihood
	})
	if glog.V(2) && len(scores) > 0 {
		glog.Infof("classified %d frames: best %s (%.2f)", len(obs), scores[0].Word, scores[0].LogLikelihood)
	}
	return scores, nil
}
