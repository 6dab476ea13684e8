package feature

import "gonum.org/v1/gonum/floats"

// ApplyCMN subtracts the utterance-level mean from each feature dimension (Cepstral Mean Normalization).
// This removes channel and speaker-dependent spectral bias.
// Frames whose dimension differs from the first frame are left untouched.
func ApplyCMN(features [][]float64) {
	T := len(features)
	if T == 0 {
		return
	}
	dim := len(features[0])
	mean := make([]float64, dim)
	n := 0
	for _, f := range features {
		if len(f) != dim {
			continue
		}
		floats.Add(mean, f)
		n++
	}
	floats.Scale(1/float64(n), mean)
	for _, f := range features {
		if len(f) != dim {
			continue
		}
		floats.Sub(f, mean)
	}
}
