package acoustic

// Phoneme names a sub-word model in a ModelSet.
type Phoneme string

const (
	PhonSil Phoneme = "sil" // silence
	PhonSP  Phoneme = "sp"  // short pause
)

// Model returns the HMM for p.
func (s *ModelSet) Model(p Phoneme) (*HMM, bool) {
	return s.Get(string(p))
}
