package acoustic

import (
	"encoding/gob"
	"fmt"
	"io"
)

// ModelSet holds named HMMs in definition order. Redefining a name replaces
// the model but keeps its original position.
type ModelSet struct {
	names  []string
	models map[string]*HMM
}

// NewModelSet creates an empty model set.
func NewModelSet() *ModelSet {
	return &ModelSet{models: make(map[string]*HMM)}
}

// Add stores h under h.Name.
func (s *ModelSet) Add(h *HMM) {
	if _, ok := s.models[h.Name]; !ok {
		s.names = append(s.names, h.Name)
	}
	s.models[h.Name] = h
}

// Get looks up a model by name.
func (s *ModelSet) Get(name string) (*HMM, bool) {
	h, ok := s.models[name]
	return h, ok
}

// Names returns the model names in definition order.
func (s *ModelSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of models.
func (s *ModelSet) Len() int { return len(s.names) }

// serializable types for gob encoding
type serializedModelSet struct {
	Models []serializedHMM
}

type serializedHMM struct {
	Name        string
	States      []serializedState
	Trans       [][]float64
	Initial     []float64
	InitialExit float64
}

type serializedState struct {
	Components []serializedComponent
}

type serializedComponent struct {
	Weight        float64
	HasWeight     bool
	Mean          []float64
	Variance      []float64
	MeanTotal     int
	VarianceTotal int
}

// Save serializes the model set to a writer using gob encoding.
func (s *ModelSet) Save(w io.Writer) error {
	sm := serializedModelSet{Models: make([]serializedHMM, 0, len(s.names))}
	for _, name := range s.names {
		h := s.models[name]
		sh := serializedHMM{
			Name:        h.Name,
			Initial:     h.Initial,
			InitialExit: h.InitialExit,
		}
		side := h.Side()
		for i := 0; i < side; i++ {
			sh.Trans = append(sh.Trans, append([]float64(nil), h.Trans.RawRowView(i)...))
		}
		for _, st := range h.States {
			var ss serializedState
			for _, c := range st.Mixture.Components {
				ss.Components = append(ss.Components, serializedComponent{
					Weight:        c.Weight,
					HasWeight:     c.hasWeight,
					Mean:          c.Mean,
					Variance:      c.Variance,
					MeanTotal:     c.MeanTotal,
					VarianceTotal: c.VarianceTotal,
				})
			}
			sh.States = append(sh.States, ss)
		}
		sm.Models = append(sm.Models, sh)
	}
	return gob.NewEncoder(w).Encode(sm)
}

// LoadGob deserializes a model set written by Save.
func LoadGob(r io.Reader) (*ModelSet, error) {
	var sm serializedModelSet
	if err := gob.NewDecoder(r).Decode(&sm); err != nil {
		return nil, fmt.Errorf("decode model set: %w", err)
	}

	set := NewModelSet()
	for _, sh := range sm.Models {
		states := make([]*State, 0, len(sh.States))
		for _, ss := range sh.States {
			st := &State{}
			for _, sc := range ss.Components {
				c := &Component{}
				if sc.HasWeight {
					c.SetWeight(sc.Weight)
				}
				c.SetMeanTotal(sc.MeanTotal)
				c.SetVarianceTotal(sc.VarianceTotal)
				c.SetMean(sc.Mean)
				c.SetVariance(sc.Variance)
				st.Mixture.Components = append(st.Mixture.Components, c)
			}
			states = append(states, st)
		}
		h := NewHMM(sh.Name, states, sh.Initial, sh.Trans)
		h.InitialExit = sh.InitialExit
		set.Add(h)
	}
	return set, nil
}
