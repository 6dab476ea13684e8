package acoustic

import "github.com/golang/glog"

// EventKind tags one construction directive.
type EventKind int

const (
	EventModel EventKind = iota
	EventState
	EventMixture
	EventMeanTotal
	EventMean
	EventVarianceTotal
	EventVariance
	EventTransitions
	EventInitialRow
	EventTransitionRow
	EventEndModel
)

var eventNames = [...]string{
	EventModel:         "model",
	EventState:         "state",
	EventMixture:       "mixture",
	EventMeanTotal:     "mean_total",
	EventMean:          "mean",
	EventVarianceTotal: "variance_total",
	EventVariance:      "variance",
	EventTransitions:   "transitions",
	EventInitialRow:    "initial_row",
	EventTransitionRow: "transition_row",
	EventEndModel:      "end_model",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is one construction directive. Name is used by EventModel, Value
// by EventMixture (weight) and the size-carrying events, Values by the
// vector and row events.
type Event struct {
	Kind   EventKind
	Name   string
	Value  float64
	Values []float64
}

// draft is the model currently being assembled.
type draft struct {
	name   string
	states []*State
	state  *State

	transSize   int
	inTrans     bool
	haveInitial bool
	initial     []float64
	rows        [][]float64
}

// Builder assembles models from a stream of events. A model is open from
// its EventModel until the next EventModel, EventEndModel or Finish.
// Events that arrive with no open model, state or mixture component are
// ignored.
type Builder struct {
	set *ModelSet
	cur *draft
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{set: NewModelSet()}
}

// Apply dispatches ev to the matching builder method.
func (b *Builder) Apply(ev Event) {
	switch ev.Kind {
	case EventModel:
		b.BeginModel(ev.Name)
	case EventState:
		b.StartState()
	case EventMixture:
		b.BeginMixture(ev.Value)
	case EventMeanTotal:
		b.SetMeanTotal(int(ev.Value))
	case EventMean:
		b.MeanVector(ev.Values)
	case EventVarianceTotal:
		b.SetVarianceTotal(int(ev.Value))
	case EventVariance:
		b.VarianceVector(ev.Values)
	case EventTransitions:
		b.BeginTransitions(int(ev.Value))
	case EventInitialRow:
		b.InitialRow(ev.Values)
	case EventTransitionRow:
		b.TransitionRow(ev.Values)
	case EventEndModel:
		b.EndModel()
	default:
		glog.V(2).Infof("ignoring unknown event kind %d", ev.Kind)
	}
}

// BeginModel closes the open model, if any, and opens a new one.
func (b *Builder) BeginModel(name string) {
	b.close()
	b.cur = &draft{name: name}
}

// EndModel closes the open model, if any. Events up to the next BeginModel
// are ignored.
func (b *Builder) EndModel() {
	b.close()
}

// StartState appends a new state to the open model.
func (b *Builder) StartState() {
	if b.cur == nil {
		glog.V(2).Info("state outside of a model, ignored")
		return
	}
	s := &State{}
	b.cur.states = append(b.cur.states, s)
	b.cur.state = s
}

// BeginMixture opens a mixture component with the given weight on the open
// state.
func (b *Builder) BeginMixture(weight float64) {
	if b.cur == nil || b.cur.state == nil {
		glog.V(2).Info("mixture outside of a state, ignored")
		return
	}
	if b.cur.state.Mixture.Begin(weight) == nil {
		glog.V(2).Infof("model %q: state already has %d components, mixture ignored", b.cur.name, MaxComponents)
	}
}

func (b *Builder) component() *Component {
	if b.cur == nil || b.cur.state == nil {
		return nil
	}
	return b.cur.state.Mixture.Current()
}

// SetMeanTotal declares the length of the next mean vector.
func (b *Builder) SetMeanTotal(n int) {
	if c := b.component(); c != nil {
		c.SetMeanTotal(n)
	}
}

// MeanVector finalizes the mean of the open component.
func (b *Builder) MeanVector(values []float64) {
	c := b.component()
	if c == nil {
		glog.V(2).Info("mean without an open mixture, ignored")
		return
	}
	if c.MeanTotal != 0 && c.MeanTotal != len(values) && glog.V(1) {
		glog.Infof("model %q: mean declared with %d values, got %d", b.cur.name, c.MeanTotal, len(values))
	}
	c.SetMean(values)
}

// SetVarianceTotal declares the length of the next variance vector.
func (b *Builder) SetVarianceTotal(n int) {
	if c := b.component(); c != nil {
		c.SetVarianceTotal(n)
	}
}

// VarianceVector finalizes the variance of the open component.
func (b *Builder) VarianceVector(values []float64) {
	c := b.component()
	if c == nil {
		glog.V(2).Info("variance without an open mixture, ignored")
		return
	}
	if c.VarianceTotal != 0 && c.VarianceTotal != len(values) && glog.V(1) {
		glog.Infof("model %q: variance declared with %d values, got %d", b.cur.name, c.VarianceTotal, len(values))
	}
	c.SetVariance(values)
}

// BeginTransitions starts the transition block of the open model. size is
// the declared number of rows, the initial row included.
func (b *Builder) BeginTransitions(size int) {
	if b.cur == nil {
		glog.V(2).Info("transitions outside of a model, ignored")
		return
	}
	b.cur.transSize = size
	b.cur.inTrans = true
	b.cur.haveInitial = false
	b.cur.initial = nil
	b.cur.rows = nil
}

// InitialRow sets the initial distribution. The leading placeholder value
// is dropped.
func (b *Builder) InitialRow(values []float64) {
	if b.cur == nil || !b.cur.inTrans {
		glog.V(2).Info("initial row outside of a transition block, ignored")
		return
	}
	if len(values) > 0 {
		values = values[1:]
	}
	b.cur.initial = append([]float64(nil), values...)
	b.cur.haveInitial = true
}

// TransitionRow appends a transition matrix row, dropping its leading
// column. The first row of a block is the initial distribution.
func (b *Builder) TransitionRow(values []float64) {
	if b.cur == nil || !b.cur.inTrans {
		glog.V(2).Info("transition row outside of a transition block, ignored")
		return
	}
	if !b.cur.haveInitial {
		b.InitialRow(values)
		return
	}
	if len(values) == 0 {
		return
	}
	b.cur.rows = append(b.cur.rows, append([]float64(nil), values[1:]...))
}

// Finish closes the open model and returns every model built so far.
// The builder must not be used afterwards.
func (b *Builder) Finish() *ModelSet {
	b.close()
	set := b.set
	b.set = nil
	return set
}

func (b *Builder) close() {
	d := b.cur
	if d == nil {
		return
	}
	b.cur = nil

	n := len(d.states)
	if d.transSize != 0 && d.transSize != n+2 && glog.V(1) {
		glog.Infof("model %q: transition size %d does not match %d states", d.name, d.transSize, n)
	}
	var initial []float64
	var initialExit float64
	if len(d.initial) > n {
		initial = d.initial[:n]
		initialExit = d.initial[n]
	} else {
		initial = d.initial
	}
	h := NewHMM(d.name, d.states, initial, d.rows)
	h.InitialExit = initialExit
	b.set.Add(h)
	if glog.V(3) {
		glog.Infof("built model %q: %d states, exit prob %g", d.name, n, h.ExitProb())
	}
}
