package acoustic

import (
	"math"

	"github.com/ieee0824/wordhmm/internal/mathutil"
	"gonum.org/v1/gonum/floats"
)

// MaxComponents is the number of Gaussian components a state mixture can hold.
// Further MIXTURE directives for the same state are ignored.
const MaxComponents = 2

// Component is a single weighted Gaussian with diagonal covariance.
// Every field is write-once: the first assignment wins and later ones are
// dropped, so a partially repeated model definition cannot overwrite values.
type Component struct {
	Weight        float64
	Mean          []float64 // [dim]
	Variance      []float64 // [dim] diagonal covariance
	MeanTotal     int       // declared mean length
	VarianceTotal int       // declared variance length

	hasWeight bool

	// Derived in SetVariance.
	invVariance []float64 // [dim] 1/Variance
	normalizer  float64   // (2π)^(dim/2) * sqrt(prod(Variance))
}

// NewComponent creates a fully populated component.
func NewComponent(weight float64, mean, variance []float64) *Component {
	c := &Component{}
	c.SetWeight(weight)
	c.SetMean(mean)
	c.SetVariance(variance)
	return c
}

// SetWeight sets the mixture weight unless it is already set.
func (c *Component) SetWeight(w float64) {
	if c.hasWeight {
		return
	}
	c.Weight = w
	c.hasWeight = true
}

// SetMeanTotal records the declared mean length unless already set.
func (c *Component) SetMeanTotal(n int) {
	if c.MeanTotal == 0 {
		c.MeanTotal = n
	}
}

// SetVarianceTotal records the declared variance length unless already set.
func (c *Component) SetVarianceTotal(n int) {
	if c.VarianceTotal == 0 {
		c.VarianceTotal = n
	}
}

// SetMean copies values into Mean unless it is already set.
func (c *Component) SetMean(values []float64) {
	if c.Mean != nil || len(values) == 0 {
		return
	}
	c.Mean = append(make([]float64, 0, len(values)), values...)
}

// SetVariance copies values into Variance unless it is already set, and
// derives the inverse variance and the normalizer in the same step.
func (c *Component) SetVariance(values []float64) {
	if c.Variance != nil || len(values) == 0 {
		return
	}
	dim := len(values)
	c.Variance = append(make([]float64, 0, dim), values...)
	c.invVariance = make([]float64, dim)
	for i := range c.invVariance {
		c.invVariance[i] = 1
	}
	floats.Div(c.invVariance, c.Variance)
	c.normalizer = math.Pow(2*math.Pi, float64(dim)/2) * math.Sqrt(floats.Prod(c.Variance))
}

// Normalizer returns (2π)^(d/2) * sqrt(prod(variance)), or 0 before the
// variance is set.
func (c *Component) Normalizer() float64 { return c.normalizer }

// Complete reports whether mean and variance are both set with equal length.
func (c *Component) Complete() bool {
	return c.Mean != nil && c.Variance != nil && len(c.Mean) == len(c.Variance)
}

// Density returns weight * N(x; mean, variance) in the linear domain.
// Incomplete components and dimension mismatches contribute 0.
func (c *Component) Density(x []float64) float64 {
	if !c.Complete() || len(x) != len(c.Mean) {
		return 0
	}
	maha := 0.0
	for i, xi := range x {
		diff := xi - c.Mean[i]
		maha += diff * diff * c.invVariance[i]
	}
	return c.Weight * math.Exp(-0.5*maha) / c.normalizer
}

// Mixture is the emission density of one state: up to MaxComponents
// weighted Gaussians.
type Mixture struct {
	Components []*Component
}

// NewMixture creates a mixture from complete components. Components beyond
// MaxComponents are dropped.
func NewMixture(components ...*Component) *Mixture {
	m := &Mixture{}
	for _, c := range components {
		if len(m.Components) == MaxComponents {
			break
		}
		m.Components = append(m.Components, c)
	}
	return m
}

// Begin opens a new component with the given weight and returns it.
// It returns nil once the mixture already holds MaxComponents.
func (m *Mixture) Begin(weight float64) *Component {
	if len(m.Components) >= MaxComponents {
		return nil
	}
	c := &Component{}
	c.SetWeight(weight)
	m.Components = append(m.Components, c)
	return c
}

// Current returns the most recently opened component, or nil.
func (m *Mixture) Current() *Component {
	if len(m.Components) == 0 {
		return nil
	}
	return m.Components[len(m.Components)-1]
}

// Density returns sum_k w_k * N(x; μ_k, σ_k) in the linear domain.
func (m *Mixture) Density(x []float64) float64 {
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Density(x)
	}
	return sum
}

// LogDensity computes log P(x | mixture). A zero density, from an incomplete
// mixture or underflow, is reported through mathutil.SafeLog.
func (m *Mixture) LogDensity(x []float64) float64 {
	return mathutil.SafeLog(m.Density(x))
}

// LogDensityBatch computes LogDensity for every frame in xs, writing results
// into dst.
func (m *Mixture) LogDensityBatch(xs [][]float64, dst []float64) {
	for i, x := range xs {
		dst[i] = m.LogDensity(x)
	}
}
