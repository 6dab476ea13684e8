package acoustic

import (
	"math"
	"testing"

	"github.com/ieee0824/wordhmm/internal/mathutil"
)

func TestComponentPeakDensity(t *testing.T) {
	c := NewComponent(1, []float64{0}, []float64{1})
	got := c.Density([]float64{0})
	want := 1 / math.Sqrt(2*math.Pi)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Density(0) = %g, want %g", got, want)
	}

	c2 := NewComponent(0.5, []float64{1, -1}, []float64{1, 4})
	if want := 2 * math.Pi * 2; math.Abs(c2.Normalizer()-want) > 1e-12 {
		t.Errorf("Normalizer = %g, want %g", c2.Normalizer(), want)
	}
	if got, want := c2.Density([]float64{1, -1}), 0.5/(4*math.Pi); math.Abs(got-want) > 1e-12 {
		t.Errorf("Density(mean) = %g, want %g", got, want)
	}
}

func TestComponentDensityFallsOff(t *testing.T) {
	c := NewComponent(1, []float64{0}, []float64{1})
	peak := c.Density([]float64{0})
	far := c.Density([]float64{3})
	if far >= peak {
		t.Errorf("Density(3) = %g >= Density(0) = %g", far, peak)
	}
	if got, want := far/peak, math.Exp(-4.5); math.Abs(got-want) > 1e-12 {
		t.Errorf("ratio = %g, want %g", got, want)
	}
}

func TestComponentOrderIndependent(t *testing.T) {
	mean := []float64{0.5, 1.5}
	variance := []float64{2, 0.25}
	x := []float64{1, 1}

	a := &Component{}
	a.SetWeight(0.3)
	a.SetMean(mean)
	a.SetVariance(variance)

	b := &Component{}
	b.SetVariance(variance)
	b.SetMean(mean)
	b.SetWeight(0.3)

	if da, db := a.Density(x), b.Density(x); da != db {
		t.Errorf("mean-first density %g != variance-first density %g", da, db)
	}
}

func TestComponentWriteOnce(t *testing.T) {
	c := &Component{}
	c.SetWeight(0.25)
	c.SetWeight(0.75)
	c.SetMean([]float64{1})
	c.SetMean([]float64{2})
	c.SetVariance([]float64{1})
	c.SetVariance([]float64{9})
	c.SetMeanTotal(1)
	c.SetMeanTotal(3)

	if c.Weight != 0.25 {
		t.Errorf("Weight = %g, want 0.25", c.Weight)
	}
	if c.Mean[0] != 1 {
		t.Errorf("Mean = %v, want [1]", c.Mean)
	}
	if c.Variance[0] != 1 {
		t.Errorf("Variance = %v, want [1]", c.Variance)
	}
	if c.MeanTotal != 1 {
		t.Errorf("MeanTotal = %d, want 1", c.MeanTotal)
	}
}

func TestComponentSetMeanCopies(t *testing.T) {
	mean := []float64{1, 2}
	c := NewComponent(1, mean, []float64{1, 1})
	mean[0] = 100
	if c.Mean[0] != 1 {
		t.Errorf("Mean aliases caller slice: %v", c.Mean)
	}
}

func TestIncompleteComponent(t *testing.T) {
	c := &Component{}
	c.SetWeight(1)
	c.SetMean([]float64{0})
	if c.Complete() {
		t.Fatal("component without variance reported complete")
	}
	if d := c.Density([]float64{0}); d != 0 {
		t.Errorf("Density = %g, want 0", d)
	}
}

func TestComponentDimensionMismatch(t *testing.T) {
	c := NewComponent(1, []float64{0, 0}, []float64{1, 1})
	if d := c.Density([]float64{0}); d != 0 {
		t.Errorf("Density with short observation = %g, want 0", d)
	}
}

func TestMixtureDensity(t *testing.T) {
	m := NewMixture(
		NewComponent(0.5, []float64{0}, []float64{1}),
		NewComponent(0.5, []float64{5}, []float64{1}),
	)
	x := []float64{2.5}
	want := 0.5*math.Exp(-0.5*6.25)/math.Sqrt(2*math.Pi) +
		0.5*math.Exp(-0.5*6.25)/math.Sqrt(2*math.Pi)
	if got := m.Density(x); math.Abs(got-want) > 1e-12 {
		t.Errorf("Density = %g, want %g", got, want)
	}
	if got := m.LogDensity(x); math.Abs(got-math.Log(want)) > 1e-12 {
		t.Errorf("LogDensity = %g, want %g", got, math.Log(want))
	}
}

func TestMixtureCapacity(t *testing.T) {
	var m Mixture
	if m.Current() != nil {
		t.Fatal("empty mixture has a current component")
	}
	for i := 0; i < MaxComponents; i++ {
		if m.Begin(0.5) == nil {
			t.Fatalf("Begin #%d returned nil", i+1)
		}
	}
	last := m.Current()
	if c := m.Begin(0.1); c != nil {
		t.Error("Begin beyond capacity returned a component")
	}
	if len(m.Components) != MaxComponents {
		t.Errorf("len(Components) = %d, want %d", len(m.Components), MaxComponents)
	}
	if m.Current() != last {
		t.Error("Current changed after rejected Begin")
	}
}

func TestEmptyMixtureLogDensityIsSentinel(t *testing.T) {
	var m Mixture
	if got := m.LogDensity([]float64{1}); !mathutil.IsSentinel(got) {
		t.Errorf("LogDensity = %g, want sentinel", got)
	}
}

func TestLogDensityBatch(t *testing.T) {
	m := NewMixture(NewComponent(1, []float64{0}, []float64{1}))
	xs := [][]float64{{0}, {1}, {-2}}
	dst := make([]float64, len(xs))
	m.LogDensityBatch(xs, dst)
	for i, x := range xs {
		if want := m.LogDensity(x); dst[i] != want {
			t.Errorf("dst[%d] = %g, want %g", i, dst[i], want)
		}
	}
}
