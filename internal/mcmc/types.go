package mcmc

import "math"

type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Dot(other Vector) float64 {
	sum := 0.0
	for i := range v {
		if i < len(other) {
			sum += v[i] * other[i]
		}
	}
	return sum
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Negate() Vector {
	result := make(Vector, len(v))
	for i := range v {
		result[i] = -v[i]
	}
	return result
}

// KineticEnergy is one half the squared momentum norm.
func (v Vector) KineticEnergy() float64 {
	return 0.5 * v.Dot(v)
}

// Potential supplies the target density for a sampler. LogDensity may return
// -Inf for zero-density regions; a NaN/Inf gradient component marks the
// evaluation point as numerically unusable. Both must be pure functions of x.
type Potential interface {
	LogDensity(x Vector) float64
	Gradient(x Vector) Vector
}

// Func adapts a pair of closures to the Potential interface.
type Func struct {
	LogDensityFunc func(x Vector) float64
	GradientFunc   func(x Vector) Vector
}

func (f Func) LogDensity(x Vector) float64 { return f.LogDensityFunc(x) }
func (f Func) Gradient(x Vector) Vector    { return f.GradientFunc(x) }

const (
	DefaultDeltaMax         = 1000.0
	DefaultMaxTreeDepth     = 10
	DefaultTargetAcceptance = 0.8
	DefaultStepSize         = 0.1
)

type NUTSConfig struct {
	StepSize         float64
	MaxTreeDepth     int
	TargetAcceptance float64
	DeltaMax         float64
}

func DefaultNUTSConfig() NUTSConfig {
	return NUTSConfig{
		StepSize:         DefaultStepSize,
		MaxTreeDepth:     DefaultMaxTreeDepth,
		TargetAcceptance: DefaultTargetAcceptance,
		DeltaMax:         DefaultDeltaMax,
	}
}

func (c NUTSConfig) Validate() error {
	if c.StepSize <= 0 {
		return ErrStepSize
	}
	if c.MaxTreeDepth < 1 {
		return ErrMaxTreeDepth
	}
	if c.TargetAcceptance <= 0 || c.TargetAcceptance >= 1 {
		return ErrTargetAcceptance
	}
	if c.DeltaMax <= 0 {
		return ErrDeltaMax
	}
	return nil
}

type HMCConfig struct {
	StepSize float64
	NSteps   int
}

func (c HMCConfig) Validate() error {
	if c.StepSize <= 0 {
		return ErrStepSize
	}
	if c.NSteps < 1 {
		return ErrNumSteps
	}
	return nil
}

// Trace is the append-only record of retained samples. Values holds one
// ordered series per free variable, one entry per retained sample.
type Trace struct {
	Values         map[string][][]float64
	FinalStepSize  float64
	AcceptanceRate float64
	NSamples       int
	Divergences    int

	space *Space
}

func NewTrace(space *Space, capacity int) *Trace {
	values := make(map[string][][]float64, len(space.vars))
	for _, v := range space.vars {
		values[v.Name] = make([][]float64, 0, capacity)
	}
	return &Trace{Values: values, space: space}
}

func (t *Trace) Append(x Vector) {
	for _, v := range t.space.vars {
		entry := make([]float64, v.Size)
		copy(entry, x[t.space.offsets[v.Name]:t.space.offsets[v.Name]+v.Size])
		t.Values[v.Name] = append(t.Values[v.Name], entry)
	}
	t.NSamples++
}

// Scalar returns the series of a size-1 variable, or nil if the variable is
// unknown or vector-valued.
func (t *Trace) Scalar(name string) []float64 {
	_, size, ok := t.space.Slot(name)
	if !ok || size != 1 {
		return nil
	}
	series := make([]float64, len(t.Values[name]))
	for i, entry := range t.Values[name] {
		series[i] = entry[0]
	}
	return series
}

func (t *Trace) Space() *Space { return t.space }
