package targets

import "github.com/jseverin/hmclab/internal/mcmc"

// DoubleWell is a bimodal quartic density, log p(x) = -A(x^2 - B)^2 up to a
// constant, with modes at ±sqrt(B).
type DoubleWell struct {
	A, B float64

	space *mcmc.Space
}

func NewDoubleWell() *DoubleWell {
	return &DoubleWell{
		A:     1.0,
		B:     1.0,
		space: mcmc.NewSpace(mcmc.Variable{Name: "x", Size: 1}),
	}
}

func (d *DoubleWell) Space() *mcmc.Space { return d.space }

func (d *DoubleWell) DefaultInit() map[string][]float64 {
	return map[string][]float64{"x": {1.0}}
}

func (d *DoubleWell) LogDensity(x mcmc.Vector) float64 {
	v := x[0]
	w := v*v - d.B
	return -d.A * w * w
}

func (d *DoubleWell) Gradient(x mcmc.Vector) mcmc.Vector {
	v := x[0]
	return mcmc.Vector{-4 * d.A * v * (v*v - d.B)}
}
