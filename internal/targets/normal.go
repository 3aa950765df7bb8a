package targets

import (
	"math"

	"github.com/jseverin/hmclab/internal/mcmc"
)

const logSqrt2Pi = 0.9189385332046727

// Target is a named density the samplers can draw from.
type Target interface {
	mcmc.Potential
	Space() *mcmc.Space
	DefaultInit() map[string][]float64
}

// Normal is a product of independent normal components over one variable.
type Normal struct {
	Mu    float64
	Sigma float64
	Dim   int

	space *mcmc.Space
}

func NewNormal(mu, sigma float64, dim int) *Normal {
	if dim < 1 {
		dim = 1
	}
	return &Normal{
		Mu:    mu,
		Sigma: sigma,
		Dim:   dim,
		space: mcmc.NewSpace(mcmc.Variable{Name: "x", Size: dim}),
	}
}

// NewStdNormal is the standard normal in one dimension.
func NewStdNormal() *Normal { return NewNormal(0, 1, 1) }

func (n *Normal) Space() *mcmc.Space { return n.space }

func (n *Normal) DefaultInit() map[string][]float64 {
	init := make([]float64, n.Dim)
	for i := range init {
		init[i] = n.Mu
	}
	return map[string][]float64{"x": init}
}

func (n *Normal) LogDensity(x mcmc.Vector) float64 {
	sum := 0.0
	for _, v := range x {
		z := (v - n.Mu) / n.Sigma
		sum += -0.5*z*z - math.Log(n.Sigma) - logSqrt2Pi
	}
	return sum
}

func (n *Normal) Gradient(x mcmc.Vector) mcmc.Vector {
	grad := make(mcmc.Vector, len(x))
	inv := 1.0 / (n.Sigma * n.Sigma)
	for i, v := range x {
		grad[i] = -(v - n.Mu) * inv
	}
	return grad
}
