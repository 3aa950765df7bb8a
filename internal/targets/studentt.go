package targets

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jseverin/hmclab/internal/mcmc"
)

// StudentT is a heavy-tailed scalar target with Nu degrees of freedom.
type StudentT struct {
	Nu float64

	dist  distuv.StudentsT
	space *mcmc.Space
}

func NewStudentT(nu float64) *StudentT {
	if nu <= 0 {
		nu = 4
	}
	return &StudentT{
		Nu:    nu,
		dist:  distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu},
		space: mcmc.NewSpace(mcmc.Variable{Name: "x", Size: 1}),
	}
}

func (t *StudentT) Space() *mcmc.Space { return t.space }

func (t *StudentT) DefaultInit() map[string][]float64 {
	return map[string][]float64{"x": {0}}
}

func (t *StudentT) LogDensity(x mcmc.Vector) float64 {
	return t.dist.LogProb(x[0])
}

func (t *StudentT) Gradient(x mcmc.Vector) mcmc.Vector {
	v := x[0]
	return mcmc.Vector{-(t.Nu + 1) * v / (t.Nu + v*v)}
}
