package targets

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jseverin/hmclab/internal/mcmc"
)

// Gaussian is a correlated multivariate normal. The covariance is factorized
// once at construction; density and gradient use Cholesky solves against the
// factor rather than an explicit precision matrix.
type Gaussian struct {
	mean []float64
	chol mat.Cholesky
	dim  int

	space *mcmc.Space
}

func NewGaussian(mean []float64, cov *mat.SymDense) (*Gaussian, error) {
	dim := len(mean)
	if dim == 0 || cov.SymmetricDim() != dim {
		return nil, errors.New("targets: mean and covariance dimensions differ")
	}

	g := &Gaussian{
		mean:  mean,
		dim:   dim,
		space: mcmc.NewSpace(mcmc.Variable{Name: "x", Size: dim}),
	}
	if ok := g.chol.Factorize(cov); !ok {
		return nil, errors.New("targets: covariance is not positive definite")
	}
	return g, nil
}

func (g *Gaussian) Space() *mcmc.Space { return g.space }

func (g *Gaussian) DefaultInit() map[string][]float64 {
	init := make([]float64, g.dim)
	copy(init, g.mean)
	return map[string][]float64{"x": init}
}

func (g *Gaussian) LogDensity(x mcmc.Vector) float64 {
	sol := g.solve(x)
	quad := 0.0
	for i := 0; i < g.dim; i++ {
		quad += (x[i] - g.mean[i]) * sol.AtVec(i)
	}
	return -0.5*quad - 0.5*g.chol.LogDet() - 0.5*float64(g.dim)*math.Log(2*math.Pi)
}

func (g *Gaussian) Gradient(x mcmc.Vector) mcmc.Vector {
	sol := g.solve(x)
	grad := make(mcmc.Vector, g.dim)
	for i := 0; i < g.dim; i++ {
		grad[i] = -sol.AtVec(i)
	}
	return grad
}

// solve returns cov^-1 (x - mean).
func (g *Gaussian) solve(x mcmc.Vector) *mat.VecDense {
	diff := mat.NewVecDense(g.dim, nil)
	for i := 0; i < g.dim; i++ {
		diff.SetVec(i, x[i]-g.mean[i])
	}
	sol := mat.NewVecDense(g.dim, nil)
	if err := g.chol.SolveVecTo(sol, diff); err != nil {
		// Factorization succeeded at construction; a solve failure means the
		// input contained NaN/Inf. Return NaNs so the caller treats the point
		// as divergent.
		for i := 0; i < g.dim; i++ {
			sol.SetVec(i, math.NaN())
		}
	}
	return sol
}
