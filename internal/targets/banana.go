package targets

import "github.com/jseverin/hmclab/internal/mcmc"

// Banana is a Rosenbrock-shaped density over two scalar variables,
// log p(x, y) = -(a - x)^2 - b(y - x^2)^2 up to a constant. The curved ridge
// exercises the U-turn test far harder than any axis-aligned Gaussian.
type Banana struct {
	A, B float64

	space *mcmc.Space
}

func NewBanana() *Banana {
	return &Banana{
		A: 1.0,
		B: 5.0,
		space: mcmc.NewSpace(
			mcmc.Variable{Name: "x", Size: 1},
			mcmc.Variable{Name: "y", Size: 1},
		),
	}
}

func (b *Banana) Space() *mcmc.Space { return b.space }

func (b *Banana) DefaultInit() map[string][]float64 {
	return map[string][]float64{"x": {1.0}, "y": {1.0}}
}

func (b *Banana) LogDensity(v mcmc.Vector) float64 {
	x, y := v[0], v[1]
	dx := b.A - x
	dy := y - x*x
	return -dx*dx - b.B*dy*dy
}

func (b *Banana) Gradient(v mcmc.Vector) mcmc.Vector {
	x, y := v[0], v[1]
	dy := y - x*x
	return mcmc.Vector{
		2*(b.A-x) + 4*b.B*dy*x,
		-2 * b.B * dy,
	}
}
