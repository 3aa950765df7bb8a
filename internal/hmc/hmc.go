// Package hmc implements fixed-length Hamiltonian Monte Carlo: a set number
// of leapfrog steps followed by a Metropolis accept/reject.
package hmc

import (
	"math"
	"math/rand"

	"github.com/jseverin/hmclab/internal/leapfrog"
	"github.com/jseverin/hmclab/internal/mcmc"
)

type Sampler struct {
	pot mcmc.Potential
	cfg mcmc.HMCConfig
}

func New(pot mcmc.Potential, cfg mcmc.HMCConfig) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{pot: pot, cfg: cfg}, nil
}

func (s *Sampler) StepSize() float64 { return s.cfg.StepSize }
func (s *Sampler) NSteps() int       { return s.cfg.NSteps }

// Result reports one transition: the next position, whether the proposal was
// accepted, and the acceptance statistic fed to diagnostics.
type Result struct {
	Position mcmc.Vector
	Accepted bool
	Accept   float64
}

// Step runs one outer iteration from pos with momentum drawn from rng.
func (s *Sampler) Step(rng *rand.Rand, pos mcmc.Vector) Result {
	mom := make(mcmc.Vector, len(pos))
	for i := range mom {
		mom[i] = rng.NormFloat64()
	}

	h0 := leapfrog.Hamiltonian(s.pot, pos, mom)

	q, p := pos.Clone(), mom
	for i := 0; i < s.cfg.NSteps; i++ {
		q, p = leapfrog.Step(s.pot, q, p, s.cfg.StepSize)
		if !q.IsValid() || !p.IsValid() {
			// Numerical blowup mid-trajectory: reject, keep the current state.
			return Result{Position: pos, Accepted: false, Accept: 0}
		}
	}

	h1 := leapfrog.Hamiltonian(s.pot, q, p)
	accept := AcceptProbability(h0, h1)

	if rng.Float64() < accept {
		return Result{Position: q, Accepted: true, Accept: accept}
	}
	return Result{Position: pos, Accepted: false, Accept: accept}
}

// AcceptProbability clamps exp(h0-h1) into [0, 1], treating a NaN energy
// difference as certain rejection.
func AcceptProbability(h0, h1 float64) float64 {
	diff := h0 - h1
	if math.IsNaN(diff) {
		return 0
	}
	if diff >= 0 {
		return 1
	}
	return math.Exp(diff)
}
