package nuts

import (
	"math"
	"math/rand"

	"github.com/jseverin/hmclab/internal/leapfrog"
	"github.com/jseverin/hmclab/internal/mcmc"
)

type Sampler struct {
	pot      mcmc.Potential
	cfg      mcmc.NUTSConfig
	stepSize float64
}

func New(pot mcmc.Potential, cfg mcmc.NUTSConfig) (*Sampler, error) {
	if cfg.DeltaMax == 0 {
		cfg.DeltaMax = mcmc.DefaultDeltaMax
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{pot: pot, cfg: cfg, stepSize: cfg.StepSize}, nil
}

func (s *Sampler) StepSize() float64 { return s.stepSize }

// SetStepSize is called by the driver while the dual-averaging adapter is
// active; after warmup the step size is frozen.
func (s *Sampler) SetStepSize(eps float64) { s.stepSize = eps }

// IterResult reports one outer iteration.
type IterResult struct {
	Position  mcmc.Vector
	Depth     int
	NLeapfrog int
	Alpha     float64
	NAlpha    int
	Divergent bool
}

// AcceptStat is the continuous per-iteration acceptance statistic,
// alpha/nAlpha, targeted by step-size adaptation.
func (r IterResult) AcceptStat() float64 {
	return r.Alpha / float64(maxInt(r.NAlpha, 1))
}

// Step runs one outer iteration from pos: fresh momentum, slice draw, then
// trajectory doubling until a stop signal or the depth bound.
func (s *Sampler) Step(rng *rand.Rand, pos mcmc.Vector) IterResult {
	mom := make(mcmc.Vector, len(pos))
	for i := range mom {
		mom[i] = rng.NormFloat64()
	}

	h0 := leapfrog.Hamiltonian(s.pot, pos, mom)

	// Slice variable in normalized log space: logU <= h0 - h marks a leaf
	// valid, matching u ~ Uniform(0, exp(-h0)) without underflowing exp.
	logU := math.Log(rng.Float64())

	minPos, minMom := pos.Clone(), mom.Clone()
	plusPos, plusMom := pos.Clone(), mom.Clone()

	res := IterResult{Position: pos}
	candidate := pos
	nValid := 1

	for res.Depth < s.cfg.MaxTreeDepth {
		dir := 1
		if rng.Float64() < 0.5 {
			dir = -1
		}

		var sub *tree
		if dir < 0 {
			sub = s.buildTree(rng, minPos, minMom, dir, res.Depth, h0, logU)
		} else {
			sub = s.buildTree(rng, plusPos, plusMom, dir, res.Depth, h0, logU)
		}

		res.NLeapfrog += sub.nLeapfrog
		res.Alpha += sub.alpha
		res.NAlpha += sub.nAlpha

		if sub.stop {
			res.Divergent = sub.divergent
			break
		}

		if dir < 0 {
			minPos, minMom = sub.minPos, sub.minMom
		} else {
			plusPos, plusMom = sub.plusPos, sub.plusMom
		}

		// Reservoir-style replacement against the count accumulated so far.
		if rng.Float64()*float64(maxInt(nValid, 1)) < float64(sub.nValid) {
			candidate = sub.candidate
		}
		nValid += sub.nValid

		res.Depth++

		if IsUTurn(minPos, plusPos, minMom, plusMom) {
			break
		}
	}

	res.Position = candidate
	return res
}
