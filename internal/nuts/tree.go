package nuts

import (
	"math"
	"math/rand"

	"github.com/jseverin/hmclab/internal/leapfrog"
	"github.com/jseverin/hmclab/internal/mcmc"
)

// tree is one contiguous sub-trajectory: its outer (position, momentum)
// edges, a candidate drawn from its valid leaves, and accumulated acceptance
// statistics. stop propagates outward without further leapfrog work.
type tree struct {
	minPos, minMom   mcmc.Vector
	plusPos, plusMom mcmc.Vector

	candidate mcmc.Vector
	nValid    int

	stop      bool
	divergent bool

	alpha     float64
	nAlpha    int
	nLeapfrog int
}

// IsUTurn reports whether the trajectory between the two outer edges has
// curved back on itself: (q+ - q-) against either edge momentum is negative.
func IsUTurn(minPos, plusPos, minMom, plusMom mcmc.Vector) bool {
	dq := plusPos.Sub(minPos)
	return dq.Dot(plusMom) < 0 || dq.Dot(minMom) < 0
}

// buildLeaf takes a single leapfrog step from (pos, mom) in the given
// direction. The leaf is valid iff logU <= h0 - h; it is divergent iff the
// energy error h - h0 exceeds deltaMax or h is not finite.
func (s *Sampler) buildLeaf(pos, mom mcmc.Vector, dir int, h0, logU float64) *tree {
	q, p := leapfrog.Step(s.pot, pos, mom, float64(dir)*s.stepSize)

	t := &tree{
		minPos: q, minMom: p,
		plusPos: q, plusMom: p,
		nAlpha:    1,
		nLeapfrog: 1,
	}

	if !q.IsValid() || !p.IsValid() {
		t.stop = true
		t.divergent = true
		return t
	}

	h := leapfrog.Hamiltonian(s.pot, q, p)
	dh := h0 - h

	if math.IsNaN(dh) || !finite(h) || -dh > s.cfg.DeltaMax {
		t.stop = true
		t.divergent = true
	}

	if !t.divergent && logU <= dh {
		t.candidate = q
		t.nValid = 1
	}

	// Clamped Metropolis statistic for step-size adaptation.
	switch {
	case math.IsNaN(dh):
		// alpha stays 0
	case dh >= 0:
		t.alpha = 1
	default:
		t.alpha = math.Exp(dh)
	}

	return t
}

// buildTree doubles recursively. The first half-subtree short-circuits on
// stop before the second half does any leapfrog work.
func (s *Sampler) buildTree(rng *rand.Rand, pos, mom mcmc.Vector, dir, depth int, h0, logU float64) *tree {
	if depth == 0 {
		return s.buildLeaf(pos, mom, dir, h0, logU)
	}

	first := s.buildTree(rng, pos, mom, dir, depth-1, h0, logU)
	if first.stop {
		return first
	}

	var second *tree
	if dir < 0 {
		second = s.buildTree(rng, first.minPos, first.minMom, dir, depth-1, h0, logU)
	} else {
		second = s.buildTree(rng, first.plusPos, first.plusMom, dir, depth-1, h0, logU)
	}

	return mergeTrees(rng, first, second, dir)
}

// mergeTrees combines two adjacent half-subtrees. The candidate is
// re-selected from the second half with probability nValid2/(nValid1+nValid2),
// which keeps the draw uniform over the union of valid leaves.
func mergeTrees(rng *rand.Rand, first, second *tree, dir int) *tree {
	t := &tree{
		alpha:     first.alpha + second.alpha,
		nAlpha:    first.nAlpha + second.nAlpha,
		nLeapfrog: first.nLeapfrog + second.nLeapfrog,
	}

	if dir < 0 {
		t.minPos, t.minMom = second.minPos, second.minMom
		t.plusPos, t.plusMom = first.plusPos, first.plusMom
	} else {
		t.minPos, t.minMom = first.minPos, first.minMom
		t.plusPos, t.plusMom = second.plusPos, second.plusMom
	}

	total := first.nValid + second.nValid
	t.nValid = total
	t.candidate = first.candidate
	if rng.Float64()*float64(maxInt(total, 1)) < float64(second.nValid) {
		t.candidate = second.candidate
	}

	t.stop = second.stop || IsUTurn(t.minPos, t.plusPos, t.minMom, t.plusMom)
	t.divergent = second.divergent

	return t
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
