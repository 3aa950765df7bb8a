package hmc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/jseverin/hmclab/internal/mcmc"
)

var stdNormal = mcmc.Func{
	LogDensityFunc: func(x mcmc.Vector) float64 {
		return -0.5 * x[0] * x[0]
	},
	GradientFunc: func(x mcmc.Vector) mcmc.Vector {
		return mcmc.Vector{-x[0]}
	},
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(stdNormal, mcmc.HMCConfig{StepSize: 0, NSteps: 10})
	assert.ErrorIs(t, err, mcmc.ErrStepSize)

	_, err = New(stdNormal, mcmc.HMCConfig{StepSize: 0.1, NSteps: 0})
	assert.ErrorIs(t, err, mcmc.ErrNumSteps)
}

func TestAcceptProbabilityClamping(t *testing.T) {
	assert.Equal(t, 1.0, AcceptProbability(5, 3), "energy decrease accepts surely")
	assert.Equal(t, 1.0, AcceptProbability(2, 2))
	assert.InDelta(t, math.Exp(-1), AcceptProbability(2, 3), 1e-12)
	assert.Equal(t, 0.0, AcceptProbability(0, 2000), "underflow clamps to zero")
	assert.Equal(t, 0.0, AcceptProbability(math.Inf(1), math.Inf(1)), "NaN difference rejects")
}

func TestStandardNormalRecovery(t *testing.T) {
	samp, err := New(stdNormal, mcmc.HMCConfig{StepSize: 0.2, NSteps: 20})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	x := mcmc.Vector{0}

	// Burn-in.
	for i := 0; i < 500; i++ {
		x = samp.Step(rng, x).Position
	}

	samples := make([]float64, 0, 4000)
	accepted := 0
	for i := 0; i < 4000; i++ {
		r := samp.Step(rng, x)
		x = r.Position
		if r.Accepted {
			accepted++
		}
		samples = append(samples, x[0])
	}

	assert.InDelta(t, 0.0, stat.Mean(samples, nil), 0.1)
	assert.InDelta(t, 1.0, stat.StdDev(samples, nil), 0.1)
	assert.Greater(t, float64(accepted)/4000, 0.6, "well-tuned HMC accepts most proposals")
}

func TestSeedReproducibility(t *testing.T) {
	samp, err := New(stdNormal, mcmc.HMCConfig{StepSize: 0.2, NSteps: 10})
	require.NoError(t, err)

	run := func() []float64 {
		rng := rand.New(rand.NewSource(99))
		x := mcmc.Vector{0.5}
		out := make([]float64, 0, 100)
		for i := 0; i < 100; i++ {
			x = samp.Step(rng, x).Position
			out = append(out, x[0])
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestRejectOnNumericalBlowup(t *testing.T) {
	// Gradient explodes away from the origin; a large step size guarantees
	// NaN/Inf positions mid-trajectory.
	explosive := mcmc.Func{
		LogDensityFunc: func(x mcmc.Vector) float64 { return -math.Exp(x[0] * x[0]) },
		GradientFunc: func(x mcmc.Vector) mcmc.Vector {
			return mcmc.Vector{-2 * x[0] * math.Exp(x[0]*x[0])}
		},
	}

	samp, err := New(explosive, mcmc.HMCConfig{StepSize: 10, NSteps: 50})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	x := mcmc.Vector{1}
	for i := 0; i < 20; i++ {
		r := samp.Step(rng, x)
		assert.True(t, r.Position.IsValid(), "current state stays finite")
		x = r.Position
	}
}
