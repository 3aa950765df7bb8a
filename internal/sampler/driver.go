// Package sampler orchestrates MCMC runs: warmup and sampling phases,
// step-size adaptation, thinning, trace assembly, and parallel chains.
package sampler

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/jseverin/hmclab/internal/hmc"
	"github.com/jseverin/hmclab/internal/mcmc"
	"github.com/jseverin/hmclab/internal/nuts"
)

// Transition is one outer-iteration result, normalized across kernels.
type Transition struct {
	Position   mcmc.Vector
	AcceptStat float64
	Divergent  bool
	NLeapfrog  int
}

// Kernel advances the chain by one outer iteration.
type Kernel interface {
	Step(rng *rand.Rand, pos mcmc.Vector) Transition
}

// Observer is notified after every outer iteration, warmup included.
type Observer interface {
	OnSample(iter int, x mcmc.Vector, acceptStat float64, warmup bool)
}

type Config struct {
	NSamples int
	NWarmup  int
	Thin     int
	Seed     int64
}

func (c *Config) normalize() {
	if c.Thin < 1 {
		c.Thin = 1
	}
	if c.NWarmup < 0 {
		c.NWarmup = 0
	}
}

type Driver struct {
	kernel    Kernel
	space     *mcmc.Space
	cfg       Config
	adapter   *nuts.DualAveraging
	nutsSamp  *nuts.Sampler
	rng       *rand.Rand
	logger    *zap.Logger
	observers []Observer
}

type Option func(*Driver)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

// NewNUTS builds a driver around a NUTS kernel with dual-averaging warmup.
func NewNUTS(pot mcmc.Potential, space *mcmc.Space, nutsCfg mcmc.NUTSConfig, cfg Config, opts ...Option) (*Driver, error) {
	samp, err := nuts.New(pot, nutsCfg)
	if err != nil {
		return nil, err
	}
	d := newDriver(nutsKernel{samp}, space, cfg, opts...)
	d.nutsSamp = samp
	d.adapter = nuts.NewDualAveraging(nutsCfg.StepSize, nutsCfg.TargetAcceptance)
	return d, nil
}

// NewHMC builds a driver around a fixed-length HMC kernel. No adaptation.
func NewHMC(pot mcmc.Potential, space *mcmc.Space, hmcCfg mcmc.HMCConfig, cfg Config, opts ...Option) (*Driver, error) {
	samp, err := hmc.New(pot, hmcCfg)
	if err != nil {
		return nil, err
	}
	return newDriver(hmcKernel{samp}, space, cfg, opts...), nil
}

func newDriver(kernel Kernel, space *mcmc.Space, cfg Config, opts ...Option) *Driver {
	cfg.normalize()
	d := &Driver{
		kernel: kernel,
		space:  space,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes nWarmup + nSamples*thin outer iterations from the given
// initial values. Cancellation is honored only between iterations so the
// adapter and trace are never left half-updated.
func (d *Driver) Run(ctx context.Context, initial map[string][]float64) (*mcmc.Trace, error) {
	x, err := d.space.Flatten(initial)
	if err != nil {
		return nil, err
	}

	total := d.cfg.NWarmup + d.cfg.NSamples*d.cfg.Thin
	trace := mcmc.NewTrace(d.space, d.cfg.NSamples)

	acceptSum := 0.0
	acceptN := 0

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			d.finalize(trace, acceptSum, acceptN)
			return trace, ctx.Err()
		default:
		}

		warmup := i < d.cfg.NWarmup

		if d.adapter != nil && !warmup && !d.adapter.Frozen() {
			eps := d.adapter.Freeze()
			d.nutsSamp.SetStepSize(eps)
			d.logger.Info("warmup complete",
				zap.Int("iterations", d.cfg.NWarmup),
				zap.Float64("step_size", eps))
		}

		t := d.kernel.Step(d.rng, x)
		x = t.Position

		if t.Divergent {
			trace.Divergences++
			d.logger.Debug("divergent transition", zap.Int("iteration", i))
		}

		if d.adapter != nil && warmup {
			eps := d.adapter.Update(t.AcceptStat)
			d.nutsSamp.SetStepSize(eps)
		}

		if !warmup {
			acceptSum += t.AcceptStat
			acceptN++
			if (i-d.cfg.NWarmup)%d.cfg.Thin == 0 {
				trace.Append(x)
			}
		}

		for _, o := range d.observers {
			o.OnSample(i, x, t.AcceptStat, warmup)
		}
	}

	d.finalize(trace, acceptSum, acceptN)
	d.logger.Info("sampling complete",
		zap.Int("samples", trace.NSamples),
		zap.Int("divergences", trace.Divergences),
		zap.Float64("acceptance_rate", trace.AcceptanceRate),
		zap.Float64("step_size", trace.FinalStepSize))
	return trace, nil
}

func (d *Driver) finalize(trace *mcmc.Trace, acceptSum float64, acceptN int) {
	if acceptN > 0 {
		trace.AcceptanceRate = acceptSum / float64(acceptN)
	}
	trace.FinalStepSize = d.stepSize()
}

func (d *Driver) stepSize() float64 {
	switch k := d.kernel.(type) {
	case nutsKernel:
		return k.samp.StepSize()
	case hmcKernel:
		return k.samp.StepSize()
	}
	return 0
}

type nutsKernel struct {
	samp *nuts.Sampler
}

func (k nutsKernel) Step(rng *rand.Rand, pos mcmc.Vector) Transition {
	r := k.samp.Step(rng, pos)
	return Transition{
		Position:   r.Position,
		AcceptStat: r.AcceptStat(),
		Divergent:  r.Divergent,
		NLeapfrog:  r.NLeapfrog,
	}
}

type hmcKernel struct {
	samp *hmc.Sampler
}

func (k hmcKernel) Step(rng *rand.Rand, pos mcmc.Vector) Transition {
	r := k.samp.Step(rng, pos)
	stat := 0.0
	if r.Accepted {
		stat = 1.0
	}
	return Transition{
		Position:   r.Position,
		AcceptStat: stat,
		NLeapfrog:  k.samp.NSteps(),
	}
}
