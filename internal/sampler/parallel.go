package sampler

import (
	"context"
	"sync"

	"github.com/jseverin/hmclab/internal/mcmc"
)

// BuildFunc constructs one chain's driver for the given seed. Each chain
// owns its driver, adapter state, and RNG stream; nothing is shared.
type BuildFunc func(seed int64) (*Driver, error)

// Chains runs independent chains in parallel with seeds seedStart+index.
type Chains struct {
	numChains int
	seedStart int64
	build     BuildFunc
}

func NewChains(numChains int, seedStart int64, build BuildFunc) *Chains {
	return &Chains{numChains: numChains, seedStart: seedStart, build: build}
}

func (c *Chains) Run(ctx context.Context, initial map[string][]float64) ([]*mcmc.Trace, error) {
	traces := make([]*mcmc.Trace, c.numChains)
	errs := make([]error, c.numChains)

	var wg sync.WaitGroup
	for i := 0; i < c.numChains; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			d, err := c.build(c.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			traces[idx], errs[idx] = d.Run(ctx, initial)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return traces, nil
}
