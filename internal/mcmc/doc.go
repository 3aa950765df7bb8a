// Package mcmc provides core primitives for Hamiltonian Monte Carlo sampling.
//
// The package defines the fundamental types shared by the samplers:
//
//   - [Vector]: flat buffer holding every scalar component of a position,
//     momentum, or gradient
//   - [Space]: maps free-variable names to fixed slots in a Vector
//   - [Potential]: interface supplying log-density and gradient
//   - [Trace]: ordered record of retained samples plus run summaries
//
// # Free variables
//
// The free-variable set is fixed when a Space is built and is identical for
// position, momentum, and gradient throughout a run. Name lookup happens
// once, at compile time:
//
//	space := mcmc.NewSpace(mcmc.Variable{Name: "mu", Size: 1})
//	x, err := space.Flatten(map[string][]float64{"mu": {0.0}})
//
// # Thread Safety
//
// Vector and Space values are safe to share once built. Samplers are NOT
// thread-safe; for parallel chains use [sampler.Chains], which gives each
// chain its own state and RNG stream.
package mcmc
