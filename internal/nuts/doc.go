// Package nuts implements the No-U-Turn Sampler: recursive trajectory
// doubling with slice-based leaf validity, divergence short-circuiting, and
// dual-averaging step-size adaptation.
//
//   - [Sampler]: one NUTS outer iteration over a [mcmc.Potential]
//   - [DualAveraging]: warmup step-size controller
//   - [IsUTurn]: endpoint curvature test on a trajectory
//
// # Trajectory doubling
//
// Each outer iteration grows an implicit trajectory by repeated doubling in
// a random direction until an endpoint U-turn, a divergent leaf, or the
// configured depth bound. The returned candidate is a uniform draw over the
// trajectory's valid leaves; the continuous alpha/nAlpha statistic drives
// step-size adaptation during warmup.
package nuts
