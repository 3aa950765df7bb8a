// Package targets provides concrete target densities for sampling.
//
// Each target implements [mcmc.Potential], defining the log-density and its
// gradient over a fixed free-variable set:
//
//   - [Normal]: independent normal components
//   - [Gaussian]: correlated multivariate normal (Cholesky precision solve)
//   - [StudentT]: heavy-tailed scalar target
//   - [DoubleWell]: bimodal quartic well
//   - [Banana]: Rosenbrock-shaped curved ridge
//
// Targets also expose their [mcmc.Space] and a default starting point, so
// the CLI can run any registered target by name:
//
//	target, err := targets.Get("normal")
//	space := target.Space()
package targets
