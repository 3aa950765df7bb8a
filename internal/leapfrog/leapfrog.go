// Package leapfrog implements the symplectic integrator and Hamiltonian
// evaluation used by the HMC and NUTS samplers.
package leapfrog

import (
	"github.com/jseverin/hmclab/internal/mcmc"
)

// Step advances (position, momentum) by one leapfrog step of signed size h:
// half-step momentum at the current gradient, full-step position, half-step
// momentum at the new gradient. The sign of h encodes trajectory direction.
// Applying Step with h and then with -h after negating momentum recovers the
// original state up to floating-point error.
func Step(pot mcmc.Potential, pos, mom mcmc.Vector, h float64) (mcmc.Vector, mcmc.Vector) {
	n := len(pos)
	halfH := 0.5 * h

	grad := pot.Gradient(pos)

	newMom := make(mcmc.Vector, n)
	for i := 0; i < n; i++ {
		newMom[i] = mom[i] + halfH*grad[i]
	}

	newPos := make(mcmc.Vector, n)
	for i := 0; i < n; i++ {
		newPos[i] = pos[i] + h*newMom[i]
	}

	gradNew := pot.Gradient(newPos)
	for i := 0; i < n; i++ {
		newMom[i] += halfH * gradNew[i]
	}

	return newPos, newMom
}

// Hamiltonian is the total energy: negative log-density plus half the
// squared momentum norm over every scalar component.
func Hamiltonian(pot mcmc.Potential, pos, mom mcmc.Vector) float64 {
	return -pot.LogDensity(pos) + mom.KineticEnergy()
}
