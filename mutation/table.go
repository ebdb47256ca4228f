// Package mutation precomputes the per-generation mutation-count
// distribution and the transition matrix that redistributes mass between
// mutation classes. Both are built once per run and shared read-only
// across every replicate and worker.
package mutation

import "github.com/pthm-cable/reassort/rng"

// FactorTable returns factor[l] = P(Poi(2u) = l) for l in [0, 2*kmax],
// the per-generation mutation-count distribution shared by both the
// one-segment and two-segment kernels.
func FactorTable(u float64, kmax int) []float64 {
	factor := make([]float64, 2*kmax+1)
	lambda := 2 * u
	for l := range factor {
		factor[l] = rng.PoissonPMF(lambda, l)
	}
	return factor
}
