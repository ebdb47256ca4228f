package kernel

import (
	"math"

	"github.com/pthm-cable/reassort/population"
	"github.com/pthm-cable/reassort/rng"
)

// Reproduce draws a new Poisson-distributed count for every class, under a
// density-dependent carrying capacity and multiplicative per-mutation
// fitness cost. It deliberately reads the per-host totals as they stood
// at the start of the generation (before this stage ran) rather than
// recomputing them mid-loop - the carrying-capacity term for every class
// in a host uses the same snapshot of N[h]. Totals are refreshed by the
// migration stage that follows, not here.
func Reproduce(t *population.Tensor, stream *rng.Stream, s, c, K float64) {
	in2, out2 := t.SwapTwoSegment()
	in1, out1 := t.SwapOneSegment()
	kmax := t.Kmax

	for h := 1; h <= t.HostNum; h++ {
		capacityTerm := 2.0 / (1.0 + t.N[h]/K)

		if t.N2[h] > 0 {
			for j := 0; j <= kmax; j++ {
				for k := 0; k <= kmax; k++ {
					if j+k == 2*kmax {
						out2[h][j][k] = stream.Poisson(0)
						continue
					}
					lambda := in2[h][j][k] * math.Pow(1-s, float64(j+k)) * (1 - c) * capacityTerm
					out2[h][j][k] = stream.Poisson(lambda)
				}
			}
		}

		if t.N1[h] > 0 {
			for j := 0; j <= 2*kmax; j++ {
				if j == 2*kmax {
					out1[h][j] = stream.Poisson(0)
					continue
				}
				lambda := in1[h][j] * math.Pow(1-s, float64(j)) * capacityTerm
				out1[h][j] = stream.Poisson(lambda)
			}
		}
	}
}
