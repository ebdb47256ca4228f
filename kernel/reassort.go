package kernel

import "github.com/pthm-cable/reassort/population"

// Reassort re-pairs two-segment particles within each host: a fraction
// (1-r) keep their existing linkage, a fraction r are redrawn from the
// host's segment marginals. One-segment particles are untouched -
// reassortment only applies where there are two segments to exchange.
// Preserves each host's segment marginals by construction.
func Reassort(t *population.Tensor, r float64) {
	in, out := t.SwapTwoSegment()
	kmax := t.Kmax

	jp := make([]float64, kmax+1)
	kp := make([]float64, kmax+1)

	for h := 1; h <= t.HostNum; h++ {
		n2 := t.N2[h]
		if n2 <= 0 {
			continue
		}

		for j := range jp {
			jp[j] = 0
			kp[j] = 0
		}
		for j := 0; j <= kmax; j++ {
			row := in[h][j]
			for k := 0; k <= kmax; k++ {
				jp[j] += row[k]
				kp[k] += row[k]
			}
		}
		for j := range jp {
			jp[j] /= n2
			kp[j] /= n2
		}

		for j := 0; j <= kmax; j++ {
			for k := 0; k <= kmax; k++ {
				out[h][j][k] = in[h][j][k]*(1-r) + n2*jp[j]*kp[k]*r
			}
		}
	}
}
