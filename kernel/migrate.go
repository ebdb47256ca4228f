package kernel

import (
	"github.com/pthm-cable/reassort/population"
	"github.com/pthm-cable/reassort/rng"
)

// Migrate runs the two migration sub-phases in order: each host deposits
// a mig-fraction of its mass into the shared pool (host 0), accumulating
// deposits from different hosts for the same class, then every host draws
// a Poisson-distributed transmission from the pool with mean
// pool/HostNum*tr. The pool is cleared after the draw. Refreshes the
// per-host and grand totals at the end, for the next generation's stages
// to read.
func Migrate(t *population.Tensor, stream *rng.Stream, tr, mig float64) {
	in2, out2 := t.SwapTwoSegment()
	in1, out1 := t.SwapOneSegment()
	kmax := t.Kmax
	hostNum := t.HostNum

	for h := 1; h <= hostNum; h++ {
		if t.N2[h] > 0 {
			for j := 0; j <= kmax; j++ {
				for k := 0; k <= kmax; k++ {
					mass := in2[h][j][k]
					out2[h][j][k] += mass * (1 - mig)
					out2[0][j][k] += mass * mig
				}
			}
		}
		if t.N1[h] > 0 {
			for j := 0; j <= 2*kmax; j++ {
				mass := in1[h][j]
				out1[h][j] += mass * (1 - mig)
				out1[0][j] += mass * mig
			}
		}
	}

	for h := 1; h <= hostNum; h++ {
		for j := 0; j <= kmax; j++ {
			for k := 0; k <= kmax; k++ {
				out2[h][j][k] += stream.Poisson(out2[0][j][k] / float64(hostNum) * tr)
			}
		}
		for j := 0; j <= 2*kmax; j++ {
			out1[h][j] += stream.Poisson(out1[0][j] / float64(hostNum) * tr)
		}
	}

	t.ClearPool()
	t.RecomputeTotals()
}
