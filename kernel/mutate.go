// Package kernel implements the four per-generation stage transforms:
// mutation, reassortment, reproduction, and migration. Each stage reads
// the tensor's current buffer and writes the opposite buffer; callers
// must not reorder or interleave stages within a generation.
package kernel

import (
	"github.com/pthm-cable/reassort/mutation"
	"github.com/pthm-cable/reassort/population"
)

// Mutate redistributes mass from each source class into higher mutation
// classes according to the precomputed transition matrix (two-segment)
// and factor table (one-segment). Mass-preserving per host and per
// segment arity, up to floating point rounding.
func Mutate(t *population.Tensor, m *mutation.Matrix, factor []float64, mutcap int) {
	in2, out2 := t.SwapTwoSegment()
	in1, out1 := t.SwapOneSegment()
	kmax := t.Kmax

	for h := 1; h <= t.HostNum; h++ {
		if t.N2[h] > 0 {
			mutateTwoSegmentHost(in2[h], out2[h], m, kmax)
		}
		if t.N1[h] > 0 {
			mutateOneSegmentHost(in1[h], out1[h], factor, kmax, mutcap)
		}
	}
}

func mutateTwoSegmentHost(in, out [][]float64, m *mutation.Matrix, kmax int) {
	for j := 0; j <= kmax; j++ {
		for k := 0; k <= kmax; k++ {
			p := in[j][k]
			if p == 0 {
				continue
			}
			for _, e := range m.Entries(j, k) {
				out[e.J][e.K] += p * e.Weight
			}
		}
	}
}

func mutateOneSegmentHost(in, out []float64, factor []float64, kmax, mutcap int) {
	for j := 0; j <= 2*kmax; j++ {
		p := in[j]
		if p == 0 {
			continue
		}
		left := 2*kmax - j
		cap := mutation.Cap(left, mutcap)

		retained := p
		for l := 1; l <= cap; l++ {
			mass := p * factor[l]
			retained -= mass
			out[j+l] += mass
		}
		out[j] += retained
	}
}
