package mutation

// Entry is one weighted redistribution target: a source class sends
// weight*mass to class (J,K).
type Entry struct {
	J, K   int
	Weight float64
}

// Matrix is the precomputed two-segment mutation transition matrix. For a
// source class (j,k) it lists every destination class that receives mass
// this generation, including the "stayed put" entry for the mass that
// acquires zero admissible extra mutations. Stored as a sparse list of
// triples per source class rather than a dense (kmax+1)^2 square, since
// only classes (j',k') with j'>=j, k'>=k and at most mutcap extra mutations
// are reachable from a source (j,k), and classes whose factor weight is zero
// are left out.
type Matrix struct {
	Kmax    int
	entries [][]Entry // indexed by j*(Kmax+1)+k
}

// Entries returns the redistribution list for source class (j,k). The
// returned slice must not be mutated by the caller.
func (m *Matrix) Entries(j, k int) []Entry {
	return m.entries[j*(m.Kmax+1)+k]
}

// Cap returns min(mutcap, left), the number of extra mutations a particle
// with `left` remaining admissible mutations may acquire this generation.
func Cap(left, mutcap int) int {
	if left < mutcap {
		return left
	}
	return mutcap
}

// BuildMatrix constructs the two-segment transition matrix for the given
// cap parameters and factor table. factor must have length >= 2*kmax+1.
//
// For each source (j,k) and extra-mutation total l in [1, L(j,k)] the mass
// factor[l] is split uniformly over the admissible (l2,l3) pairs with
// l2+l3=l, j+l2<=kmax, k+l3<=kmax. The admissible l2 range is
// [max(0, l-(kmax-k)), min(l, kmax-j)]; its length is the tie-policy
// divisor across the three cases (both caps open, one cap binding, both
// caps binding), collapsed into one formula.
func BuildMatrix(kmax, mutcap int, factor []float64) *Matrix {
	n := kmax + 1
	entries := make([][]Entry, n*n)

	for j := 0; j <= kmax; j++ {
		for k := 0; k <= kmax; k++ {
			left := 2*kmax - (j + k)
			capL := Cap(left, mutcap)

			var list []Entry
			retained := 1.0

			for l := 1; l <= capL; l++ {
				f := factor[l]
				retained -= f
				if f == 0 {
					continue
				}

				lo := l - (kmax - k)
				if lo < 0 {
					lo = 0
				}
				hi := l
				if kmax-j < hi {
					hi = kmax - j
				}
				divisor := hi - lo + 1
				if divisor <= 0 {
					continue
				}
				w := f / float64(divisor)

				for l2 := lo; l2 <= hi; l2++ {
					l3 := l - l2
					list = append(list, Entry{J: j + l2, K: k + l3, Weight: w})
				}
			}

			if retained > 0 {
				list = append(list, Entry{J: j, K: k, Weight: retained})
			}

			entries[j*n+k] = list
		}
	}

	return &Matrix{Kmax: kmax, entries: entries}
}
