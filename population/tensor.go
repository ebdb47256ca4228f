// Package population holds the double-buffered particle-count tensor and
// the per-host totals derived from it.
package population

import "gonum.org/v1/gonum/floats"

// Buffer2 is one buffer's worth of two-segment counts, indexed
// [host][j][k]. Host 0 is the migration pool.
type Buffer2 [][][]float64

// Buffer1 is one buffer's worth of one-segment counts, indexed [host][j].
type Buffer1 [][]float64

// Tensor is the double-buffered population state for one replicate. It is
// allocated once per worker and reset (not reallocated) between
// replicates.
type Tensor struct {
	HostNum int
	Kmax    int

	two [2]Buffer2
	one [2]Buffer1

	cur2 int
	cur1 int

	// N2, N1, N are per-host totals; index 0 holds the grand sum across
	// hosts 1..HostNum.
	N2 []float64
	N1 []float64
	N  []float64
}

// New allocates a Tensor sized for hostNum real hosts (plus the pool at
// index 0) and per-segment mutation cap kmax.
func New(hostNum, kmax int) *Tensor {
	t := &Tensor{HostNum: hostNum, Kmax: kmax}
	for b := 0; b < 2; b++ {
		t.two[b] = newBuffer2(hostNum, kmax)
		t.one[b] = newBuffer1(hostNum, kmax)
	}
	t.N2 = make([]float64, hostNum+1)
	t.N1 = make([]float64, hostNum+1)
	t.N = make([]float64, hostNum+1)
	return t
}

func newBuffer2(hostNum, kmax int) Buffer2 {
	buf := make(Buffer2, hostNum+1)
	for h := range buf {
		buf[h] = make([][]float64, kmax+1)
		for j := range buf[h] {
			buf[h][j] = make([]float64, kmax+1)
		}
	}
	return buf
}

func newBuffer1(hostNum, kmax int) Buffer1 {
	buf := make(Buffer1, hostNum+1)
	for h := range buf {
		buf[h] = make([]float64, 2*kmax+1)
	}
	return buf
}

// Reset zeroes both buffers and totals, and rewinds the cursors. Called at
// the start of every replicate so the Tensor can be reused without
// reallocating.
func (t *Tensor) Reset() {
	for b := 0; b < 2; b++ {
		zeroBuffer2(t.two[b])
		zeroBuffer1(t.one[b])
	}
	t.cur2 = 0
	t.cur1 = 0
	for i := range t.N2 {
		t.N2[i] = 0
		t.N1[i] = 0
		t.N[i] = 0
	}
}

func zeroBuffer2(buf Buffer2) {
	for _, hostRows := range buf {
		for _, row := range hostRows {
			for i := range row {
				row[i] = 0
			}
		}
	}
}

func zeroBuffer1(buf Buffer1) {
	for _, row := range buf {
		for i := range row {
			row[i] = 0
		}
	}
}

// Seed sets the initial condition for host h (1-indexed): n0*prop2
// two-segment particles and n0*prop1 one-segment particles with zero
// mutations, in the current buffer.
func (t *Tensor) Seed(h int, n0 float64, prop2, prop1 float64) {
	t.two[t.cur2][h][0][0] = n0 * prop2
	t.one[t.cur1][h][0] = n0 * prop1
}

// Cur2 and Cur1 report which buffer currently holds the live state for
// each segment arity. The two arities are updated independently because
// stages may, in principle, touch them on different cadences.
func (t *Tensor) Cur2() int { return t.cur2 }
func (t *Tensor) Cur1() int { return t.cur1 }

// Current2 / Current1 return the buffers holding the live state.
func (t *Tensor) Current2() Buffer2 { return t.two[t.cur2] }
func (t *Tensor) Current1() Buffer1 { return t.one[t.cur1] }

// SwapTwoSegment flips the two-segment cursor and returns (in, out): in is
// the buffer holding the state a kernel should read, out is the opposite
// buffer, zeroed and ready to receive the kernel's output.
func (t *Tensor) SwapTwoSegment() (in, out Buffer2) {
	in = t.two[t.cur2]
	t.cur2 = 1 - t.cur2
	out = t.two[t.cur2]
	zeroBuffer2(out)
	return in, out
}

// SwapOneSegment is SwapTwoSegment's one-segment counterpart.
func (t *Tensor) SwapOneSegment() (in, out Buffer1) {
	in = t.one[t.cur1]
	t.cur1 = 1 - t.cur1
	out = t.one[t.cur1]
	zeroBuffer1(out)
	return in, out
}

// RecomputeTotals recomputes N2, N1, N (including the grand sums at index
// 0) from the current buffers. Migrate calls this once after writing its
// output; Reproduce does not, so the totals it leaves behind are refreshed
// by the migration that follows. Callers also call it after seeding.
func (t *Tensor) RecomputeTotals() {
	two := t.two[t.cur2]
	one := t.one[t.cur1]
	for h := 1; h <= t.HostNum; h++ {
		n2 := 0.0
		for _, row := range two[h] {
			n2 += floats.Sum(row)
		}
		n1 := floats.Sum(one[h])
		t.N2[h] = n2
		t.N1[h] = n1
		t.N[h] = n2 + n1
	}
	t.N2[0] = sumHosts(t.N2)
	t.N1[0] = sumHosts(t.N1)
	t.N[0] = t.N2[0] + t.N1[0]
}

func sumHosts(v []float64) float64 {
	return floats.Sum(v[1:])
}

// ClearPool zeroes host 0 (the migration pool) in both current buffers.
// The pool is transient: populated only between migration's deposit and
// draw sub-phases, and must be empty at every other point in the
// generation.
func (t *Tensor) ClearPool() {
	two := t.two[t.cur2][0]
	for j := range two {
		for k := range two[j] {
			two[j][k] = 0
		}
	}
	one := t.one[t.cur1][0]
	for j := range one {
		one[j] = 0
	}
}

// PoolEmpty reports whether host 0 holds zero mass in both arities,
// the invariant that must hold outside migration's two sub-steps.
func (t *Tensor) PoolEmpty() bool {
	two := t.two[t.cur2][0]
	for _, row := range two {
		if floats.Sum(row) != 0 {
			return false
		}
	}
	return floats.Sum(t.one[t.cur1][0]) == 0
}

// TotalMass2 sums a single host's two-segment mass in buffer buf.
func (t *Tensor) TotalMass2(buf, h int) float64 {
	sum := 0.0
	for _, row := range t.two[buf][h] {
		sum += floats.Sum(row)
	}
	return sum
}

// TotalMass1 sums a single host's one-segment mass in buffer buf.
func (t *Tensor) TotalMass1(buf, h int) float64 {
	return floats.Sum(t.one[buf][h])
}
