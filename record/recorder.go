// Package record reduces the population tensor to output rows and
// streams them to the destination CSV, alongside a run manifest and a
// stage-timing summary.
package record

import "github.com/pthm-cable/reassort/population"

// Mode selects how the recorder reduces a host's mutation-count
// distribution to a single number.
type Mode int

const (
	// MeanLoad records the population-mean mutation count per particle.
	MeanLoad Mode = 0
	// MinLoad records the smallest mutation count present in the host.
	MinLoad Mode = 1
)

// Row is one output record: global values at index 0, per-host values at
// indices 1..HostNum.
type Row struct {
	Rep int
	Gen int // meaningful only when the run records every generation

	N1 []float64
	N2 []float64
	K1 []float64
	K2 []float64
}

// Recorder reduces a Tensor snapshot to a Row.
type Recorder struct {
	Mode    Mode
	Kmax    int
	HostNum int
}

// Row computes one output row from the tensor's current state.
func (r Recorder) Row(t *population.Tensor, rep, gen int) Row {
	row := Row{
		Rep: rep,
		Gen: gen,
		N1:  append([]float64(nil), t.N1...),
		N2:  append([]float64(nil), t.N2...),
		K1:  make([]float64, r.HostNum+1),
		K2:  make([]float64, r.HostNum+1),
	}

	switch r.Mode {
	case MeanLoad:
		r.fillMeanLoad(t, &row)
	default:
		r.fillMinLoad(t, &row)
	}

	if t.N1[0] == 0 {
		row.K1[0] = -1
	}
	if t.N2[0] == 0 {
		row.K2[0] = -1
	}

	return row
}

func (r Recorder) fillMeanLoad(t *population.Tensor, row *Row) {
	two := t.Current2()
	one := t.Current1()

	var global1, global2 float64
	for h := 1; h <= r.HostNum; h++ {
		if t.N2[h] > 0 {
			var k2 float64
			for j := 0; j <= r.Kmax; j++ {
				for k := 0; k <= r.Kmax; k++ {
					k2 += two[h][j][k] / t.N2[h] * float64(j+k)
				}
			}
			row.K2[h] = k2
			global2 += k2 * t.N2[h] / t.N2[0]
		} else {
			row.K2[h] = -1
		}

		if t.N1[h] > 0 {
			var k1 float64
			for j := 0; j <= 2*r.Kmax; j++ {
				k1 += one[h][j] / t.N1[h] * float64(j)
			}
			row.K1[h] = k1
			global1 += k1 * t.N1[h] / t.N1[0]
		} else {
			row.K1[h] = -1
		}
	}

	row.K1[0] = global1
	row.K2[0] = global2
}

func (r Recorder) fillMinLoad(t *population.Tensor, row *Row) {
	two := t.Current2()
	one := t.Current1()

	globalMin1 := 2*r.Kmax + 1
	globalMin2 := 2*r.Kmax + 1
	anyHost1, anyHost2 := false, false

	for h := 1; h <= r.HostNum; h++ {
		if t.N2[h] > 0 {
			min2 := 2*r.Kmax + 1
			for j := 0; j <= r.Kmax; j++ {
				for k := 0; k <= r.Kmax; k++ {
					if j+k < min2 && two[h][j][k] > 0 {
						min2 = j + k
					}
				}
			}
			row.K2[h] = float64(min2)
			if min2 < globalMin2 {
				globalMin2 = min2
				anyHost2 = true
			}
		} else {
			row.K2[h] = -1
		}

		if t.N1[h] > 0 {
			min1 := 2*r.Kmax + 1
			for j := 0; j <= 2*r.Kmax; j++ {
				if one[h][j] > 0 {
					min1 = j
					break
				}
			}
			row.K1[h] = float64(min1)
			if min1 < globalMin1 {
				globalMin1 = min1
				anyHost1 = true
			}
		} else {
			row.K1[h] = -1
		}
	}

	if anyHost1 {
		row.K1[0] = float64(globalMin1)
	} else {
		row.K1[0] = -1
	}
	if anyHost2 {
		row.K2[0] = float64(globalMin2)
	} else {
		row.K2[0] = -1
	}
}
