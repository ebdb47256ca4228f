package kernel

import (
	"testing"

	"github.com/pthm-cable/reassort/mutation"
	"github.com/pthm-cable/reassort/population"
)

func totalMass(t *population.Tensor, buf int) float64 {
	sum := 0.0
	for h := 1; h <= t.HostNum; h++ {
		sum += t.TotalMass2(buf, h) + t.TotalMass1(buf, h)
	}
	return sum
}

func TestMutateConservesMass(t *testing.T) {
	kmax := 8
	hostNum := 3
	tensor := population.New(hostNum, kmax)
	for h := 1; h <= hostNum; h++ {
		tensor.Seed(h, 1000, 0.6, 0.4)
	}
	tensor.RecomputeTotals()

	before := totalMass(tensor, tensor.Cur2())
	factor := mutation.FactorTable(0.5, kmax)
	m := mutation.BuildMatrix(kmax, kmax*2, factor)

	Mutate(tensor, m, factor, kmax*2)

	after := totalMass(tensor, tensor.Cur2())
	if diff := after - before; diff > 1e-6*before || diff < -1e-6*before {
		t.Fatalf("mutation mass not conserved: before=%v after=%v", before, after)
	}
}

func TestMutateNoNegativeOrOutOfRangeMass(t *testing.T) {
	kmax := 5
	hostNum := 1
	tensor := population.New(hostNum, kmax)
	tensor.Seed(1, 500, 1, 1)
	tensor.RecomputeTotals()

	factor := mutation.FactorTable(2.0, kmax)
	m := mutation.BuildMatrix(kmax, kmax*2, factor)
	Mutate(tensor, m, factor, kmax*2)

	buf2 := tensor.Current2()
	for j := 0; j <= kmax; j++ {
		for k := 0; k <= kmax; k++ {
			if buf2[1][j][k] < 0 {
				t.Fatalf("negative mass at (%d,%d): %v", j, k, buf2[1][j][k])
			}
		}
	}
	buf1 := tensor.Current1()
	for j := 0; j <= 2*kmax; j++ {
		if buf1[1][j] < 0 {
			t.Fatalf("negative one-segment mass at %d: %v", j, buf1[1][j])
		}
	}
}

func TestMutateIdentityAtZeroRate(t *testing.T) {
	kmax := 4
	hostNum := 1
	tensor := population.New(hostNum, kmax)
	tensor.Seed(1, 200, 1, 1)
	tensor.Current2()[1][2][1] = 77
	tensor.RecomputeTotals()

	factor := mutation.FactorTable(0, kmax)
	m := mutation.BuildMatrix(kmax, kmax*2, factor)
	Mutate(tensor, m, factor, kmax*2)

	buf2 := tensor.Current2()
	if buf2[1][0][0] != 200 {
		t.Fatalf("pop2[1][0][0] = %v, want 200 (u=0 is identity)", buf2[1][0][0])
	}
	if buf2[1][2][1] != 77 {
		t.Fatalf("pop2[1][2][1] = %v, want 77 (u=0 is identity)", buf2[1][2][1])
	}
	buf1 := tensor.Current1()
	if buf1[1][0] != 200 {
		t.Fatalf("pop1[1][0] = %v, want 200 (u=0 is identity)", buf1[1][0])
	}
}

func TestMutateNoRoomLeftSterile(t *testing.T) {
	kmax := 3
	hostNum := 1
	tensor := population.New(hostNum, kmax)
	tensor.Current2()[1][kmax][kmax] = 40
	tensor.RecomputeTotals()

	factor := mutation.FactorTable(3.0, kmax)
	m := mutation.BuildMatrix(kmax, kmax*2, factor)
	Mutate(tensor, m, factor, kmax*2)

	buf2 := tensor.Current2()
	if buf2[1][kmax][kmax] != 40 {
		t.Fatalf("mass at the cap should be immovable, got %v", buf2[1][kmax][kmax])
	}
}
