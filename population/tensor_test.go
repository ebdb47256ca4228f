package population

import "testing"

func TestSeedAndTotals(t *testing.T) {
	tensor := New(2, 5)
	tensor.Seed(1, 100, 0.7, 0.3)
	tensor.Seed(2, 100, 0.2, 0.8)
	tensor.RecomputeTotals()

	if got := tensor.N2[1]; got != 70 {
		t.Fatalf("N2[1] = %v, want 70", got)
	}
	if got := tensor.N1[1]; got != 30 {
		t.Fatalf("N1[1] = %v, want 30", got)
	}
	if got := tensor.N2[0]; got != 90 {
		t.Fatalf("N2[0] = %v, want 90", got)
	}
	if got := tensor.N[0]; got != 200 {
		t.Fatalf("N[0] = %v, want 200", got)
	}
}

func TestSwapZeroesOutputBuffer(t *testing.T) {
	tensor := New(1, 3)
	tensor.Seed(1, 10, 1, 0)
	in, out := tensor.SwapTwoSegment()
	if in[1][0][0] != 10 {
		t.Fatalf("in buffer lost seeded value: %v", in[1][0][0])
	}
	for j := range out[1] {
		for k := range out[1][j] {
			if out[1][j][k] != 0 {
				t.Fatalf("out buffer not zeroed at [%d][%d][%d]", 1, j, k)
			}
		}
	}
}

func TestResetZeroesEverything(t *testing.T) {
	tensor := New(2, 4)
	tensor.Seed(1, 50, 1, 1)
	tensor.Seed(2, 50, 1, 1)
	tensor.RecomputeTotals()
	tensor.Reset()

	if tensor.Cur2() != 0 || tensor.Cur1() != 0 {
		t.Fatalf("Reset did not rewind cursors: cur2=%d cur1=%d", tensor.Cur2(), tensor.Cur1())
	}
	for h := 0; h <= tensor.HostNum; h++ {
		if tensor.N2[h] != 0 || tensor.N1[h] != 0 || tensor.N[h] != 0 {
			t.Fatalf("Reset left nonzero totals at host %d", h)
		}
	}
	if tensor.TotalMass2(0, 1) != 0 || tensor.TotalMass1(0, 1) != 0 {
		t.Fatalf("Reset left nonzero mass in buffer 0")
	}
}

func TestPoolEmptyInitially(t *testing.T) {
	tensor := New(1, 3)
	tensor.Seed(1, 10, 1, 1)
	if !tensor.PoolEmpty() {
		t.Fatal("pool should be empty before migration runs")
	}
}

func TestClearPool(t *testing.T) {
	tensor := New(1, 3)
	tensor.two[tensor.cur2][0][1][1] = 5
	tensor.one[tensor.cur1][0][2] = 3
	tensor.ClearPool()
	if !tensor.PoolEmpty() {
		t.Fatal("ClearPool did not empty the pool")
	}
}
