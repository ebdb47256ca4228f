package mutation

import "testing"

func TestFactorTableNormalises(t *testing.T) {
	kmax := 10
	factor := FactorTable(0.4, kmax)
	sum := 0.0
	for _, f := range factor {
		sum += f
	}
	if diff := sum - 1.0; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("factor table sums to %v, want ~1", sum)
	}
}

func TestFactorTableLength(t *testing.T) {
	kmax := 7
	factor := FactorTable(0.1, kmax)
	if len(factor) != 2*kmax+1 {
		t.Fatalf("len(factor) = %d, want %d", len(factor), 2*kmax+1)
	}
}
