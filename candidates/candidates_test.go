package candidates

import (
	"testing"

	"statdp/mechanism"
)

func hammingDistance(a, b mechanism.Database) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func TestOneDifferHammingDistanceOne(t *testing.T) {
	for _, n := range []int{2, 5, 10} {
		pairs := Generate(n, mechanism.OneDiffer)
		for _, p := range pairs {
			if len(p.D1) != n || len(p.D2) != n {
				t.Fatalf("n=%d: expected length %d, got D1=%d D2=%d", n, n, len(p.D1), len(p.D2))
			}
			if d := hammingDistance(p.D1, p.D2); d != 1 {
				t.Fatalf("n=%d: expected Hamming distance 1, got %d for %v vs %v", n, d, p.D1, p.D2)
			}
		}
		if len(pairs) != 2 {
			t.Fatalf("ONE_DIFFER should only produce the 2 baseline pairs, got %d", len(pairs))
		}
	}
}

func TestAllDifferProducesEightPairs(t *testing.T) {
	pairs := Generate(6, mechanism.AllDiffer)
	if len(pairs) != 8 {
		t.Fatalf("expected 2 baseline + 6 extra pairs under ALL_DIFFER, got %d", len(pairs))
	}
	for _, p := range pairs {
		if len(p.D1) != 6 || len(p.D2) != 6 {
			t.Fatalf("expected length 6 pairs, got D1=%d D2=%d", len(p.D1), len(p.D2))
		}
		for i := range p.D1 {
			if abs(p.D1[i]-p.D2[i]) > 1 {
				t.Fatalf("ALL_DIFFER pair has element differing by more than 1: %v vs %v", p.D1, p.D2)
			}
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
