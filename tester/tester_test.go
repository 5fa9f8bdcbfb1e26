package tester

import (
	"math"
	"testing"
)

const tolerance = 0.05

func TestStatisticSymmetryLimits(t *testing.T) {
	// scenario 6 from spec.md §8.
	p, err := Statistic(1000, 1000, 1, 2000)
	if err != nil {
		t.Fatalf("Statistic: %v", err)
	}
	if math.Abs(p-1) > tolerance {
		t.Fatalf("Statistic(1000,1000,1,2000) = %v, want ~1", p)
	}

	p, err = Statistic(1999, 1, 1, 2000)
	if err != nil {
		t.Fatalf("Statistic: %v", err)
	}
	if p > tolerance {
		t.Fatalf("Statistic(1999,1,1,2000) = %v, want ~0", p)
	}
}

func TestStatisticMonotoneInCx(t *testing.T) {
	// spec.md §8: for fixed (cy, epsilon, T), the p-value is non-increasing
	// in cx.
	const cy, epsilon, iterations = 200, 0.7, 2000
	prev := math.Inf(1)
	for _, cx := range []int{200, 400, 600, 800, 1000} {
		p, err := Statistic(cx, cy, epsilon, iterations)
		if err != nil {
			t.Fatalf("Statistic(%d,...): %v", cx, err)
		}
		if p > prev+tolerance {
			t.Fatalf("Statistic not non-increasing in cx at cx=%d: got %v > prev %v", cx, p, prev)
		}
		prev = p
	}
}

func TestStatisticMonotoneInEpsilon(t *testing.T) {
	const cx, cy, iterations = 700, 300, 2000
	prev := -1.0
	for _, eps := range []float64{0.1, 0.5, 1.0, 2.0, 4.0} {
		p, err := Statistic(cx, cy, eps, iterations)
		if err != nil {
			t.Fatalf("Statistic(...,%v,...): %v", eps, err)
		}
		if p < prev-tolerance {
			t.Fatalf("Statistic not non-decreasing in epsilon at eps=%v: got %v < prev %v", eps, p, prev)
		}
		prev = p
	}
}

func TestPartitionAddsRemainderToLast(t *testing.T) {
	sizes := partition(103, 4)
	if len(sizes) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(sizes))
	}
	sum := 0
	for _, s := range sizes {
		sum += s
	}
	if sum != 103 {
		t.Fatalf("parts sum to %d, want 103", sum)
	}
	if sizes[3] != sizes[0]+103%4 {
		t.Fatalf("remainder not on last part: %v", sizes)
	}
}

func TestPartitionFallsBackWhenFewerIterationsThanCores(t *testing.T) {
	sizes := partition(3, 8)
	if len(sizes) != 1 || sizes[0] != 3 {
		t.Fatalf("expected single chunk of 3, got %v", sizes)
	}
}
