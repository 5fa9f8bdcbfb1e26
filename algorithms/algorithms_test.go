package algorithms

import (
	"testing"

	"statdp/mechanism"
	"statdp/rng"
)

func TestNoisyMaxArgmaxPicksLargestQuery(t *testing.T) {
	prng := rng.NewFromSeed(1)
	db := mechanism.Database{1, 1, 100, 1}
	out, err := NoisyMaxArgmax(prng, db, mechanism.Kwargs{"epsilon": 2.0})
	if err != nil {
		t.Fatalf("NoisyMaxArgmax: %v", err)
	}
	if out.Arity() != 1 {
		t.Fatalf("expected scalar outcome, got arity %d", out.Arity())
	}
	if out.At(0) != 2 {
		t.Fatalf("expected index 2 to dominate under light noise, got %v", out.At(0))
	}
}

func TestNoisyMaxRequiresEpsilon(t *testing.T) {
	prng := rng.NewFromSeed(1)
	db := mechanism.Database{1, 2, 3}
	if _, err := NoisyMaxArgmax(prng, db, mechanism.Kwargs{}); err == nil {
		t.Fatal("expected error for missing epsilon")
	}
}

func TestHistogramEpsConfusionDiffersFromCorrect(t *testing.T) {
	db := mechanism.Database{5, 1, 1}
	kwargs := mechanism.Kwargs{"epsilon": 0.1}

	correct, err := Histogram(rng.NewFromSeed(7), db, kwargs)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	buggy, err := HistogramEpsConfusion(rng.NewFromSeed(7), db, kwargs)
	if err != nil {
		t.Fatalf("HistogramEpsConfusion: %v", err)
	}
	if correct.At(0) == buggy.At(0) {
		t.Fatal("expected the unit-confusion variant to diverge from the correct noise scale")
	}
}

func TestSVTHaltsAfterNAboveThreshold(t *testing.T) {
	prng := rng.NewFromSeed(3)
	db := mechanism.Database{10, 10, 10, 10, 10}
	out, err := SVT(prng, db, mechanism.Kwargs{"epsilon": 1.0, "N": 2, "T": 0})
	if err != nil {
		t.Fatalf("SVT: %v", err)
	}
	if out.At(0) < 0 {
		t.Fatalf("expected a non-negative false count, got %v", out.At(0))
	}
	// Without a halt after N=2 True answers, at most one of the five
	// queries is True, leaving a false count of at least 4.
	if out.At(0) > float64(len(db))-2 {
		t.Fatalf("expected SVT to halt after 2 above-threshold answers, got false count %v", out.At(0))
	}
}

func TestISVT4ReturnsTuple(t *testing.T) {
	prng := rng.NewFromSeed(4)
	db := mechanism.Database{10, 10, 10}
	out, err := ISVT4(prng, db, mechanism.Kwargs{"epsilon": 1.0, "N": 1, "T": 0})
	if err != nil {
		t.Fatalf("ISVT4: %v", err)
	}
	if out.Arity() != 2 {
		t.Fatalf("expected a 2-tuple outcome, got arity %d", out.Arity())
	}
}

func TestSVTVariantsRequireNAndT(t *testing.T) {
	prng := rng.NewFromSeed(5)
	db := mechanism.Database{1, 2, 3}
	if _, err := SVT(prng, db, mechanism.Kwargs{"epsilon": 1.0}); err == nil {
		t.Fatal("expected error for missing N/T")
	}
}
