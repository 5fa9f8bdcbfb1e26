package sampler

import (
	"context"
	"testing"

	"statdp/mechanism"
)

// constantMechanism returns a fixed scalar derived from the database's
// first element, for deterministic invariant checks that don't depend on
// actual randomness.
func constantMechanism(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	return mechanism.Scalar(db[0]), nil
}

func TestRunCountsWithinBounds(t *testing.T) {
	d1 := mechanism.Database{1, 1, 1}
	d2 := mechanism.Database{0, 1, 1}
	counts, err := Run(context.Background(), constantMechanism, d1, d2, mechanism.Kwargs{"epsilon": 1}, 1000, Options{SeedLabel: "t1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(counts) == 0 {
		t.Fatal("expected at least one candidate event")
	}
	for _, c := range counts {
		if c.Cx < 0 || c.Cx > 1000 || c.Cy < 0 || c.Cy > 1000 {
			t.Fatalf("count out of bounds: %+v", c)
		}
		if c.Cx < c.Cy {
			t.Fatalf("canonicalization invariant violated: cx < cy in %+v", c)
		}
	}
}

func TestRunWithGivenEventsExactArity(t *testing.T) {
	d1 := mechanism.Database{1, 1, 1}
	d2 := mechanism.Database{0, 1, 1}
	events := []mechanism.Event{{mechanism.Exact(1)}}
	counts, err := Run(context.Background(), constantMechanism, d1, d2, mechanism.Kwargs{"epsilon": 1}, 500, Options{Events: events, SeedLabel: "t2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(counts))
	}
	// d1 always emits 1, so cx should be 500; d2 never emits 1 (always 0), so cy should be 0.
	if counts[0].Cx != 500 || counts[0].Cy != 0 {
		t.Fatalf("unexpected counts: %+v", counts[0])
	}
}

func TestRunRejectsMismatchedEventArity(t *testing.T) {
	d1 := mechanism.Database{1, 1, 1}
	d2 := mechanism.Database{0, 1, 1}
	events := []mechanism.Event{{mechanism.Exact(1), mechanism.Exact(2)}}
	_, err := Run(context.Background(), constantMechanism, d1, d2, mechanism.Kwargs{"epsilon": 1}, 100, Options{Events: events, SeedLabel: "t3"})
	if err != mechanism.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRunSplitsLargeIterationsIntoChunks(t *testing.T) {
	sizes := chunkSizes(2_500_000)
	if len(sizes) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(sizes), sizes)
	}
	sum := 0
	for _, s := range sizes {
		if s > maxChunk {
			t.Fatalf("chunk %d exceeds maxChunk", s)
		}
		sum += s
	}
	if sum != 2_500_000 {
		t.Fatalf("chunk sizes sum to %d, want 2500000", sum)
	}
}

func TestCartesianProductDimensions(t *testing.T) {
	spaces := [][]mechanism.Coordinate{
		{mechanism.Exact(0), mechanism.Exact(1)},
		{mechanism.Exact(10), mechanism.Exact(20), mechanism.Exact(30)},
	}
	events := cartesianProduct(spaces)
	if len(events) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(events))
	}
	for _, e := range events {
		if len(e) != 2 {
			t.Fatalf("expected arity 2, got %d", len(e))
		}
	}
}
