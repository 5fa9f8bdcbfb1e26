package selector

import (
	"context"
	"testing"

	"statdp/mechanism"
)

func constantMechanism(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	return mechanism.Scalar(db[0]), nil
}

func TestSelectPicksMinimumPValue(t *testing.T) {
	candidates := []Candidate{
		{D1: mechanism.Database{1, 1}, D2: mechanism.Database{0, 1}, Kwargs: mechanism.Kwargs{"epsilon": 0.5}},
		{D1: mechanism.Database{1, 1}, D2: mechanism.Database{2, 1}, Kwargs: mechanism.Kwargs{"epsilon": 0.5}},
	}
	result, err := Select(context.Background(), constantMechanism, candidates, 0.5, 2000, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if result.Event == nil {
		t.Fatal("expected a winning event")
	}
	if result.P < 0 {
		t.Fatalf("p-value should be non-negative or +Inf, got %v", result.P)
	}
}

func TestSelectRejectsEmptyCandidates(t *testing.T) {
	_, err := Select(context.Background(), constantMechanism, nil, 0.5, 1000, nil)
	if err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}
