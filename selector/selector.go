// Package selector orchestrates the Sampler across a set of candidate
// (D1, D2, kwargs) triples, computes a p-value per discovered event via
// the Tester's single-shot statistic, and returns the triple and event
// minimizing that p-value.
package selector

import (
	"context"
	"errors"
	"fmt"
	"math"

	"statdp/mechanism"
	"statdp/sampler"
	"statdp/tester"
	"statdp/workers"
)

// Candidate is one (D1, D2, kwargs) triple to evaluate.
type Candidate struct {
	D1, D2 mechanism.Database
	Kwargs mechanism.Kwargs
}

// Result is the selected candidate, its winning event, and the p-value
// that won it the selection.
type Result struct {
	Candidate Candidate
	Event     mechanism.Event
	P         float64
}

// rareEventFraction is the named policy constant from spec.md §4.4: an
// event whose total observed count falls at or below the threshold
// rareEventFraction·iterations·exp(epsilon) is too rare to yield signal
// and is reported with p = +Inf so it can never win selection.
const rareEventFraction = 0.001

// Select runs the Sampler against every candidate with no pre-specified
// event (letting it auto-discover the search space), scores every
// resulting event with Tester.Statistic, and returns the
// (candidate, event) pair with the minimum p-value. Ties are broken by
// candidate and then event order, which is deterministic given
// deterministic worker seeding.
func Select(ctx context.Context, m mechanism.Mechanism, candidates []Candidate, epsilon float64, iterations int, pool *workers.Pool) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, errors.New("statdp/selector: no candidates supplied")
	}

	threshold := rareEventFraction * float64(iterations) * math.Exp(epsilon)

	var best Result
	seenAny := false

	for ci, c := range candidates {
		counts, err := sampler.Run(ctx, m, c.D1, c.D2, c.Kwargs, iterations, sampler.Options{
			Pool:      pool,
			SeedLabel: fmt.Sprintf("selector-candidate-%d", ci),
		})
		if err != nil {
			return Result{}, err
		}

		for _, count := range counts {
			p := math.Inf(1)
			if float64(count.Cx+count.Cy) > threshold {
				p, err = tester.Statistic(count.Cx, count.Cy, epsilon, iterations)
				if err != nil {
					return Result{}, err
				}
			}
			if !seenAny || p < best.P {
				best = Result{Candidate: c, Event: count.Event, P: p}
				seenAny = true
			}
		}
	}

	if !seenAny {
		return Result{}, errors.New("statdp/selector: no events discovered for any candidate")
	}
	return best, nil
}
