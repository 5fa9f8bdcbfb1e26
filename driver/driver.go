// Package driver implements the thin top-level orchestration spec.md
// §4.5 calls "specified for completeness": for each requested test ε, it
// runs the Selector with an event-discovery budget, then the Tester with
// a larger detection budget on the winning candidate, and records the
// resulting p-value.
package driver

import (
	"context"
	"fmt"

	"time"

	"statdp/candidates"
	"statdp/logging"
	"statdp/mechanism"
	"statdp/selector"
	"statdp/telemetry"
	"statdp/tester"
	"statdp/workers"
)

// Default budgets from spec.md §6.
const (
	DefaultEventIterations  = 100_000
	DefaultDetectIterations = 500_000
)

// DefaultNumInput is the pair of database sizes used to generate
// candidates when the caller supplies neither Databases nor NumInput.
var DefaultNumInput = []int{5, 10}

// Options configures Detect, mirroring the detect_counterexample
// configuration options enumerated in spec.md §6.
type Options struct {
	// TestEpsilons is the ordered list of ε values to test at. Required,
	// non-empty.
	TestEpsilons []float64

	// DefaultKwargs is passed to every mechanism invocation. It must
	// already contain "epsilon" — the mechanism's claimed, fixed privacy
	// budget — which the Driver never overwrites; only the rare-event
	// threshold and the Tester's statistic consume each loop iteration's
	// TestEpsilons value (see SPEC_FULL.md §5.6 for why the Driver does
	// not inject test ε into kwargs).
	DefaultKwargs mechanism.Kwargs

	// Databases, if non-empty, fixes the candidate (D1, D2) pairs to
	// test instead of auto-generating them from NumInput/Sensitivity.
	Databases []candidates.Pair

	// NumInput lists the database sizes to generate candidates for when
	// Databases is empty. Defaults to DefaultNumInput.
	NumInput []int

	// EventIterations, DetectIterations are the Sampler budgets for
	// event-selection and final detection respectively. Zero selects the
	// package defaults.
	EventIterations, DetectIterations int

	// Cores bounds worker-pool concurrency. Zero defaults to
	// runtime.NumCPU() (see workers.New).
	Cores int

	// Sensitivity selects the neighboring-database regime used for
	// candidate generation (ignored when Databases is supplied).
	Sensitivity mechanism.Sensitivity

	// Logger receives progress and error records. A nil Logger is
	// replaced with logging.Nop().
	Logger *logging.Logger
}

// Result is one row of detect_counterexample's output: the tested ε, the
// resulting p-value, and the winning candidate/event.
type Result struct {
	Epsilon float64
	P       float64
	D1, D2  mechanism.Database
	Kwargs  mechanism.Kwargs
	Event   mechanism.Event
}

// Detect runs the full three-stage pipeline for every ε in
// opts.TestEpsilons against mechanism m, returning one Result per tested
// ε in request order.
func Detect(ctx context.Context, m mechanism.Mechanism, opts Options) ([]Result, error) {
	if len(opts.TestEpsilons) == 0 {
		return nil, fmt.Errorf("statdp/driver: TestEpsilons must be non-empty")
	}
	if _, err := opts.DefaultKwargs.Epsilon(); err != nil {
		return nil, fmt.Errorf("statdp/driver: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	eventIterations := opts.EventIterations
	if eventIterations <= 0 {
		eventIterations = DefaultEventIterations
	}
	detectIterations := opts.DetectIterations
	if detectIterations <= 0 {
		detectIterations = DefaultDetectIterations
	}

	pairs := opts.Databases
	if len(pairs) == 0 {
		sizes := opts.NumInput
		if len(sizes) == 0 {
			sizes = DefaultNumInput
		}
		for _, n := range sizes {
			pairs = append(pairs, candidates.Generate(n, opts.Sensitivity)...)
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("statdp/driver: no candidate database pairs to test")
	}

	selCandidates := make([]selector.Candidate, len(pairs))
	for i, pair := range pairs {
		selCandidates[i] = selector.Candidate{D1: pair.D1, D2: pair.D2, Kwargs: opts.DefaultKwargs}
	}

	pool := workers.New(opts.Cores)

	results := make([]Result, 0, len(opts.TestEpsilons))
	for _, eps := range opts.TestEpsilons {
		epsLog := log.With("epsilon", eps)
		epsLog.Info("selecting counterexample candidate", nil)

		selStart := time.Now()
		sel, err := selector.Select(ctx, m, selCandidates, eps, eventIterations, pool)
		telemetry.Track(selStart, telemetry.PhaseSelect, eps)
		if err != nil {
			return nil, fmt.Errorf("statdp/driver: epsilon %v: %w", eps, err)
		}

		detectStart := time.Now()
		p, _, err := tester.Run(ctx, m, sel.Candidate.D1, sel.Candidate.D2, sel.Candidate.Kwargs, sel.Event, eps, detectIterations, pool, false)
		telemetry.Track(detectStart, telemetry.PhaseDetect, eps)
		if err != nil {
			return nil, fmt.Errorf("statdp/driver: epsilon %v: %w", eps, err)
		}

		epsLog.Info("detection complete", map[string]any{"p": p, "event": sel.Event.String()})

		results = append(results, Result{
			Epsilon: eps,
			P:       p,
			D1:      sel.Candidate.D1,
			D2:      sel.Candidate.D2,
			Kwargs:  sel.Candidate.Kwargs,
			Event:   sel.Event,
		})
	}

	return results, nil
}
