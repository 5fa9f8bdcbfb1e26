// Package sampler implements the Monte-Carlo sampler: it runs a
// mechanism many times on a pair of databases and tallies occurrences of
// candidate events, auto-discovering an event search space when none is
// supplied.
package sampler

import (
	"context"
	"fmt"

	"statdp/mechanism"
	"statdp/rng"
	"statdp/workers"
)

// maxChunk bounds the number of output values materialized per return
// coordinate per database in a single chunk, to bound peak memory
// (spec.md §5).
const maxChunk = 1_000_000

// Count is one event's tallied occurrences. By convention Cx >= Cy; the
// Tester assumes the larger count is reported first.
type Count struct {
	Event  mechanism.Event
	Cx, Cy int
}

// Options configures a Sampler run.
type Options struct {
	// Events, if non-nil, fixes the event search space to exactly these
	// events instead of auto-discovering one. Every event's arity must
	// match the mechanism's return arity.
	Events []mechanism.Event
	// Pool, if non-nil, bounds concurrent chunk dispatch. The first chunk
	// always runs on the caller's goroutine; with a nil Pool the
	// remaining chunks run one at a time on a single-slot pool.
	Pool *workers.Pool
	// SeedLabel distinguishes independently-seeded worker streams
	// across concurrent Sampler invocations (e.g. "candidate-2"),
	// avoiding seed collisions when many Samplers run in the same
	// process at once.
	SeedLabel string
}

// Run invokes m iterations times on d1 and d2, partitioning iterations
// into chunks of at most maxChunk to bound peak memory, and returns the
// tallied (cx, cy) pair for every candidate event.
func Run(ctx context.Context, m mechanism.Mechanism, d1, d2 mechanism.Database, kwargs mechanism.Kwargs, iterations int, opts Options) ([]Count, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("statdp/sampler: iterations must be positive, got %d", iterations)
	}

	discoverySource, err := rng.NewWorkerSource(0)
	if err != nil {
		return nil, err
	}
	sample, err := m(discoverySource, d1, kwargs)
	if err != nil {
		return nil, err
	}
	arity := sample.Arity()
	if arity == 0 {
		return nil, mechanism.ErrUnsupportedReturn
	}

	if opts.Events != nil {
		for _, e := range opts.Events {
			if len(e) != arity {
				return nil, mechanism.ErrInvalidArgument
			}
		}
	}

	sizes := chunkSizes(iterations)

	seed0, err := rng.FreshSeed(opts.SeedLabel + "-chunk-0")
	if err != nil {
		return nil, err
	}
	col1, col2, err := runChunk(rng.NewFromSeed(seed0), m, d1, d2, kwargs, sizes[0], arity)
	if err != nil {
		return nil, err
	}

	events := opts.Events
	if events == nil {
		events, err = discoverEventSpace(col1, col2, sizes[0])
		if err != nil {
			return nil, err
		}
	}

	totals := make([]Count, len(events))
	for i, e := range events {
		totals[i].Event = e
	}
	addCounts(totals, tallyChunk(col1, col2, events))

	if len(sizes) > 1 {
		tasks := make([]workers.Task[[]struct{ Cx, Cy int }], len(sizes)-1)
		for idx, size := range sizes[1:] {
			idx, size := idx, size
			label := fmt.Sprintf("%s-chunk-%d", opts.SeedLabel, idx+1)
			tasks[idx] = func(ctx context.Context) ([]struct{ Cx, Cy int }, error) {
				seed, err := rng.FreshSeed(label)
				if err != nil {
					return nil, err
				}
				c1, c2, err := runChunk(rng.NewFromSeed(seed), m, d1, d2, kwargs, size, arity)
				if err != nil {
					return nil, err
				}
				return tallyChunk(c1, c2, events), nil
			}
		}
		pool := opts.Pool
		if pool == nil {
			pool = workers.New(1)
		}
		results, err := workers.Run(ctx, pool, tasks)
		if err != nil {
			return nil, err
		}
		for _, chunkCounts := range results {
			addCounts(totals, chunkCounts)
		}
	}

	out := make([]Count, len(totals))
	for i, c := range totals {
		if c.Cx >= c.Cy {
			out[i] = c
		} else {
			out[i] = Count{Event: c.Event, Cx: c.Cy, Cy: c.Cx}
		}
	}
	return out, nil
}

func addCounts(totals []Count, delta []struct{ Cx, Cy int }) {
	for i := range totals {
		totals[i].Cx += delta[i].Cx
		totals[i].Cy += delta[i].Cy
	}
}

func tallyChunk(col1, col2 [][]float64, events []mechanism.Event) []struct{ Cx, Cy int } {
	n := len(col1[0])
	out := make([]struct{ Cx, Cy int }, len(events))
	for ei, e := range events {
		cx, cy := 0, 0
		for i := 0; i < n; i++ {
			if coordMatches(e, col1, i) {
				cx++
			}
			if coordMatches(e, col2, i) {
				cy++
			}
		}
		out[ei] = struct{ Cx, Cy int }{cx, cy}
	}
	return out
}

func coordMatches(e mechanism.Event, columns [][]float64, row int) bool {
	for c, coord := range e {
		if !coord.Matches(columns[c][row]) {
			return false
		}
	}
	return true
}

func chunkSizes(total int) []int {
	if total <= maxChunk {
		return []int{total}
	}
	var sizes []int
	remaining := total
	for remaining > 0 {
		size := maxChunk
		if remaining < maxChunk {
			size = remaining
		}
		sizes = append(sizes, size)
		remaining -= size
	}
	return sizes
}

// runChunk runs m chunkSize times against d1, then chunkSize times
// against d2, using a single PRNG stream for the whole chunk (never
// shared with any other chunk's task), and returns the per-coordinate
// column stores for each database.
func runChunk(prng *rng.Source, m mechanism.Mechanism, d1, d2 mechanism.Database, kwargs mechanism.Kwargs, chunkSize, arity int) ([][]float64, [][]float64, error) {
	col1, err := runColumns(prng, m, d1, kwargs, chunkSize, arity)
	if err != nil {
		return nil, nil, err
	}
	col2, err := runColumns(prng, m, d2, kwargs, chunkSize, arity)
	if err != nil {
		return nil, nil, err
	}
	return col1, col2, nil
}

func runColumns(prng *rng.Source, m mechanism.Mechanism, db mechanism.Database, kwargs mechanism.Kwargs, chunkSize, arity int) ([][]float64, error) {
	columns := make([][]float64, arity)
	for c := range columns {
		columns[c] = make([]float64, chunkSize)
	}
	for i := 0; i < chunkSize; i++ {
		out, err := m(prng, db, kwargs)
		if err != nil {
			return nil, err
		}
		if out.Arity() != arity {
			return nil, mechanism.ErrUnsupportedReturn
		}
		for c := 0; c < arity; c++ {
			columns[c][i] = out.At(c)
		}
	}
	return columns, nil
}
