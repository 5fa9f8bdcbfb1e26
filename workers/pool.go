// Package workers wraps golang.org/x/sync/errgroup and
// golang.org/x/sync/semaphore into the bounded worker pool the Sampler
// and Tester dispatch chunked tasks on (spec.md §5: "parallel worker
// tasks with a shared, bounded worker pool of size P"). Aggregation of
// results is left entirely to the caller — the pool guarantees no
// ordering between tasks and no shared mutable state beyond the slice it
// hands back, matching the commutative-sum/min aggregation the core
// relies on.
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent task execution to a fixed number of slots.
// Suspension only happens at dispatch (acquiring a slot) and at Run's
// final join — inside a task, execution is expected to be straight-line
// CPU work with no further yields.
type Pool struct {
	size int
	sem  *semaphore.Weighted
}

// New creates a Pool with the given number of slots. A size of 0 or less
// defaults to runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{size: size, sem: semaphore.NewWeighted(int64(size))}
}

// Size returns the pool's configured slot count.
func (p *Pool) Size() int { return p.size }

// Task is one unit of work dispatched into the pool.
type Task[T any] func(ctx context.Context) (T, error)

// Run dispatches every task concurrently, bounded by the pool's size,
// and returns their results in the same order as tasks (order of the
// result slice mirrors the input slice for caller convenience, even
// though completion order is unspecified). If any task returns an error,
// Run cancels the remaining tasks' context and returns the first error
// encountered; partial results are discarded by the caller, matching
// spec.md §7's "no local retries... partial results are discarded".
func Run[T any](ctx context.Context, p *Pool, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		if err := p.sem.Acquire(gctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return nil, werr
			}
			return nil, err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			out, err := task(gctx)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
