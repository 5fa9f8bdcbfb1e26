// Package tester implements the hypothesis tester: given observed event
// counts, a tested epsilon, and an iteration budget, it computes a
// p-value for the null hypothesis "the mechanism satisfies epsilon-DP on
// these inputs under this event".
package tester

import (
	"context"
	"fmt"
	"math"

	"statdp/hgeom"
	"statdp/mechanism"
	"statdp/rng"
	"statdp/sampler"
	"statdp/workers"
)

// subsamples is the fixed number of binomial draws averaged over to
// reduce variance from the randomness of cx itself (spec.md §4.3).
const subsamples = 200

// Statistic computes the p-value for observed counts (cx, cy) under the
// tested epsilon, over `iterations` total draws per database. cx is
// assumed to be the larger of the two counts, per the Sampler's
// canonicalization convention.
//
// The raw statistic treats the two independent runs as a 2T draw and,
// conditional on the marginals, the D1 count is hypergeometric with
// population 2T, success count T, draw size cx+cy: p = sf(cx-1; 2T, T,
// cx+cy). To bound the variance this raw statistic inherits from the
// randomness of cx, Statistic averages sf over `subsamples` draws of cx'
// from Binomial(cx, exp(-epsilon)) — the count expected to survive a
// hypothetical epsilon-scaling.
func Statistic(cx, cy int, epsilon float64, iterations int) (float64, error) {
	if cx < 0 || cy < 0 || iterations <= 0 {
		return 0, mechanism.ErrInvalidArgument
	}

	p := math.Exp(-epsilon)
	if p > 1 {
		p = 1
	}

	seed, err := rng.FreshSeed("tester-statistic")
	if err != nil {
		return 0, err
	}
	source := rng.NewFromSeed(seed)

	sum := 0.0
	for i := 0; i < subsamples; i++ {
		cxPrime := binomialDraw(source, cx, p)
		sf, err := hgeom.Sf(cxPrime-1, 2*iterations, iterations, cxPrime+cy)
		if err != nil {
			return 0, err
		}
		sum += sf
	}
	return sum / float64(subsamples), nil
}

func binomialDraw(source *rng.Source, n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	count := 0
	for i := 0; i < n; i++ {
		if source.Float64() < p {
			count++
		}
	}
	return count
}

// Run dispatches the Sampler across a worker pool partitioned by core
// count, sums the resulting (cx, cy) pair for the single fixed event,
// and returns the p-value (and, if reportP2, the reverse-direction
// p-value computed on the swapped counts).
func Run(ctx context.Context, m mechanism.Mechanism, d1, d2 mechanism.Database, kwargs mechanism.Kwargs, event mechanism.Event, epsilon float64, iterations int, pool *workers.Pool, reportP2 bool) (p1, p2 float64, err error) {
	if pool == nil {
		pool = workers.New(1)
	}
	cores := pool.Size()

	chunks := partition(iterations, cores)
	tasks := make([]workers.Task[struct{ Cx, Cy int }], len(chunks))
	for i, size := range chunks {
		i, size := i, size
		tasks[i] = func(ctx context.Context) (struct{ Cx, Cy int }, error) {
			counts, err := sampler.Run(ctx, m, d1, d2, kwargs, size, sampler.Options{
				Events:    []mechanism.Event{event},
				SeedLabel: fmt.Sprintf("tester-core-%d", i),
			})
			if err != nil {
				return struct{ Cx, Cy int }{}, err
			}
			return struct{ Cx, Cy int }{counts[0].Cx, counts[0].Cy}, nil
		}
	}

	results, err := workers.Run(ctx, pool, tasks)
	if err != nil {
		return 0, 0, err
	}

	var cx, cy int
	for _, r := range results {
		cx += r.Cx
		cy += r.Cy
	}
	if cx < cy {
		cx, cy = cy, cx
	}

	p1, err = Statistic(cx, cy, epsilon, iterations)
	if err != nil {
		return 0, 0, err
	}
	if !reportP2 {
		return p1, 0, nil
	}
	p2, err = Statistic(cy, cx, epsilon, iterations)
	if err != nil {
		return 0, 0, err
	}
	return p1, p2, nil
}

// partition splits total into `parts` nearly-equal chunks, adding the
// remainder to the last chunk (spec.md §4.3).
func partition(total, parts int) []int {
	if parts <= 1 || total < parts {
		return []int{total}
	}
	base := total / parts
	sizes := make([]int, parts)
	for i := range sizes {
		sizes[i] = base
	}
	sizes[parts-1] += total % parts
	return sizes
}
