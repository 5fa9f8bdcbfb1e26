// Package candidates generates neighboring-database pairs to test a
// mechanism against, per spec.md §6. Every n-sized request produces the
// two baseline pairs (one element below/above 1), plus, under
// AllDiffer, six additional pairs exercising the extremes of the
// sensitivity regime (five against the all-ones D1, plus the crossed
// halves pair).
package candidates

import "statdp/mechanism"

// Pair is a candidate (D1, D2) neighboring-database pair.
type Pair struct {
	D1, D2 mechanism.Database
}

// Generate returns the candidate database pairs for a database of length
// n under the given sensitivity regime.
func Generate(n int, sensitivity mechanism.Sensitivity) []Pair {
	d1 := ones(n)
	pairs := []Pair{
		{D1: d1, D2: withFirst(0, ones(n-1))},
		{D1: d1, D2: withFirst(2, ones(n-1))},
	}

	if sensitivity != mechanism.AllDiffer {
		return pairs
	}

	half := n / 2
	rest := n - half

	pairs = append(pairs,
		Pair{D1: d1, D2: append(repeat(2, 1), repeat(0, n-1)...)},
		Pair{D1: d1, D2: append(repeat(0, 1), repeat(2, n-1)...)},
		Pair{D1: d1, D2: append(repeat(2, half), repeat(0, rest)...)},
		Pair{D1: d1, D2: repeat(2, n)},
		Pair{D1: d1, D2: repeat(0, n)},
	)

	// "crossed halves": floor(n/2) ones followed by ceil(n/2) zeros, and
	// its mirror image.
	lo := n / 2
	hi := n - lo
	crossedD1 := append(repeat(1, lo), repeat(0, hi)...)
	crossedD2 := append(repeat(0, lo), repeat(1, hi)...)
	pairs = append(pairs, Pair{D1: crossedD1, D2: crossedD2})

	return pairs
}

func ones(n int) mechanism.Database {
	return repeat(1, n)
}

func repeat(v float64, n int) mechanism.Database {
	if n <= 0 {
		return mechanism.Database{}
	}
	out := make(mechanism.Database, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func withFirst(first float64, rest mechanism.Database) mechanism.Database {
	out := make(mechanism.Database, 0, len(rest)+1)
	out = append(out, first)
	out = append(out, rest...)
	return out
}
