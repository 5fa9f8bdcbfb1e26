// Package algorithms provides a library of candidate differentially
// private mechanisms, grounded on original_source/statdp/algorithms.py:
// the canonical correct/incorrect implementations used throughout the
// privacy-violation detection literature. Several of these are
// deliberately buggy variants, kept and named for what they are so the
// driver's worked examples can reproduce the counterexamples spec.md §8
// describes.
package algorithms

import (
	"statdp/mechanism"
)

// NoisyMaxArgmax adds Laplace(2/epsilon) noise to every query and
// returns the index of the largest noisy value. This is the correct
// "report noisy max" construction.
func NoisyMaxArgmax(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	return mechanism.Scalar(float64(argmaxNoisy(prng, db, eps, prng.Laplace))), nil
}

// NoisyMaxArgmaxValue adds Laplace(2/epsilon) noise to every query and
// returns the largest noisy value itself instead of its index: an
// incorrect variant that leaks more than the report-noisy-max mechanism
// is claimed to.
func NoisyMaxArgmaxValue(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	_, v := maxNoisy(prng, db, eps, prng.Laplace)
	return mechanism.Scalar(v), nil
}

// NoisyMaxExponential is the exponential-noise analogue of
// NoisyMaxArgmax: Exponential(2/epsilon) noise, argmax returned.
func NoisyMaxExponential(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	return mechanism.Scalar(float64(argmaxNoisy(prng, db, eps, prng.Exponential))), nil
}

// NoisyMaxExponentialValue is the exponential-noise analogue of
// NoisyMaxArgmaxValue: returns the maximal noisy value, not its index.
func NoisyMaxExponentialValue(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	_, v := maxNoisy(prng, db, eps, prng.Exponential)
	return mechanism.Scalar(v), nil
}

// argmaxNoisy returns the index of the largest db[i] + noise(2/epsilon).
func argmaxNoisy(prng mechanism.Rand, db mechanism.Database, epsilon float64, noise func(float64) float64) int {
	scale := 2.0 / epsilon
	best := 0
	bestV := db[0] + noise(scale)
	for i := 1; i < len(db); i++ {
		v := db[i] + noise(scale)
		if v > bestV {
			bestV = v
			best = i
		}
	}
	return best
}

// maxNoisy returns both the argmax index and its noisy value, sharing
// the draws argmaxNoisy would make (used by the *Value variants so the
// noise scale stays identical to the correct mechanism's).
func maxNoisy(prng mechanism.Rand, db mechanism.Database, epsilon float64, noise func(float64) float64) (int, float64) {
	scale := 2.0 / epsilon
	best := 0
	bestV := db[0] + noise(scale)
	for i := 1; i < len(db); i++ {
		v := db[i] + noise(scale)
		if v > bestV {
			bestV = v
			best = i
		}
	}
	return best, bestV
}

// Histogram adds Laplace(1/epsilon) noise to every query and returns the
// first coordinate. The correct construction: noise scale is the inverse
// of epsilon.
func Histogram(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	return mechanism.Scalar(db[0] + prng.Laplace(1.0/eps)), nil
}

// HistogramEpsConfusion is the same construction as Histogram but with
// the noise scale mistakenly set to epsilon rather than 1/epsilon: a
// classic unit-confusion bug that over-noises for epsilon > 1 and
// under-noises for epsilon < 1.
func HistogramEpsConfusion(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, err := kwargs.Epsilon()
	if err != nil {
		return mechanism.Outcome{}, err
	}
	return mechanism.Scalar(db[0] + prng.Laplace(eps)), nil
}

// svtParams extracts epsilon and the "N" and "T" parameters SVT and its
// variants need.
func svtParams(kwargs mechanism.Kwargs) (epsilon, n, threshold float64, err error) {
	epsilon, err = kwargs.Epsilon()
	if err != nil {
		return 0, 0, 0, err
	}
	nv, ok := kwargs["N"]
	if !ok {
		return 0, 0, 0, mechanism.ErrInvalidArgument
	}
	tv, ok := kwargs["T"]
	if !ok {
		return 0, 0, 0, mechanism.ErrInvalidArgument
	}
	return epsilon, nv, tv, nil
}

// SVT is the sparse vector technique: queries answered "above threshold"
// up to N times, then halted. Returns the count of queries answered
// False before halting.
func SVT(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, n, t, err := svtParams(kwargs)
	if err != nil {
		return mechanism.Outcome{}, err
	}
	noisyT := t + prng.Laplace(2.0/eps)
	falseCount := 0
	above := 0
	for _, q := range db {
		eta := prng.Laplace(4.0 * n / eps)
		if q+eta >= noisyT {
			above++
			if float64(above) >= n {
				break
			}
		} else {
			falseCount++
		}
	}
	return mechanism.Scalar(float64(falseCount)), nil
}

// ISVT1 is "incorrect SVT" variant 1: no noise is added to the queries
// themselves, only to the threshold. Returns the Hamming distance
// between the True/False output sequence and the canonical
// first-half-True answer pattern.
func ISVT1(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, _, t, err := svtParams(kwargs)
	if err != nil {
		return mechanism.Outcome{}, err
	}
	noisyT := t + prng.Laplace(2.0/eps)
	out := make([]bool, len(db))
	for i, q := range db {
		out[i] = q >= noisyT
	}
	return mechanism.Scalar(float64(hammingToCanonical(out))), nil
}

// ISVT2 is "incorrect SVT" variant 2: query noise is drawn at
// Laplace(2/epsilon), not scaled by N, and the number of True answers
// emitted is left unbounded.
func ISVT2(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, _, t, err := svtParams(kwargs)
	if err != nil {
		return mechanism.Outcome{}, err
	}
	noisyT := t + prng.Laplace(2.0/eps)
	out := make([]bool, len(db))
	for i, q := range db {
		eta := prng.Laplace(2.0 / eps)
		out[i] = q+eta >= noisyT
	}
	return mechanism.Scalar(float64(hammingToCanonical(out))), nil
}

// ISVT3 is "incorrect SVT" variant 3: threshold noise is drawn at
// Laplace(4/epsilon) and query noise at Laplace(4/(3*epsilon)), neither
// scaled by N, with halting after N above-threshold answers. Unlike
// ISVT1/ISVT2 this variant can halt before consuming every query, so the
// unprocessed tail is scored against the canonical pattern as a run of
// mismatches (mirroring the Python original's zip_longest padding the
// truncated output with None, which never equals a canonical True/False).
func ISVT3(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, n, t, err := svtParams(kwargs)
	if err != nil {
		return mechanism.Outcome{}, err
	}
	noisyT := t + prng.Laplace(4.0/eps)
	out := make([]bool, 0, len(db))
	above := 0
	for _, q := range db {
		eta := prng.Laplace(4.0 / (3.0 * eps))
		if q+eta > noisyT {
			out = append(out, true)
			above++
			if float64(above) >= n {
				break
			}
		} else {
			out = append(out, false)
		}
	}
	return mechanism.Scalar(float64(hammingToCanonicalTruncated(out, len(db)))), nil
}

// ISVT4 is "incorrect SVT" variant 4: query noise is scaled by N as SVT
// requires, but the mechanism leaks the noisy query value itself on an
// above-threshold answer instead of reporting a bare True. Returns a
// 2-tuple: the count of below-threshold answers, and the last emitted
// value (0 for a False, the noisy query value for a True).
func ISVT4(prng mechanism.Rand, db mechanism.Database, kwargs mechanism.Kwargs) (mechanism.Outcome, error) {
	eps, n, t, err := svtParams(kwargs)
	if err != nil {
		return mechanism.Outcome{}, err
	}
	noisyT := t + prng.Laplace(2.0/eps)
	falseCount := 0
	above := 0
	last := 0.0
	for _, q := range db {
		eta := prng.Laplace(2.0 * n / eps)
		if q+eta > noisyT {
			last = q + eta
			above++
			if float64(above) >= n {
				break
			}
		} else {
			falseCount++
			last = 0
		}
	}
	return mechanism.Tuple(float64(falseCount), last), nil
}

// hammingToCanonical counts mismatches between out and the canonical
// pattern where the first half of the slice is True and the rest False.
func hammingToCanonical(out []bool) int {
	trueCount := len(out) / 2
	d := 0
	for i, v := range out {
		want := i < trueCount
		if v != want {
			d++
		}
	}
	return d
}

// hammingToCanonicalTruncated is hammingToCanonical for an out that may
// have stopped short of total entries (an early SVT halt): every position
// beyond len(out) counts as a mismatch against the canonical pattern
// sized to total, regardless of what the canonical pattern wants there.
func hammingToCanonicalTruncated(out []bool, total int) int {
	trueCount := total / 2
	d := 0
	for i := 0; i < total; i++ {
		if i >= len(out) || out[i] != (i < trueCount) {
			d++
		}
	}
	return d
}
