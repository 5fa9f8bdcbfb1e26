// Package hgeom implements numerically stable probability mass and
// survival functions for the hypergeometric distribution, used by the
// tester package to compute p-values. Precision matters more than raw
// speed here: the survival function is computed by recursive pmf
// propagation rather than 1-cdf, which loses precision in the tails.
package hgeom

import (
	"math"

	"statdp/mechanism"
)

// lnBinomial returns log(C(n, k)), the log of the binomial coefficient.
func lnBinomial(n, k int) float64 {
	if k == n || k == 0 {
		return 0
	}
	if k*2 > n {
		k = n - k
	}
	lg1, _ := math.Lgamma(float64(n + 1))
	lg2, _ := math.Lgamma(float64(k + 1))
	lg3, _ := math.Lgamma(float64(n - k + 1))
	return lg1 - lg2 - lg3
}

// Pmf returns the probability mass function of a hypergeometric draw with
// population M, success count n, and draw size N, evaluated at k. Pmf
// returns mechanism.ErrInvalidArgument when N > M.
//
//   - k > n, or k > N: pmf is 0 (cannot draw more successes than exist or
//     than were drawn).
//   - N > M-n and k+M-n < N: pmf is 0 (not enough failures to fill the
//     remainder of the draw).
func Pmf(k, M, n, N int) (float64, error) {
	if N > M {
		return 0, mechanism.ErrInvalidArgument
	}
	if k > n || k > N {
		return 0, nil
	}
	if N > M-n && k+M-n < N {
		return 0, nil
	}
	return math.Exp(lnBinomial(n, k) + lnBinomial(M-n, N-k) - lnBinomial(M, N)), nil
}

// Sf returns the survival function Pr[X > k] of a hypergeometric draw
// with population M, success count n, draw size N. Sf returns
// mechanism.ErrInvalidArgument when N > M.
//
// The hypergeometric pmf is centered around its mode at k = N*n/M. For
// k past the mode, Sf sums the pmf forward from k+1 using the forward
// recurrence; otherwise it sums the pmf backward from k down to 0 using
// the backward recurrence and returns 1 minus that sum. Summing from the
// side closer to the mode keeps the number of recursive steps small and
// avoids the precision loss of computing 1-cdf directly when cdf is
// close to 1.
func Sf(k, M, n, N int) (float64, error) {
	if N > M {
		return 0, mechanism.ErrInvalidArgument
	}
	if k >= minInt(n, N) {
		return 0, nil
	}
	if k < 0 {
		return 1, nil
	}

	mode := float64(N) * float64(n) / float64(M)
	if float64(k) > mode {
		pmfI, err := Pmf(k+1, M, n, N)
		if err != nil {
			return 0, err
		}
		result := pmfI
		for i := k + 1; i < N; i++ {
			pmfI *= (float64(n-i) / float64(i+1)) * (float64(N-i) / float64(M-n+i+1-N))
			result += pmfI
		}
		return result, nil
	}

	pmfI, err := Pmf(k, M, n, N)
	if err != nil {
		return 0, err
	}
	result := pmfI
	for i := k; i > 0; i-- {
		pmfI *= (float64(i) / float64(n-i+1)) * (float64(M-n+i-N) / float64(N-i+1))
		result += pmfI
	}
	return 1 - result, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
