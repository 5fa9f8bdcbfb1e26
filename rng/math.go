package rng

import (
	"crypto/sha256"
	"hash"
	"math"
)

func sha256New() hash.Hash { return sha256.New() }

// log1mTwoU returns ln(1 - 2u) via math.Log1p for precision when u is
// small (the Laplace inverse-CDF is most sensitive to precision there).
func log1mTwoU(u float64) float64 { return math.Log1p(-2 * u) }

// log1mU returns ln(1 - u) via math.Log1p.
func log1mU(u float64) float64 { return math.Log1p(-u) }
