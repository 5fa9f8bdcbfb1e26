// Package mechanism defines the data model shared by every stage of the
// counterexample-detection pipeline: databases, the privacy sensitivity
// regime, events, and the mechanism callable contract itself.
package mechanism

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a caller supplies a malformed
// parameter: an event whose arity does not match the mechanism's return
// shape, a hypergeometric draw size larger than the population, or a
// kwargs map missing "epsilon".
var ErrInvalidArgument = errors.New("statdp: invalid argument")

// ErrUnsupportedReturn is returned when a mechanism's sample output is
// neither a scalar nor a fixed-arity tuple of scalars.
var ErrUnsupportedReturn = errors.New("statdp: unsupported mechanism return type")

// Database is an ordered sequence of real-valued queries.
type Database []float64

// Clone returns a copy so callers can mutate the result without aliasing
// the original database.
func (d Database) Clone() Database {
	out := make(Database, len(d))
	copy(out, d)
	return out
}

// Kwargs is the mapping of named scalar parameters passed to a mechanism.
// It must contain "epsilon" by the time a mechanism is invoked.
type Kwargs map[string]float64

// Clone returns a shallow copy of the kwargs map.
func (k Kwargs) Clone() Kwargs {
	out := make(Kwargs, len(k))
	for key, v := range k {
		out[key] = v
	}
	return out
}

// Epsilon returns the "epsilon" entry, or an error if absent.
func (k Kwargs) Epsilon() (float64, error) {
	eps, ok := k["epsilon"]
	if !ok {
		return 0, fmt.Errorf("%w: kwargs missing required \"epsilon\" entry", ErrInvalidArgument)
	}
	return eps, nil
}

// Sensitivity selects the neighboring-database regime used when
// generating candidate database pairs.
type Sensitivity int

const (
	// AllDiffer allows every pair of elements to differ by at most 1.
	AllDiffer Sensitivity = iota
	// OneDiffer requires exactly one index to differ, by exactly 1.
	OneDiffer
)

func (s Sensitivity) String() string {
	switch s {
	case AllDiffer:
		return "ALL_DIFFER"
	case OneDiffer:
		return "ONE_DIFFER"
	default:
		return "UNKNOWN"
	}
}

// Rand is the PRNG contract mechanisms receive explicitly. Mechanisms
// must never fall back to a package-global source of randomness: this is
// what keeps determinism and parallel safety orthogonal (see rng.Source
// for the concrete implementation passed by the Sampler).
type Rand interface {
	// Float64 returns a pseudo-random value in [0, 1).
	Float64() float64
	// Laplace draws a sample from Laplace(0, scale).
	Laplace(scale float64) float64
	// Exponential draws a sample from Exponential(scale) (mean = scale).
	Exponential(scale float64) float64
}

// Outcome is the tagged-variant return of a Mechanism invocation: either a
// single scalar or a fixed-arity ordered tuple of scalars. The shape and
// per-coordinate types must be identical across every invocation of a
// given (Mechanism, Kwargs) pair.
type Outcome struct {
	tuple []float64
}

// Scalar wraps a single-valued outcome.
func Scalar(v float64) Outcome { return Outcome{tuple: []float64{v}} }

// Tuple wraps a fixed-arity outcome. Booleans must be coerced to 0.0/1.0
// by the mechanism before constructing the outcome (see the iSVT4 note in
// SPEC_FULL.md §5.2).
func Tuple(values ...float64) Outcome { return Outcome{tuple: append([]float64(nil), values...)} }

// Arity returns the number of return coordinates.
func (o Outcome) Arity() int { return len(o.tuple) }

// At returns the i-th coordinate value.
func (o Outcome) At(i int) float64 { return o.tuple[i] }

// Values returns the full coordinate slice; callers must not mutate it.
func (o Outcome) Values() []float64 { return o.tuple }

// Mechanism is a callable randomized algorithm: given a PRNG, a database,
// and named parameters (which must include "epsilon"), it returns an
// Outcome. Implementations must never mutate db or kwargs.
type Mechanism func(prng Rand, db Database, kwargs Kwargs) (Outcome, error)
