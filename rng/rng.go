// Package rng provides the per-worker pseudo-random source that
// mechanisms consume through the mechanism.Rand interface. Streams are
// never shared across workers and never protected by a lock: each worker
// seeds its own independent stream from OS entropy, mirroring the
// teacher's ntru.RNG wrapper but feeding Laplace/exponential draws
// instead of lattice sampling.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand"

	"golang.org/x/crypto/hkdf"
)

// Source wraps a *math/rand.Rand with the Laplace/Exponential helpers
// the mechanism.Rand contract requires. It is not safe for concurrent
// use by multiple goroutines — each worker task must own its own
// Source.
type Source struct {
	r *mrand.Rand
}

// New wraps an existing math/rand.Rand.
func New(r *mrand.Rand) *Source { return &Source{r: r} }

// NewFromSeed creates a deterministic stream from an int64 seed, for
// reproducible tests.
func NewFromSeed(seed int64) *Source {
	return &Source{r: mrand.New(mrand.NewSource(seed))}
}

// FreshSeed draws a well-seeded int64 by expanding fresh OS entropy
// through HKDF, giving each worker an independent seed even when many
// workers spawn within the same instant (crypto/rand alone is safe here
// too, but HKDF expansion keeps the derivation consistent with the
// teacher pack's key-derivation idiom). info is bound in as the HKDF
// info parameter; NewWorkerSource passes the worker index this way.
func FreshSeed(info string) (int64, error) {
	ikm := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, ikm); err != nil {
		return 0, fmt.Errorf("statdp/rng: reading entropy: %w", err)
	}
	kdf := hkdf.New(sha256New, ikm, nil, []byte(info))
	out := make([]byte, 8)
	if _, err := io.ReadFull(kdf, out); err != nil {
		return 0, fmt.Errorf("statdp/rng: expanding seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(out)), nil
}

// NewWorkerSource returns a Source seeded independently for worker index
// i, deriving its seed from fresh OS entropy.
func NewWorkerSource(workerIndex int) (*Source, error) {
	seed, err := FreshSeed(fmt.Sprintf("statdp-worker-%d", workerIndex))
	if err != nil {
		return nil, err
	}
	return NewFromSeed(seed), nil
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// Laplace draws from Laplace(0, scale) via inverse-CDF sampling:
// u uniform in [-0.5, 0.5), x = -scale*sign(u)*ln(1-2|u|).
func (s *Source) Laplace(scale float64) float64 {
	u := s.r.Float64() - 0.5
	sign := 1.0
	if u < 0 {
		sign = -1.0
		u = -u
	}
	return -scale * sign * log1mTwoU(u)
}

// Exponential draws from Exponential(scale) with mean scale (not rate):
// x = -scale*ln(1-u), u uniform in [0, 1).
func (s *Source) Exponential(scale float64) float64 {
	u := s.r.Float64()
	return -scale * log1mU(u)
}
