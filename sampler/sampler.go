// ABOUTME: Uniform random sampling without replacement over the combined genre pool
// ABOUTME: Randomness is injected so tests can use a seeded generator

// Package sampler picks a random subset of discovered audio files.
//
// Every file in the pool has the same chance of being chosen regardless of
// which genre it came from, so a genre with more files contributes more of
// the selection on average.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"playlist-maker/playlist"
)

// ErrInvalidCount is returned for a requested count below one
var ErrInvalidCount = errors.New("count must be at least 1")

// Shuffler performs a uniform in-place shuffle of n elements
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// processRand shuffles with the unseeded process-wide generator
type processRand struct{}

func (processRand) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Result is the outcome of one sample
type Result struct {
	Selection playlist.Selection
	Requested int // Count asked for
	Available int // Pool size
}

// Short reports whether the pool held fewer files than requested
func (r Result) Short() bool {
	return r.Available < r.Requested
}

// Note returns the shortfall message, or "" when the pool was large enough
func (r Result) Note() string {
	if !r.Short() {
		return ""
	}

	return fmt.Sprintf("Only %d files available (requested %d).", r.Available, r.Requested)
}

// Sampler draws random selections from a pool
type Sampler struct {
	rng Shuffler
}

// New returns a Sampler using the process-default random source
func New() *Sampler {
	return &Sampler{rng: processRand{}}
}

// NewWithSource returns a Sampler using rng, e.g. a seeded *rand.Rand in tests
func NewWithSource(rng Shuffler) *Sampler {
	if rng == nil {
		return New()
	}

	return &Sampler{rng: rng}
}

// ValidateCount returns ErrInvalidCount for counts below one
func ValidateCount(count int) error {
	if count < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidCount, count)
	}

	return nil
}

// Sample returns min(count, len(pool)) distinct pool members in random order.
// The pool is not modified.
func (s *Sampler) Sample(pool []playlist.AudioFile, count int) (Result, error) {
	if err := ValidateCount(count); err != nil {
		return Result{}, err
	}

	shuffled := slices.Clone(pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := min(count, len(shuffled))

	return Result{
		Selection: playlist.Selection(shuffled[:n:n]),
		Requested: count,
		Available: len(pool),
	}, nil
}
