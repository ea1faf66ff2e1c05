package service

import (
	"math/rand/v2"
	"sync"
)

// RandomSource supplies the randomness used for jitter and sub-scores.
type RandomSource interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

type seededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom returns a reproducible source that is safe for
// concurrent evaluations.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *seededRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *seededRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

type globalRandom struct{}

// DefaultRandom returns a source backed by the runtime-seeded package
// generator.
func DefaultRandom() RandomSource { return globalRandom{} }

func (globalRandom) IntN(n int) int   { return rand.IntN(n) }
func (globalRandom) Float64() float64 { return rand.Float64() }
