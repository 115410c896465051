package utils

import (
	"math/rand"
	"time"
)

// RandSource wraps a seeded random number generator.
// A seed of 0 selects a time-based seed.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// IntSlice returns a slice of n random ints, each in [0, limit)
func (r *RandSource) IntSlice(n, limit int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r.rng.Intn(limit)
	}
	return out
}
