package analysis

import "math/rand/v2"

// Random is the only source of randomness the engine uses. *rand.Rand
// satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// NewRandom returns a PCG-backed generator. Equal seeds give equal streams.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// intBetween returns a value in [lo, hi].
func intBetween(rng Random, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
