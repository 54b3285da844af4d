package maze

import "math/rand/v2"

// Source produces uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG-backed source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle permutes items in place into a uniformly random order
// (Fisher-Yates). It walks from the last index down to the first, swapping
// each element with one chosen uniformly at or before it.
func Shuffle[T any](items []T, src Source) {
	for i := len(items) - 1; i >= 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
