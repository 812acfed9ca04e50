// Package rotation implements the channel's playback order: a shuffled
// no-repeat rotation with back navigation, and an ad break scheduler layered
// on top of it.
//
// Neither type is safe for concurrent use; callers serialise access.
package rotation

import "math/rand/v2"

// Rand is the random source used for shuffling and picking.
type Rand interface {
	// IntN returns a uniform value in [0, n). n is always > 0.
	IntN(n int) int
}

// NewRand returns a Rand backed by math/rand/v2's global generator.
func NewRand() Rand {
	return globalRand{}
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// NewSeededRand returns a deterministic Rand for reproducible rotations.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// shuffle performs an in-place Fisher-Yates shuffle.
func shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
