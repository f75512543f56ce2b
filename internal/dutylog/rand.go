package dutylog

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness used by Generate.
// *rand.Rand from math/rand/v2 satisfies it; tests pass a seeded one.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRand returns a randomly seeded source for production use.
// The returned value is not safe for concurrent use; create one per run.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// uniformHours draws a duration uniformly from [lo, hi) hours.
func uniformHours(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// jitterMinutes draws a whole number of minutes uniformly from [0, upper].
func jitterMinutes(r Rand, upper int) time.Duration {
	return time.Duration(r.IntN(upper+1)) * time.Minute
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
