// Package randutil centralises how RNGs are seeded so tests can replay hands exactly.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime seeds from the wall clock. Production rooms use this; tests use New.
func NewFromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Derive returns an independent generator seeded from parent. Each hand draws its own
// deck RNG this way so a room RNG shared with bots and code generation stays reproducible.
func Derive(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(mix(parent.Uint64()), mix(parent.Uint64())))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
