// Package prng provides splittable, deterministic random keys.
//
// A Key is an immutable 64-bit value. Sub-components never share a key:
// a parent derives one independent child per consumer with Split, so that
// re-running an initialization with the same root key reproduces every
// parameter exactly.
package prng

import (
	"math/rand/v2"
)

// Key seeds all randomness consumed during bijector initialization.
type Key uint64

// golden is the splitmix64 increment (2^64 / phi).
const golden = 0x9e3779b97f4a7c15

// NewKey creates a root key from an integer seed.
func NewKey(seed int64) Key {
	return Key(mix(uint64(seed) + golden))
}

// Split derives n independent child keys.
//
// Children are a pure function of the parent and their index, so
// k.Split(3)[1] == k.Split(5)[1].
func (k Key) Split(n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = k.Fold(uint64(i))
	}
	return keys
}

// Fold derives the child key for a given index.
func (k Key) Fold(i uint64) Key {
	return Key(mix(uint64(k) ^ mix((i+1)*golden)))
}

// Source returns a PCG source seeded from the key.
//
// The result satisfies rand.Source and can be handed to gonum's
// stat/distuv distributions.
func (k Key) Source() rand.Source {
	return rand.NewPCG(uint64(k), mix(uint64(k)+golden))
}

// Rand returns a generator backed by Source.
func (k Key) Rand() *rand.Rand {
	return rand.New(k.Source()) //nolint:gosec // Deterministic by construction, not security-critical
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
