// Package random provides the shuffle primitive used to fix question
// and answer ordering at the start of an attempt.
package random

import "math/rand"

// Shuffle returns a new slice holding a uniform random permutation of
// in. The input is never mutated. Zero- and one-element inputs come
// back as plain copies.
func Shuffle[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
