package deck

import "math/rand/v2"

// Shuffle returns a uniformly permuted sequence containing each integer in [0, n) exactly once.
//
// It is a Fisher-Yates shuffle walking from the last element down to 1. intn must return a value
// in [0, k) for a given k; any draw outside [0, i] is clamped, so a misbehaving source degrades the
// distribution instead of indexing out of bounds.
func Shuffle(n int, intn func(k int) int) []int {
	if n <= 0 {
		return []int{}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := clampIndex(intn(i+1), i)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// NewOrder returns a shuffled display order of n card indices using the package RNG.
func NewOrder(n int) []int {
	return Shuffle(n, rand.IntN)
}

func clampIndex(j, max int) int {
	if j < 0 {
		return 0
	}
	if j > max {
		return max
	}
	return j
}
