package session

import (
	"math/rand/v2"
	"time"
)

// BuildPairs samples min(len(words), 2*pairs) words without replacement and
// partitions them consecutively into disjoint pairs.
func BuildPairs(words []string, pairs int, rng *rand.Rand) []Pair {
	n := min(len(words), 2*pairs)
	if n < 2 {
		return nil
	}

	sample := SampleWords(words, n, rng)
	out := make([]Pair, 0, n/2)
	for i := 0; i+1 < len(sample); i += 2 {
		out = append(out, Pair{First: sample[i], Second: sample[i+1]})
	}
	return out
}

// SampleWords returns up to n distinct entries of pool in random order.
func SampleWords(pool []string, n int, rng *rand.Rand) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	perm := rng.Perm(len(pool))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = pool[perm[i]]
	}
	return out
}

// TicksFor converts a phase duration to a whole number of ticks, rounding
// up. Every phase lasts at least one tick.
func TicksFor(d, tick time.Duration) int {
	if tick <= 0 {
		tick = time.Second
	}
	n := int((d + tick - 1) / tick)
	if n < 1 {
		return 1
	}
	return n
}

// MinWords is the number of valid words a mode needs before it may start.
func MinWords(mode Mode, pairs int) int {
	if mode == ModePregenerated {
		return max(2*pairs, 2)
	}
	return 2
}

func newRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>32|1))
}
