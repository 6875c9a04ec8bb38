package engine

import "math/rand"

// Battles are replayable: given the same seed, participants and action
// sequence, every roll repeats. Each round derives its own source from the
// battle seed and the turn number, so a battle resumed from storage rolls
// the same numbers as one that never left memory.

const roundSeedStride uint64 = 0x9e3779b97f4a7c15

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// roundRNG returns the random source for one round of one battle. The mix
// runs in uint64 so the stride multiply wraps instead of overflowing.
func roundRNG(battleSeed int64, turn int) *rand.Rand {
	return newRNG(int64(uint64(battleSeed) ^ uint64(turn)*roundSeedStride))
}
