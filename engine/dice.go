package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// NewRand returns a PCG source seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// NewRandFromEntropy returns a PCG source seeded from the OS.
func NewRandFromEntropy() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("engine: read entropy: " + err.Error())
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// RollDice rolls two independent six-sided dice.
func RollDice(rng *rand.Rand) [2]int {
	return [2]int{rng.IntN(6) + 1, rng.IntN(6) + 1}
}
