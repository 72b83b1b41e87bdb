package app

import (
	"math/rand"
	"time"
)

// Rand is the randomness a quiz draws on: the working-set shuffle, the
// wrong-choice shuffle and the correct-slot pick. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded source. It is not safe for concurrent use;
// every engine owns its own.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
