package engine

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/blockfall/internal/blocks"
)

// Randomizer picks the kind of every newly spawned block.
// The engine only calls it while holding its lock.
type Randomizer interface {
	Next() blocks.Kind
}

// RandomizerFunc adapts a function to the Randomizer interface.
type RandomizerFunc func() blocks.Kind

// Next calls f.
func (f RandomizerFunc) Next() blocks.Kind {
	return f()
}

// uniform draws every kind with equal probability.
type uniform struct {
	rng *rand.Rand
}

// NewRandomizer returns a uniform Randomizer. A zero seed uses the clock.
func NewRandomizer(seed int64) Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &uniform{rng: rand.New(rand.NewSource(seed))}
}

func (u *uniform) Next() blocks.Kind {
	return blocks.Kind(u.rng.Intn(blocks.Count))
}
