package sampling

import (
	"fmt"
	"math/rand/v2"
)

// Randomizer is the source of randomness for every sampler.
// *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	// Float64 returns a uniform draw in [0,1).
	Float64() float64
	// IntN returns a uniform draw in [0,n). It panics if n <= 0.
	IntN(n int) int
}

// RandomizerFactory builds the Randomizer for one worker of a parallel run.
// Distinct workers must get independent streams.
type RandomizerFactory func(worker int) Randomizer

// NewRandomizer returns a PCG-backed randomizer. The same seed always yields
// the same sequence.
func NewRandomizer(seed uint64) Randomizer {
	return rand.New(rand.NewPCG(seed, 0))
}

// SeededFactory derives one PCG stream per worker from a single seed.
// Worker 0 gets the same sequence as NewRandomizer(seed).
func SeededFactory(seed uint64) RandomizerFactory {
	return func(worker int) Randomizer {
		return rand.New(rand.NewPCG(seed, uint64(worker)))
	}
}

// Cycle is a deterministic Randomizer that replays a fixed list of draws.
type Cycle struct {
	values []float64
	next   int
}

// NewCycle returns a Randomizer cycling through values. It panics if values is
// empty or holds a draw outside [0,1).
func NewCycle(values ...float64) *Cycle {
	if len(values) == 0 {
		panic("sampling: NewCycle needs at least one value")
	}
	for _, v := range values {
		if v < 0 || v >= 1 {
			panic(fmt.Sprintf("sampling: cycle value %v outside [0,1)", v))
		}
	}
	return &Cycle{values: append([]float64(nil), values...)}
}

// Float64 returns the next value, wrapping around at the end.
func (c *Cycle) Float64() float64 {
	v := c.values[c.next]
	c.next = (c.next + 1) % len(c.values)
	return v
}

// IntN scales the next value to [0,n).
func (c *Cycle) IntN(n int) int {
	if n <= 0 {
		panic("sampling: IntN with n <= 0")
	}
	return min(int(c.Float64()*float64(n)), n-1)
}
