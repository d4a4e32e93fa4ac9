package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRandomizer_Deterministic(t *testing.T) {
	a, b := NewRandomizer(7), NewRandomizer(7)
	for range 100 {
		x := a.Float64()
		assert.Equal(t, x, b.Float64())
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestSeededFactory(t *testing.T) {
	f := SeededFactory(7)
	assert.Equal(t, NewRandomizer(7).Float64(), f(0).Float64(), "worker 0 matches NewRandomizer")
	assert.NotEqual(t, f(0).Float64(), f(1).Float64(), "workers get distinct streams")
}

func TestCycle(t *testing.T) {
	c := NewCycle(0.1, 0.5, 0.99)
	assert.Equal(t, []float64{0.1, 0.5, 0.99, 0.1}, []float64{c.Float64(), c.Float64(), c.Float64(), c.Float64()})

	c = NewCycle(0.0, 0.5, 0.99)
	assert.Equal(t, 0, c.IntN(2))
	assert.Equal(t, 1, c.IntN(2))
	assert.Equal(t, 2, c.IntN(3))

	assert.Panics(t, func() { NewCycle() })
	assert.Panics(t, func() { NewCycle(1.0) })
	assert.Panics(t, func() { NewCycle(0.5).IntN(0) })
}
