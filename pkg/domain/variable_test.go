package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiniteDomain(t *testing.T) {
	d := mustDomain(t, "low", "medium", "high")

	assert.Equal(t, 3, d.Size())
	off, ok := d.Offset("medium")
	assert.True(t, ok)
	assert.Equal(t, 1, off)
	assert.False(t, d.Contains("extreme"))
	assert.False(t, d.Contains([]string{"x"}), "non-comparable lookups must not panic")
	assert.Equal(t, "{low, medium, high}", d.String())

	values := d.Values()
	values[0] = "mutated"
	assert.Equal(t, "low", d.ValueAt(0), "Values must return a copy")
}

func TestFiniteDomain_Errors(t *testing.T) {
	_, err := NewFiniteDomain()
	assert.ErrorIs(t, err, ErrEmptyDomain)

	_, err = NewFiniteDomain("a", "a")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	_, err = NewFiniteDomain([]int{1})
	assert.ErrorIs(t, err, ErrNotComparable)

	_, err = NewFiniteDomain(nil)
	assert.ErrorIs(t, err, ErrNotComparable)
}

func TestFiniteDomain_Parse(t *testing.T) {
	b := NewBooleanDomain()

	v, err := b.Parse("TRUE")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = b.Parse(" false ")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = b.Parse("maybe")
	assert.ErrorIs(t, err, ErrValueOutOfDomain)
}

func TestRandomVariable(t *testing.T) {
	_, err := NewRandomVariable("", NewBooleanDomain())
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewRandomVariable("X", nil)
	assert.ErrorIs(t, err, ErrEmptyDomain)

	rv := MustBooleanVariable("Rain")
	assert.Equal(t, "Rain", rv.Name())
	assert.Equal(t, "Rain", rv.String())
	assert.Equal(t, 2, rv.Domain().Size())

	assert.Panics(t, func() { MustBooleanVariable(" ") })
}

func TestAssignmentProposition_Validate(t *testing.T) {
	rv := MustBooleanVariable("Rain")

	assert.NoError(t, Assign(rv, true).Validate())
	assert.ErrorIs(t, Assign(rv, "yes").Validate(), ErrValueOutOfDomain)
	assert.ErrorIs(t, Assign(nil, true).Validate(), ErrNilVariable)
	assert.Equal(t, "Rain=true", Assign(rv, true).String())
}

func TestEvent(t *testing.T) {
	rain := MustBooleanVariable("Rain")
	umbrella := MustBooleanVariable("Umbrella")

	e := NewEvent(Assign(rain, true))
	next := e.With(umbrella, false)

	assert.Equal(t, 1, e.Len(), "With must not mutate the receiver")
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, "{Rain=true, Umbrella=false}", next.String())

	assert.True(t, next.Holds(Assign(rain, true)))
	assert.True(t, next.Holds(Assign(rain, true), Assign(umbrella, false)))
	assert.False(t, next.Holds(Assign(umbrella, true)))
	assert.False(t, e.Holds(Assign(umbrella, false)), "unassigned variables do not hold")

	replaced := next.With(rain, false)
	v, ok := replaced.Value(rain)
	assert.True(t, ok)
	assert.Equal(t, false, v)
	assert.Equal(t, []*RandomVariable{rain, umbrella}, replaced.Variables())
	assert.Len(t, replaced.Assignments(), 2)
}

func TestEventOf(t *testing.T) {
	rain := MustBooleanVariable("Rain")
	umbrella := MustBooleanVariable("Umbrella")

	state := map[*RandomVariable]any{umbrella: true}
	e := EventOf([]*RandomVariable{rain, umbrella}, state)
	state[umbrella] = false

	assert.Equal(t, 1, e.Len())
	v, _ := e.Value(umbrella)
	assert.Equal(t, true, v, "EventOf must copy the state")
}
