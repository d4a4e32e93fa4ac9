package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixedRadix_RoundTrip(t *testing.T) {
	m := NewMixedRadix(2, 3, 4)
	require.Equal(t, 24, m.Size())

	tests := []struct {
		idx    int
		digits []int
	}{
		{0, []int{0, 0, 0}},
		{1, []int{0, 0, 1}},
		{4, []int{0, 1, 0}},
		{12, []int{1, 0, 0}},
		{23, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		got := m.Digits(tt.idx, nil)
		if diff := cmp.Diff(tt.digits, got); diff != "" {
			t.Errorf("Digits(%d) mismatch (-want +got):\n%s", tt.idx, diff)
		}
		assert.Equal(t, tt.idx, m.Index(tt.digits))
	}
}

func TestMixedRadix_Scalar(t *testing.T) {
	m := NewMixedRadix()
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, 0, m.Index(nil))
	assert.Empty(t, m.Digits(0, nil))
}

func TestProbabilityTable_LastVariableVariesFastest(t *testing.T) {
	a := MustBooleanVariable("A")
	weather, err := NewRandomVariable("Weather", mustDomain(t, "sunny", "rain", "cloudy"))
	require.NoError(t, err)

	table, err := NewProbabilityTable([]float64{1, 2, 3, 4, 5, 6}, a, weather)
	require.NoError(t, err)

	v, err := table.Value(true, "cloudy")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = table.Value(false, "sunny")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = table.GetValue(Assign(weather, "rain"), Assign(a, false))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	assert.Equal(t, []any{false, "cloudy"}, table.ValuesAt(5))
}

func TestProbabilityTable_Errors(t *testing.T) {
	a := MustBooleanVariable("A")
	b := MustBooleanVariable("B")

	_, err := NewProbabilityTable([]float64{0.5, 0.5, 0.5}, a)
	assert.ErrorIs(t, err, ErrTableSizeMismatch)

	_, err = NewProbabilityTable([]float64{-0.1, 1.1}, a)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = NewZeroTable(a, a)
	assert.ErrorIs(t, err, ErrDuplicateVariable)

	_, err = NewZeroTable(a, nil)
	assert.ErrorIs(t, err, ErrNilVariable)

	table, err := NewZeroTable(a)
	require.NoError(t, err)

	_, err = table.Value("yes")
	assert.ErrorIs(t, err, ErrValueOutOfDomain)

	_, err = table.Value(true, false)
	assert.ErrorIs(t, err, ErrMissingAssignment)

	_, err = table.GetValue(Assign(b, true))
	assert.ErrorIs(t, err, ErrMissingAssignment)

	other, err := NewZeroTable(b)
	require.NoError(t, err)
	assert.ErrorIs(t, table.Add(other), ErrVariableMismatch)
}

func TestProbabilityTable_NormalizeAndAdd(t *testing.T) {
	a := MustBooleanVariable("A")

	left, err := NewProbabilityTable([]float64{3, 1}, a)
	require.NoError(t, err)
	right, err := NewProbabilityTable([]float64{1, 3}, a)
	require.NoError(t, err)

	require.NoError(t, left.Add(right))
	assert.Equal(t, []float64{4, 4}, left.Values())

	require.NoError(t, left.Normalize())
	assert.InDelta(t, 0.5, left.At(0), 1e-12)
	assert.InDelta(t, 1.0, left.Sum(), 1e-12)

	zero, err := NewZeroTable(a)
	require.NoError(t, err)
	assert.True(t, errors.Is(zero.Normalize(), ErrZeroTotal))
}

func TestProbabilityTable_CloneIsIndependent(t *testing.T) {
	a := MustBooleanVariable("A")
	table, err := NewProbabilityTable([]float64{0.25, 0.75}, a)
	require.NoError(t, err)

	c := table.Clone()
	c.AddAt(0, 1)
	assert.Equal(t, 0.25, table.At(0))
	assert.Equal(t, 1.25, c.At(0))
}

func TestProbabilityTable_ScalarTable(t *testing.T) {
	table, err := NewProbabilityTable([]float64{0.3})
	require.NoError(t, err)

	v, err := table.Value()
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)
}

func TestPosteriorEntries(t *testing.T) {
	a := MustBooleanVariable("A")
	table, err := NewProbabilityTable([]float64{0.25, 0.75}, a)
	require.NoError(t, err)

	p := &Posterior{Query: []string{"A"}, Entries: NewPosteriorEntries(table)}
	want := []PosteriorEntry{
		{Values: []string{"true"}, Probability: 0.25},
		{Values: []string{"false"}, Probability: 0.75},
	}
	if diff := cmp.Diff(want, p.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	prob, ok := p.Probability("false")
	assert.True(t, ok)
	assert.Equal(t, 0.75, prob)

	_, ok = p.Probability("maybe")
	assert.False(t, ok)
}

func mustDomain(t *testing.T, values ...any) *FiniteDomain {
	t.Helper()
	d, err := NewFiniteDomain(values...)
	require.NoError(t, err)
	return d
}
