package domain

import (
	"fmt"
	"math"
	"strings"
)

// ProbabilityTable is a flat table of non-negative reals indexed by the Cartesian
// product of its variables' domains, last variable varying fastest.
// It represents CPT rows, factors, sample count accumulators and normalized
// categorical distributions.
//
// A table is not safe for concurrent mutation.
type ProbabilityTable struct {
	variables []*RandomVariable
	radix     MixedRadix
	values    []float64
}

// NewProbabilityTable creates a table over variables holding a copy of values.
func NewProbabilityTable(values []float64, variables ...*RandomVariable) (*ProbabilityTable, error) {
	t, err := NewZeroTable(variables...)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.values) {
		return nil, fmt.Errorf("%w: got %d values, want %d for %v", ErrTableSizeMismatch, len(values), len(t.values), variables)
	}
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: entry %d is %v", ErrInvalidProbability, i, v)
		}
	}
	copy(t.values, values)
	return t, nil
}

// NewZeroTable creates a table over variables with every entry set to zero.
func NewZeroTable(variables ...*RandomVariable) (*ProbabilityTable, error) {
	radices := make([]int, len(variables))
	seen := make(map[*RandomVariable]bool, len(variables))
	for i, rv := range variables {
		if rv == nil {
			return nil, fmt.Errorf("%w: table variable %d", ErrNilVariable, i)
		}
		if seen[rv] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVariable, rv.Name())
		}
		seen[rv] = true
		radices[i] = rv.Domain().Size()
	}
	vars := make([]*RandomVariable, len(variables))
	copy(vars, variables)
	radix := NewMixedRadix(radices...)
	return &ProbabilityTable{
		variables: vars,
		radix:     radix,
		values:    make([]float64, radix.Size()),
	}, nil
}

// Variables returns the table's variables in index order.
func (t *ProbabilityTable) Variables() []*RandomVariable {
	out := make([]*RandomVariable, len(t.variables))
	copy(out, t.variables)
	return out
}

// Size returns the number of entries.
func (t *ProbabilityTable) Size() int {
	return len(t.values)
}

// Values returns a copy of the flat entries.
func (t *ProbabilityTable) Values() []float64 {
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}

// At returns the entry at flat index i.
func (t *ProbabilityTable) At(i int) float64 {
	return t.values[i]
}

// Index returns the flat index of the given values, one per table variable in order.
func (t *ProbabilityTable) Index(values ...any) (int, error) {
	if len(values) != len(t.variables) {
		return 0, fmt.Errorf("%w: got %d values for %d variables", ErrMissingAssignment, len(values), len(t.variables))
	}
	idx := 0
	for i, v := range values {
		rv := t.variables[i]
		off, ok := rv.Domain().Offset(v)
		if !ok {
			return 0, fmt.Errorf("%w: %s=%v", ErrValueOutOfDomain, rv.Name(), v)
		}
		idx += off * t.radix.strides[i]
	}
	return idx, nil
}

// ValuesAt returns the variable values addressed by flat index idx.
func (t *ProbabilityTable) ValuesAt(idx int) []any {
	digits := t.radix.Digits(idx, nil)
	out := make([]any, len(digits))
	for i, d := range digits {
		out[i] = t.variables[i].Domain().ValueAt(d)
	}
	return out
}

// Value returns the entry for the given values, one per table variable in order.
func (t *ProbabilityTable) Value(values ...any) (float64, error) {
	idx, err := t.Index(values...)
	if err != nil {
		return 0, err
	}
	return t.values[idx], nil
}

// GetValue returns the entry for an assignment covering every table variable.
// Assignments to variables outside the table are ignored.
func (t *ProbabilityTable) GetValue(assignments ...AssignmentProposition) (float64, error) {
	values, err := t.orderAssignments(assignments)
	if err != nil {
		return 0, err
	}
	return t.Value(values...)
}

func (t *ProbabilityTable) orderAssignments(assignments []AssignmentProposition) ([]any, error) {
	values := make([]any, len(t.variables))
	for i, rv := range t.variables {
		found := false
		for _, a := range assignments {
			if a.Variable == rv {
				values[i] = a.Value
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrMissingAssignment, rv.Name())
		}
	}
	return values, nil
}

// AddAt adds w to the entry at flat index i.
func (t *ProbabilityTable) AddAt(i int, w float64) {
	t.values[i] += w
}

// Sum returns the sum of all entries.
func (t *ProbabilityTable) Sum() float64 {
	sum := 0.0
	for _, v := range t.values {
		sum += v
	}
	return sum
}

// Normalize divides every entry by the table sum so entries sum to 1.
func (t *ProbabilityTable) Normalize() error {
	sum := t.Sum()
	if sum == 0 {
		return ErrZeroTotal
	}
	for i := range t.values {
		t.values[i] /= sum
	}
	return nil
}

// Add adds other into t element-wise. Both tables must range over the same
// variables in the same order.
func (t *ProbabilityTable) Add(other *ProbabilityTable) error {
	if len(other.variables) != len(t.variables) {
		return fmt.Errorf("%w: %v and %v", ErrVariableMismatch, t.variables, other.variables)
	}
	for i, rv := range t.variables {
		if other.variables[i] != rv {
			return fmt.Errorf("%w: %v and %v", ErrVariableMismatch, t.variables, other.variables)
		}
	}
	for i, v := range other.values {
		t.values[i] += v
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *ProbabilityTable) Clone() *ProbabilityTable {
	c := &ProbabilityTable{
		variables: make([]*RandomVariable, len(t.variables)),
		radix:     t.radix,
		values:    make([]float64, len(t.values)),
	}
	copy(c.variables, t.variables)
	copy(c.values, t.values)
	return c
}

// Iterate calls fn for every entry in index order with the addressed values.
// The values slice is reused between calls.
func (t *ProbabilityTable) Iterate(fn func(values []any, p float64)) {
	digits := make([]int, len(t.variables))
	values := make([]any, len(t.variables))
	for idx, p := range t.values {
		digits = t.radix.Digits(idx, digits)
		for i, d := range digits {
			values[i] = t.variables[i].Domain().ValueAt(d)
		}
		fn(values, p)
	}
}

func (t *ProbabilityTable) String() string {
	var sb strings.Builder
	t.Iterate(func(values []any, p float64) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%s=%v", t.variables[i].Name(), v)
		}
		fmt.Fprintf(&sb, "P(%s) = %.6f\n", strings.Join(parts, ", "), p)
	})
	return sb.String()
}
