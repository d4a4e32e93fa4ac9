package domain

import (
	"fmt"
	"reflect"
	"strings"
)

// FiniteDomain is an ordered, immutable set of values a random variable can take.
// The position of a value in the domain is its digit in mixed-radix table indexing.
type FiniteDomain struct {
	values []any
	offset map[any]int
}

// NewFiniteDomain creates a domain over the given values, in order.
// Values must be comparable and distinct.
func NewFiniteDomain(values ...any) (*FiniteDomain, error) {
	if len(values) == 0 {
		return nil, ErrEmptyDomain
	}

	d := &FiniteDomain{
		values: make([]any, len(values)),
		offset: make(map[any]int, len(values)),
	}
	for i, v := range values {
		if v == nil || !reflect.TypeOf(v).Comparable() {
			return nil, fmt.Errorf("%w: %v (position %d)", ErrNotComparable, v, i)
		}
		if _, dup := d.offset[v]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateValue, v)
		}
		d.values[i] = v
		d.offset[v] = i
	}
	return d, nil
}

// NewBooleanDomain returns the domain {true, false}.
func NewBooleanDomain() *FiniteDomain {
	d, _ := NewFiniteDomain(true, false)
	return d
}

// Size returns the number of values in the domain.
func (d *FiniteDomain) Size() int {
	return len(d.values)
}

// Values returns a copy of the domain values in order.
func (d *FiniteDomain) Values() []any {
	out := make([]any, len(d.values))
	copy(out, d.values)
	return out
}

// ValueAt returns the value at position i.
func (d *FiniteDomain) ValueAt(i int) any {
	return d.values[i]
}

// Offset returns the position of v in the domain.
func (d *FiniteDomain) Offset(v any) (int, bool) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return 0, false
	}
	i, ok := d.offset[v]
	return i, ok
}

// Contains reports whether v is a value of the domain.
func (d *FiniteDomain) Contains(v any) bool {
	_, ok := d.Offset(v)
	return ok
}

// Parse resolves a textual value to the domain value whose default formatting matches it.
// Matching is case-insensitive so "TRUE" resolves to true in a boolean domain.
func (d *FiniteDomain) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	for _, v := range d.values {
		if strings.EqualFold(fmt.Sprint(v), s) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrValueOutOfDomain, s)
}

// String renders the domain as {v1, v2, ...}.
func (d *FiniteDomain) String() string {
	parts := make([]string, len(d.values))
	for i, v := range d.values {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RandomVariable is a named variable over a finite domain.
// It is immutable once created and shared by pointer across nodes, tables and evidence.
type RandomVariable struct {
	name   string
	domain *FiniteDomain
}

// NewRandomVariable creates a random variable.
func NewRandomVariable(name string, d *FiniteDomain) (*RandomVariable, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if d == nil {
		return nil, fmt.Errorf("%w: variable %q", ErrEmptyDomain, name)
	}
	return &RandomVariable{name: name, domain: d}, nil
}

// NewBooleanVariable creates a random variable over {true, false}.
func NewBooleanVariable(name string) (*RandomVariable, error) {
	return NewRandomVariable(name, NewBooleanDomain())
}

// MustBooleanVariable is like NewBooleanVariable but panics on an empty name.
// It simplifies declaring package-level example variables.
func MustBooleanVariable(name string) *RandomVariable {
	rv, err := NewBooleanVariable(name)
	if err != nil {
		panic(err)
	}
	return rv
}

// Name returns the variable name.
func (rv *RandomVariable) Name() string {
	return rv.name
}

// Domain returns the variable's domain.
func (rv *RandomVariable) Domain() *FiniteDomain {
	return rv.domain
}

func (rv *RandomVariable) String() string {
	if rv == nil {
		return "<nil>"
	}
	return rv.name
}
