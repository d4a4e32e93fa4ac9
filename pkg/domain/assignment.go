package domain

import (
	"fmt"
	"strings"
)

// AssignmentProposition states that a variable takes a specific value.
type AssignmentProposition struct {
	Variable *RandomVariable
	Value    any
}

// Assign is shorthand for building an AssignmentProposition.
func Assign(rv *RandomVariable, value any) AssignmentProposition {
	return AssignmentProposition{Variable: rv, Value: value}
}

// Validate checks that the variable is present and the value belongs to its domain.
func (a AssignmentProposition) Validate() error {
	if a.Variable == nil {
		return ErrNilVariable
	}
	if !a.Variable.Domain().Contains(a.Value) {
		return fmt.Errorf("%w: %s=%v, domain %s", ErrValueOutOfDomain, a.Variable.Name(), a.Value, a.Variable.Domain())
	}
	return nil
}

func (a AssignmentProposition) String() string {
	return fmt.Sprintf("%s=%v", a.Variable, a.Value)
}

// Event is an immutable mapping from variables to values.
// It is used both as a sampled state and as a partial assignment.
type Event struct {
	order  []*RandomVariable
	values map[*RandomVariable]any
}

// NewEvent builds an event from assignments. A later assignment to the same variable
// replaces the earlier one.
func NewEvent(assignments ...AssignmentProposition) Event {
	e := Event{values: make(map[*RandomVariable]any, len(assignments))}
	for _, a := range assignments {
		if _, seen := e.values[a.Variable]; !seen {
			e.order = append(e.order, a.Variable)
		}
		e.values[a.Variable] = a.Value
	}
	return e
}

// EventOf copies the values of the listed variables out of a working state map.
// Variables absent from the map are skipped.
func EventOf(order []*RandomVariable, state map[*RandomVariable]any) Event {
	e := Event{values: make(map[*RandomVariable]any, len(order))}
	for _, rv := range order {
		v, ok := state[rv]
		if !ok {
			continue
		}
		e.order = append(e.order, rv)
		e.values[rv] = v
	}
	return e
}

// With returns a copy of the event with rv set to value.
func (e Event) With(rv *RandomVariable, value any) Event {
	next := Event{
		order:  make([]*RandomVariable, len(e.order), len(e.order)+1),
		values: make(map[*RandomVariable]any, len(e.values)+1),
	}
	copy(next.order, e.order)
	for k, v := range e.values {
		next.values[k] = v
	}
	if _, seen := next.values[rv]; !seen {
		next.order = append(next.order, rv)
	}
	next.values[rv] = value
	return next
}

// Value returns the value assigned to rv.
func (e Event) Value(rv *RandomVariable) (any, bool) {
	v, ok := e.values[rv]
	return v, ok
}

// Len returns the number of assigned variables.
func (e Event) Len() int {
	return len(e.order)
}

// Variables returns the assigned variables in insertion order.
func (e Event) Variables() []*RandomVariable {
	out := make([]*RandomVariable, len(e.order))
	copy(out, e.order)
	return out
}

// Assignments returns the event as a list of propositions in insertion order.
func (e Event) Assignments() []AssignmentProposition {
	out := make([]AssignmentProposition, len(e.order))
	for i, rv := range e.order {
		out[i] = Assign(rv, e.values[rv])
	}
	return out
}

// Holds reports whether every proposition agrees with the event.
// A proposition about a variable the event does not assign does not hold.
func (e Event) Holds(props ...AssignmentProposition) bool {
	for _, p := range props {
		v, ok := e.values[p.Variable]
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}

func (e Event) String() string {
	parts := make([]string, len(e.order))
	for i, rv := range e.order {
		parts[i] = fmt.Sprintf("%s=%v", rv.Name(), e.values[rv])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
