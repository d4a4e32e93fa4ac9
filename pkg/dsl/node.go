package dsl

// VariableBuilder provides a fluent API for configuring one variable.
type VariableBuilder struct {
	name    string
	values  []any
	boolean bool
	parents []string
	probs   []float64
	builder *Builder
}

// Given sets the parents, by name, in CPT order.
func (v *VariableBuilder) Given(parents ...string) *VariableBuilder {
	v.parents = append([]string(nil), parents...)
	return v
}

// Probs sets the flat CPT entries: one row per parent combination (last
// parent varying fastest), each row listing the variable's values in domain order.
func (v *VariableBuilder) Probs(values ...float64) *VariableBuilder {
	v.probs = append([]float64(nil), values...)
	return v
}

// Name returns the variable name.
func (v *VariableBuilder) Name() string {
	return v.name
}
