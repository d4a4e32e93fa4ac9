package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Builder manages the network construction.
type Builder struct {
	vars  map[string]*VariableBuilder
	order []string
}

// New creates a new network builder.
func New() *Builder {
	return &Builder{
		vars: make(map[string]*VariableBuilder),
	}
}

// Boolean declares a variable over {true, false}.
// If the variable already exists, it returns the existing builder.
func (b *Builder) Boolean(name string) *VariableBuilder {
	vb := b.add(name)
	if vb.values == nil {
		vb.boolean = true
	}
	return vb
}

// Variable declares a variable over the given values, in domain order.
// If the variable already exists, it returns the existing builder.
func (b *Builder) Variable(name string, values ...any) *VariableBuilder {
	vb := b.add(name)
	if !vb.boolean && vb.values == nil {
		vb.values = append([]any(nil), values...)
	}
	return vb
}

func (b *Builder) add(name string) *VariableBuilder {
	if vb, ok := b.vars[name]; ok {
		return vb
	}
	vb := &VariableBuilder{name: name, builder: b}
	b.vars[name] = vb
	b.order = append(b.order, name)
	return vb
}

// Build compiles the declarations into a network.
func (b *Builder) Build() (*network.BayesianNetwork, error) {
	bn, _, err := b.build(nil)
	return bn, err
}

// build creates the network. Variables named in shared are reused instead of
// created, so two networks can be defined over the same variables.
func (b *Builder) build(shared map[string]*domain.RandomVariable) (*network.BayesianNetwork, map[string]*domain.RandomVariable, error) {
	if len(b.order) == 0 {
		return nil, nil, domain.ErrNoRoots
	}

	// Phase 1: declare every variable.
	vars := make(map[string]*domain.RandomVariable, len(b.order))
	var errs []error
	for _, name := range b.order {
		rv, err := b.vars[name].variable(shared)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vars[name] = rv
	}

	index := make(map[string]int, len(b.order))
	for i, name := range b.order {
		index[name] = i
	}
	parents := make([][]int, len(b.order))
	for i, name := range b.order {
		for _, p := range b.vars[name].parents {
			j, ok := index[p]
			if !ok {
				errs = append(errs, fmt.Errorf("variable %q: parent %q: %w", name, p, domain.ErrUnknownVariable))
				continue
			}
			parents[i] = append(parents[i], j)
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	// Phase 2: create nodes parents-first.
	order, blocked, err := network.TopologicalSort(parents)
	if err != nil {
		names := make([]string, len(blocked))
		for i, k := range blocked {
			names[i] = b.order[k]
		}
		return nil, nil, fmt.Errorf("%w: %v", err, names)
	}

	nodes := make(map[string]*network.Node, len(order))
	var roots []*network.Node
	for _, i := range order {
		vb := b.vars[b.order[i]]
		ps := make([]*network.Node, len(vb.parents))
		for k, p := range vb.parents {
			ps[k] = nodes[p]
		}
		n, err := network.NewNode(vars[vb.name], vb.probs, ps...)
		if err != nil {
			return nil, nil, fmt.Errorf("variable %q: %w", vb.name, err)
		}
		nodes[vb.name] = n
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}

	bn, err := network.New(roots...)
	if err != nil {
		return nil, nil, err
	}
	return bn, vars, nil
}

func (v *VariableBuilder) variable(shared map[string]*domain.RandomVariable) (*domain.RandomVariable, error) {
	var d *domain.FiniteDomain
	if v.boolean {
		d = domain.NewBooleanDomain()
	} else {
		var err error
		d, err = domain.NewFiniteDomain(v.values...)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.name, err)
		}
	}

	if rv, ok := shared[v.name]; ok {
		if rv.Domain().String() != d.String() {
			return nil, fmt.Errorf("variable %q: domain %s differs from shared %s: %w", v.name, d, rv.Domain(), domain.ErrDuplicateVariable)
		}
		return rv, nil
	}
	rv, err := domain.NewRandomVariable(v.name, d)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", v.name, err)
	}
	return rv, nil
}

// TimeSlices declares the two-slice structure of a dynamic network.
type TimeSlices struct {
	// Transitions maps each prior-slice variable name to its current-slice name.
	Transitions map[string]string
	// Evidence lists the current-slice evidence variable names.
	Evidence []string
	// Prior declares the distribution over the prior-slice variables.
	Prior *Builder
}

// BuildDynamic compiles the declarations into a dynamic network. The
// receiver declares the transition model over both slices; the prior network
// reuses its prior-slice variables.
func (b *Builder) BuildDynamic(slices TimeSlices) (*network.DynamicBayesianNetwork, error) {
	if slices.Prior == nil {
		return nil, fmt.Errorf("prior: %w", domain.ErrNilNetwork)
	}
	transition, vars, err := b.build(nil)
	if err != nil {
		return nil, fmt.Errorf("transition model: %w", err)
	}
	prior, _, err := slices.Prior.build(vars)
	if err != nil {
		return nil, fmt.Errorf("prior: %w", err)
	}

	var errs []error
	lookup := func(name string) *domain.RandomVariable {
		rv, ok := vars[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%q: %w", name, domain.ErrUnknownVariable))
		}
		return rv
	}
	mapping := make(map[*domain.RandomVariable]*domain.RandomVariable, len(slices.Transitions))
	for x0, x1 := range slices.Transitions {
		from, to := lookup(x0), lookup(x1)
		if from != nil && to != nil {
			mapping[from] = to
		}
	}
	e1 := make([]*domain.RandomVariable, 0, len(slices.Evidence))
	for _, name := range slices.Evidence {
		if rv := lookup(name); rv != nil {
			e1 = append(e1, rv)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return network.NewDynamic(prior, mapping, e1, transition.Roots()...)
}
