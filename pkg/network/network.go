package network

import (
	"fmt"
	"strings"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// BayesianNetwork is a DAG of nodes reachable from a set of root nodes,
// with a precomputed topological order and variable lookup tables.
// It is read-only after construction and safe for concurrent inference.
type BayesianNetwork struct {
	roots  []*Node
	nodes  []*Node
	order  []*domain.RandomVariable
	byVar  map[*domain.RandomVariable]*Node
	byName map[string]*domain.RandomVariable
}

// New builds a network from its root nodes.
//
// Every node connected to a root (through parent or child edges) joins the
// network; roots that were not declared are discovered along the way. The
// variables are then ordered with Kahn's algorithm. Construction fails on
// duplicate or non-root roots, variables shared between nodes, and cycles.
func New(roots ...*Node) (*BayesianNetwork, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNoRoots
	}

	declared := make(map[*Node]bool, len(roots))
	for i, r := range roots {
		if r == nil {
			return nil, fmt.Errorf("%w: root %d", domain.ErrNilVariable, i)
		}
		if declared[r] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateRoot, r.variable.Name())
		}
		if !r.IsRoot() {
			return nil, fmt.Errorf("%w: %s has %d parents", domain.ErrNotRoot, r.variable.Name(), len(r.parents))
		}
		declared[r] = true
	}

	// Phase 1: walk the graph, assigning each node an index.
	index := make(map[*Node]int)
	var walked []*Node
	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := index[n]; ok {
			continue
		}
		index[n] = len(walked)
		walked = append(walked, n)

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
		for i := len(n.parents) - 1; i >= 0; i-- {
			stack = append(stack, n.parents[i])
		}
	}

	// Phase 2: Kahn's algorithm over indices.
	parents := make([][]int, len(walked))
	for i, n := range walked {
		for _, p := range n.parents {
			parents[i] = append(parents[i], index[p])
		}
	}
	order, blocked, err := TopologicalSort(parents)
	if err != nil {
		names := make([]string, len(blocked))
		for i, b := range blocked {
			names[i] = walked[b].variable.Name()
		}
		return nil, fmt.Errorf("%w (unresolved: %s)", err, strings.Join(names, ", "))
	}

	bn := &BayesianNetwork{
		nodes:  make([]*Node, 0, len(walked)),
		order:  make([]*domain.RandomVariable, 0, len(walked)),
		byVar:  make(map[*domain.RandomVariable]*Node, len(walked)),
		byName: make(map[string]*domain.RandomVariable, len(walked)),
	}
	for _, i := range order {
		n := walked[i]
		rv := n.variable
		if other, dup := bn.byVar[rv]; dup {
			return nil, fmt.Errorf("%w: %s is owned by two nodes (%p, %p)", domain.ErrDuplicateVariable, rv.Name(), other, n)
		}
		if _, dup := bn.byName[rv.Name()]; dup {
			return nil, fmt.Errorf("%w: two variables are named %q", domain.ErrDuplicateVariable, rv.Name())
		}
		bn.nodes = append(bn.nodes, n)
		bn.order = append(bn.order, rv)
		bn.byVar[rv] = n
		bn.byName[rv.Name()] = rv
		if n.IsRoot() {
			bn.roots = append(bn.roots, n)
		}
	}
	return bn, nil
}

// VariablesInTopologicalOrder returns every variable exactly once, each after
// all of its parents.
func (bn *BayesianNetwork) VariablesInTopologicalOrder() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), bn.order...)
}

// Nodes returns the nodes in topological order.
func (bn *BayesianNetwork) Nodes() []*Node {
	return append([]*Node(nil), bn.nodes...)
}

// Roots returns every parentless node, declared or discovered, in topological order.
func (bn *BayesianNetwork) Roots() []*Node {
	return append([]*Node(nil), bn.roots...)
}

// Node returns the node owning rv. The boolean is false when rv is not in the network.
func (bn *BayesianNetwork) Node(rv *domain.RandomVariable) (*Node, bool) {
	n, ok := bn.byVar[rv]
	return n, ok
}

// Variable looks a variable up by name.
func (bn *BayesianNetwork) Variable(name string) (*domain.RandomVariable, bool) {
	rv, ok := bn.byName[name]
	return rv, ok
}

// Contains reports whether rv belongs to the network.
func (bn *BayesianNetwork) Contains(rv *domain.RandomVariable) bool {
	_, ok := bn.byVar[rv]
	return ok
}

// Size returns the number of variables.
func (bn *BayesianNetwork) Size() int {
	return len(bn.order)
}

// ValidateQuery checks that the query is non-empty, known to the network, and
// free of repeats.
func (bn *BayesianNetwork) ValidateQuery(query ...*domain.RandomVariable) error {
	if len(query) == 0 {
		return domain.ErrEmptyQuery
	}
	seen := make(map[*domain.RandomVariable]bool, len(query))
	for _, rv := range query {
		if rv == nil {
			return domain.ErrNilVariable
		}
		if !bn.Contains(rv) {
			return fmt.Errorf("%w: query %s", domain.ErrUnknownVariable, rv.Name())
		}
		if seen[rv] {
			return fmt.Errorf("%w: query %s", domain.ErrDuplicateVariable, rv.Name())
		}
		seen[rv] = true
	}
	return nil
}

// ValidateEvidence checks every assignment names a network variable with a
// value from its domain, and that no variable is assigned twice.
func (bn *BayesianNetwork) ValidateEvidence(evidence ...domain.AssignmentProposition) error {
	seen := make(map[*domain.RandomVariable]bool, len(evidence))
	for _, e := range evidence {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("evidence: %w", err)
		}
		if !bn.Contains(e.Variable) {
			return fmt.Errorf("%w: evidence %s", domain.ErrUnknownVariable, e.Variable.Name())
		}
		if seen[e.Variable] {
			return fmt.Errorf("%w: evidence %s", domain.ErrDuplicateVariable, e.Variable.Name())
		}
		seen[e.Variable] = true
	}
	return nil
}
