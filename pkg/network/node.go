package network

import (
	"fmt"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// Node is a vertex of a Bayesian network: one random variable, its parents,
// and its conditional probability table.
//
// Parents are fixed at construction. Children are a derived back-reference
// index: a node gains a child only when a later node declares it as a parent.
// Building nodes is not safe for concurrent use on shared parents; once the
// network is built, nodes are read-only.
type Node struct {
	variable *domain.RandomVariable
	parents  []*Node
	children []*Node
	cpt      *CPT
}

// NewNode creates a node for rv with a full CPT over its parents.
// values follow the CPT layout: parent combinations in order of parents,
// with rv's own value varying fastest.
func NewNode(rv *domain.RandomVariable, values []float64, parents ...*Node) (*Node, error) {
	if rv == nil {
		return nil, domain.ErrNilVariable
	}

	parentVars := make([]*domain.RandomVariable, len(parents))
	seen := make(map[*Node]bool, len(parents))
	for i, p := range parents {
		if p == nil {
			return nil, fmt.Errorf("%w: parent %d of %s", domain.ErrNilVariable, i, rv.Name())
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: %s lists %s twice", domain.ErrDuplicateParent, rv.Name(), p.variable.Name())
		}
		seen[p] = true
		parentVars[i] = p.variable
	}

	cpt, err := NewCPT(rv, values, parentVars...)
	if err != nil {
		return nil, err
	}

	n := &Node{
		variable: rv,
		parents:  append([]*Node(nil), parents...),
		cpt:      cpt,
	}
	for _, p := range parents {
		p.children = append(p.children, n)
	}
	return n, nil
}

// RandomVariable returns the node's variable.
func (n *Node) RandomVariable() *domain.RandomVariable {
	return n.variable
}

// Parents returns the node's direct parents in declaration order.
func (n *Node) Parents() []*Node {
	return append([]*Node(nil), n.parents...)
}

// Children returns the nodes that declared n as a parent, in creation order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// IsRoot reports whether the node has no parents.
func (n *Node) IsRoot() bool {
	return len(n.parents) == 0
}

// CPD returns the node's conditional distribution.
func (n *Node) CPD() *CPT {
	return n.cpt
}

// MarkovBlanket returns the parents, the children, and the children's other
// parents, without n itself and without duplicates.
func (n *Node) MarkovBlanket() []*Node {
	seen := map[*Node]bool{n: true}
	var blanket []*Node
	add := func(m *Node) {
		if !seen[m] {
			seen[m] = true
			blanket = append(blanket, m)
		}
	}

	for _, p := range n.parents {
		add(p)
	}
	for _, c := range n.children {
		add(c)
	}
	for _, c := range n.children {
		for _, cp := range c.parents {
			add(cp)
		}
	}
	return blanket
}

func (n *Node) String() string {
	return n.variable.Name()
}
