package network

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// DynamicBayesianNetwork is a two-slice network: the prior-slice placeholders
// X0, the current-slice state X1 and the current-slice evidence E1, all in one
// DAG, plus the prior distribution over X0 and the X0 <-> X1 bijection.
type DynamicBayesianNetwork struct {
	*BayesianNetwork

	prior  *BayesianNetwork
	x0     []*domain.RandomVariable
	x1     []*domain.RandomVariable
	e1     []*domain.RandomVariable
	x0ToX1 map[*domain.RandomVariable]*domain.RandomVariable
	x1ToX0 map[*domain.RandomVariable]*domain.RandomVariable
	x1Topo []*domain.RandomVariable
}

// NewDynamic builds the transition network from roots and checks that X0
// (the keys of x0ToX1), X1 (its values) and e1 partition the network's
// variables exactly. The prior network must be defined over X0.
//
// Every partition problem is reported, joined into one error whose parts wrap
// domain.ErrPartitionMismatch.
func NewDynamic(prior *BayesianNetwork, x0ToX1 map[*domain.RandomVariable]*domain.RandomVariable, e1 []*domain.RandomVariable, roots ...*Node) (*DynamicBayesianNetwork, error) {
	if prior == nil {
		return nil, domain.ErrNilNetwork
	}
	bn, err := New(roots...)
	if err != nil {
		return nil, err
	}

	d := &DynamicBayesianNetwork{
		BayesianNetwork: bn,
		prior:           prior,
		x0ToX1:          make(map[*domain.RandomVariable]*domain.RandomVariable, len(x0ToX1)),
		x1ToX0:          make(map[*domain.RandomVariable]*domain.RandomVariable, len(x0ToX1)),
	}

	var errs []error
	mismatch := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrPartitionMismatch}, args...)...))
	}

	role := make(map[*domain.RandomVariable]string, bn.Size())
	claim := func(rv *domain.RandomVariable, as string) bool {
		if rv == nil {
			mismatch("nil variable in %s", as)
			return false
		}
		if !bn.Contains(rv) {
			mismatch("%s member %s is not in the network", as, rv.Name())
			return false
		}
		if prev, ok := role[rv]; ok {
			mismatch("%s is in both %s and %s", rv.Name(), prev, as)
			return false
		}
		role[rv] = as
		return true
	}

	// Walk in topological order so X0 and X1 come out deterministic.
	for _, rv := range bn.order {
		x1, ok := x0ToX1[rv]
		if !ok {
			continue
		}
		if !claim(rv, "X0") || !claim(x1, "X1") {
			continue
		}
		d.x0ToX1[rv] = x1
		d.x1ToX0[x1] = rv
		d.x0 = append(d.x0, rv)
	}
	var strays []*domain.RandomVariable
	for x0 := range x0ToX1 {
		if !bn.Contains(x0) {
			strays = append(strays, x0)
		}
	}
	slices.SortFunc(strays, func(a, b *domain.RandomVariable) int {
		return strings.Compare(varName(a), varName(b))
	})
	for _, x0 := range strays {
		claim(x0, "X0")
	}
	for _, rv := range e1 {
		if claim(rv, "E1") {
			d.e1 = append(d.e1, rv)
		}
	}

	for _, rv := range bn.order {
		switch role[rv] {
		case "":
			mismatch("%s is in none of X0, X1, E1", rv.Name())
		case "X1":
			d.x1 = append(d.x1, rv)
			d.x1Topo = append(d.x1Topo, rv)
		}
	}

	for _, rv := range d.x0 {
		if !prior.Contains(rv) {
			mismatch("X0 member %s is missing from the prior network", rv.Name())
		}
	}
	for _, rv := range prior.order {
		if role[rv] != "X0" {
			mismatch("prior variable %s is not in X0", rv.Name())
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return d, nil
}

func varName(rv *domain.RandomVariable) string {
	if rv == nil {
		return ""
	}
	return rv.Name()
}

// Prior returns the network over X0.
func (d *DynamicBayesianNetwork) Prior() *BayesianNetwork {
	return d.prior
}

// X0 returns the prior-slice variables in topological order.
func (d *DynamicBayesianNetwork) X0() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), d.x0...)
}

// X1 returns the current-slice state variables in topological order.
func (d *DynamicBayesianNetwork) X1() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), d.x1...)
}

// E1 returns the evidence variables in declaration order.
func (d *DynamicBayesianNetwork) E1() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), d.e1...)
}

// X0ToX1 returns a copy of the prior-to-current mapping.
func (d *DynamicBayesianNetwork) X0ToX1() map[*domain.RandomVariable]*domain.RandomVariable {
	out := make(map[*domain.RandomVariable]*domain.RandomVariable, len(d.x0ToX1))
	for k, v := range d.x0ToX1 {
		out[k] = v
	}
	return out
}

// X1ToX0 returns a copy of the current-to-prior mapping.
func (d *DynamicBayesianNetwork) X1ToX0() map[*domain.RandomVariable]*domain.RandomVariable {
	out := make(map[*domain.RandomVariable]*domain.RandomVariable, len(d.x1ToX0))
	for k, v := range d.x1ToX0 {
		out[k] = v
	}
	return out
}

// X1VariablesInTopologicalOrder is the network's topological order with X0
// and E1 removed: the variables a filter resamples at every time step.
func (d *DynamicBayesianNetwork) X1VariablesInTopologicalOrder() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), d.x1Topo...)
}
