package sampling

import (
	"fmt"
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// PriorSample generates events from a network's joint distribution with no
// evidence, sampling each variable in topological order from its CPT row.
type PriorSample struct {
	r   Randomizer
	cfg config
}

// NewPriorSample returns a prior sampler drawing from r.
func NewPriorSample(r Randomizer, opts ...Option) *PriorSample {
	return &PriorSample{r: r, cfg: newConfig(opts)}
}

// Algorithm returns AlgorithmPrior.
func (ps *PriorSample) Algorithm() Algorithm {
	return AlgorithmPrior
}

// Sample draws one complete event.
func (ps *PriorSample) Sample(bn *network.BayesianNetwork) (domain.Event, error) {
	if bn == nil {
		return domain.Event{}, domain.ErrNilNetwork
	}
	nodes := bn.Nodes()
	state := make(map[*domain.RandomVariable]any, len(nodes))
	if err := ps.fill(nodes, state); err != nil {
		return domain.Event{}, err
	}
	return domain.EventOf(bn.VariablesInTopologicalOrder(), state), nil
}

// fill assigns every node in nodes, which must be topologically ordered.
func (ps *PriorSample) fill(nodes []*network.Node, state map[*domain.RandomVariable]any) error {
	for _, n := range nodes {
		v, err := draw(n, state, ps.r)
		if err != nil {
			return fmt.Errorf("sample %s: %w", n.RandomVariable().Name(), err)
		}
		state[n.RandomVariable()] = v
	}
	return nil
}

// Marginal estimates the joint marginal of query from n unconditioned samples.
func (ps *PriorSample) Marginal(query []*domain.RandomVariable, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return ps.Ask(query, nil, bn, n)
}

// Ask estimates the marginal of query. Prior sampling cannot condition, so
// any evidence is refused with domain.ErrEvidenceNotSupported.
func (ps *PriorSample) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return ask(ps, &ps.cfg, query, evidence, bn, n)
}

// Tally counts the query values of n prior samples.
func (ps *PriorSample) Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	stats := Stats{Algorithm: AlgorithmPrior, Requested: n}
	if len(evidence) > 0 {
		return nil, stats, fmt.Errorf("%w: use rejection sampling, likelihood weighting or gibbs", domain.ErrEvidenceNotSupported)
	}
	if err := validate(query, nil, bn, n); err != nil {
		return nil, stats, err
	}
	counts, err := domain.NewZeroTable(query...)
	if err != nil {
		return nil, stats, err
	}

	start := time.Now()
	nodes := bn.Nodes()
	order := bn.VariablesInTopologicalOrder()
	state := make(map[*domain.RandomVariable]any, len(nodes))
	for i := range n {
		if err := ps.cfg.interrupted(i); err != nil {
			return nil, stats, err
		}
		if err := ps.fill(nodes, state); err != nil {
			return nil, stats, err
		}
		if err := count(counts, query, state, 1); err != nil {
			return nil, stats, err
		}
		stats.Generated++
		stats.Accepted++
		stats.TotalWeight++
		ps.cfg.emit(order, state, 1)
	}
	stats.Duration = time.Since(start)
	return counts, stats, nil
}
