package sampling

import (
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// RejectionSampling estimates P(query | evidence) by drawing prior samples and
// counting only those that agree with the evidence.
type RejectionSampling struct {
	prior *PriorSample
	cfg   config
}

// NewRejectionSampling returns a rejection sampler drawing from r.
func NewRejectionSampling(r Randomizer, opts ...Option) *RejectionSampling {
	return &RejectionSampling{prior: NewPriorSample(r), cfg: newConfig(opts)}
}

// Algorithm returns AlgorithmRejection.
func (rs *RejectionSampling) Algorithm() Algorithm {
	return AlgorithmRejection
}

// Ask returns the normalized estimate. It fails with domain.ErrNoEvidenceSupport
// when every sample was rejected.
func (rs *RejectionSampling) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return ask(rs, &rs.cfg, query, evidence, bn, n)
}

// Tally draws n prior samples and counts the accepted ones. A run where every
// sample is rejected returns an all-zero table.
func (rs *RejectionSampling) Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	stats := Stats{Algorithm: AlgorithmRejection, Requested: n}
	if err := validate(query, evidence, bn, n); err != nil {
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
		if err := rs.cfg.interrupted(i); err != nil {
			return nil, stats, err
		}
		if err := rs.prior.fill(nodes, state); err != nil {
			return nil, stats, err
		}
		stats.Generated++

		event := domain.EventOf(order, state)
		if !event.Holds(evidence...) {
			stats.Rejected++
			if rs.cfg.hook != nil {
				rs.cfg.hook(event, 0)
			}
			continue
		}
		if err := count(counts, query, state, 1); err != nil {
			return nil, stats, err
		}
		stats.Accepted++
		stats.TotalWeight++
		if rs.cfg.hook != nil {
			rs.cfg.hook(event, 1)
		}
	}
	stats.Duration = time.Since(start)
	return counts, stats, nil
}
