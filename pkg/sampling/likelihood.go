package sampling

import (
	"fmt"
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// LikelihoodWeighting estimates P(query | evidence) by fixing the evidence
// variables and weighting each sample by the likelihood of the evidence given
// its sampled parents. No sample is discarded.
type LikelihoodWeighting struct {
	r   Randomizer
	cfg config
}

// NewLikelihoodWeighting returns a likelihood-weighting sampler drawing from r.
func NewLikelihoodWeighting(r Randomizer, opts ...Option) *LikelihoodWeighting {
	return &LikelihoodWeighting{r: r, cfg: newConfig(opts)}
}

// Algorithm returns AlgorithmLikelihoodWeighting.
func (lw *LikelihoodWeighting) Algorithm() Algorithm {
	return AlgorithmLikelihoodWeighting
}

// Ask returns the normalized estimate. It fails with domain.ErrNoEvidenceSupport
// when every sample carried zero weight.
func (lw *LikelihoodWeighting) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return ask(lw, &lw.cfg, query, evidence, bn, n)
}

// WeightedSample generates one event consistent with the evidence and its weight.
func (lw *LikelihoodWeighting) WeightedSample(bn *network.BayesianNetwork, evidence ...domain.AssignmentProposition) (domain.Event, float64, error) {
	if bn == nil {
		return domain.Event{}, 0, domain.ErrNilNetwork
	}
	if err := bn.ValidateEvidence(evidence...); err != nil {
		return domain.Event{}, 0, err
	}
	nodes := bn.Nodes()
	state := make(map[*domain.RandomVariable]any, len(nodes))
	w, err := lw.weighted(nodes, fixed(evidence), state)
	if err != nil {
		return domain.Event{}, 0, err
	}
	return domain.EventOf(bn.VariablesInTopologicalOrder(), state), w, nil
}

func (lw *LikelihoodWeighting) weighted(nodes []*network.Node, evidence map[*domain.RandomVariable]any, state map[*domain.RandomVariable]any) (float64, error) {
	w := 1.0
	for _, n := range nodes {
		rv := n.RandomVariable()
		if v, ok := evidence[rv]; ok {
			state[rv] = v
			p, err := likelihood(n, state)
			if err != nil {
				return 0, fmt.Errorf("weight %s: %w", rv.Name(), err)
			}
			w *= p
			continue
		}
		v, err := draw(n, state, lw.r)
		if err != nil {
			return 0, fmt.Errorf("sample %s: %w", rv.Name(), err)
		}
		state[rv] = v
	}
	return w, nil
}

// Tally adds each sample's weight to the bucket of its query values.
func (lw *LikelihoodWeighting) Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	stats := Stats{Algorithm: AlgorithmLikelihoodWeighting, Requested: n}
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
	ev := fixed(evidence)
	state := make(map[*domain.RandomVariable]any, len(nodes))
	for i := range n {
		if err := lw.cfg.interrupted(i); err != nil {
			return nil, stats, err
		}
		w, err := lw.weighted(nodes, ev, state)
		if err != nil {
			return nil, stats, err
		}
		if err := count(counts, query, state, w); err != nil {
			return nil, stats, err
		}
		stats.Generated++
		stats.Accepted++
		stats.TotalWeight += w
		lw.cfg.emit(order, state, w)
	}
	stats.Duration = time.Since(start)
	return counts, stats, nil
}

func fixed(evidence []domain.AssignmentProposition) map[*domain.RandomVariable]any {
	m := make(map[*domain.RandomVariable]any, len(evidence))
	for _, e := range evidence {
		m[e.Variable] = e.Value
	}
	return m
}
