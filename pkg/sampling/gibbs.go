package sampling

import (
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Gibbs estimates P(query | evidence) with a Markov chain over the
// non-evidence variables. Each sweep resamples every non-evidence variable, in
// topological order, from its distribution given its Markov blanket; the query
// values are counted once per sweep.
//
// By default every sweep is counted, starting from a uniformly random initial
// state. WithBurnIn discards a prefix of sweeps instead.
type Gibbs struct {
	r   Randomizer
	cfg config
}

// NewGibbs returns a Gibbs sampler drawing from r.
func NewGibbs(r Randomizer, opts ...Option) *Gibbs {
	return &Gibbs{r: r, cfg: newConfig(opts)}
}

// Algorithm returns AlgorithmGibbs.
func (g *Gibbs) Algorithm() Algorithm {
	return AlgorithmGibbs
}

// Ask returns the normalized estimate from n counted sweeps.
func (g *Gibbs) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return ask(g, &g.cfg, query, evidence, bn, n)
}

// Tally runs the configured burn-in followed by n counted sweeps.
func (g *Gibbs) Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	stats := Stats{Algorithm: AlgorithmGibbs, Requested: n}
	if err := validate(query, evidence, bn, n); err != nil {
		return nil, stats, err
	}
	counts, err := domain.NewZeroTable(query...)
	if err != nil {
		return nil, stats, err
	}

	start := time.Now()
	ev := fixed(evidence)
	order := bn.VariablesInTopologicalOrder()
	state := make(map[*domain.RandomVariable]any, len(order))

	var free []*network.Node
	for _, node := range bn.Nodes() {
		rv := node.RandomVariable()
		if v, ok := ev[rv]; ok {
			state[rv] = v
			continue
		}
		d := rv.Domain()
		state[rv] = d.ValueAt(g.r.IntN(d.Size()))
		free = append(free, node)
	}

	blankets := make([][]*network.Node, len(free))
	for i, node := range free {
		blankets[i] = childFactors(node)
	}

	row := make([]float64, 0, 8)
	for sweep := range g.cfg.burnIn + n {
		if err := g.cfg.interrupted(sweep); err != nil {
			return nil, stats, err
		}
		for i, node := range free {
			row, err = g.resample(node, blankets[i], state, row)
			if err != nil {
				return nil, stats, err
			}
		}

		if sweep < g.cfg.burnIn {
			stats.BurnIn++
			g.cfg.emit(order, state, 0)
			continue
		}
		if err := count(counts, query, state, 1); err != nil {
			return nil, stats, err
		}
		stats.Generated++
		stats.Accepted++
		stats.TotalWeight++
		g.cfg.emit(order, state, 1)
	}
	stats.Duration = time.Since(start)
	return counts, stats, nil
}

// childFactors returns the members of n's Markov blanket whose CPTs mention
// n. Together with n's own CPT they are every factor that varies with n, and
// they read no variable outside the blanket.
func childFactors(n *network.Node) []*network.Node {
	var out []*network.Node
	for _, m := range n.MarkovBlanket() {
		if slices.Contains(m.Parents(), n) {
			out = append(out, m)
		}
	}
	return out
}

// resample draws a new value for node from
// P(x | mb(node)) ∝ P(x | parents) · Π_children P(child | its parents),
// which only reads the node's Markov blanket from state.
func (g *Gibbs) resample(node *network.Node, children []*network.Node, state map[*domain.RandomVariable]any, row []float64) ([]float64, error) {
	rv := node.RandomVariable()
	d := rv.Domain()
	row = row[:0]
	total := 0.0
	for i := range d.Size() {
		state[rv] = d.ValueAt(i)
		p, err := likelihood(node, state)
		if err != nil {
			return row, err
		}
		for _, c := range children {
			if p == 0 {
				break
			}
			pc, err := likelihood(c, state)
			if err != nil {
				return row, err
			}
			p *= pc
		}
		row = append(row, p)
		total += p
	}
	if total == 0 {
		return row, fmt.Errorf("%w: %s has zero mass given its Markov blanket", domain.ErrChainStuck, rv.Name())
	}

	choice := g.r.Float64() * total
	state[rv] = network.SampleRow(d, row, choice)
	return row, nil
}
