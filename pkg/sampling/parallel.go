package sampling

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Parallel splits a run across independent samplers and merges their raw
// counts. Each worker gets its own Randomizer from the factory; the merged
// table is normalized exactly once.
//
// Results depend on the factory's seeds and the worker count, not on goroutine
// scheduling: partial tables are summed in worker order.
type Parallel struct {
	algorithm   Algorithm
	randomizers RandomizerFactory
	workers     int
	opts        []Option
	cfg         config
}

// NewParallel runs algorithm on up to workers goroutines. Options are applied
// both to every worker sampler and to the merged run; the observer and logger
// see only the merged run. A sample hook is called from every worker and must
// be safe for concurrent use.
func NewParallel(algorithm Algorithm, randomizers RandomizerFactory, workers int, opts ...Option) (*Parallel, error) {
	if _, err := New(algorithm, NewCycle(0), opts...); err != nil {
		return nil, err
	}
	if randomizers == nil {
		return nil, fmt.Errorf("parallel %s: nil randomizer factory", algorithm)
	}
	return &Parallel{
		algorithm:   algorithm,
		randomizers: randomizers,
		workers:     max(workers, 1),
		opts:        opts,
		cfg:         newConfig(opts),
	}, nil
}

// Algorithm returns the wrapped algorithm's name.
func (p *Parallel) Algorithm() Algorithm {
	return p.algorithm
}

// Ask runs AskContext with a background context.
func (p *Parallel) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	return p.AskContext(context.Background(), query, evidence, bn, n)
}

// AskContext returns the normalized estimate from n samples split across the
// workers. Each worker polls ctx while sampling and the run fails with
// ctx.Err() once it is done.
func (p *Parallel) AskContext(ctx context.Context, query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	start := time.Now()
	counts, stats, err := p.TallyContext(ctx, query, evidence, bn, n)
	if err == nil {
		err = normalize(counts)
	}
	stats.Duration = time.Since(start)
	stats.Err = err
	p.cfg.report(stats)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Tally runs TallyContext with a background context.
func (p *Parallel) Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	return p.TallyContext(context.Background(), query, evidence, bn, n)
}

// TallyContext returns the element-wise sum of every worker's raw counts.
func (p *Parallel) TallyContext(ctx context.Context, query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error) {
	stats := Stats{Algorithm: p.algorithm, Requested: n}
	if err := validate(query, evidence, bn, n); err != nil {
		return nil, stats, err
	}

	workers := min(p.workers, n)
	type partial struct {
		counts *domain.ProbabilityTable
		stats  Stats
	}
	parts := make([]partial, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		share := n / workers
		if w < n%workers {
			share++
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Observers and loggers see only the merged run.
			opts := append(append([]Option(nil), p.opts...), WithObserver(nil), WithLogger(nil), WithContext(ctx))
			s, err := New(p.algorithm, p.randomizers(w), opts...)
			if err != nil {
				return err
			}
			counts, st, err := s.Tally(query, evidence, bn, share)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			parts[w] = partial{counts: counts, stats: st}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	merged := parts[0].counts.Clone()
	stats.Requested = 0
	stats.Merge(parts[0].stats)
	for _, part := range parts[1:] {
		if err := merged.Add(part.counts); err != nil {
			return nil, stats, err
		}
		stats.Merge(part.stats)
	}
	stats.Workers = workers
	return merged, stats, nil
}
