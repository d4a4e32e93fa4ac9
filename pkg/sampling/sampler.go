package sampling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Algorithm names an inference algorithm.
type Algorithm string

const (
	AlgorithmPrior               Algorithm = "prior"
	AlgorithmRejection           Algorithm = "rejection"
	AlgorithmLikelihoodWeighting Algorithm = "likelihood"
	AlgorithmGibbs               Algorithm = "gibbs"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{AlgorithmPrior, AlgorithmRejection, AlgorithmLikelihoodWeighting, AlgorithmGibbs}

// ParseAlgorithm resolves a user-supplied algorithm name. Matching ignores case
// and accepts the common long forms ("likelihood-weighting", "gibbs-ask", ...).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prior", "prior-sample", "priorsample":
		return AlgorithmPrior, nil
	case "rejection", "rejection-sampling", "rejectionsampling":
		return AlgorithmRejection, nil
	case "likelihood", "likelihood-weighting", "likelihoodweighting", "lw":
		return AlgorithmLikelihoodWeighting, nil
	case "gibbs", "gibbs-ask", "gibbsask", "mcmc":
		return AlgorithmGibbs, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, s)
}

// Sampler is an inference algorithm bound to a Randomizer.
type Sampler interface {
	// Ask returns the normalized estimate of P(query | evidence) from n samples.
	Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error)

	// Tally runs n samples and returns the raw, unnormalized counts. Tables from
	// independent runs over the same query can be added before normalizing.
	Tally(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, Stats, error)

	// Algorithm names the sampler.
	Algorithm() Algorithm
}

// New builds the named sampler.
func New(algorithm Algorithm, r Randomizer, opts ...Option) (Sampler, error) {
	switch algorithm {
	case AlgorithmPrior:
		return NewPriorSample(r, opts...), nil
	case AlgorithmRejection:
		return NewRejectionSampling(r, opts...), nil
	case AlgorithmLikelihoodWeighting:
		return NewLikelihoodWeighting(r, opts...), nil
	case AlgorithmGibbs:
		return NewGibbs(r, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, algorithm)
}

func validate(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) error {
	if bn == nil {
		return domain.ErrNilNetwork
	}
	if n <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidSampleCount, n)
	}
	if err := bn.ValidateQuery(query...); err != nil {
		return err
	}
	return bn.ValidateEvidence(evidence...)
}

// ask is the shared Ask body: tally, normalize, then report.
func ask(s Sampler, cfg *config, query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error) {
	start := time.Now()
	counts, stats, err := s.Tally(query, evidence, bn, n)
	if err == nil {
		err = normalize(counts)
	}
	stats.Algorithm = s.Algorithm()
	stats.Workers = 1
	stats.Duration = time.Since(start)
	stats.Err = err
	cfg.report(stats)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func normalize(counts *domain.ProbabilityTable) error {
	err := counts.Normalize()
	if errors.Is(err, domain.ErrZeroTotal) {
		return fmt.Errorf("%w: %v", domain.ErrNoEvidenceSupport, err)
	}
	return err
}

func (c *config) report(s Stats) {
	if c.observer != nil {
		c.observer.ObserveRun(s)
	}
	if s.Err != nil {
		c.logger.Debug("sampling run failed", "algorithm", s.Algorithm, "samples", s.Requested, "err", s.Err)
		return
	}
	c.logger.Debug("sampling run",
		"algorithm", s.Algorithm,
		"samples", s.Requested,
		"accepted", s.Accepted,
		"rejected", s.Rejected,
		"duration", s.Duration,
	)
}

func parentValues(n *network.Node, state map[*domain.RandomVariable]any) []any {
	parents := n.CPD().Parents()
	values := make([]any, len(parents))
	for i, p := range parents {
		values[i] = state[p]
	}
	return values
}

// draw samples n's variable given the parent values already in state.
func draw(n *network.Node, state map[*domain.RandomVariable]any, r Randomizer) (any, error) {
	return n.CPD().Sample(r.Float64(), parentValues(n, state)...)
}

// likelihood returns P(state[n] | state[parents(n)]).
func likelihood(n *network.Node, state map[*domain.RandomVariable]any) (float64, error) {
	values := append(parentValues(n, state), state[n.RandomVariable()])
	return n.CPD().ProbabilityFor(values...)
}

func count(counts *domain.ProbabilityTable, query []*domain.RandomVariable, state map[*domain.RandomVariable]any, w float64) error {
	values := make([]any, len(query))
	for i, rv := range query {
		values[i] = state[rv]
	}
	idx, err := counts.Index(values...)
	if err != nil {
		return err
	}
	counts.AddAt(idx, w)
	return nil
}
