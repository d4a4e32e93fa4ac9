package sampling

import (
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
	"github.com/aretw0/bayesnet/pkg/ports"
)

// FixedSampleAsk binds a sample count to an inference algorithm so callers can
// ask without repeating it.
type FixedSampleAsk struct {
	inner ports.BayesInference
	n     int
}

var _ ports.SampleInference = (*FixedSampleAsk)(nil)

// NewFixedSampleAsk wraps inner with a fixed sample count n.
func NewFixedSampleAsk(inner ports.BayesInference, n int) *FixedSampleAsk {
	return &FixedSampleAsk{inner: inner, n: n}
}

// Samples returns the bound sample count.
func (f *FixedSampleAsk) Samples() int {
	return f.n
}

// Ask delegates to the wrapped algorithm with the bound sample count.
func (f *FixedSampleAsk) Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork) (*domain.ProbabilityTable, error) {
	return f.inner.Ask(query, evidence, bn, f.n)
}
