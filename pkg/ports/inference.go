package ports

import (
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// BayesInference estimates P(query | evidence) on a network from n samples.
// The returned table is normalized and ranges over the query variables in order.
type BayesInference interface {
	Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork, n int) (*domain.ProbabilityTable, error)
}

// SampleInference is a BayesInference whose sample count is fixed.
type SampleInference interface {
	Ask(query []*domain.RandomVariable, evidence []domain.AssignmentProposition, bn *network.BayesianNetwork) (*domain.ProbabilityTable, error)
}
