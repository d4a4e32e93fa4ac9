package ports

import (
	"context"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// ResultStore defines the interface for caching answered queries.
// Keys are opaque strings derived by the engine from the query parameters.
type ResultStore interface {
	// Save persists the posterior under key, replacing any previous value.
	Save(ctx context.Context, key string, posterior *domain.Posterior) error

	// Load retrieves the posterior stored under key.
	// Returns domain.ErrPosteriorNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.Posterior, error)

	// Delete removes the posterior stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}
