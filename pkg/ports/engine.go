package ports

import (
	"context"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

// QueryEngine is the name-based inference surface used by transport adapters
// (e.g., HTTP, MCP). Networks are addressed by registry name and values are text.
type QueryEngine interface {
	// Ask answers a query, possibly from cache.
	Ask(ctx context.Context, q domain.Query) (*domain.Posterior, error)

	// Sample draws one complete event from the named network's joint distribution.
	Sample(ctx context.Context, name string) (map[string]string, error)

	// Networks describes every registered network, sorted by name.
	Networks() ([]domain.NetworkInfo, error)

	// Describe returns the structure of the named network.
	Describe(name string) (domain.NetworkInfo, error)

	// Network returns the named network. Returns domain.ErrNetworkNotFound if unknown.
	Network(name string) (*network.BayesianNetwork, error)
}
