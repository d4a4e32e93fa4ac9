package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

const (
	samples   = 10000
	tolerance = 0.05
)

type rainUmbrella struct {
	bn             *network.BayesianNetwork
	rain, umbrella *domain.RandomVariable
}

// newRainUmbrella builds P(Rain)=0.2, P(Umbrella|Rain)=0.9, P(Umbrella|¬Rain)=0.2.
// umbrellaGivenRain overrides the Umbrella CPT when non-nil.
func newRainUmbrella(t *testing.T, umbrellaGivenRain []float64) rainUmbrella {
	t.Helper()
	if umbrellaGivenRain == nil {
		umbrellaGivenRain = []float64{0.9, 0.1, 0.2, 0.8}
	}
	w := rainUmbrella{
		rain:     domain.MustBooleanVariable("Rain"),
		umbrella: domain.MustBooleanVariable("Umbrella"),
	}
	rain, err := network.NewNode(w.rain, []float64{0.2, 0.8})
	require.NoError(t, err)
	_, err = network.NewNode(w.umbrella, umbrellaGivenRain, rain)
	require.NoError(t, err)
	w.bn, err = network.New(rain)
	require.NoError(t, err)
	return w
}

type sprinklerNet struct {
	bn                           *network.BayesianNetwork
	cloudy, sprinkler, rain, wet *domain.RandomVariable
}

func newSprinkler(t *testing.T) sprinklerNet {
	t.Helper()
	s := sprinklerNet{
		cloudy:    domain.MustBooleanVariable("Cloudy"),
		sprinkler: domain.MustBooleanVariable("Sprinkler"),
		rain:      domain.MustBooleanVariable("Rain"),
		wet:       domain.MustBooleanVariable("WetGrass"),
	}
	c, err := network.NewNode(s.cloudy, []float64{0.5, 0.5})
	require.NoError(t, err)
	sp, err := network.NewNode(s.sprinkler, []float64{0.1, 0.9, 0.5, 0.5}, c)
	require.NoError(t, err)
	r, err := network.NewNode(s.rain, []float64{0.8, 0.2, 0.2, 0.8}, c)
	require.NoError(t, err)
	_, err = network.NewNode(s.wet, []float64{0.99, 0.01, 0.9, 0.1, 0.9, 0.1, 0, 1}, sp, r)
	require.NoError(t, err)
	s.bn, err = network.New(c)
	require.NoError(t, err)
	return s
}

func probability(t *testing.T, table *domain.ProbabilityTable, values ...any) float64 {
	t.Helper()
	p, err := table.Value(values...)
	require.NoError(t, err)
	return p
}
