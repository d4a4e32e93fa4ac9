package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
)

func TestDefault_BuildsEveryNetwork(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{BurglaryName, RainUmbrellaName, SprinklerName, ToothacheName, UmbrellaDBNName}, r.Names())

	for _, name := range r.Names() {
		bn, err := r.Get(name)
		require.NoError(t, err, name)

		for _, rv := range bn.VariablesInTopologicalOrder() {
			n, ok := bn.Node(rv)
			require.True(t, ok)
			assert.Same(t, rv, n.RandomVariable())
		}
	}
}

func TestRegistry_GetCachesAndReportsMissing(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("rain", "", func() (*network.BayesianNetwork, error) {
		calls++
		return RainUmbrella()
	})

	first, err := r.Get("rain")
	require.NoError(t, err)
	second, err := r.Get("rain")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, domain.ErrNetworkNotFound)

	boom := errors.New("boom")
	r.Register("broken", "", func() (*network.BayesianNetwork, error) { return nil, boom })
	_, err = r.Get("broken")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_Info(t *testing.T) {
	r := Default()

	info, err := r.Info(BurglaryName)
	require.NoError(t, err)
	assert.Equal(t, BurglaryName, info.Name)
	assert.False(t, info.Dynamic)
	assert.Len(t, info.Variables, 5)
	assert.Equal(t, "Alarm", info.Order[2])
	assert.Equal(t, []string{"Burglary", "Earthquake"}, info.Variables[2].Parents)
	assert.Equal(t, []string{"true", "false"}, info.Variables[0].Values)

	dyn, err := r.Info(UmbrellaDBNName)
	require.NoError(t, err)
	assert.True(t, dyn.Dynamic)
	roles := map[string]string{}
	for _, v := range dyn.Variables {
		roles[v.Name] = v.Role
	}
	assert.Equal(t, map[string]string{"Rain_t-1": "X0", "Rain_t": "X1", "Umbrella_t": "E1"}, roles)

	infos, err := r.Infos()
	require.NoError(t, err)
	assert.Len(t, infos, 5)
}

func TestRegistry_GetDynamic(t *testing.T) {
	r := Default()

	dbn, ok, err := r.GetDynamic(UmbrellaDBNName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, dbn.X1VariablesInTopologicalOrder(), 1)

	_, ok, err = r.GetDynamic(RainUmbrellaName)
	require.NoError(t, err)
	assert.False(t, ok)
}
