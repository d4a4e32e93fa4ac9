package registry

import (
	"github.com/aretw0/bayesnet/pkg/dsl"
	"github.com/aretw0/bayesnet/pkg/network"
)

// Names of the built-in networks.
const (
	RainUmbrellaName = "rain-umbrella"
	BurglaryName     = "burglary"
	SprinklerName    = "sprinkler"
	ToothacheName    = "toothache"
	UmbrellaDBNName  = "umbrella-dbn"
)

// Default returns a registry holding the built-in reference networks.
func Default() *Registry {
	r := NewRegistry()
	r.Register(RainUmbrellaName, "P(Rain)=0.2; Umbrella carried 90% of rainy days, 20% of dry ones", RainUmbrella)
	r.Register(BurglaryName, "Burglary and Earthquake trigger an Alarm; John and Mary may call", Burglary)
	r.Register(SprinklerName, "Cloudy drives Sprinkler and Rain, which both wet the grass", Sprinkler)
	r.Register(ToothacheName, "A Cavity causes Toothache and the dental pick to Catch", Toothache)
	r.RegisterDynamic(UmbrellaDBNName, "Two-slice umbrella world: hidden rain observed through the umbrella", UmbrellaDBN)
	return r
}

// RainUmbrella builds the two-variable umbrella network.
func RainUmbrella() (*network.BayesianNetwork, error) {
	b := dsl.New()
	b.Boolean("Rain").Probs(0.2, 0.8)
	b.Boolean("Umbrella").Given("Rain").Probs(
		0.9, 0.1,
		0.2, 0.8,
	)
	return b.Build()
}

// Burglary builds the burglary alarm network.
func Burglary() (*network.BayesianNetwork, error) {
	b := dsl.New()
	b.Boolean("Burglary").Probs(0.001, 0.999)
	b.Boolean("Earthquake").Probs(0.002, 0.998)
	b.Boolean("Alarm").Given("Burglary", "Earthquake").Probs(
		0.95, 0.05,
		0.94, 0.06,
		0.29, 0.71,
		0.001, 0.999,
	)
	b.Boolean("JohnCalls").Given("Alarm").Probs(
		0.90, 0.10,
		0.05, 0.95,
	)
	b.Boolean("MaryCalls").Given("Alarm").Probs(
		0.70, 0.30,
		0.01, 0.99,
	)
	return b.Build()
}

// Sprinkler builds the cloudy/sprinkler/rain/wet-grass network.
func Sprinkler() (*network.BayesianNetwork, error) {
	b := dsl.New()
	b.Boolean("Cloudy").Probs(0.5, 0.5)
	b.Boolean("Sprinkler").Given("Cloudy").Probs(
		0.1, 0.9,
		0.5, 0.5,
	)
	b.Boolean("Rain").Given("Cloudy").Probs(
		0.8, 0.2,
		0.2, 0.8,
	)
	b.Boolean("WetGrass").Given("Sprinkler", "Rain").Probs(
		0.99, 0.01,
		0.90, 0.10,
		0.90, 0.10,
		0.00, 1.00,
	)
	return b.Build()
}

// Toothache builds the cavity network.
func Toothache() (*network.BayesianNetwork, error) {
	b := dsl.New()
	b.Boolean("Cavity").Probs(0.2, 0.8)
	b.Boolean("Toothache").Given("Cavity").Probs(
		0.6, 0.4,
		0.1, 0.9,
	)
	b.Boolean("Catch").Given("Cavity").Probs(
		0.9, 0.1,
		0.2, 0.8,
	)
	return b.Build()
}

// UmbrellaDBN builds the two-slice umbrella world.
func UmbrellaDBN() (*network.DynamicBayesianNetwork, error) {
	prior := dsl.New()
	prior.Boolean("Rain_t-1").Probs(0.5, 0.5)

	b := dsl.New()
	b.Boolean("Rain_t-1").Probs(0.5, 0.5)
	b.Boolean("Rain_t").Given("Rain_t-1").Probs(
		0.7, 0.3,
		0.3, 0.7,
	)
	b.Boolean("Umbrella_t").Given("Rain_t").Probs(
		0.9, 0.1,
		0.2, 0.8,
	)
	return b.BuildDynamic(dsl.TimeSlices{
		Transitions: map[string]string{"Rain_t-1": "Rain_t"},
		Evidence:    []string{"Umbrella_t"},
		Prior:       prior,
	})
}
