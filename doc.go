/*
Package bayesnet is a Bayesian network engine with approximate inference by sampling.

A network is a DAG of finite random variables, each with a conditional probability table
over its parents. Queries ask for the posterior distribution of some variables given
observed values of others, estimated by one of four samplers: prior sampling, rejection
sampling, likelihood weighting and Gibbs sampling.

# Layout

The library is layered the same way as its outer surfaces use it:

  - pkg/domain: random variables, assignments, events and probability tables.
  - pkg/network: nodes, CPTs, static and two-slice dynamic networks.
  - pkg/sampling: the samplers, seeded randomizers and the parallel runner.
  - pkg/dsl: a name-based builder for networks.
  - pkg/registry: named networks, including the built-in reference networks.
  - pkg/adapters: result stores (memory, redis) and transports (http, mcp).

# Usage

The Engine answers name-based queries against a registry and caches the results.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/bayesnet"
		"github.com/aretw0/bayesnet/pkg/domain"
	)

	func main() {
		engine, err := bayesnet.New(bayesnet.WithSeed(7))
		if err != nil {
			log.Fatal(err)
		}

		p, err := engine.Ask(context.Background(), domain.Query{
			Network:  "rain-umbrella",
			Query:    []string{"Rain"},
			Evidence: map[string]string{"Umbrella": "true"},
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(p.Probability("true"))
	}

Networks can also be built directly with pkg/network or pkg/dsl and passed to any sampler
in pkg/sampling, without an Engine.

# Determinism

Every run starts from the engine seed. The same seed, worker count and query always
produce the same estimate, so cached and recomputed posteriors agree.
*/
package bayesnet
