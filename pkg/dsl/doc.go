/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Bayesian networks.

Variables are declared by name with a fluent builder; parents are referenced by name and may be
declared in any order. Build resolves the names, orders the variables topologically and creates
the network.Node values in that order, so every node is created after its parents.

Example usage:

	b := dsl.New()
	b.Boolean("Rain").Probs(0.2, 0.8)
	b.Boolean("Umbrella").Given("Rain").Probs(
		0.9, 0.1, // Rain=true
		0.2, 0.8, // Rain=false
	)

	bn, err := b.Build()
	if err != nil {
		return err
	}
	rain, _ := bn.Variable("Rain")
*/
package dsl
