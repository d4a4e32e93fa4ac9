/*
Package sampling implements approximate inference over Bayesian networks by
Monte-Carlo sampling.

# Algorithms

  - PriorSample: draws complete events from the joint distribution in topological order.
  - RejectionSampling: prior samples, discarding those that contradict the evidence.
  - LikelihoodWeighting: fixes the evidence and weights each sample by its likelihood.
  - Gibbs: a Markov chain that resamples each non-evidence variable from its Markov blanket.

Every algorithm draws from an injected Randomizer, so a fixed seed (or a cycling
mock) reproduces a run exactly. Counts accumulate in a domain.ProbabilityTable
over the query variables and are normalized once at the end.

# Concurrency

A sampler owns its Randomizer and must not be shared between goroutines.
Networks are read-only and may be shared. Parallel runs independent samplers,
one Randomizer each, adds their raw counts and normalizes the merged table once.
*/
package sampling
