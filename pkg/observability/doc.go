/*
Package observability provides Prometheus metrics for the bayesnet engine.

Metrics implements sampling.Observer, so it can be handed to any sampler or to the
engine facade to record every inference run, and it counts result-cache hits and misses.
*/
package observability
