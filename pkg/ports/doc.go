/*
Package ports defines the driven and driving ports (interfaces) of the bayesnet engine.

These interfaces decouple the inference core from its callers and from result
storage, so samplers, caches and transports can be swapped independently.

# Key Interfaces

  - BayesInference: Estimates a posterior for a query given evidence and a sample count.
  - SampleInference: The same, with the sample count fixed at construction.
  - ResultStore: Caches answered posteriors (e.g., in Memory or Redis).
  - QueryEngine: The name-based surface consumed by the HTTP and MCP adapters.
*/
package ports
