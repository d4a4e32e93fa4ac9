/*
Package domain contains the core value types shared by every layer of the bayesnet engine.

It defines random variables and their finite domains, assignments of values to variables,
and the categorical probability tables used both as conditional-distribution rows and as
inference results. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - RandomVariable: A named variable over a FiniteDomain. Shared by pointer; identity is the pointer.
  - AssignmentProposition: A single "variable = value" fact, used as evidence.
  - Event: An immutable set of assignments (a full or partial sample of the network).
  - ProbabilityTable: A flat table indexed by the mixed-radix product of its variables' domains.
  - Posterior: The serializable record of an answered query, stored by result caches.
*/
package domain
