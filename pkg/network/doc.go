// Package network builds Bayesian networks: nodes with conditional probability
// tables, the DAG they form, and the two-slice dynamic variant used for
// temporal models.
//
// Networks are built bottom-up. A Node is created after its parents and
// registers itself as their child; New then walks the graph from the roots
// and orders it with Kahn's algorithm. Every structural problem is returned
// as an error wrapping a sentinel from the domain package.
//
// A built network is read-only and may be shared by concurrent samplers.
package network
