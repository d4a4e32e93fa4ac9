package domain

import "errors"

// Construction errors. These are returned when a variable, table or network
// would violate one of its structural invariants.
var (
	// ErrNilVariable is returned when a random variable (or a node wrapping one) is missing.
	ErrNilVariable = errors.New("random variable is nil")

	// ErrEmptyName is returned when a random variable is created without a name.
	ErrEmptyName = errors.New("random variable name is empty")

	// ErrEmptyDomain is returned when a finite domain has no values.
	ErrEmptyDomain = errors.New("domain has no values")

	// ErrDuplicateValue is returned when a finite domain lists the same value twice.
	ErrDuplicateValue = errors.New("domain value is duplicated")

	// ErrNotComparable is returned when a domain value cannot be used as a map key.
	ErrNotComparable = errors.New("domain value is not comparable")

	// ErrTableSizeMismatch is returned when the number of table entries does not equal
	// the product of the variables' domain sizes.
	ErrTableSizeMismatch = errors.New("table size does not match variable domains")

	// ErrInvalidProbability is returned for negative, NaN or out-of-range probabilities.
	ErrInvalidProbability = errors.New("invalid probability")

	// ErrRowNotNormalized is returned when a conditional distribution row does not sum to 1.
	ErrRowNotNormalized = errors.New("distribution row does not sum to 1")

	// ErrParentCountMismatch is returned when the number of parent values given does not
	// match the number of parents declared for a node.
	ErrParentCountMismatch = errors.New("parent value count does not match parent count")

	// ErrDuplicateParent is returned when a node lists the same parent twice.
	ErrDuplicateParent = errors.New("parent is listed more than once")

	// ErrNotDAG is returned when the network graph contains a cycle.
	ErrNotDAG = errors.New("network must be a DAG")

	// ErrNoRoots is returned when a network is constructed without root nodes.
	ErrNoRoots = errors.New("network requires at least one root node")

	// ErrNotRoot is returned when a node declared as a root has parents.
	ErrNotRoot = errors.New("declared root node has parents")

	// ErrDuplicateRoot is returned when the same root node is declared twice.
	ErrDuplicateRoot = errors.New("root node is declared more than once")

	// ErrDuplicateVariable is returned when two nodes share a variable or a variable name,
	// or when a query or evidence list repeats a variable.
	ErrDuplicateVariable = errors.New("variable is declared more than once")

	// ErrPartitionMismatch is returned when the X0, X1 and E1 sets of a dynamic network
	// do not partition the network's variables exactly.
	ErrPartitionMismatch = errors.New("time-slice partition does not cover the network variables")

	// ErrNilNetwork is returned when a required network argument is missing.
	ErrNilNetwork = errors.New("network is nil")
)

// Query-time errors.
var (
	// ErrUnknownVariable is returned when a query or evidence variable is not part of the network.
	ErrUnknownVariable = errors.New("variable is not part of the network")

	// ErrValueOutOfDomain is returned when a value is not in its variable's domain.
	ErrValueOutOfDomain = errors.New("value is not in the variable's domain")

	// ErrMissingAssignment is returned when a lookup does not assign every variable in scope.
	ErrMissingAssignment = errors.New("no value assigned to variable")

	// ErrVariableMismatch is returned when two tables over different variables are combined.
	ErrVariableMismatch = errors.New("tables range over different variables")

	// ErrEmptyQuery is returned when an inference call names no query variables.
	ErrEmptyQuery = errors.New("query names no variables")

	// ErrInvalidSampleCount is returned when the requested sample count is not positive.
	ErrInvalidSampleCount = errors.New("sample count must be positive")

	// ErrEvidenceNotSupported is returned when evidence is passed to an unconditioned sampler.
	ErrEvidenceNotSupported = errors.New("sampler does not condition on evidence")

	// ErrNoEvidenceSupport is returned when no generated sample carries any weight for the
	// evidence, so the estimate would be 0/0.
	ErrNoEvidenceSupport = errors.New("no sample is consistent with the evidence")

	// ErrChainStuck is returned when a Gibbs chain reaches a state in which some
	// variable has zero mass for every value given its Markov blanket. With
	// deterministic CPTs this can happen even though the evidence is possible.
	ErrChainStuck = errors.New("gibbs chain stuck in a zero-probability state")

	// ErrZeroTotal is returned when normalizing a table whose entries sum to zero.
	ErrZeroTotal = errors.New("table entries sum to zero")

	// ErrNetworkNotFound is returned when a named network is not registered.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrPosteriorNotFound is returned when a cached posterior cannot be found in the store.
	ErrPosteriorNotFound = errors.New("posterior not found")

	// ErrUnknownAlgorithm is returned when an inference algorithm name cannot be resolved.
	ErrUnknownAlgorithm = errors.New("unknown inference algorithm")
)
