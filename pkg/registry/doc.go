// Package registry names Bayesian networks so that transports and the CLI can
// address them as text. Default holds the built-in reference networks.
package registry
