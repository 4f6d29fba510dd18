// Package numtheory implements the sampling and classification engine:
// probable-prime testing, Pollard-rho factor finding, squarefree
// classification and uniform big-integer sampling.
//
// Results of all three classification layers are memoized in a Caches value
// that is shared by every Engine of a run. An Engine itself owns a random
// source and scratch integers and must not be shared between goroutines.
package numtheory
