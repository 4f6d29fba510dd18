package numtheory

import (
	"math/big"
	"math/rand"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Engine answers primality, factor and squarefree queries for one worker.
// It reads and populates the shared Caches, draws Pollard-rho starting points
// from its own random source, and reuses scratch integers between calls.
// An Engine is not safe for concurrent use; create one per goroutine.
type Engine struct {
	caches *Caches
	opts   Options
	rnd    *rand.Rand
	primes []uint64

	// Pollard-rho scratch space.
	x, y, c, d, diff, span *big.Int
}

// NewEngine creates an engine backed by the given caches.
// rnd must not be shared with any other goroutine.
func NewEngine(caches *Caches, opts Options, rnd *rand.Rand) *Engine {
	opts = opts.normalize()
	return &Engine{
		caches: caches,
		opts:   opts,
		rnd:    rnd,
		primes: caches.primesUpTo(opts.TrialDivisionLimit),
		x:      new(big.Int),
		y:      new(big.Int),
		c:      new(big.Int),
		d:      new(big.Int),
		diff:   new(big.Int),
		span:   new(big.Int),
	}
}

// Caches returns the memo tables the engine writes to.
func (e *Engine) Caches() *Caches { return e.caches }

// Options returns the normalized engine options.
func (e *Engine) Options() Options { return e.opts }
