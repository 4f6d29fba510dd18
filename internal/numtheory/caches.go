package numtheory

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/agbru/sqfree/internal/cache"
)

// Caches groups the three memo tables shared by all engines of a run.
// They are never reset; facts about an integer do not depend on the range
// it was sampled from.
type Caches struct {
	Prime      *cache.Cache[bool]
	Factor     *cache.Cache[*big.Int]
	Squarefree *cache.Cache[bool]

	exhausted atomic.Uint64

	primesMu sync.Mutex
	primes   map[uint64][]uint64
}

// CacheSizes holds the entry count of each memo table.
type CacheSizes struct {
	Prime      int
	Factor     int
	Squarefree int
}

// NewCaches creates an empty set of memo tables.
func NewCaches(opts ...cache.Option) *Caches {
	return &Caches{
		Prime:      cache.New[bool](opts...),
		Factor:     cache.New[*big.Int](opts...),
		Squarefree: cache.New[bool](opts...),
	}
}

// Hits returns the total number of cache hits across the three tables.
func (c *Caches) Hits() uint64 {
	return c.Prime.Hits() + c.Factor.Hits() + c.Squarefree.Hits()
}

// Sizes returns the current entry count of each table.
func (c *Caches) Sizes() CacheSizes {
	return CacheSizes{
		Prime:      c.Prime.Len(),
		Factor:     c.Factor.Len(),
		Squarefree: c.Squarefree.Len(),
	}
}

// Exhaustions returns how many times Pollard's rho ran out of budget and
// returned its input unfactored.
func (c *Caches) Exhaustions() uint64 {
	return c.exhausted.Load()
}

// primesUpTo returns the primes <= limit. The sieve runs once per limit and
// the read-only slice is shared by every engine on these caches.
func (c *Caches) primesUpTo(limit uint64) []uint64 {
	c.primesMu.Lock()
	defer c.primesMu.Unlock()
	if p, ok := c.primes[limit]; ok {
		return p
	}
	if c.primes == nil {
		c.primes = make(map[uint64][]uint64)
	}
	p := smallPrimes(limit)
	c.primes[limit] = p
	return p
}
