package numtheory

import "math/big"

// IsPrime reports whether n is a probable prime.
//
// n < 2 is never prime, 2 and 3 are prime and even n > 2 is composite; these
// cases are decided without touching the cache. Anything else is looked up
// in the prime cache and, on a miss, tested with Options.PrimalityRounds
// Miller-Rabin rounds and stored.
func (e *Engine) IsPrime(n *big.Int) bool {
	if n.Cmp(two) < 0 {
		return false
	}
	if n.BitLen() <= 2 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}
	prime, _ := e.caches.Prime.GetOrCompute(n, func() bool {
		return probablyPrime(n, e.opts.PrimalityRounds)
	})
	return prime
}
