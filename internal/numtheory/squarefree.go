package numtheory

import (
	"math/big"
	"slices"
)

// IsSquarefree reports whether no prime square divides n.
//
// 1 is squarefree, 0 is not and a negative n is classified by its absolute
// value. Results are memoized in the squarefree cache.
//
// The classification is exact whenever every composite met during the
// decomposition is split by Pollard's rho. A composite that exhausts the rho
// budget is checked for being a perfect square and for sharing a divisor with
// the other factors found; only a p²q cofactor that resists rho for the whole
// budget can still be misreported as squarefree.
func (e *Engine) IsSquarefree(n *big.Int) bool {
	switch n.Sign() {
	case 0:
		return false
	case -1:
		n = new(big.Int).Abs(n)
	}
	if n.Cmp(one) == 0 {
		return true
	}
	sf, _ := e.caches.Squarefree.GetOrCompute(n, func() bool {
		return e.classify(n)
	})
	return sf
}

// classify decides squarefreeness of n > 1 without consulting the
// squarefree cache.
func (e *Engine) classify(n *big.Int) bool {
	rest, done, sf := e.stripSmallPrimes(n)
	if done {
		return sf
	}

	var factors, opaque []*big.Int
	stack := []*big.Int{rest}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.Cmp(one) == 0 {
			continue
		}
		if e.IsPrime(c) {
			factors = append(factors, c)
			continue
		}
		d := e.splitComposite(c)
		if d.Cmp(c) < 0 {
			stack = append(stack, d, new(big.Int).Quo(c, d))
			continue
		}

		// Rho gave up on c.
		root := new(big.Int).Sqrt(c)
		if root.Mul(root, root).Cmp(c) == 0 {
			return false
		}
		opaque = append(opaque, c)
	}

	if len(opaque) > 0 && sharesDivisor(opaque, factors) {
		return false
	}

	factors = append(factors, opaque...)
	slices.SortFunc(factors, func(a, b *big.Int) int { return a.Cmp(b) })
	for i := 1; i < len(factors); i++ {
		if factors[i].Cmp(factors[i-1]) == 0 {
			return false
		}
	}
	return true
}

// stripSmallPrimes divides n by each trial-division prime at most once.
//
// It reports done when the answer is already known: either some p² divides
// n, or the remaining cofactor is 1 or has no divisor below its square root.
// Otherwise rest is the cofactor left for Pollard's rho, free of every prime
// up to Options.TrialDivisionLimit.
func (e *Engine) stripSmallPrimes(n *big.Int) (rest *big.Int, done, squarefree bool) {
	rest = new(big.Int).Set(n)
	if len(e.primes) == 0 {
		return rest, false, false
	}

	var p, q, r, sq big.Int
	for _, prime := range e.primes {
		p.SetUint64(prime)
		if sq.Mul(&p, &p).Cmp(rest) > 0 {
			// rest is 1 or a prime larger than every prime divided out.
			return rest, true, true
		}
		q.QuoRem(rest, &p, &r)
		if r.Sign() != 0 {
			continue
		}
		rest.Set(&q)
		if q.QuoRem(rest, &p, &r); r.Sign() == 0 {
			return rest, true, false
		}
	}
	if rest.Cmp(one) == 0 {
		return rest, true, true
	}
	return rest, false, false
}

// sharesDivisor reports whether any opaque cofactor has a common divisor
// greater than one with another recorded factor or opaque cofactor.
func sharesDivisor(opaque, factors []*big.Int) bool {
	var g big.Int
	for i, o := range opaque {
		for _, f := range factors {
			if g.GCD(nil, nil, o, f).Cmp(one) != 0 {
				return true
			}
		}
		for _, other := range opaque[i+1:] {
			if g.GCD(nil, nil, o, other).Cmp(one) != 0 {
				return true
			}
		}
	}
	return false
}
