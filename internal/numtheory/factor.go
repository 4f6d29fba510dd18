package numtheory

import (
	"fmt"
	"math/big"
)

// FindFactor returns a divisor f of n with 1 < f <= n.
//
// Even n yields 2 and a probable prime yields n itself. For odd composites the
// factor cache is consulted and, on a miss, Pollard's rho searches for a
// proper divisor. The divisor is not necessarily prime. When the rho budget
// (Options.MaxRhoIterations) runs out, n itself is returned and cached: the
// caller then has to treat n as unfactored, not as prime.
//
// FindFactor panics if n < 2. The returned value is shared and must not be
// modified.
func (e *Engine) FindFactor(n *big.Int) *big.Int {
	if n.Cmp(two) < 0 {
		panic(fmt.Sprintf("numtheory: FindFactor requires n >= 2, got %s", n))
	}
	if n.Bit(0) == 0 {
		return two
	}
	if e.IsPrime(n) {
		return n
	}
	return e.splitComposite(n)
}

// splitComposite is FindFactor for an n already known to be an odd
// composite (or at least not a probable prime).
func (e *Engine) splitComposite(n *big.Int) *big.Int {
	if n.Bit(0) == 0 {
		return two
	}
	f, _ := e.caches.Factor.GetOrCompute(n, func() *big.Int {
		return e.pollardRho(n)
	})
	return f
}

// pollardRho runs Floyd-cycle Pollard rho on the odd composite n.
//
// Each attempt draws a start x0 in [2, n-1] and a constant c in
// [1, RhoConstantMax], iterates f(x) = x² + c mod n with the tortoise taking
// one step and the hare two, and stops as soon as gcd(|x-y|, n) != 1. A gcd
// equal to n means the walk closed its cycle without separating a factor and
// the attempt restarts. All attempts share one iteration budget.
func (e *Engine) pollardRho(n *big.Int) *big.Int {
	x, y, c, d, diff := e.x, e.y, e.c, e.d, e.diff

	// x0 = 2 + rand[0, n-2)
	e.span.Sub(n, two)

	budget := e.opts.MaxRhoIterations
	for budget > 0 {
		x.Rand(e.rnd, e.span)
		x.Add(x, two)
		y.Set(x)
		c.SetInt64(1 + e.rnd.Int63n(e.opts.RhoConstantMax))
		d.SetInt64(1)

		for d.Cmp(one) == 0 && budget > 0 {
			budget--
			rhoStep(x, c, n)
			rhoStep(y, c, n)
			rhoStep(y, c, n)
			diff.Sub(x, y)
			diff.Abs(diff)
			d.GCD(nil, nil, diff, n)
		}

		if d.Cmp(one) != 0 && d.Cmp(n) != 0 {
			return new(big.Int).Set(d)
		}
	}

	e.caches.exhausted.Add(1)
	return new(big.Int).Set(n)
}

// rhoStep advances z to z² + c mod n in place.
func rhoStep(z, c, n *big.Int) {
	z.Mul(z, z)
	z.Add(z, c)
	z.Mod(z, n)
}
