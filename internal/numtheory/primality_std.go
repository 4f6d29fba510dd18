//go:build !gmp

package numtheory

import "math/big"

// Backend names the arithmetic backend used for probable-prime tests.
const Backend = "math/big"

// probablyPrime runs rounds Miller-Rabin tests with pseudo-random bases
// followed by a Baillie-PSW test.
func probablyPrime(n *big.Int, rounds int) bool {
	return n.ProbablyPrime(rounds)
}
