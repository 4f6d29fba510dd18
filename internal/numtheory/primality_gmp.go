//go:build gmp

// This file provides a GMP-backed probable-prime test, compiled only with the
// "gmp" build tag (go build -tags=gmp). It requires libgmp on the system.

package numtheory

import (
	"math/big"

	"github.com/ncw/gmp"
)

// Backend names the arithmetic backend used for probable-prime tests.
const Backend = "gmp"

// probablyPrime converts n to a GMP integer and runs rounds Miller-Rabin
// tests in libgmp. The conversion cost is paid back quickly for the operand
// sizes this program samples (50+ bits).
func probablyPrime(n *big.Int, rounds int) bool {
	g := new(gmp.Int).SetBytes(n.Bytes())
	return g.ProbablyPrime(rounds)
}
