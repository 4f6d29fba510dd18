package numtheory

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFindFactor(t *testing.T) {
	t.Parallel()
	e := newTestEngine(DefaultOptions())

	tests := []struct {
		name  string
		n     *big.Int
		valid []int64 // acceptable results; empty means n itself
	}{
		{"two", big.NewInt(2), []int64{2}},
		{"even", big.NewInt(1_000_000), []int64{2}},
		{"prime", big.NewInt(1_000_003), []int64{1_000_003}},
		{"15", big.NewInt(15), []int64{3, 5}},
		{"49", big.NewInt(49), []int64{7}},
		{"91", big.NewInt(91), []int64{7, 13}},
		{"10007*10009", big.NewInt(10007 * 10009), []int64{10007, 10009}},
		{"3^5", big.NewInt(243), []int64{3, 9, 27, 81}},
	}
	for _, tt := range tests {
		got := e.FindFactor(tt.n)
		ok := false
		for _, v := range tt.valid {
			if got.Int64() == v {
				ok = true
			}
		}
		if !ok {
			t.Errorf("FindFactor(%s) [%s] = %s, want one of %v", tt.n, tt.name, got, tt.valid)
		}
	}
}

func TestFindFactor_LargeSemiprime(t *testing.T) {
	t.Parallel()
	e := newTestEngine(Options{MaxRhoIterations: 1_000_000})
	p, q := big.NewInt(1_000_003), big.NewInt(1_000_033)
	n := mul(p, q)

	f := e.FindFactor(n)
	if f.Cmp(p) != 0 && f.Cmp(q) != 0 {
		t.Fatalf("FindFactor(%s) = %s, want %s or %s", n, f, p, q)
	}
	if e.Caches().Exhaustions() != 0 {
		t.Errorf("Exhaustions() = %d, want 0", e.Caches().Exhaustions())
	}
}

func TestFindFactor_PanicsBelowTwo(t *testing.T) {
	t.Parallel()
	for _, n := range []int64{-5, 0, 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("FindFactor(%d) did not panic", n)
				}
			}()
			newTestEngine(DefaultOptions()).FindFactor(big.NewInt(n))
		}()
	}
}

// TestFindFactor_BudgetExhaustion uses two large Mersenne primes so that a
// single rho round cannot plausibly separate them.
func TestFindFactor_BudgetExhaustion(t *testing.T) {
	t.Parallel()
	e := newTestEngine(Options{MaxRhoIterations: 1})
	n := mul(mersenne(61), mersenne(89))

	f := e.FindFactor(n)
	if f.Cmp(n) != 0 {
		t.Fatalf("FindFactor with exhausted budget = %s, want n", f)
	}
	if got := e.Caches().Exhaustions(); got != 1 {
		t.Errorf("Exhaustions() = %d, want 1", got)
	}

	// The approximation is memoized like any other answer.
	if again := e.FindFactor(n); again.Cmp(n) != 0 {
		t.Errorf("second FindFactor = %s, want n", again)
	}
	if got := e.Caches().Exhaustions(); got != 1 {
		t.Errorf("Exhaustions() after cached call = %d, want 1", got)
	}
}

func TestFindFactor_Memoized(t *testing.T) {
	t.Parallel()
	e := newTestEngine(DefaultOptions())
	n := big.NewInt(10007 * 10009)

	first := e.FindFactor(n)
	hits := e.Caches().Factor.Hits()
	second := e.FindFactor(big.NewInt(10007 * 10009))

	if first.Cmp(second) != 0 {
		t.Fatalf("FindFactor not idempotent: %s then %s", first, second)
	}
	if got := e.Caches().Factor.Hits(); got != hits+1 {
		t.Errorf("factor cache hits = %d, want %d", got, hits+1)
	}
}

// TestFindFactor_PropertyBased checks that the returned value always divides
// n and lies in (1, n].
func TestFindFactor_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)
	e := newTestEngine(DefaultOptions())

	properties.Property("FindFactor(n) divides n and 1 < f <= n", prop.ForAll(
		func(n uint64) bool {
			bn := new(big.Int).SetUint64(n)
			f := e.FindFactor(bn)
			if f.Cmp(one) <= 0 || f.Cmp(bn) > 0 {
				t.Logf("FindFactor(%d) = %s out of range", n, f)
				return false
			}
			if new(big.Int).Rem(bn, f).Sign() != 0 {
				t.Logf("FindFactor(%d) = %s does not divide", n, f)
				return false
			}
			return true
		},
		gen.UInt64Range(2, 1<<40),
	))

	properties.TestingRun(t)
}
