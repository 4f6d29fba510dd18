package numtheory

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
)

// Sampler draws uniformly distributed integers from a private random source.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rnd  *rand.Rand
	span *big.Int
}

// NewSampler creates a sampler over rnd.
func NewSampler(rnd *rand.Rand) *Sampler {
	return &Sampler{rnd: rnd, span: new(big.Int)}
}

// RandomInRange returns an integer drawn uniformly from [min, max].
// It panics if min > max.
func (s *Sampler) RandomInRange(min, max *big.Int) *big.Int {
	if min.Cmp(max) > 0 {
		panic(fmt.Sprintf("numtheory: empty range [%s, %s]", min, max))
	}
	s.span.Sub(max, min)
	s.span.Add(s.span, one)
	v := new(big.Int).Rand(s.rnd, s.span)
	return v.Add(v, min)
}

// Sample returns an integer drawn uniformly from [1, n].
// It panics if n < 1.
func (s *Sampler) Sample(n *big.Int) *big.Int {
	if n.Sign() < 1 {
		panic(fmt.Sprintf("numtheory: sample bound must be >= 1, got %s", n))
	}
	return s.RandomInRange(one, n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Seeding
// ─────────────────────────────────────────────────────────────────────────────

// SeedSource hands out independent per-worker seeds derived from one base.
type SeedSource struct {
	base uint64
}

// NewSeedSource creates a seed source. A zero base draws the base value from
// the operating system's entropy pool; a non-zero base makes every derived
// seed, and so every sample sequence, reproducible.
func NewSeedSource(base uint64) SeedSource {
	if base == 0 {
		var buf [8]byte
		if _, err := crand.Read(buf[:]); err == nil {
			base = binary.LittleEndian.Uint64(buf[:])
		}
		if base == 0 {
			base = 0x9e3779b97f4a7c15
		}
	}
	return SeedSource{base: base}
}

// Base returns the base seed.
func (s SeedSource) Base() uint64 { return s.base }

// Seed returns the seed for worker i.
func (s SeedSource) Seed(i int) int64 {
	return int64(splitmix64(s.base + uint64(i)*0x9e3779b97f4a7c15))
}

// Rand returns a new generator seeded for worker i.
func (s SeedSource) Rand(i int) *rand.Rand {
	return rand.New(rand.NewSource(s.Seed(i)))
}

// splitmix64 is the output function of the SplitMix64 generator.
func splitmix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
