package cache

import (
	"math/big"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 64

// maxShards caps the shard count to keep the per-cache overhead bounded.
const maxShards = 1 << 12

// shard is one RWMutex-protected partition of the key space.
type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	group singleflight.Group
}

// Cache is a read-mostly, write-rare map from *big.Int to V that is safe for
// concurrent use by any number of goroutines.
//
// The key of an entry is the big-endian magnitude of the integer, so two
// integers with equal value always address the same entry. The sign is not
// part of the key; callers only store non-negative integers.
//
// Entries are created lazily and are never evicted or overwritten: the first
// value stored for a key wins and later Put calls for that key are ignored.
type Cache[V any] struct {
	shards []shard[V]
	mask   uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	coalesced atomic.Uint64
}

// Stats is a point-in-time view of the cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Coalesced uint64
	Entries   int
	HitRate   float64
}

// Option configures a Cache during construction.
type Option func(*options)

type options struct {
	shards int
}

// WithShards sets the number of shards. The value is rounded up to the next
// power of two and clamped to [1, 4096].
func WithShards(n int) Option {
	return func(o *options) { o.shards = n }
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{shards: DefaultShards}
	for _, opt := range opts {
		opt(&o)
	}
	n := roundShards(o.shards)
	c := &Cache[V]{
		shards: make([]shard[V], n),
		mask:   uint64(n - 1),
	}
	for i := range c.shards {
		c.shards[i].items = make(map[string]V)
	}
	return c
}

// roundShards rounds n up to a power of two within [1, maxShards].
func roundShards(n int) int {
	if n <= 1 {
		return 1
	}
	if n > maxShards {
		return maxShards
	}
	return 1 << bits.Len(uint(n-1))
}

// keyOf returns the map key for n.
func keyOf(n *big.Int) string {
	return string(n.Bytes())
}

func (c *Cache[V]) shardFor(key string) *shard[V] {
	return &c.shards[xxhash.Sum64String(key)&c.mask]
}

// Get returns the value stored for key and whether it was present.
// A lookup that finds an entry counts as a hit, otherwise as a miss.
func (c *Cache[V]) Get(key *big.Int) (V, bool) {
	k := keyOf(key)
	s := c.shardFor(k)
	s.mu.RLock()
	v, ok := s.items[k]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value for key unless an entry already exists.
// It reports whether the value was stored.
func (c *Cache[V]) Put(key *big.Int, value V) bool {
	k := keyOf(key)
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[k]; exists {
		return false
	}
	s.items[k] = value
	return true
}

// GetOrCompute returns the cached value for key, or calls compute, stores its
// result and returns it. Concurrent misses on the same key are coalesced so
// that compute runs once per key at a time; callers that waited on another
// goroutine's computation are counted as coalesced rather than as misses.
//
// The boolean result reports whether the value came from the cache.
func (c *Cache[V]) GetOrCompute(key *big.Int, compute func() V) (V, bool) {
	k := keyOf(key)
	s := c.shardFor(k)

	s.mu.RLock()
	v, ok := s.items[k]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v, true
	}

	ran := false
	res, _, _ := s.group.Do(k, func() (any, error) {
		// Re-check under the flight: another flight may have finished
		// between our read and this call.
		s.mu.RLock()
		existing, found := s.items[k]
		s.mu.RUnlock()
		if found {
			return existing, nil
		}
		ran = true
		computed := compute()
		s.mu.Lock()
		if prior, exists := s.items[k]; exists {
			computed = prior
		} else {
			s.items[k] = computed
		}
		s.mu.Unlock()
		return computed, nil
	})
	if ran {
		c.misses.Add(1)
	} else {
		c.coalesced.Add(1)
	}
	return res.(V), false
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		total += len(s.items)
		s.mu.RUnlock()
	}
	return total
}

// Hits returns the number of lookups that found an entry.
func (c *Cache[V]) Hits() uint64 { return c.hits.Load() }

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	coalesced := c.coalesced.Load()

	var hitRate float64
	if total := hits + misses + coalesced; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Coalesced: coalesced,
		Entries:   c.Len(),
		HitRate:   hitRate,
	}
}
