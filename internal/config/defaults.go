package config

import "runtime"

// Cache shard resolution (highest priority first):
//   1. --cache-shards / SQFREE_CACHE_SHARDS / config file
//   2. EstimateCacheShards from the worker count (this file)

// ApplyAdaptiveDefaults fills settings left at zero with values derived from
// the hardware and the other settings.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CacheShards == 0 {
		cfg.CacheShards = EstimateCacheShards(cfg.Workers)
	}
	return cfg
}

// EstimateCacheShards returns four shards per worker, rounded up to a power
// of two and kept within [16, 4096]. More shards than writers keeps lock
// collisions rare; the floor keeps small pools from sharing one lock.
func EstimateCacheShards(workers int) int {
	want := 4 * workers
	shards := 16
	for shards < want && shards < 4096 {
		shards <<= 1
	}
	return shards
}
