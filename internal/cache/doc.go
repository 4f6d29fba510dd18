// Package cache provides the concurrent memoization store shared by the
// number-theory engine. Keys are arbitrary-precision integers, values are
// written at most once per key and never evicted.
package cache
