// Package orchestration runs Monte-Carlo squarefree trials on a fixed pool of
// workers and aggregates their counts.
//
// A Coordinator owns one Pool for its whole lifetime. Each Run splits the
// requested trials across the pool with Partition, waits for every worker
// (barrier join) and returns a Result; Sweep repeats Run over a sequence of
// upper bounds and hands each Result to a ResultReporter. Progress is
// published through an atomic counter that reporters poll, so the sampling
// loop never blocks on presentation.
package orchestration
