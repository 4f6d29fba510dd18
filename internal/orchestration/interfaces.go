//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"context"
	"math/big"
)

// Worker executes trials for one pool slot. Implementations are only ever
// called from their own pool goroutine and need not be safe for concurrent
// use.
type Worker interface {
	// RunTrials draws trials samples uniformly from [1, n], classifies each
	// one and returns how many were squarefree.
	//
	// done must be called with the number of trials finished since the
	// previous call; implementations call it once per batch, never per
	// trial. ctx is checked between batches and its error is returned
	// together with the partial count.
	RunTrials(ctx context.Context, n *big.Int, trials int, done func(int)) (int64, error)
}

// WorkerFactory creates the worker for pool slot index.
type WorkerFactory func(index int) Worker

// ResultReporter receives each Result of a sweep once the workers of that
// point have joined.
type ResultReporter interface {
	ReportResult(Result)
}

// ResultReporterFunc is a function adapter that implements ResultReporter.
type ResultReporterFunc func(Result)

// ReportResult calls f.
func (f ResultReporterFunc) ReportResult(r Result) { f(r) }

// NullResultReporter discards results.
type NullResultReporter struct{}

// ReportResult does nothing.
func (NullResultReporter) ReportResult(Result) {}

// Observer receives instrumentation events from the coordinator.
// ObserveBatch is called from worker goroutines and must be safe for
// concurrent use.
type Observer interface {
	ObserveBatch(trials int)
	ObserveRun(Result)
}

type nopObserver struct{}

func (nopObserver) ObserveBatch(int)  {}
func (nopObserver) ObserveRun(Result) {}
