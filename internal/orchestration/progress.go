package orchestration

import (
	"math/big"
	"time"

	"github.com/agbru/sqfree/internal/format"
)

// ProgressSnapshot is a point-in-time copy of the coordinator's trial
// counter.
type ProgressSnapshot struct {
	// N is the upper bound of the current run, nil before the first run.
	N     *big.Int
	Done  int64
	Total int64
}

// Fraction returns Done/Total in [0, 1]. A run with no trials counts as
// complete.
func (p ProgressSnapshot) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	f := float64(p.Done) / float64(p.Total)
	return min(max(f, 0), 1)
}

// ProgressSource is anything that publishes a ProgressSnapshot; Coordinator
// implements it.
type ProgressSource interface {
	Progress() ProgressSnapshot
}

// ProgressAggregator turns polled snapshots into a smoothed ETA. The CLI
// spinner and the dashboard both poll through it. It is not safe for
// concurrent use.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	n     *big.Int
}

// NewProgressAggregator creates an aggregator with no history.
func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{state: format.NewProgressWithETA()}
}

// AggregatedProgress is the result of folding one snapshot.
type AggregatedProgress struct {
	Snapshot ProgressSnapshot
	Fraction float64
	ETA      time.Duration
}

// Update folds s into the rate estimate. A change of N (a new sweep point)
// resets the estimate.
func (a *ProgressAggregator) Update(s ProgressSnapshot) AggregatedProgress {
	if s.N != a.n {
		a.n = s.N
		a.state = format.NewProgressWithETA()
	}
	fraction, eta := a.state.UpdateWithETA(s.Fraction())
	return AggregatedProgress{Snapshot: s, Fraction: fraction, ETA: eta}
}

// ETA returns the current estimate without folding a new snapshot.
func (a *ProgressAggregator) ETA() time.Duration { return a.state.GetETA() }
