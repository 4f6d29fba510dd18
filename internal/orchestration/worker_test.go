package orchestration

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/agbru/sqfree/internal/numtheory"
)

func TestSamplingWorker_ReportsPerBatch(t *testing.T) {
	t.Parallel()
	factory := NewSamplingWorkerFactory(numtheory.NewCaches(), numtheory.DefaultOptions(), numtheory.NewSeedSource(1), 100)
	w := factory(0)

	var ticks []int
	count, err := w.RunTrials(context.Background(), big.NewInt(1000), 250, func(k int) { ticks = append(ticks, k) })
	if err != nil {
		t.Fatal(err)
	}
	if count < 0 || count > 250 {
		t.Errorf("count = %d out of range", count)
	}
	want := []int{100, 100, 50}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", ticks, want)
		}
	}
}

func TestSamplingWorker_AllSquarefreeBelowFour(t *testing.T) {
	t.Parallel()
	factory := NewSamplingWorkerFactory(numtheory.NewCaches(), numtheory.DefaultOptions(), numtheory.NewSeedSource(1), 0)
	count, err := factory(0).RunTrials(context.Background(), big.NewInt(3), 500, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 500 {
		t.Errorf("count = %d, want 500 (1, 2 and 3 are squarefree)", count)
	}
}

func TestSamplingWorker_StopsOnCancel(t *testing.T) {
	t.Parallel()
	factory := NewSamplingWorkerFactory(numtheory.NewCaches(), numtheory.DefaultOptions(), numtheory.NewSeedSource(1), 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := factory(0).RunTrials(ctx, big.NewInt(1000), 1_000_000, func(int) { calls++ })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("%d batches ran after cancellation", calls)
	}
}

func TestProgressSnapshot_Fraction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s    ProgressSnapshot
		want float64
	}{
		{ProgressSnapshot{Done: 0, Total: 0}, 1},
		{ProgressSnapshot{Done: 25, Total: 100}, 0.25},
		{ProgressSnapshot{Done: 150, Total: 100}, 1},
	}
	for _, tt := range tests {
		if got := tt.s.Fraction(); got != tt.want {
			t.Errorf("Fraction(%+v) = %f, want %f", tt.s, got, tt.want)
		}
	}
}

func TestProgressAggregator_ResetsOnNewBound(t *testing.T) {
	t.Parallel()
	a := NewProgressAggregator()
	n1, n2 := big.NewInt(10), big.NewInt(20)

	p := a.Update(ProgressSnapshot{N: n1, Done: 50, Total: 100})
	if p.Fraction != 0.5 {
		t.Errorf("fraction = %f, want 0.5", p.Fraction)
	}
	p = a.Update(ProgressSnapshot{N: n2, Done: 10, Total: 100})
	if p.Fraction != 0.1 {
		t.Errorf("fraction after new bound = %f, want 0.1", p.Fraction)
	}
	if a.n != n2 {
		t.Error("aggregator did not switch to the new bound")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	if StateRunning.String() != "running" {
		t.Errorf("StateRunning = %q", StateRunning.String())
	}
	if State(42).String() != "State(42)" {
		t.Errorf("State(42) = %q", State(42).String())
	}
}

func TestSweepRequest_Points(t *testing.T) {
	t.Parallel()
	start := new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)
	points := SweepRequest{Start: start, Count: 11, Step: big.NewInt(10)}.Points()
	if len(points) != 11 {
		t.Fatalf("len(points) = %d, want 11", len(points))
	}
	last := new(big.Int).Add(start, big.NewInt(100))
	if points[10].Cmp(last) != 0 {
		t.Errorf("last point = %s, want %s", points[10], last)
	}
	if points[0].Cmp(start) != 0 || points[0] == start {
		t.Error("first point must equal start without aliasing it")
	}
}
