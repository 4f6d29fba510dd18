package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/agbru/sqfree/internal/errors"
)

// runWorkers starts n goroutines behind a barrier; worker i runs fn(i) and
// reports the outcome, recovering panics the way the sampling pool does.
func runWorkers(ec *ErrorCollector, n int, fn func(i int) error) {
	var wg sync.WaitGroup
	barrier := make(chan struct{})
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					ec.SetError(apperrors.CalculationError{Cause: apperrors.PanicError{Worker: i, Value: r}})
				}
			}()
			<-barrier
			ec.SetError(fn(i))
		}()
	}
	close(barrier)
	wg.Wait()
}

// TestErrorCollector_ConcurrentWorkerPanics checks that exactly one
// recovered worker panic is kept when every worker of a large pool panics
// at once.
func TestErrorCollector_ConcurrentWorkerPanics(t *testing.T) {
	for round := range 50 {
		var ec ErrorCollector
		runWorkers(&ec, 256, func(i int) error {
			panic(fmt.Sprintf("factor of n < 2 requested by worker %d", i))
		})

		err := ec.Err()
		if err == nil {
			t.Fatalf("round %d: expected an error, got nil", round)
		}
		var calc apperrors.CalculationError
		if !errors.As(err, &calc) {
			t.Fatalf("round %d: got %T, want CalculationError", round, err)
		}
		var p apperrors.PanicError
		if !errors.As(err, &p) || p.Worker < 0 || p.Worker >= 256 {
			t.Errorf("round %d: unexpected panic record %+v", round, p)
		}
	}
}

// TestErrorCollector_FinishedWorkersIgnored mixes workers that finish their
// share cleanly with workers stopped by cancellation; only the cancellation
// is kept.
func TestErrorCollector_FinishedWorkersIgnored(t *testing.T) {
	var ec ErrorCollector
	runWorkers(&ec, 1000, func(i int) error {
		if i%2 == 0 {
			return nil
		}
		return fmt.Errorf("worker %d: %w", i, context.Canceled)
	})

	err := ec.Err()
	if err == nil {
		t.Fatal("expected the cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", err)
	}
	if got := apperrors.ExitCode(err); got != apperrors.ExitErrorCanceled {
		t.Errorf("ExitCode = %d, want %d", got, apperrors.ExitErrorCanceled)
	}
}

// TestErrorCollector_AllWorkersSucceed verifies a clean batch reports no
// error.
func TestErrorCollector_AllWorkersSucceed(t *testing.T) {
	var ec ErrorCollector
	runWorkers(&ec, 64, func(int) error { return nil })
	if err := ec.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}
