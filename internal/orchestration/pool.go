package orchestration

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/parallel"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("orchestration: worker pool is closed")

// job is one worker's share of a batch.
type job struct {
	ctx    context.Context
	n      *big.Int
	trials int
	done   func(int)
	batch  *Batch
}

// Pool is a fixed set of long-lived worker goroutines. Goroutines are started
// once by NewPool and reused by every Submit until Close.
type Pool struct {
	workers []Worker
	jobs    []chan job
	group   errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size goroutines, each owning the worker that factory builds
// for its slot.
func NewPool(size int, factory WorkerFactory) (*Pool, error) {
	if size < 1 {
		return nil, apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	p := &Pool{
		workers: make([]Worker, size),
		jobs:    make([]chan job, size),
	}
	for i := range size {
		p.workers[i] = factory(i)
		p.jobs[i] = make(chan job, 1)
		jobs := p.jobs[i]
		p.group.Go(func() error {
			for j := range jobs {
				p.execute(i, j)
			}
			return nil
		})
	}
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Submit hands shares[i] trials over [1, n] to worker i and returns without
// waiting. len(shares) must equal Size. done is forwarded to every worker.
func (p *Pool) Submit(ctx context.Context, n *big.Int, shares []int, done func(int)) (*Batch, error) {
	if len(shares) != len(p.workers) {
		return nil, fmt.Errorf("orchestration: %d shares for %d workers", len(shares), len(p.workers))
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	b := &Batch{}
	b.wg.Add(len(shares))
	for i, trials := range shares {
		p.jobs[i] <- job{ctx: ctx, n: n, trials: trials, done: done, batch: b}
	}
	return b, nil
}

// Close stops the worker goroutines after their current job and waits for
// them to exit. It is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		for _, ch := range p.jobs {
			close(ch)
		}
	}
	p.mu.Unlock()
	return p.group.Wait()
}

func (p *Pool) execute(i int, j job) {
	defer j.batch.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			j.batch.errs.SetError(apperrors.CalculationError{Cause: apperrors.PanicError{Worker: i, Value: r}})
		}
	}()

	if j.trials == 0 {
		return
	}
	count, err := p.workers[i].RunTrials(j.ctx, j.n, j.trials, j.done)
	j.batch.squarefree.Add(count)
	j.batch.errs.SetError(err)
}

// Batch tracks the jobs of one Submit call.
type Batch struct {
	wg         sync.WaitGroup
	squarefree atomic.Int64
	errs       parallel.ErrorCollector
}

// Wait blocks until every worker has finished its share and returns the
// merged squarefree count and the first error any worker reported.
func (b *Batch) Wait() (int64, error) {
	b.wg.Wait()
	return b.squarefree.Load(), b.errs.Err()
}
