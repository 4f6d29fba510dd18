package orchestration

import (
	"context"
	"math/big"

	"github.com/agbru/sqfree/internal/numtheory"
)

// DefaultProgressBatch is the number of trials a worker completes between
// progress updates and cancellation checks.
const DefaultProgressBatch = 256

// SamplingWorker is the production Worker: it samples with a private
// numtheory.Sampler and classifies with a private numtheory.Engine whose
// memo tables are shared with every other worker.
type SamplingWorker struct {
	engine  *numtheory.Engine
	sampler *numtheory.Sampler
	batch   int
}

var _ Worker = (*SamplingWorker)(nil)

// NewSamplingWorkerFactory returns a factory producing SamplingWorkers over
// the shared caches. Worker i draws engine randomness from seed 2i and
// samples from seed 2i+1 of the seed source, so no two random streams of a
// run coincide.
func NewSamplingWorkerFactory(caches *numtheory.Caches, opts numtheory.Options, seeds numtheory.SeedSource, batch int) WorkerFactory {
	if batch <= 0 {
		batch = DefaultProgressBatch
	}
	return func(i int) Worker {
		return &SamplingWorker{
			engine:  numtheory.NewEngine(caches, opts, seeds.Rand(2*i)),
			sampler: numtheory.NewSampler(seeds.Rand(2*i + 1)),
			batch:   batch,
		}
	}
}

// RunTrials implements Worker.
func (w *SamplingWorker) RunTrials(ctx context.Context, n *big.Int, trials int, done func(int)) (int64, error) {
	var squarefree int64
	for remaining := trials; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return squarefree, err
		}
		batch := min(remaining, w.batch)
		for range batch {
			if w.engine.IsSquarefree(w.sampler.Sample(n)) {
				squarefree++
			}
		}
		remaining -= batch
		if done != nil {
			done(batch)
		}
	}
	return squarefree, nil
}
