package orchestration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/sqfree/internal/cache"
	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/numtheory"
)

// TheoreticalDensity is the asymptotic density 6/π² of squarefree integers.
const TheoreticalDensity = 6 / (math.Pi * math.Pi)

// ErrBusy is returned by Run and Sweep when another run is in progress.
var ErrBusy = errors.New("orchestration: coordinator is busy")

var tracer = otel.Tracer("sqfree.orchestration")

// ─────────────────────────────────────────────────────────────────────────────
// State machine
// ─────────────────────────────────────────────────────────────────────────────

// State is the lifecycle phase of a Coordinator.
type State int32

const (
	StateIdle       State = iota // No run in progress.
	StateDispatched              // Shares computed, jobs being handed out.
	StateRunning                 // Every worker has its job.
	StateJoined                  // All workers finished; result being built.
	StateReported                // Result handed to the reporter.
)

var stateNames = [...]string{"idle", "dispatched", "running", "joined", "reported"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests and results
// ─────────────────────────────────────────────────────────────────────────────

// Request asks for Trials samples from [1, N].
type Request struct {
	N      *big.Int
	Trials int
}

func (r Request) validate() error {
	if r.N == nil || r.N.Sign() < 1 {
		return apperrors.ValidationError{Field: "n", Message: "must be at least 1"}
	}
	if r.Trials < 0 {
		return apperrors.ValidationError{Field: "trials", Message: "must be non-negative"}
	}
	return nil
}

// SweepRequest asks for Count runs at N = Start + i·Step, i = 0..Count-1,
// each with Trials samples.
type SweepRequest struct {
	Start  *big.Int
	Count  int
	Step   *big.Int
	Trials int
}

// Points returns the upper bounds visited by the sweep.
func (r SweepRequest) Points() []*big.Int {
	points := make([]*big.Int, 0, max(r.Count, 0))
	step := r.Step
	if step == nil {
		step = new(big.Int)
	}
	for i := range max(r.Count, 0) {
		n := new(big.Int).Mul(step, big.NewInt(int64(i)))
		points = append(points, n.Add(n, r.Start))
	}
	return points
}

// Result is the outcome of one Run.
type Result struct {
	N          *big.Int
	Trials     int
	Squarefree int64
	Workers    int

	// CacheHits counts memo hits across all three tables during this run.
	CacheHits uint64
	// CacheSizes is the size of each memo table after the run. Tables are
	// shared across a sweep, so sizes only grow.
	CacheSizes numtheory.CacheSizes
	// Exhaustions counts Pollard-rho budget exhaustions during this run.
	Exhaustions uint64
	Duration    time.Duration
}

// Empirical returns Squarefree/Trials, or NaN when no trial was run.
func (r Result) Empirical() float64 {
	if r.Trials == 0 {
		return math.NaN()
	}
	return float64(r.Squarefree) / float64(r.Trials)
}

// Theoretical returns 6/π².
func (r Result) Theoretical() float64 { return TheoreticalDensity }

// AbsError returns |Empirical - Theoretical|.
func (r Result) AbsError() float64 { return math.Abs(r.Empirical() - TheoreticalDensity) }

// ─────────────────────────────────────────────────────────────────────────────
// Coordinator
// ─────────────────────────────────────────────────────────────────────────────

// Config sizes a Coordinator.
type Config struct {
	// Workers is the pool size W.
	Workers int
	// Engine configures the per-worker number-theory engines.
	Engine numtheory.Options
	// Seed fixes the base seed of all workers; 0 draws a random one.
	Seed uint64
	// ProgressBatch is the number of trials between progress updates.
	ProgressBatch int
	// CacheShards sets the shard count of each memo table; 0 keeps the
	// default.
	CacheShards int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for run lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithObserver attaches an instrumentation observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithWorkerFactory replaces the sampling workers.
func WithWorkerFactory(f WorkerFactory) Option {
	return func(c *Coordinator) { c.factory = f }
}

// Coordinator drives runs on a persistent worker pool. Run and Sweep must not
// overlap; a second concurrent call fails with ErrBusy. Progress and State
// may be called from any goroutine at any time.
type Coordinator struct {
	caches   *numtheory.Caches
	seeds    numtheory.SeedSource
	pool     *Pool
	factory  WorkerFactory
	logger   zerolog.Logger
	observer Observer

	state   atomic.Int32
	done    atomic.Int64
	total   atomic.Int64
	current atomic.Pointer[big.Int]
}

// NewCoordinator creates the shared caches and starts the worker pool.
func NewCoordinator(cfg Config, opts ...Option) (*Coordinator, error) {
	if cfg.Workers < 1 {
		return nil, apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}

	var cacheOpts []cache.Option
	if cfg.CacheShards > 0 {
		cacheOpts = append(cacheOpts, cache.WithShards(cfg.CacheShards))
	}
	c := &Coordinator{
		caches:   numtheory.NewCaches(cacheOpts...),
		seeds:    numtheory.NewSeedSource(cfg.Seed),
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.factory == nil {
		c.factory = NewSamplingWorkerFactory(c.caches, cfg.Engine, c.seeds, cfg.ProgressBatch)
	}

	pool, err := NewPool(cfg.Workers, c.factory)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	c.logger.Debug().
		Int("workers", cfg.Workers).
		Uint64("seed", c.seeds.Base()).
		Str("primality", numtheory.Backend).
		Msg("worker pool started")
	return c, nil
}

// Close stops the worker pool.
func (c *Coordinator) Close() error { return c.pool.Close() }

// Workers returns the pool size.
func (c *Coordinator) Workers() int { return c.pool.Size() }

// Caches returns the memo tables shared by the workers.
func (c *Coordinator) Caches() *numtheory.Caches { return c.caches }

// Seed returns the base seed of the run.
func (c *Coordinator) Seed() uint64 { return c.seeds.Base() }

// State returns the current lifecycle phase.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Progress returns the trial counter of the current (or last) run.
func (c *Coordinator) Progress() ProgressSnapshot {
	return ProgressSnapshot{
		N:     c.current.Load(),
		Done:  c.done.Load(),
		Total: c.total.Load(),
	}
}

// Run samples req.Trials integers from [1, req.N] across the pool and
// returns the aggregated result after every worker has joined.
//
// Invalid requests fail with an apperrors.ValidationError before any work is
// dispatched. A cancelled ctx stops the workers at their next batch
// boundary; the context error is returned. A worker panic fails the run with
// an apperrors.CalculationError.
func (c *Coordinator) Run(ctx context.Context, req Request) (Result, error) {
	return c.run(ctx, req, nil)
}

// Sweep runs each point of req in order and reports every result as soon as
// its workers have joined. It stops at the first failing point and returns
// the results gathered so far. Caches are kept across points.
func (c *Coordinator) Sweep(ctx context.Context, req SweepRequest, reporter ResultReporter) ([]Result, error) {
	if req.Start == nil {
		return nil, apperrors.ValidationError{Field: "n", Message: "start is required"}
	}
	if req.Count < 1 {
		return nil, apperrors.ValidationError{Field: "count", Message: "must be at least 1"}
	}
	if reporter == nil {
		reporter = NullResultReporter{}
	}

	ctx, span := tracer.Start(ctx, "orchestration.Sweep",
		trace.WithAttributes(
			attribute.String("start", req.Start.String()),
			attribute.Int("count", req.Count),
			attribute.Int("trials", req.Trials),
		),
	)
	defer span.End()

	results := make([]Result, 0, req.Count)
	for _, n := range req.Points() {
		res, err := c.run(ctx, Request{N: n, Trials: req.Trials}, reporter)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return results, err
		}
		results = append(results, res)
	}
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func (c *Coordinator) run(ctx context.Context, req Request, reporter ResultReporter) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateDispatched)) {
		return Result{}, ErrBusy
	}
	defer c.setState(StateIdle)

	n := new(big.Int).Set(req.N)
	ctx, span := tracer.Start(ctx, "orchestration.Run",
		trace.WithAttributes(
			attribute.String("n", n.String()),
			attribute.Int("trials", req.Trials),
			attribute.Int("workers", c.pool.Size()),
		),
	)
	defer span.End()

	c.done.Store(0)
	c.total.Store(int64(req.Trials))
	c.current.Store(n)
	hitsBefore := c.caches.Hits()
	exhaustedBefore := c.caches.Exhaustions()

	start := time.Now()
	batch, err := c.pool.Submit(ctx, n, Partition(req.Trials, c.pool.Size()), c.tick)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	c.setState(StateRunning)
	c.logger.Debug().Str("n", n.String()).Int("trials", req.Trials).Msg("run dispatched")

	squarefree, err := batch.Wait()
	c.setState(StateJoined)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if apperrors.IsContextError(err) {
			return Result{}, apperrors.WrapError(err, "run n=%s interrupted", n)
		}
		var calcErr apperrors.CalculationError
		if !errors.As(err, &calcErr) {
			err = apperrors.CalculationError{Cause: err}
		}
		c.logger.Error().Err(err).Str("n", n.String()).Msg("run failed")
		return Result{}, err
	}

	res := Result{
		N:           n,
		Trials:      req.Trials,
		Squarefree:  squarefree,
		Workers:     c.pool.Size(),
		CacheHits:   c.caches.Hits() - hitsBefore,
		CacheSizes:  c.caches.Sizes(),
		Exhaustions: c.caches.Exhaustions() - exhaustedBefore,
		Duration:    time.Since(start),
	}
	span.SetAttributes(
		attribute.Int64("squarefree", res.Squarefree),
		attribute.Float64("empirical", res.Empirical()),
		attribute.Int64("cache_hits", int64(res.CacheHits)),
	)
	span.SetStatus(codes.Ok, "")
	c.observer.ObserveRun(res)
	c.logger.Debug().
		Str("n", n.String()).
		Int64("squarefree", res.Squarefree).
		Uint64("cache_hits", res.CacheHits).
		Dur("duration", res.Duration).
		Msg("run joined")

	if reporter != nil {
		c.setState(StateReported)
		reporter.ReportResult(res)
	}
	return res, nil
}

// tick is the worker progress callback.
func (c *Coordinator) tick(trials int) {
	c.done.Add(int64(trials))
	c.observer.ObserveBatch(trials)
}

func (c *Coordinator) setState(s State) { c.state.Store(int32(s)) }
