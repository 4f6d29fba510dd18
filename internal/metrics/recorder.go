package metrics

import (
	"math"
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agbru/sqfree/internal/orchestration"
)

// Namespace prefixes every series.
const Namespace = "sqfree"

// NewRegistry returns a registry preloaded with the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Recorder turns coordinator events into Prometheus series.
type Recorder struct {
	TrialsTotal      prometheus.Counter
	RunsTotal        prometheus.Counter
	SquarefreeTotal  prometheus.Counter
	CacheHitsTotal   prometheus.Counter
	ExhaustionsTotal prometheus.Counter
	RunDuration      prometheus.Histogram
	Empirical        prometheus.Gauge
	AbsError         prometheus.Gauge
	Bound            prometheus.Gauge
	CacheEntries     *prometheus.GaugeVec
	HeapAlloc        prometheus.Gauge

	memory *MemoryCollector
}

var _ orchestration.Observer = (*Recorder)(nil)

// NewRecorder registers the sampling series on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		TrialsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "trials_total",
			Help:      "Samples classified, updated once per worker batch.",
		}),
		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Completed sampling runs.",
		}),
		SquarefreeTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "squarefree_total",
			Help:      "Samples classified as squarefree in completed runs.",
		}),
		CacheHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_hits_total",
			Help:      "Memo table hits across the prime, factor and squarefree tables.",
		}),
		ExhaustionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rho_exhaustions_total",
			Help:      "Pollard-rho searches that ran out of iteration budget.",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one sampling run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		Empirical: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "empirical_density",
			Help:      "Squarefree fraction of the last completed run.",
		}),
		AbsError: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "abs_error",
			Help:      "Absolute difference between the last empirical density and 6/pi^2.",
		}),
		Bound: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "bound",
			Help:      "Upper bound N of the last completed run (float approximation).",
		}),
		CacheEntries: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "cache_entries",
			Help:      "Entries per memo table.",
		}, []string{"table"}),
		HeapAlloc: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes in use after the last completed run.",
		}),
		memory: NewMemoryCollector(),
	}
}

// ObserveBatch counts trials as workers finish batches.
func (r *Recorder) ObserveBatch(trials int) {
	r.TrialsTotal.Add(float64(trials))
}

// ObserveRun records a completed run.
func (r *Recorder) ObserveRun(res orchestration.Result) {
	r.RunsTotal.Inc()
	r.SquarefreeTotal.Add(float64(res.Squarefree))
	r.CacheHitsTotal.Add(float64(res.CacheHits))
	r.ExhaustionsTotal.Add(float64(res.Exhaustions))
	r.RunDuration.Observe(res.Duration.Seconds())

	if e := res.Empirical(); !math.IsNaN(e) {
		r.Empirical.Set(e)
		r.AbsError.Set(res.AbsError())
	}
	if res.N != nil {
		f, _ := new(big.Float).SetInt(res.N).Float64()
		r.Bound.Set(f)
	}

	r.CacheEntries.WithLabelValues("prime").Set(float64(res.CacheSizes.Prime))
	r.CacheEntries.WithLabelValues("factor").Set(float64(res.CacheSizes.Factor))
	r.CacheEntries.WithLabelValues("squarefree").Set(float64(res.CacheSizes.Squarefree))

	r.HeapAlloc.Set(float64(r.memory.Snapshot().HeapAlloc))
}
