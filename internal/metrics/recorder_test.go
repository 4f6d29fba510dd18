package metrics

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/orchestration"
)

func TestRecorder_ObserveBatch(t *testing.T) {
	t.Parallel()
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveBatch(256)
	r.ObserveBatch(44)

	assert.InDelta(t, 300, testutil.ToFloat64(r.TrialsTotal), 1e-9)
}

func TestRecorder_ObserveRun(t *testing.T) {
	t.Parallel()
	r := NewRecorder(prometheus.NewRegistry())

	res := orchestration.Result{
		N:           big.NewInt(1_000_000),
		Trials:      1000,
		Squarefree:  608,
		CacheHits:   17,
		CacheSizes:  numtheory.CacheSizes{Prime: 3, Factor: 2, Squarefree: 900},
		Exhaustions: 1,
		Duration:    250 * time.Millisecond,
	}
	r.ObserveRun(res)
	r.ObserveRun(res)

	assert.InDelta(t, 2, testutil.ToFloat64(r.RunsTotal), 1e-9)
	assert.InDelta(t, 1216, testutil.ToFloat64(r.SquarefreeTotal), 1e-9)
	assert.InDelta(t, 34, testutil.ToFloat64(r.CacheHitsTotal), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(r.ExhaustionsTotal), 1e-9)
	assert.InDelta(t, 0.608, testutil.ToFloat64(r.Empirical), 1e-9)
	assert.InDelta(t, res.AbsError(), testutil.ToFloat64(r.AbsError), 1e-9)
	assert.InDelta(t, 1e6, testutil.ToFloat64(r.Bound), 1e-3)
	assert.InDelta(t, 900, testutil.ToFloat64(r.CacheEntries.WithLabelValues("squarefree")), 1e-9)
	assert.Positive(t, testutil.ToFloat64(r.HeapAlloc))
}

func TestRecorder_ZeroTrialsKeepsDensity(t *testing.T) {
	t.Parallel()
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveRun(orchestration.Result{N: big.NewInt(10), Trials: 4, Squarefree: 2})
	r.ObserveRun(orchestration.Result{N: big.NewInt(10), Trials: 0})

	assert.InDelta(t, 0.5, testutil.ToFloat64(r.Empirical), 1e-9, "a run without trials must not publish NaN")
}

func TestNewRegistry_Exposition(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	r := NewRecorder(reg)
	r.ObserveBatch(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, "sqfree_trials_total")
	assert.Contains(t, joined, "go_goroutines")
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
