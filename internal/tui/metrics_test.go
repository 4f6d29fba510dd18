package tui

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/orchestration"
)

func TestMetricsModel_UpdateMemStats(t *testing.T) {
	m := NewMetricsModel()

	msg := MemStatsMsg{
		Alloc:        1024 * 1024 * 50,
		HeapInuse:    1024 * 1024 * 80,
		NumGC:        10,
		NumGoroutine: 8,
	}
	m.UpdateMemStats(msg)

	if m.alloc != msg.Alloc {
		t.Errorf("expected alloc %d, got %d", msg.Alloc, m.alloc)
	}
	if m.heapInuse != msg.HeapInuse {
		t.Errorf("expected heapInuse %d, got %d", msg.HeapInuse, m.heapInuse)
	}
	if m.numGC != msg.NumGC {
		t.Errorf("expected numGC %d, got %d", msg.NumGC, m.numGC)
	}
	if m.numGoroutine != msg.NumGoroutine {
		t.Errorf("expected numGoroutine %d, got %d", msg.NumGoroutine, m.numGoroutine)
	}
}

func TestMetricsModel_UpdateProgress(t *testing.T) {
	m := NewMetricsModel()
	// Force the lastUpdate back in time to ensure dt > 0.05
	m.lastUpdate = time.Now().Add(-1 * time.Second)

	m.UpdateProgress(5000)
	if m.speed <= 0 {
		t.Error("expected positive speed after progress update")
	}
	if m.lastDone != 5000 {
		t.Errorf("expected lastDone 5000, got %d", m.lastDone)
	}
}

func TestMetricsModel_UpdateProgress_Smoothing(t *testing.T) {
	m := NewMetricsModel()
	m.lastUpdate = time.Now().Add(-1 * time.Second)

	// First update: 3000 trials over ~1s
	m.UpdateProgress(3000)
	firstSpeed := m.speed
	if firstSpeed <= 0 {
		t.Fatal("precondition: first speed should be positive")
	}

	// Second update: 5000 more over ~0.5s, a faster instant rate
	m.lastUpdate = time.Now().Add(-500 * time.Millisecond)
	m.UpdateProgress(8000)

	if m.speed <= firstSpeed {
		t.Errorf("expected smoothed speed to rise above %f, got %f", firstSpeed, m.speed)
	}
}

func TestMetricsModel_UpdateProgress_TooFast(t *testing.T) {
	m := NewMetricsModel()
	// lastUpdate is now, so dt < 0.05 and the sample is dropped
	m.UpdateProgress(500)

	if m.speed != 0 {
		t.Errorf("expected speed to remain 0 when dt < 0.05, got %f", m.speed)
	}
}

func TestMetricsModel_UpdateProgress_NoForward(t *testing.T) {
	m := NewMetricsModel()
	m.lastUpdate = time.Now().Add(-1 * time.Second)
	m.lastDone = 500

	m.UpdateProgress(500)

	if m.speed != 0 {
		t.Errorf("expected speed to remain 0 when no forward progress, got %f", m.speed)
	}
}

func TestMetricsModel_UpdateResult_Accumulates(t *testing.T) {
	m := NewMetricsModel()
	m.UpdateResult(orchestration.Result{
		N: big.NewInt(100), CacheHits: 10, Exhaustions: 1,
		CacheSizes: numtheory.CacheSizes{Prime: 3, Factor: 2, Squarefree: 40},
	})
	m.UpdateResult(orchestration.Result{
		N: big.NewInt(110), CacheHits: 5,
		CacheSizes: numtheory.CacheSizes{Prime: 4, Factor: 2, Squarefree: 70},
	})

	if m.cacheHits != 15 {
		t.Errorf("expected 15 hits, got %d", m.cacheHits)
	}
	if m.exhaustions != 1 {
		t.Errorf("expected 1 exhaustion, got %d", m.exhaustions)
	}
	if m.cacheSizes.Squarefree != 70 {
		t.Errorf("expected latest table sizes, got %+v", m.cacheSizes)
	}
}

func TestMetricsModel_View(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(80, 10)

	m.UpdateMemStats(MemStatsMsg{
		Alloc:        1024 * 1024 * 50,
		HeapInuse:    1024 * 1024 * 80,
		NumGC:        10,
		NumGoroutine: 8,
	})
	m.UpdateSysStats(SysStatsMsg{ProcessRSS: 1024 * 1024 * 120})

	view := m.View()
	for _, want := range []string{"Metrics", "Memory", "50.0 MiB", "Heap", "GC Runs", "Speed", "Goroutines", "RSS", "120.0 MiB", "Cache hits", "Exhausted", "Tables"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestMetricsModel_SetSize(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(50, 20)

	if m.width != 50 {
		t.Errorf("expected width 50, got %d", m.width)
	}
	if m.height != 20 {
		t.Errorf("expected height 20, got %d", m.height)
	}
}

func TestFormatMetricCol(t *testing.T) {
	col := formatMetricCol("Memory:", "50.0 MiB", 30)
	if !strings.Contains(col, "Memory") {
		t.Error("expected column to contain label")
	}
	if !strings.Contains(col, "50.0 MiB") {
		t.Error("expected column to contain value")
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "-"},
		{-1, "-"},
		{950, "950/s"},
		{12_345, "12.3k/s"},
		{2_500_000, "2.50M/s"},
	}
	for _, tt := range tests {
		if got := formatRate(tt.in); got != tt.want {
			t.Errorf("formatRate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
