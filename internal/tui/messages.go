package tui

import (
	"time"

	"github.com/agbru/sqfree/internal/orchestration"
)

// TickMsg drives periodic sampling.
type TickMsg time.Time

// ProgressMsg carries one polled coordinator snapshot.
type ProgressMsg struct {
	Progress orchestration.AggregatedProgress
}

// ResultMsg carries a finished sweep point.
type ResultMsg struct {
	Result     orchestration.Result
	Generation uint64
}

// ErrorMsg reports a failed sweep.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// MemStatsMsg carries Go runtime memory statistics.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	NumGC        uint32
	NumGoroutine int
}

// SysStatsMsg carries host and process resource usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	ProcessRSS uint64
}

// SweepCompleteMsg is sent when a sweep returns, successfully or not.
type SweepCompleteMsg struct {
	Err        error
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the sweep context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
