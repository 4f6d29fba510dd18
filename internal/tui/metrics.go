package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/orchestration"
)

// MetricsModel displays runtime memory, sampling throughput and memo table
// figures.
type MetricsModel struct {
	alloc        uint64
	heapInuse    uint64
	numGC        uint32
	numGoroutine int
	processRSS   uint64

	speed      float64 // trials per second, smoothed
	lastDone   int64
	lastUpdate time.Time

	cacheHits   uint64
	exhaustions uint64
	cacheSizes  numtheory.CacheSizes

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.numGC = msg.NumGC
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats records the process resident set size.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.processRSS = msg.ProcessRSS
}

// UpdateProgress folds the cumulative trial count of the sweep into the
// smoothed trials/s rate. Samples closer than 50ms are ignored.
func (m *MetricsModel) UpdateProgress(done int64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := done - m.lastDone
		if dp > 0 {
			instantSpeed := float64(dp) / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastDone = done
		m.lastUpdate = now
	}
}

// UpdateResult accumulates memo figures from a finished point.
func (m *MetricsModel) UpdateResult(r orchestration.Result) {
	m.cacheHits += r.CacheHits
	m.exhaustions += r.Exhaustions
	m.cacheSizes = r.CacheSizes
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render(" Metrics"))

	colWidth := (m.width - 4) / 2
	leftCol := []string{
		formatMetricCol("Memory:", format.FormatBytes(m.alloc), colWidth),
		formatMetricCol("Heap:", format.FormatBytes(m.heapInuse), colWidth),
		formatMetricCol("Speed:", formatRate(m.speed), colWidth),
		formatMetricCol("Cache hits:", format.FormatNumberString(fmt.Sprint(m.cacheHits)), colWidth),
	}
	rightCol := []string{
		formatMetricCol("RSS:", format.FormatBytes(m.processRSS), colWidth),
		formatMetricCol("GC Runs:", fmt.Sprintf("%d", m.numGC), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
		formatMetricCol("Exhausted:", fmt.Sprintf("%d", m.exhaustions), colWidth),
	}
	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Tables:", fmt.Sprintf("prime %d  factor %d  squarefree %d",
		m.cacheSizes.Prime, m.cacheSizes.Factor, m.cacheSizes.Squarefree), m.width-4))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

// formatRate renders a trials/s figure with a k or M suffix.
func formatRate(r float64) string {
	switch {
	case r <= 0:
		return "-"
	case r >= 1e6:
		return fmt.Sprintf("%.2fM/s", r/1e6)
	case r >= 1e3:
		return fmt.Sprintf("%.1fk/s", r/1e3)
	default:
		return fmt.Sprintf("%.0f/s", r)
	}
}
