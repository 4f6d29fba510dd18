package tui

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/orchestration"
)

const (
	// sparklineLabelWidth is the horizontal space taken by the panel border,
	// the "CPU " label and the trailing percentage of a sparkline row.
	sparklineLabelWidth = 17
	// sparklineMinHeight is the panel height below which sparklines are
	// hidden.
	sparklineMinHeight = 10
	// densityHistory bounds how many sweep points the convergence plot keeps.
	densityHistory = 256
	// minDensitySpan keeps the plot from magnifying noise when every point
	// lands on 6/π².
	minDensitySpan = 1e-4
)

// ChartModel shows the progress of the current point, the empirical
// density of each finished point plotted around 6/π², and host CPU and
// memory sparklines.
type ChartModel struct {
	n               *big.Int
	averageProgress float64
	eta             time.Duration
	densities       *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	done            bool
	elapsed         time.Duration
	width           int
	height          int
}

// NewChartModel creates a new chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		densities:  NewRingBuffer(densityHistory),
		cpuHistory: NewRingBuffer(1),
		memHistory: NewRingBuffer(1),
	}
}

// SetSize updates dimensions and resizes the sparkline buffers to the new
// width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	sw := max(w-sparklineLabelWidth, 1)
	c.cpuHistory.Resize(sw)
	c.memHistory.Resize(sw)
}

// AddDataPoint records the progress of the point with bound n.
func (c *ChartModel) AddDataPoint(n *big.Int, progress float64, eta time.Duration) {
	c.n = n
	c.averageProgress = progress
	c.eta = eta
}

// AddDensity appends the empirical density of a finished point. NaN (a
// point with no trials) is skipped.
func (c *ChartModel) AddDensity(p float64) {
	if math.IsNaN(p) {
		return
	}
	c.densities.Push(p)
}

// UpdateSysStats appends host CPU and memory samples.
func (c *ChartModel) UpdateSysStats(cpu, mem float64) {
	c.cpuHistory.Push(cpu)
	c.memHistory.Push(mem)
}

// SetDone freezes the panel with the total elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
}

// Reset clears all samples.
func (c *ChartModel) Reset() {
	c.n = nil
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.elapsed = 0
	c.densities.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.height-2, 0)
	lines := []string{panelTitleStyle.Render(" Convergence")}

	status := "ETA: " + format.FormatETA(c.eta)
	if c.done {
		status = "Done in " + format.FormatExecutionDuration(c.elapsed)
	}
	lines = append(lines, fmt.Sprintf(" %s %s  %s",
		metricLabelStyle.Render("N="), metricValueStyle.Render(format.FormatBound(c.n)),
		metricLabelStyle.Render(status)))
	if bar := c.renderProgressBar(); bar != "" {
		lines = append(lines, bar)
	}

	showSparklines := c.height >= sparklineMinHeight
	reserved := len(lines) + 1
	if showSparklines {
		reserved += 2
	}
	if rows := inner - reserved; rows > 0 {
		lines = append(lines, c.renderDensityPlot(rows)...)
	}

	if showSparklines {
		lines = append(lines,
			c.renderSparkline("CPU", c.cpuHistory, cpuSparklineStyle.Render),
			c.renderSparkline("MEM", c.memHistory, memSparklineStyle.Render))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(inner).
		Render(strings.Join(lines, "\n"))
}

// renderProgressBar renders " ████░░░░ 65.0%", or "" when the panel is too
// narrow.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 14
	if barWidth < 5 {
		return ""
	}
	p := min(max(c.averageProgress, 0), 1)
	filled := int(p * float64(barWidth))
	return fmt.Sprintf(" %s%s %5.1f%%",
		chartBarStyle.Render(strings.Repeat("█", filled)),
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled)),
		p*100)
}

// renderDensityPlot draws finished-point densities as a braille chart of
// the given height, centered on 6/π², followed by a scale line.
func (c ChartModel) renderDensityPlot(rows int) []string {
	width := max(c.width-4, 1)
	values := c.densities.Slice()
	if len(values) == 0 {
		return append(make([]string, 0, rows+1),
			chartEmptyStyle.Render(" waiting for the first point..."))
	}
	theta := orchestration.TheoreticalDensity
	span := max(MaxDeviation(values, theta)*1.1, minDensitySpan)

	plot := RenderBrailleChart(ScaleAround(values, theta, span), width, rows)
	out := make([]string, 0, len(plot)+1)
	for _, line := range plot {
		out = append(out, " "+chartBarStyle.Render(line))
	}
	out = append(out, " "+chartTargetStyle.Render(
		fmt.Sprintf("mid 6/π² = %s  ± %.2e", format.FormatDensity(theta), span)))
	return out
}

func (c ChartModel) renderSparkline(label string, rb *RingBuffer, style func(...string) string) string {
	return fmt.Sprintf(" %s %s %5.1f%%",
		metricLabelStyle.Render(label),
		style(RenderSparkline(rb.Slice())),
		rb.Last())
}
