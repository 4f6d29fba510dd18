package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sqfree/internal/config"
	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/orchestration"
)

// Column widths of the results table (shared between header and rows).
const (
	colWidthBound     = 18
	colWidthEmpirical = 10
	colWidthDelta     = 10
	colWidthDuration  = 10
	colWidthHits      = 10
)

// ResultsModel is the scrolling left panel: run configuration followed by
// one table row per finished sweep point.
type ResultsModel struct {
	keys   KeyMap
	lines  []string
	offset int
	follow bool

	points     int
	trials     int64
	squarefree int64

	width  int
	height int
}

// NewResultsModel creates an empty panel that follows new rows.
func NewResultsModel() ResultsModel {
	return ResultsModel{keys: DefaultKeyMap(), follow: true}
}

// SetSize updates dimensions.
func (r *ResultsModel) SetSize(w, h int) {
	r.width = w
	r.height = h
}

// AddExecutionConfig writes the run parameters above the table.
func (r *ResultsModel) AddExecutionConfig(cfg config.AppConfig, workers int, seed uint64) {
	r.lines = append(r.lines,
		fmt.Sprintf("%s %s  %s %d  %s %d",
			metricLabelStyle.Render("Start:"), metricValueStyle.Render(format.FormatBound(cfg.N)),
			metricLabelStyle.Render("Points:"), cfg.Count,
			metricLabelStyle.Render("Step:"), cfg.Step),
		fmt.Sprintf("%s %s  %s %d  %s %d",
			metricLabelStyle.Render("Trials:"), metricValueStyle.Render(format.FormatNumberString(fmt.Sprint(cfg.Trials))),
			metricLabelStyle.Render("Workers:"), workers,
			metricLabelStyle.Render("Seed:"), seed),
		"",
		tableHeaderStyle.Render(tableRow("N", "Empirical", "|Δ|", "Time", "Hits")),
	)
}

// AddResult appends the row for a finished point.
func (r *ResultsModel) AddResult(res orchestration.Result) {
	r.points++
	r.trials += int64(res.Trials)
	r.squarefree += res.Squarefree

	emp := format.FormatDensity(res.Empirical())
	delta := format.FormatDensity(res.AbsError())
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		rowBoundStyle.Render(padCell(format.FormatBound(res.N), colWidthBound)),
		rowDensityStyle.Render(padCell(emp, colWidthEmpirical)),
		deviationStyle(res).Render(padCell(delta, colWidthDelta)),
		rowDimStyle.Render(padCell(format.FormatExecutionDuration(res.Duration), colWidthDuration)),
		rowDimStyle.Render(padCell(fmt.Sprint(res.CacheHits), colWidthHits)),
	)
	r.lines = append(r.lines, row)
}

// AddSummary appends the pooled density over every point reported so far.
func (r *ResultsModel) AddSummary() {
	pooled := math.NaN()
	if r.trials > 0 {
		pooled = float64(r.squarefree) / float64(r.trials)
	}
	r.lines = append(r.lines, "",
		fmt.Sprintf("%s %d  %s %s  %s %s",
			metricLabelStyle.Render("Points:"), r.points,
			metricLabelStyle.Render("Pooled:"), metricValueStyle.Render(format.FormatDensity(pooled)),
			metricLabelStyle.Render("|Δ|:"), metricValueStyle.Render(format.FormatDensity(math.Abs(pooled-orchestration.TheoreticalDensity)))),
	)
}

// AddError appends a failure line.
func (r *ResultsModel) AddError(msg ErrorMsg) {
	r.lines = append(r.lines, "", rowErrorStyle.Render(
		fmt.Sprintf("Sweep failed after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// Reset clears all rows and totals.
func (r *ResultsModel) Reset() {
	r.lines = nil
	r.offset = 0
	r.follow = true
	r.points, r.trials, r.squarefree = 0, 0, 0
}

// Points returns the number of rows reported.
func (r ResultsModel) Points() int { return r.points }

// Update scrolls the panel.
func (r *ResultsModel) Update(msg tea.KeyMsg) {
	visible := r.visibleLines(r.height)
	maxOffset := max(len(r.lines)-visible, 0)
	if r.follow {
		r.offset = maxOffset
	}
	switch {
	case key.Matches(msg, r.keys.Up):
		r.offset--
	case key.Matches(msg, r.keys.Down):
		r.offset++
	case key.Matches(msg, r.keys.PageUp):
		r.offset -= visible
	case key.Matches(msg, r.keys.PageDown):
		r.offset += visible
	}
	r.offset = min(max(r.offset, 0), maxOffset)
	r.follow = r.offset == maxOffset
}

// visibleLines is the number of content lines inside a panel of height h:
// borders and the title take three.
func (r ResultsModel) visibleLines(h int) int {
	return max(h-3, 1)
}

// renderToHeight renders the panel at exactly h rows.
func (r ResultsModel) renderToHeight(h int) string {
	visible := r.visibleLines(h)
	start := r.offset
	if r.follow {
		start = max(len(r.lines)-visible, 0)
	}
	end := min(start+visible, len(r.lines))

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" Results"))
	for _, line := range r.lines[start:end] {
		b.WriteString("\n ")
		b.WriteString(line)
	}
	return panelStyle.
		Width(max(r.width-2, 0)).
		Height(max(h-2, 0)).
		Render(b.String())
}

// View renders the panel at its configured height.
func (r ResultsModel) View() string { return r.renderToHeight(r.height) }

func tableRow(n, emp, delta, dur, hits string) string {
	return padCell(n, colWidthBound) +
		padCell(emp, colWidthEmpirical) +
		padCell(delta, colWidthDelta) +
		padCell(dur, colWidthDuration) +
		padCell(hits, colWidthHits)
}

// padCell left-aligns s in a cell of width w, truncating when needed.
func padCell(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return truncateString(s, w-1) + " "
	}
	return s + strings.Repeat(" ", w-n)
}

// truncateString truncates a string to maxLen runes, adding "..." if
// truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// Deviation levels of a point's |Δ|.
const (
	deviationNone = iota
	deviationGood
	deviationWarn
	deviationBad
)

// deviationLevel grades |Δ| against the binomial standard error
// sqrt(p(1-p)/m): within two sigma is good, within four a warning.
func deviationLevel(res orchestration.Result) int {
	if res.Trials == 0 {
		return deviationNone
	}
	p := orchestration.TheoreticalDensity
	sigma := math.Sqrt(p * (1 - p) / float64(res.Trials))
	switch d := res.AbsError(); {
	case d <= 2*sigma:
		return deviationGood
	case d <= 4*sigma:
		return deviationWarn
	default:
		return deviationBad
	}
}

func deviationStyle(res orchestration.Result) lipgloss.Style {
	switch deviationLevel(res) {
	case deviationGood:
		return rowGoodStyle
	case deviationWarn:
		return rowWarnStyle
	case deviationBad:
		return rowErrorStyle
	default:
		return rowDimStyle
	}
}
