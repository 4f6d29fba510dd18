package tui

import (
	"context"
	"math/big"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sqfree/internal/config"
	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/orchestration"
	"github.com/agbru/sqfree/internal/sysmon"
)

// SweepRunner is the coordinator surface the dashboard drives.
type SweepRunner interface {
	orchestration.ProgressSource
	Sweep(ctx context.Context, req orchestration.SweepRequest, reporter orchestration.ResultReporter) ([]orchestration.Result, error)
	Workers() int
	Seed() uint64
}

// ExecutionState holds the execution-related fields of a dashboard session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
	// finished is closed when the sweep of the current generation returns.
	finished chan struct{}
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// resultsWidth returns the width allocated to the results panel.
func (l LayoutManager) resultsWidth() int {
	return l.width * ResultsPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.resultsWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Layout constants for the dashboard.
const (
	headerHeight             = 1
	footerHeight             = 1
	minBodyHeight            = 4
	ResultsPanelWidthPercent = 60
	MetricsPanelHeight       = 9
	tickInterval             = 500 * time.Millisecond

	// shutdownGrace bounds how long Run waits for a cancelled sweep to
	// release the coordinator.
	shutdownGrace = 5 * time.Second
)

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	runner    SweepRunner
	next      orchestration.ResultReporter
	ref       *programRef
	agg       *orchestration.ProgressAggregator

	// completedTrials sums the trials of finished points; lastCompleted is
	// the bound of the most recent one, whose counter is already included.
	completedTrials int64
	lastCompleted   *big.Int

	paused   bool
	showHelp bool
}

// NewModel creates a dashboard that sweeps cfg on runner. Every finished
// point is also passed to next when it is not nil.
func NewModel(parentCtx context.Context, runner SweepRunner, cfg config.AppConfig, version string, next orchestration.ResultReporter) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	results := NewResultsModel()
	results.AddExecutionConfig(cfg, runner.Workers(), runner.Seed())

	return Model{
		header:  NewHeaderModel(version),
		results: results,
		metrics: NewMetricsModel(),
		chart:   NewChartModel(),
		footer:  NewFooterModel(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
			finished: make(chan struct{}),
		},
		parentCtx: parentCtx,
		config:    cfg,
		runner:    runner,
		next:      next,
		ref:       &programRef{},
		agg:       orchestration.NewProgressAggregator(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSweepCmd(m.ref, m.ctx, m.runner, m.config, m.next, m.generation, nil, m.finished),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		m.applyProgress(msg.Progress)
		return m, nil

	case ResultMsg:
		if msg.Generation != m.generation {
			return m, nil // stale point from a restarted sweep
		}
		r := msg.Result
		m.results.AddResult(r)
		m.metrics.UpdateResult(r)
		m.chart.AddDensity(r.Empirical())
		m.completedTrials += int64(r.Trials)
		m.lastCompleted = r.N
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m.applyProgress(m.agg.Update(m.runner.Progress()))
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case SweepCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from previous sweep
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		if msg.Err != nil {
			m.results.AddError(ErrorMsg{Err: msg.Err, Duration: m.header.Elapsed()})
			m.footer.SetError(true)
		} else {
			m.chart.AddDataPoint(m.lastCompleted, 1, 0)
			m.results.AddSummary()
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from previous sweep
		}
		m.done = true
		if m.parentCtx.Err() != nil {
			m.exitCode = apperrors.ExitCode(msg.Err)
		}
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyProgress(p orchestration.AggregatedProgress) {
	if m.paused {
		return
	}
	m.chart.AddDataPoint(p.Snapshot.N, p.Fraction, p.ETA)
	done := m.completedTrials
	if p.Snapshot.N != m.lastCompleted {
		done += p.Snapshot.Done
	}
	m.metrics.UpdateProgress(done)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		// Cancel the current sweep; the next one waits until it has
		// released the coordinator.
		if m.cancel != nil {
			m.cancel()
		}
		prev := m.finished

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel
		m.finished = make(chan struct{})

		m.header.Reset()
		m.results.Reset()
		m.results.AddExecutionConfig(m.config, m.runner.Workers(), m.runner.Seed())
		m.chart.Reset()
		m.metrics = NewMetricsModel()
		m.agg = orchestration.NewProgressAggregator()
		m.completedTrials = 0
		m.lastCompleted = nil
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		m.layoutPanels()

		return m, tea.Batch(
			tickCmd(),
			startSweepCmd(m.ref, m.ctx, m.runner, m.config, m.next, m.generation, prev, m.finished),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.results.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.header.View()
	footer := m.footer.View()

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	results := m.results.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, results, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.results.SetSize(m.resultsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run is the public entry point for the dashboard mode. It sweeps cfg on
// runner until the sweep ends and the user quits, or ctx is cancelled, and
// returns the exit code.
func Run(ctx context.Context, runner SweepRunner, cfg config.AppConfig, version string, next orchestration.ResultReporter) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, runner, cfg, version, next)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so the sweep can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	m, ok := finalModel.(Model)
	if ok {
		m.cancel()
		select {
		case <-m.finished:
		case <-time.After(shutdownGrace):
		}
	}

	switch {
	case ctx.Err() != nil:
		return apperrors.ExitCode(ctx.Err())
	case err != nil:
		return apperrors.ExitErrorGeneric
	case ok:
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startSweepCmd returns a tea.Cmd that runs the sweep once prev (the sweep
// of the previous generation, if any) has returned.
func startSweepCmd(ref *programRef, ctx context.Context, runner SweepRunner, cfg config.AppConfig,
	next orchestration.ResultReporter, gen uint64, prev <-chan struct{}, finished chan struct{}) tea.Cmd {
	return func() tea.Msg {
		defer close(finished)
		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				return SweepCompleteMsg{Err: ctx.Err(), ExitCode: apperrors.ExitCode(ctx.Err()), Generation: gen}
			}
		}
		reporter := &TUIResultReporter{ref: ref, next: next, generation: gen}
		_, err := runner.Sweep(ctx, cfg.ToSweepRequest(), reporter)
		return SweepCompleteMsg{Err: err, ExitCode: apperrors.ExitCode(err), Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapInuse:    ms.HeapInuse,
			NumGC:        ms.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads host and process usage and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			ProcessRSS: s.ProcessRSS,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
