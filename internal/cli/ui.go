//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/orchestration"
)

const (
	// ProgressRefreshRate is how often the progress line polls the
	// coordinator counter.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so the progress display can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation and clears its line.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner lock because the animation goroutine reads
// Suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressDisplay polls a ProgressSource and renders it as a spinner line.
// Sampling workers never write to the terminal; only this poller does.
type ProgressDisplay struct {
	src     orchestration.ProgressSource
	spinner Spinner
	agg     *orchestration.ProgressAggregator

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProgressDisplay creates a display writing to out.
func NewProgressDisplay(src orchestration.ProgressSource, out io.Writer) *ProgressDisplay {
	return &ProgressDisplay{
		src:     src,
		spinner: newSpinner(spinner.WithWriter(out)),
		agg:     orchestration.NewProgressAggregator(),
	}
}

// Start launches the spinner and the polling goroutine. It returns
// immediately; call Stop to end the display.
func (d *ProgressDisplay) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.refresh()
	d.spinner.Start()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(ProgressRefreshRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.refresh()
			}
		}
	}()
}

// Stop ends polling and clears the spinner line.
func (d *ProgressDisplay) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	d.mu.Lock()
	d.spinner.Stop()
	d.mu.Unlock()
}

// Suspend hides the spinner while fn writes to the terminal.
func (d *ProgressDisplay) Suspend(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spinner.Stop()
	fn()
	d.spinner.Start()
}

func (d *ProgressDisplay) refresh() {
	p := d.agg.Update(d.src.Progress())
	d.mu.Lock()
	d.spinner.UpdateSuffix(progressSuffix(p))
	d.mu.Unlock()
}

// progressSuffix renders " N=10^15  [bar]  42.00% ETA: 3s".
func progressSuffix(p orchestration.AggregatedProgress) string {
	return fmt.Sprintf(" N=%s  %s",
		format.FormatBound(p.Snapshot.N),
		format.FormatProgressBarWithETA(p.Fraction, p.ETA, ProgressBarWidth))
}
