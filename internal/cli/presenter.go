package cli

import (
	"fmt"
	"io"
	"math"
	"time"

	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/metrics"
	"github.com/agbru/sqfree/internal/orchestration"
	"github.com/agbru/sqfree/internal/ui"
)

// Column widths of the result table.
const (
	boundWidth   = 20
	densityWidth = 10
	timeWidth    = 10
	countWidth   = 10
)

type column struct {
	name  string
	width int
}

// ResultPresenter prints one table row per sweep point as soon as its
// workers have joined. It implements orchestration.ResultReporter.
type ResultPresenter struct {
	out        io.Writer
	verbose    bool
	headerDone bool
}

var _ orchestration.ResultReporter = (*ResultPresenter)(nil)

// NewResultPresenter creates a presenter writing to out. Verbose adds the
// cache columns.
func NewResultPresenter(out io.Writer, verbose bool) *ResultPresenter {
	return &ResultPresenter{out: out, verbose: verbose}
}

// ReportResult prints the header on first use, then one row.
func (p *ResultPresenter) ReportResult(r orchestration.Result) {
	if !p.headerDone {
		p.printHeader()
		p.headerDone = true
	}
	p.printRow(r)
}

func (p *ResultPresenter) printHeader() {
	fmt.Fprintf(p.out, "\n--- Results (6/π² = %s) ---\n", format.FormatDensity(orchestration.TheoreticalDensity))
	cols := []column{
		{"N", boundWidth},
		{"Empirical", densityWidth},
		{"|Δ|", densityWidth},
		{"Time", timeWidth},
	}
	if p.verbose {
		cols = append(cols, column{"Hits", countWidth}, column{"Exhausted", countWidth})
	}
	for _, c := range cols {
		fmt.Fprintf(p.out, "%s%s%s%s  ", ui.ColorUnderline(), c.name, ui.ColorReset(),
			padRight("", c.width-runeLen(c.name)))
	}
	fmt.Fprintln(p.out)
}

func (p *ResultPresenter) printRow(r orchestration.Result) {
	bound := format.FormatBound(r.N)
	empirical := format.FormatDensity(r.Empirical())
	diff := format.FormatDensity(r.AbsError())
	elapsed := format.FormatExecutionDuration(r.Duration)

	fmt.Fprintf(p.out, "%s%s%s%s  %s%s%s%s  %s%s%s%s  %s%s%s%s  ",
		ui.ColorInfo(), bound, ui.ColorReset(), padRight("", boundWidth-runeLen(bound)),
		ui.ColorPrimary(), empirical, ui.ColorReset(), padRight("", densityWidth-len(empirical)),
		errorColor(r.AbsError()), diff, ui.ColorReset(), padRight("", densityWidth-len(diff)),
		ui.ColorWarning(), elapsed, ui.ColorReset(), padRight("", timeWidth-runeLen(elapsed)))
	if p.verbose {
		hits := format.FormatNumberString(fmt.Sprint(r.CacheHits))
		exhausted := fmt.Sprint(r.Exhaustions)
		fmt.Fprintf(p.out, "%s%s  %s", hits, padRight("", countWidth-len(hits)), exhausted)
	}
	fmt.Fprintln(p.out)
}

// errorColor flags estimates that drift beyond two standard errors of a
// 100 000-trial run.
func errorColor(absErr float64) string {
	switch {
	case math.IsNaN(absErr):
		return ui.ColorSecondary()
	case absErr < 0.003:
		return ui.ColorSuccess()
	default:
		return ui.ColorWarning()
	}
}

// PresentSummary prints totals once the sweep is over.
func (p *ResultPresenter) PresentSummary(results []orchestration.Result, total time.Duration) {
	if len(results) == 0 {
		return
	}
	var trials, squarefree int64
	var hits, exhausted uint64
	for _, r := range results {
		trials += int64(r.Trials)
		squarefree += r.Squarefree
		hits += r.CacheHits
		exhausted += r.Exhaustions
	}
	pooled := orchestration.Result{Trials: int(trials), Squarefree: squarefree}
	last := results[len(results)-1].CacheSizes

	fmt.Fprintf(p.out, "\n--- Summary ---\n")
	fmt.Fprintf(p.out, "Points:            %s%d%s in %s%s%s\n",
		ui.ColorInfo(), len(results), ui.ColorReset(),
		ui.ColorWarning(), format.FormatExecutionDuration(total), ui.ColorReset())
	fmt.Fprintf(p.out, "Pooled density:    %s%s%s (|Δ| %s over %s trials)\n",
		ui.ColorPrimary(), format.FormatDensity(pooled.Empirical()), ui.ColorReset(),
		format.FormatDensity(pooled.AbsError()), format.FormatNumberString(fmt.Sprint(trials)))
	if p.verbose {
		fmt.Fprintf(p.out, "Cache hits:        %s\n", format.FormatNumberString(fmt.Sprint(hits)))
		fmt.Fprintf(p.out, "Cache entries:     prime %d, factor %d, squarefree %d\n",
			last.Prime, last.Factor, last.Squarefree)
		fmt.Fprintf(p.out, "Rho exhaustions:   %d\n", exhausted)
	}
}

// padRight appends length spaces to s. Widths are computed on the visible
// text so ANSI color codes do not break alignment.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

func runeLen(s string) int { return len([]rune(s)) }

// DisplayMemoryStats shows memory statistics after a sweep.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Heap reserved:   %s\n", format.FormatBytes(snap.HeapSys))
	fmt.Fprintf(out, "  Live objects:    %s\n", format.FormatNumberString(fmt.Sprint(snap.HeapObjects)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
}

// HandleError prints err and returns the process exit code.
func HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out)
}
