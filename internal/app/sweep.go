package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/sqfree/internal/cli"
	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/metrics"
	"github.com/agbru/sqfree/internal/orchestration"
	"github.com/agbru/sqfree/internal/ui"
)

// runSweep runs the configured sweep on the command line.
//
// The default mode prints the execution banner, a progress spinner and one
// table row per point. Quiet mode streams CSV records to out instead, one
// per point as soon as it is joined.
func (a *Application) runSweep(ctx context.Context, coord *orchestration.Coordinator, logger zerolog.Logger, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var (
		reporter  orchestration.ResultReporter
		presenter *cli.ResultPresenter
		progress  *cli.ProgressDisplay
		csvOut    *cli.CSVReporter
	)
	if a.Config.Quiet {
		csvOut = cli.NewCSVReporter(out)
		reporter = csvOut
	} else {
		cli.PrintExecutionConfig(a.Config, coord.Seed(), out)
		presenter = cli.NewResultPresenter(out, a.Config.Verbose)
		progress = cli.NewProgressDisplay(coord, out)
		reporter = orchestration.ResultReporterFunc(func(r orchestration.Result) {
			progress.Suspend(func() { presenter.ReportResult(r) })
		})
		progress.Start(ctx)
	}

	reporters := cli.MultiReporter{reporter, pointLogger(logger)}

	start := time.Now()
	results, err := coord.Sweep(ctx, a.Config.ToSweepRequest(), reporters)
	elapsed := time.Since(start)
	if progress != nil {
		progress.Stop()
	}

	// Points finished before a failure are still exported.
	if code := a.saveResults(results, out); code != apperrors.ExitSuccess && err == nil {
		return code
	}
	if err != nil {
		return cli.HandleError(err, elapsed, a.ErrWriter)
	}
	if csvOut != nil && csvOut.Err() != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing results: %v\n", csvOut.Err())
		return apperrors.ExitErrorGeneric
	}

	if presenter != nil {
		presenter.PresentSummary(results, elapsed)
		if a.Config.Verbose {
			cli.DisplayMemoryStats(metrics.NewMemoryCollector().Snapshot(), out)
		}
	}
	return apperrors.ExitSuccess
}

// pointLogger logs every joined point at debug level.
func pointLogger(logger zerolog.Logger) orchestration.ResultReporter {
	return orchestration.ResultReporterFunc(func(r orchestration.Result) {
		logger.Debug().
			Str("n", r.N.String()).
			Int("trials", r.Trials).
			Int64("squarefree", r.Squarefree).
			Float64("abs_error", r.AbsError()).
			Uint64("cache_hits", r.CacheHits).
			Dur("duration", r.Duration).
			Msg("point joined")
	})
}

// saveResults writes results to the configured output file, if any.
func (a *Application) saveResults(results []orchestration.Result, out io.Writer) int {
	if a.Config.OutputFile == "" {
		return apperrors.ExitSuccess
	}
	if err := cli.WriteResultsToFile(a.Config.OutputFile, results); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
			ui.ColorSuccess(), ui.ColorInfo(), a.Config.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}
