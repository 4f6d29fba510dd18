package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agbru/sqfree/internal/cli"
	"github.com/agbru/sqfree/internal/config"
	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/logging"
	"github.com/agbru/sqfree/internal/metrics"
	"github.com/agbru/sqfree/internal/orchestration"
	"github.com/agbru/sqfree/internal/server"
	"github.com/agbru/sqfree/internal/tui"
	"github.com/agbru/sqfree/internal/ui"
)

// shutdownTimeout bounds the graceful stop of the metrics endpoint.
const shutdownTimeout = 5 * time.Second

// Application represents the sqfree application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In is the interactive session input; nil means standard input.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader the interactive session consumes.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "sqfree"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor)
	logger := a.newLogger()

	registry := metrics.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	coord, err := orchestration.NewCoordinator(a.Config.ToCoordinatorConfig(),
		orchestration.WithLogger(logger),
		orchestration.WithObserver(recorder),
	)
	if err != nil {
		return cli.HandleError(err, 0, a.ErrWriter)
	}
	defer func() {
		if err := coord.Close(); err != nil {
			logger.Warn().Err(err).Msg("worker pool did not close cleanly")
		}
	}()
	logger.Debug().
		Int("workers", coord.Workers()).
		Uint64("seed", coord.Seed()).
		Int("cache_shards", a.Config.CacheShards).
		Msg("coordinator ready")

	if a.Config.MetricsAddr != "" {
		stop, err := a.startMetricsServer(registry, coord, logger)
		if err != nil {
			return cli.HandleError(err, 0, a.ErrWriter)
		}
		defer stop()
	}

	switch {
	case a.Config.Interactive:
		return a.runInteractive(ctx, coord, out)
	case a.Config.TUI:
		return a.runTUI(ctx, coord, out)
	default:
		return a.runSweep(ctx, coord, logger, out)
	}
}

// newLogger builds the console diagnostics logger: debug when verbose,
// warnings only when quiet.
func (a *Application) newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case a.Config.Verbose:
		level = zerolog.DebugLevel
	case a.Config.Quiet, a.Config.TUI:
		level = zerolog.WarnLevel
	}
	return logging.NewConsoleLogger(a.ErrWriter, level, "sqfree")
}

// startMetricsServer serves /metrics and /healthz until the returned stop
// function is called.
func (a *Application) startMetricsServer(reg *prometheus.Registry, coord *orchestration.Coordinator, logger zerolog.Logger) (func(), error) {
	srv := server.New(a.Config.MetricsAddr, reg,
		server.WithLogger(logging.NewZerologAdapter(logger)),
		server.WithHealth(func() server.Health {
			p := coord.Progress()
			h := server.Health{Status: "ok", State: coord.State().String(), Done: p.Done, Total: p.Total}
			if p.N != nil {
				h.N = p.N.String()
			}
			return h
		}),
	)
	if err := srv.Start(); err != nil {
		return nil, apperrors.WrapError(err, "metrics endpoint")
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("metrics endpoint shutdown")
		}
	}, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the REPL. Each command gets its own timeout, so
// only signals bound the session.
func (a *Application) runInteractive(ctx context.Context, coord *orchestration.Coordinator, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	repl := cli.NewREPL(coord, cli.REPLConfig{
		Trials:  a.Config.Trials,
		Timeout: a.Config.Timeout,
		Engine:  a.Config.ToEngineOptions(),
		Verbose: a.Config.Verbose,
	})
	repl.SetOutput(out)
	if a.In != nil {
		repl.SetInput(a.In)
	}
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runTUI launches the dashboard. Finished points are still exported when an
// output file is configured.
func (a *Application) runTUI(ctx context.Context, coord *orchestration.Coordinator, _ io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	collector := &resultCollector{}
	code := tui.Run(ctx, coord, a.Config, Version, collector)
	if err := cli.WriteResultsToFile(a.Config.OutputFile, collector.Results()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}

// resultCollector keeps every reported point in order.
type resultCollector struct {
	mu      sync.Mutex
	results []orchestration.Result
}

func (c *resultCollector) ReportResult(r orchestration.Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

// Results returns a copy of the collected points.
func (c *resultCollector) Results() []orchestration.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]orchestration.Result(nil), c.results...)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
