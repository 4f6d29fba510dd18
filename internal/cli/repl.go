package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/sqfree/internal/config"
	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/orchestration"
	"github.com/agbru/sqfree/internal/ui"
)

// SessionRunner is the part of orchestration.Coordinator the interactive
// session drives.
type SessionRunner interface {
	orchestration.ProgressSource
	Run(ctx context.Context, req orchestration.Request) (orchestration.Result, error)
	Sweep(ctx context.Context, req orchestration.SweepRequest, reporter orchestration.ResultReporter) ([]orchestration.Result, error)
	Caches() *numtheory.Caches
	Workers() int
	Seed() uint64
}

// REPLConfig holds configuration for the interactive session.
type REPLConfig struct {
	// Trials is the default sample count per run.
	Trials int
	// Timeout bounds each command.
	Timeout time.Duration
	// Engine tunes the classifier used by the check command.
	Engine numtheory.Options
	// Verbose adds cache columns to result tables.
	Verbose bool
}

// REPL is an interactive session over one coordinator. Memo tables persist
// across commands, so later runs reuse earlier classifications.
type REPL struct {
	config REPLConfig
	runner SessionRunner
	engine *numtheory.Engine
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a session.
func NewREPL(runner SessionRunner, config REPLConfig) *REPL {
	seeds := numtheory.NewSeedSource(runner.Seed())
	return &REPL{
		config: config,
		runner: runner,
		// Worker slots use even and odd indices below 2·W.
		engine: numtheory.NewEngine(runner.Caches(), config.Engine, seeds.Rand(2*runner.Workers())),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until exit, EOF or ctx cancellation.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorSuccess()+"sqfree> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(input) != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorError(), err, ui.ColorReset())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorInfo(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sSquarefree density estimator - Interactive Mode%s      %s║%s\n",
		ui.ColorInfo(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorInfo(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorInfo(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmds := []struct{ usage, desc string }{
		{"run <N> [trials]", "Estimate the density on [1, N]"},
		{"sweep <N> <count> [step]", "Run N, N+step, ... with the current trial count"},
		{"check <n>", "Classify one integer"},
		{"trials <M>", "Set the default trial count"},
		{"stats", "Show memo table statistics"},
		{"status", "Display current configuration"},
		{"help", "Display this help"},
		{"exit / quit", "Exit interactive mode"},
	}
	for _, c := range cmds {
		fmt.Fprintf(r.out, "  %s%s%s%s - %s\n", ui.ColorWarning(), c.usage, ui.ColorReset(),
			padRight("", 24-len(c.usage)), c.desc)
	}
}

// processCommand executes one line. It returns false when the session
// should end.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "run", "r":
		r.cmdRun(ctx, args)
	case "sweep", "s":
		r.cmdSweep(ctx, args)
	case "check", "c":
		r.cmdCheck(args)
	case "trials", "m":
		r.cmdTrials(args)
	case "stats":
		r.cmdStats()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorSuccess(), ui.ColorReset())
		return false
	default:
		if n, err := config.ParseBound(cmd); err == nil {
			r.run(ctx, n, r.config.Trials)
			return true
		}
		r.errorf("Unknown command: %s", cmd)
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorWarning(), ui.ColorReset())
	}
	return true
}

func (r *REPL) errorf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s"+format+"%s\n", append(append([]any{ui.ColorError()}, args...), ui.ColorReset())...)
}

func (r *REPL) cmdRun(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.errorf("Usage: run <N> [trials]")
		return
	}
	n, err := config.ParseBound(args[0])
	if err != nil {
		r.errorf("Invalid bound: %s", args[0])
		return
	}
	trials := r.config.Trials
	if len(args) > 1 {
		if trials, err = strconv.Atoi(args[1]); err != nil {
			r.errorf("Invalid trial count: %s", args[1])
			return
		}
	}
	r.run(ctx, n, trials)
}

func (r *REPL) run(ctx context.Context, n *big.Int, trials int) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	progress := NewProgressDisplay(r.runner, r.out)
	progress.Start(ctx)
	res, err := r.runner.Run(ctx, orchestration.Request{N: n, Trials: trials})
	progress.Stop()

	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	NewResultPresenter(r.out, r.config.Verbose).ReportResult(res)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdSweep(ctx context.Context, args []string) {
	if len(args) < 2 {
		r.errorf("Usage: sweep <N> <count> [step]")
		return
	}
	start, err := config.ParseBound(args[0])
	if err != nil {
		r.errorf("Invalid bound: %s", args[0])
		return
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		r.errorf("Invalid count: %s", args[1])
		return
	}
	step := big.NewInt(1)
	if len(args) > 2 {
		if step, err = config.ParseBound(args[2]); err != nil {
			r.errorf("Invalid step: %s", args[2])
			return
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	presenter := NewResultPresenter(r.out, r.config.Verbose)
	progress := NewProgressDisplay(r.runner, r.out)
	progress.Start(ctx)
	started := time.Now()
	results, err := r.runner.Sweep(ctx,
		orchestration.SweepRequest{Start: start, Count: count, Step: step, Trials: r.config.Trials},
		orchestration.ResultReporterFunc(func(res orchestration.Result) {
			progress.Suspend(func() { presenter.ReportResult(res) })
		}))
	progress.Stop()

	if err != nil {
		r.errorf("Error: %v", err)
	}
	presenter.PresentSummary(results, time.Since(started))
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCheck(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: check <n>")
		return
	}
	n, err := config.ParseBound(args[0])
	if err != nil {
		r.errorf("Invalid value: %s", args[0])
		return
	}

	start := time.Now()
	squarefree := r.engine.IsSquarefree(n)
	elapsed := time.Since(start)

	verdict := ui.ColorSuccess() + "squarefree" + ui.ColorReset()
	if !squarefree {
		verdict = ui.ColorWarning() + "not squarefree" + ui.ColorReset()
	}
	fmt.Fprintf(r.out, "%s%s%s is %s (%s)\n", ui.ColorInfo(), format.FormatBound(n), ui.ColorReset(),
		verdict, format.FormatExecutionDuration(elapsed))
	if n.Cmp(big.NewInt(1)) > 0 && r.engine.IsPrime(n) {
		fmt.Fprintf(r.out, "  %s is prime\n", format.FormatBound(n))
	}
}

func (r *REPL) cmdTrials(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: trials <M>")
		return
	}
	m, err := strconv.Atoi(args[0])
	if err != nil || m < 0 {
		r.errorf("Invalid trial count: %s", args[0])
		return
	}
	r.config.Trials = m
	fmt.Fprintf(r.out, "Trials per run: %s%s%s\n", ui.ColorSuccess(), format.FormatNumberString(strconv.Itoa(m)), ui.ColorReset())
}

func (r *REPL) cmdStats() {
	c := r.runner.Caches()
	sizes := c.Sizes()
	fmt.Fprintf(r.out, "\n%sMemo tables:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Prime:       %s%d%s entries\n", ui.ColorInfo(), sizes.Prime, ui.ColorReset())
	fmt.Fprintf(r.out, "  Factor:      %s%d%s entries\n", ui.ColorInfo(), sizes.Factor, ui.ColorReset())
	fmt.Fprintf(r.out, "  Squarefree:  %s%d%s entries\n", ui.ColorInfo(), sizes.Squarefree, ui.ColorReset())
	fmt.Fprintf(r.out, "  Hits:        %s%d%s\n", ui.ColorInfo(), c.Hits(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Exhaustions: %s%d%s\n", ui.ColorInfo(), c.Exhaustions(), ui.ColorReset())
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	opts := r.engine.Options()
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Trials:          %s%d%s\n", ui.ColorInfo(), r.config.Trials, ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers:         %s%d%s\n", ui.ColorInfo(), r.runner.Workers(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:         %s%s%s\n", ui.ColorInfo(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Seed:            %s%d%s\n", ui.ColorInfo(), r.runner.Seed(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Rounds:          %s%d%s\n", ui.ColorInfo(), opts.PrimalityRounds, ui.ColorReset())
	fmt.Fprintf(r.out, "  Rho budget:      %s%d%s\n", ui.ColorInfo(), opts.MaxRhoIterations, ui.ColorReset())
	fmt.Fprintf(r.out, "  Trial division:  %s%d%s\n", ui.ColorInfo(), opts.TrialDivisionLimit, ui.ColorReset())
	fmt.Fprintln(r.out)
}
