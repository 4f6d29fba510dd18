package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/sqfree/internal/config"
	"github.com/agbru/sqfree/internal/format"
	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/ui"
)

// PrintExecutionConfig displays the sweep, the environment and the engine
// tuning before the first run starts.
func PrintExecutionConfig(cfg config.AppConfig, seed uint64, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Sweep: %s%d%s points from N=%s%s%s (step %d), %s%s%s trials each, timeout %s%s%s.\n",
		ui.ColorInfo(), cfg.Count, ui.ColorReset(),
		ui.ColorPrimary(), format.FormatBound(cfg.N), ui.ColorReset(), cfg.Step,
		ui.ColorInfo(), format.FormatNumberString(fmt.Sprint(cfg.Trials)), ui.ColorReset(),
		ui.ColorWarning(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ui.ColorInfo(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorInfo(), runtime.Version(), ui.ColorReset(), cpuFeatures())
	fmt.Fprintf(out, "Engine: %s%d%s workers, %d Miller-Rabin rounds (%s), rho budget %d (c ≤ %d), trial division ≤ %d.\n",
		ui.ColorInfo(), cfg.Workers, ui.ColorReset(),
		cfg.Rounds, numtheory.Backend, cfg.RhoIterations, cfg.RhoConstantMax, cfg.TrialDivision)
	fmt.Fprintf(out, "Seed: %d\n", seed)
}

// cpuFeatures lists the instruction set extensions math/big uses for its
// word-level kernels.
func cpuFeatures() string {
	var f []string
	switch {
	case cpu.X86.HasAVX2 || cpu.X86.HasADX || cpu.X86.HasBMI2:
		if cpu.X86.HasADX {
			f = append(f, "ADX")
		}
		if cpu.X86.HasBMI2 {
			f = append(f, "BMI2")
		}
		if cpu.X86.HasAVX2 {
			f = append(f, "AVX2")
		}
	case cpu.ARM64.HasASIMD:
		f = append(f, "ASIMD")
	}
	if len(f) == 0 {
		return "generic"
	}
	return strings.Join(f, ", ")
}
