package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "trials")
	Short     string   // short flag without "-" (e.g., "m")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	Section   string   // fish comment group
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Help: "Show version information", Section: "Help and version"},

	{Long: "n", Help: "First upper bound N", Values: []string{"10^6", "10^9", "10^12", "10^15"}, ValueName: "bound", Section: "Sweep"},
	{Long: "count", Help: "Number of sweep points", Values: []string{"1", "5", "11"}, ValueName: "count", Section: "Sweep"},
	{Long: "step", Help: "Distance between sweep points", ValueName: "step", Section: "Sweep"},
	{Long: "trials", Short: "m", Help: "Samples per point", Values: []string{"10000", "100000", "1000000"}, ValueName: "trials", Section: "Sweep"},
	{Long: "workers", Short: "w", Help: "Number of worker goroutines", ValueName: "workers", Section: "Sweep"},
	{Long: "timeout", Help: "Maximum duration of the sweep", Values: []string{"1m", "5m", "30m", "1h"}, ValueName: "duration", Section: "Sweep"},
	{Long: "seed", Help: "Base random seed (0 = random)", ValueName: "seed", Section: "Sweep"},

	{Long: "rounds", Help: "Miller-Rabin rounds", Values: []string{"10", "20", "40"}, ValueName: "rounds", Section: "Engine"},
	{Long: "rho-iterations", Help: "Pollard-rho iteration budget", Values: []string{"1000", "10000", "100000"}, ValueName: "iterations", Section: "Engine"},
	{Long: "rho-c-max", Help: "Largest Pollard-rho constant", ValueName: "c", Section: "Engine"},
	{Long: "trial-division", Help: "Trial division limit (0 disables)", Values: []string{"0", "100", "1000", "10000"}, ValueName: "limit", Section: "Engine"},
	{Long: "cache-shards", Help: "Shards per memo table", Values: []string{"0", "16", "64", "256"}, ValueName: "shards", Section: "Engine"},
	{Long: "progress-batch", Help: "Trials between progress updates", ValueName: "trials", Section: "Engine"},

	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file", Section: "Input and output"},
	{Long: "output", Short: "o", Help: "CSV output file", IsFile: true, ValueName: "file", Section: "Input and output"},
	{Long: "metrics-addr", Help: "Prometheus listen address", Values: []string{":9090"}, ValueName: "addr", Section: "Input and output"},
	{Long: "quiet", Short: "q", Help: "Print only CSV rows", Section: "Input and output"},
	{Long: "verbose", Short: "v", Help: "Debug logs and cache statistics", Section: "Input and output"},
	{Long: "tui", Help: "Interactive dashboard", Section: "Input and output"},
	{Long: "no-color", Help: "Disable colored output", Section: "Input and output"},
	{Long: "interactive", Short: "i", Help: "Interactive session", Section: "Input and output"},
	{Long: "completion", Help: "Generate completion script", Values: CompletionShells, ValueName: "shell", Section: "Completion"},
}

// CompletionShells lists the shells GenerateCompletion supports.
var CompletionShells = []string{"bash", "zsh", "fish"}

// GenerateCompletion writes a completion script for shell to out.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(CompletionShells, ", "))
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion() string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
		switch {
		case f.IsFile:
			files = append(files, flagNames(f)...)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(flagNames(f), "|"), strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for sqfree
# Add this to your ~/.bashrc or ~/.bash_completion

_sqfree_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _sqfree_completions sqfree
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion() string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef sqfree

# Zsh completion script for sqfree
# Add this to your ~/.zshrc or place in $fpath

_sqfree() {
    _arguments -s \
%s
}

_sqfree "$@"
`, strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for sqfree",
		"# Add this to ~/.config/fish/completions/sqfree.fish",
		"",
		"# Disable file completion by default",
		"complete -c sqfree -f",
	}
	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			lines = append(lines, "", "# "+section)
		}
		lines = append(lines, fishCompleteLine(f))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c sqfree"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
