package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E verifies the built binary end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "sqfree"
	if runtime.GOOS == "windows" {
		binName = "sqfree.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	rootDir := "../.."

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/sqfree")
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build sqfree: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Basic Sweep",
			args:     []string{"-n", "1000", "--count", "2", "--step", "10", "--trials", "500", "--seed", "7"},
			wantOut:  "Summary",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Quiet CSV",
			args:     []string{"-n", "10^6", "--trials", "200", "--seed", "1", "--quiet"},
			wantOut:  "n,trials,squarefree,empirical",
			wantCode: 0,
		},
		{
			name:     "Zero Trials",
			args:     []string{"-n", "100", "--trials", "0", "-q"},
			wantOut:  "100,0,0,,",
			wantCode: 0,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-n", "10^40", "--trials", "100000000", "--timeout", "1ms"},
			wantOut:  "timed out",
			wantCode: 2,
		},
		{
			name:     "Invalid Bound",
			args:     []string{"-n", "0"},
			wantOut:  "n must be at least 1",
			wantCode: 4,
		},
		{
			name:     "Conflicting Modes",
			args:     []string{"--tui", "--quiet"},
			wantOut:  "mutually exclusive",
			wantCode: 4,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "sqfree",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "bash"},
			wantOut:  "complete",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command did not run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
