package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/sqfree/internal/config"
	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/orchestration"
)

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"sqfree", "--no-color"}, args...), &errBuf)
	require.NoError(t, err, "stderr: %s", errBuf.String())
	return a, &errBuf
}

func TestNew_HelpError(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"sqfree", "--help"}, &errBuf)
	require.Error(t, err)
	assert.True(t, IsHelpError(err))
	assert.Contains(t, errBuf.String(), "-trials")
}

func TestNew_InvalidConfig(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"sqfree", "--count", "0"}, &errBuf)
	require.Error(t, err)
	assert.False(t, IsHelpError(err))
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCode(err))
}

func TestNew_DefaultProgramName(t *testing.T) {
	a, err := New(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCount, a.Config.Count)
}

func TestRun_Version(t *testing.T) {
	a, _ := newTestApp(t, "--version")
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out.String(), "sqfree "+Version))
}

func TestRun_Completion(t *testing.T) {
	a, _ := newTestApp(t, "--completion", "zsh")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "#compdef sqfree")
}

func TestRun_CompletionUnknownShell(t *testing.T) {
	a, errBuf := newTestApp(t, "--completion", "tcsh")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "Error generating completion")
}

func TestRun_QuietCSV(t *testing.T) {
	a, _ := newTestApp(t, "-n", "1000", "--count", "3", "--step", "100", "--trials", "300", "--seed", "42", "-w", "2", "-q")
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	require.Equal(t, apperrors.ExitSuccess, code)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus one record per point")
	assert.Equal(t, "n", records[0][0])
	for i, want := range []string{"1000", "1100", "1200"} {
		assert.Equal(t, want, records[i+1][0])
		assert.Equal(t, "300", records[i+1][1])
	}
}

func TestRun_QuietCSVIsReproducible(t *testing.T) {
	run := func() []string {
		a, _ := newTestApp(t, "-n", "10^12", "--count", "1", "--trials", "200", "--seed", "9", "-w", "3", "-q")
		var out bytes.Buffer
		require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
		records, err := csv.NewReader(&out).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		// n through abs_error; the cache and timing columns depend on
		// worker interleaving.
		return records[1][:6]
	}
	first, second := run(), run()
	assert.Equal(t, "1000000000000", first[0])
	assert.Equal(t, "200", first[1])
	assert.Equal(t, first, second, "same seed and workers give the same estimate")
}

func TestRun_DefaultOutput(t *testing.T) {
	a, _ := newTestApp(t, "-n", "500", "--count", "2", "--trials", "100", "--seed", "1", "-w", "2")
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	require.Equal(t, apperrors.ExitSuccess, code)

	s := out.String()
	assert.Contains(t, s, "Execution Configuration")
	assert.Contains(t, s, "Seed: 1")
	assert.Contains(t, s, "Summary")
	assert.Contains(t, s, "Pooled density")
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	a, _ := newTestApp(t, "-n", "2000", "--count", "2", "--trials", "50", "--seed", "3", "-w", "1", "-o", path)
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "Results saved to")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRun_CanceledContext(t *testing.T) {
	a, errBuf := newTestApp(t, "-n", "10^30", "--trials", "1000000", "-w", "1", "-q")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code := a.Run(ctx, &out)
	assert.Equal(t, apperrors.ExitErrorCanceled, code)
	assert.Contains(t, errBuf.String(), "canceled")
}

func TestRun_MetricsServer(t *testing.T) {
	a, _ := newTestApp(t, "-n", "100", "--trials", "10", "-w", "1", "-q", "--metrics-addr", "127.0.0.1:0")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
}

func TestRun_MetricsServerBadAddress(t *testing.T) {
	a, errBuf := newTestApp(t, "-n", "100", "--trials", "10", "-w", "1", "-q", "--metrics-addr", "not-an-address")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorGeneric, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "metrics endpoint")
}

func TestRun_Interactive(t *testing.T) {
	var errBuf bytes.Buffer
	a, err := New([]string{"sqfree", "--no-color", "-i", "-w", "2", "--seed", "5"}, &errBuf,
		WithInput(strings.NewReader("status\nexit\n")))
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "Current configuration")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-n", "10", "-version"}, true},
		{[]string{"-V"}, true},
		{[]string{"-n", "10"}, false},
		{[]string{"--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasVersionFlag(tt.args), "args %v", tt.args)
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	PrintVersion(&out)
	assert.Contains(t, out.String(), "sqfree dev")
	assert.Contains(t, out.String(), "go")
}

func TestResultCollector_CopiesResults(t *testing.T) {
	c := &resultCollector{}
	assert.Empty(t, c.Results())

	c.ReportResult(orchestration.Result{Trials: 4, Squarefree: 3})
	got := c.Results()
	require.Len(t, got, 1)
	got[0].Trials = 99
	assert.Equal(t, 4, c.Results()[0].Trials)
}
