// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Present* functions write formatted, colorized output to an
//     [io.Writer].
//
//   - Format* functions return a formatted value without performing I/O.
//     Example: [FormatCSVRecord].
//
//   - Write* functions write data to files on the filesystem.
//     Example: [WriteResultsToFile].

package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/sqfree/internal/orchestration"
)

// CSVHeader lists the export columns in order.
var CSVHeader = []string{
	"n", "trials", "squarefree", "empirical", "theoretical", "abs_error",
	"cache_hits", "prime_cache", "factor_cache", "squarefree_cache",
	"exhaustions", "duration_ms",
}

// FormatCSVRecord converts a result into one CSV record matching CSVHeader.
// Densities use full float64 precision; an empty run has an empty
// empirical and abs_error field.
func FormatCSVRecord(r orchestration.Result) []string {
	empirical, absErr := "", ""
	if r.Trials > 0 {
		empirical = strconv.FormatFloat(r.Empirical(), 'g', -1, 64)
		absErr = strconv.FormatFloat(r.AbsError(), 'g', -1, 64)
	}
	n := ""
	if r.N != nil {
		n = r.N.String()
	}
	return []string{
		n,
		strconv.Itoa(r.Trials),
		strconv.FormatInt(r.Squarefree, 10),
		empirical,
		strconv.FormatFloat(r.Theoretical(), 'g', -1, 64),
		absErr,
		strconv.FormatUint(r.CacheHits, 10),
		strconv.Itoa(r.CacheSizes.Prime),
		strconv.Itoa(r.CacheSizes.Factor),
		strconv.Itoa(r.CacheSizes.Squarefree),
		strconv.FormatUint(r.Exhaustions, 10),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
	}
}

// CSVReporter streams results as CSV, writing the header before the first
// record and flushing after every record. It implements
// orchestration.ResultReporter; write errors are kept and returned by Err.
type CSVReporter struct {
	w          *csv.Writer
	headerDone bool
	err        error
}

var _ orchestration.ResultReporter = (*CSVReporter)(nil)

// NewCSVReporter creates a reporter writing to out.
func NewCSVReporter(out io.Writer) *CSVReporter {
	return &CSVReporter{w: csv.NewWriter(out)}
}

// ReportResult writes one record.
func (c *CSVReporter) ReportResult(r orchestration.Result) {
	if c.err != nil {
		return
	}
	if !c.headerDone {
		c.headerDone = true
		if c.err = c.w.Write(CSVHeader); c.err != nil {
			return
		}
	}
	if c.err = c.w.Write(FormatCSVRecord(r)); c.err != nil {
		return
	}
	c.w.Flush()
	c.err = c.w.Error()
}

// Err returns the first write error.
func (c *CSVReporter) Err() error { return c.err }

// WriteResultsToFile writes results as CSV to path, creating parent
// directories as needed.
func WriteResultsToFile(path string, results []orchestration.Result) (err error) {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	rep := NewCSVReporter(file)
	for _, r := range results {
		rep.ReportResult(r)
	}
	if len(results) == 0 {
		if err := csv.NewWriter(file).WriteAll([][]string{CSVHeader}); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	if err := rep.Err(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// MultiReporter fans one result out to several reporters in order.
type MultiReporter []orchestration.ResultReporter

// ReportResult forwards r to every reporter.
func (m MultiReporter) ReportResult(r orchestration.Result) {
	for _, rep := range m {
		rep.ReportResult(r)
	}
}
