// Command generate-golden writes the squarefree reference table used by the
// numtheory tests. Each value is decided by plain trial division, so the
// table does not depend on the engine it checks.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func main() {
	out := flag.String("out", filepath.Join("internal", "numtheory", "testdata", "squarefree_golden.txt"), "Output file.")
	limit := flag.Uint64("limit", 2000, "Largest n in the table.")
	flag.Parse()

	if err := run(*out, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, limit uint64) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return writeTable(f, limit)
}

// writeTable writes "n 0|1" lines for 1..limit under a comment header.
func writeTable(w io.Writer, limit uint64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Squarefree table generated by trial division. Do not edit.")
	fmt.Fprintln(bw, "# n squarefree")
	for n := uint64(1); n <= limit; n++ {
		v := 0
		if isSquarefree(n) {
			v = 1
		}
		fmt.Fprintf(bw, "%d %d\n", n, v)
	}
	return bw.Flush()
}

// isSquarefree reports whether no prime square divides n.
func isSquarefree(n uint64) bool {
	if n == 0 {
		return false
	}
	for p := uint64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		n /= p
		if n%p == 0 {
			return false
		}
	}
	return true
}
