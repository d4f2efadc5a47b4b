// Command csxctl is the CLI front end for the CSX engine (spec §6): it
// loads a Matrix Market file, builds a multithreaded engine, optionally
// validates it against the naive reference multiply, and optionally
// benchmarks repeated SpMV calls.
//
// Flag parsing uses the standard library flag package; see SPEC_FULL.md's
// AMBIENT STACK section for why no CLI framework from the retrieval pack
// fits one flat set of flags on one binary better than flag does.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/csxeng/csx"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/driver"
)

const (
	exitOK int = iota
	exitIOError
	exitValidationMismatch
	exitConfigError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfigError
	}

	if fs.flagSet.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "csxctl: exactly one mmf_file argument is required")
		return exitConfigError
	}
	path := fs.flagSet.Arg(0)

	logger := driver.NewStdLogger(log.New(os.Stderr, "", 0))

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csxctl: %v\n", err)
		return exitIOError
	}
	defer f.Close()

	m, err := csx.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csxctl: %v\n", err)
		return exitIOError
	}

	cfg, err := fs.toConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "csxctl: %v\n", err)
		return exitConfigError
	}

	engine, err := csx.New(m, fs.threads, cfg, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csxctl: %v\n", err)
		return exitConfigError
	}

	if fs.check {
		if code := checkAgainstReference(engine, m.NRows, m.NCols); code != exitOK {
			return code
		}
	}

	if fs.bench > 0 {
		benchmark(engine, m.NRows, m.NCols, fs.bench)
	}

	return exitOK
}

// checkAgainstReference validates the encoded engine against
// csr.ReferenceMultiply for a fixed probe vector (spec §8 invariant 2).
func checkAgainstReference(e *csx.Engine, nrows, ncols int) int {
	x := make([]float64, ncols)
	for i := range x {
		x[i] = float64(i%7) + 1
	}
	want := make([]float64, nrows)
	e.Reference(x, want)

	got := make([]float64, nrows)
	if err := e.Multiply(1, x, 0, got); err != nil {
		fmt.Fprintf(os.Stderr, "csxctl: %v\n", err)
		return exitIOError
	}

	const tol = 1e-9
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			fmt.Fprintf(os.Stderr, "csxctl: validation mismatch at row %d: got %v, want %v\n", i, got[i], want[i])
			return exitValidationMismatch
		}
	}
	fmt.Println("csxctl: validation OK")
	return exitOK
}

func benchmark(e *csx.Engine, nrows, ncols, loops int) {
	x := make([]float64, ncols)
	for i := range x {
		x[i] = 1
	}
	y := make([]float64, nrows)

	start := time.Now()
	for i := 0; i < loops; i++ {
		if err := e.Multiply(1, x, 0, y); err != nil {
			fmt.Fprintf(os.Stderr, "csxctl: bench iteration %d: %v\n", i, err)
			return
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("csxctl: %d iterations in %s (%.3f ms/iter)\n", loops, elapsed, float64(elapsed.Milliseconds())/float64(loops))
}

func parseIterFlag(v string) ([]coord.Order, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]coord.Order, 0, len(parts))
	for _, p := range parts {
		o, err := parseOrderTag(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func parseOrderTag(tag string) (coord.Order, error) {
	switch strings.ToLower(tag) {
	case "horizontal":
		return coord.Horiz, nil
	case "vertical":
		return coord.Vert, nil
	case "diagonal":
		return coord.Diag, nil
	case "antidiagonal":
		return coord.AntiDiag, nil
	default:
		return coord.Order{}, fmt.Errorf("unknown --iter order %q", tag)
	}
}
