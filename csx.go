// Package csx ties together the matrix-market reader (mmf), the CSR store
// (csr), the encoder (encode/ctl) and the parallel SpMV driver (driver)
// behind one entry point: load a matrix, build a multithreaded engine for
// it, and run iterations.
//
// Grounded on the teacher's top-level package doc (sparse.go), which
// likewise exposes one flat set of constructors over the internal
// compressed-storage types; here the constructor chain is Load -> New ->
// Run instead of the teacher's NewCSR/NewDOK family, since CSX's storage is
// immutable once encoded rather than incrementally built.
package csx

import (
	"io"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/driver"
	"github.com/csxeng/csx/mmf"
)

// Config re-exports the encoder configuration surface (spec §6).
type Config = config.Config

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config { return config.Default() }

// Load reads a Matrix Market file from r and returns the canonical CSR
// matrix (spec §4.2).
func Load(r io.Reader) (*csr.Matrix, error) {
	mr, err := mmf.Open(r)
	if err != nil {
		return nil, err
	}
	return mmf.LoadCSR(mr)
}

// Engine is a built multithreaded CSX representation of one matrix, ready
// for repeated SpMV calls.
type Engine struct {
	sess *driver.Session
	m    *csr.Matrix
}

// New builds an Engine for m using nthreads worker partitions and cfg
// (spec §4.8 steps 1-2). alloc/logger may be nil to take the defaults.
func New(m *csr.Matrix, nthreads int, cfg Config, alloc driver.Allocator, logger driver.Logger) (*Engine, error) {
	sess, err := driver.NewSession(m, nthreads, cfg, alloc, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{sess: sess, m: m}, nil
}

// Multiply computes y <- alpha*A*x + beta*y (spec §4.8 step 3).
func (e *Engine) Multiply(alpha float64, x []float64, beta float64, y []float64) error {
	return e.sess.Run(alpha, x, beta, y)
}

// MultiplySymmetric computes y <- alpha*A*x + beta*y treating the
// underlying matrix as upper-triangular-stored-symmetric (spec §4.7's
// symmetric variant).
func (e *Engine) MultiplySymmetric(alpha float64, x []float64, beta float64, y []float64) error {
	return e.sess.RunSymmetric(alpha, x, beta, y)
}

// Reference computes y = A*x directly against the original CSR matrix,
// bypassing CSX entirely; used by the --check CLI path to validate the
// encoded engine (spec §4.2, §8 invariant 2).
func (e *Engine) Reference(x, y []float64) {
	e.m.ReferenceMultiply(x, y)
}

// NRows and NCols report the underlying matrix's dimensions.
func (e *Engine) NRows() int { return e.m.NRows }
func (e *Engine) NCols() int { return e.m.NCols }

// Partitions exposes the engine's per-thread row ranges, for diagnostics.
func (e *Engine) Partitions() []*driver.Partition { return e.sess.Partitions() }
