// Package driver implements the parallel SpMV driver (C8): it partitions a
// CSR matrix by nonzero count, runs the encoder on each partition
// concurrently, and then drives repeated y <- alpha*A*x + beta*y iterations
// across a worker pool synchronised at the barrier points spec §4.8/§5
// describe.
//
// Grounded on original_source/spm_crs_mt.c and original_source/spmv_loops_mt.c
// for the partition/encode/iterate control flow, and
// original_source/csx/csxsym_spmv_mt.cc for the symmetric reduction phase.
// The source's barriers are three explicit pthread_barrier_wait calls around
// persistent OS threads; the idiomatic Go equivalent for "N workers
// synchronising at fixed points every iteration" is to fan a fresh goroutine
// out per worker per phase and join with sync.WaitGroup rather than hand-roll
// a condition-variable barrier — goroutines are cheap, and a WaitGroup.Wait
// is itself the barrier. See DESIGN.md for why this one piece of ambient
// concurrency machinery stays on the standard library.
package driver

import (
	"fmt"
	"log"
	"sync"

	"github.com/csxeng/csx/blas"
	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/ctl"
	"github.com/csxeng/csx/encode"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/spmv"
)

// Logger is the minimal injectable logging surface the driver and
// statistics engine report non-fatal conditions through (spec §4.4's
// SamplingFailure fallback, §4.8's NumaWarn).
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// stdLogger backs Logger with the standard library's log package, following
// the teacher's preference for no logging dependency at all.
type stdLogger struct{ l *log.Logger }

func (s stdLogger) Warnf(format string, args ...interface{}) { s.l.Printf("WARN: "+format, args...) }
func (s stdLogger) Infof(format string, args ...interface{}) { s.l.Printf("INFO: "+format, args...) }

// NewStdLogger wraps a standard library *log.Logger as a Logger.
func NewStdLogger(l *log.Logger) Logger { return stdLogger{l: l} }

// Partition is one thread's share of the matrix: its encoded CSX plus, for
// the symmetric variant, its slice of the matrix diagonal.
type Partition struct {
	CSX      *ctl.CSX
	RowStart int
	NRows    int
	DV       []float64
}

// Build splits m into nthreads row ranges by nonzero count (csr.SplitByNNZ)
// and runs the encoder on each partition concurrently, producing one CSX
// per thread (spec §4.8 steps 1-2).
func Build(m *csr.Matrix, nthreads int, cfg config.Config) ([]*Partition, error) {
	const op = "driver.Build"
	if nthreads <= 0 {
		return nil, errs.New(errs.ConfigError, op, fmt.Errorf("nthreads must be > 0, got %d", nthreads))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ranges, err := m.SplitByNNZ(nthreads)
	if err != nil {
		return nil, errs.New(errs.BadInput, op, err)
	}

	parts := make([]*Partition, len(ranges))
	errCh := make(chan error, len(ranges))
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r csr.RowRange) {
			defer wg.Done()
			mtx := encode.FromCSR(m, r.Start, r.End)
			enc := encode.New(cfg)
			if cfg.DeltasPerOrder != nil {
				err := enc.EncodeSerial(mtx, cfg.IterationOrders, cfg.DeltasPerOrder)
				if err != nil {
					errCh <- err
					return
				}
			} else if err := enc.EncodeAll(mtx); err != nil {
				errCh <- err
				return
			}
			csx, err := mtx.BuildCTL(cfg, r.Start)
			if err != nil {
				errCh <- err
				return
			}
			parts[i] = &Partition{CSX: csx, RowStart: r.Start, NRows: r.End - r.Start, DV: diagonal(m, r.Start, r.End)}
		}(i, r)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, errs.New(errs.BadInput, op, err)
	}
	return parts, nil
}

func diagonal(m *csr.Matrix, rs, re int) []float64 {
	dv := make([]float64, re-rs)
	for row := rs; row < re; row++ {
		cols, vals := m.Row(row)
		for i, c := range cols {
			if c == row {
				dv[row-rs] = vals[i]
				break
			}
		}
	}
	return dv
}

// Session drives repeated SpMV iterations over a fixed set of partitions
// (spec §4.8 step 3). x, y and tmp are shared across the worker pool; each
// worker writes only its own row slice of tmp/y plus (for the symmetric
// variant) its own full-length scratch row in temp.
type Session struct {
	parts   []*Partition
	nrows   int
	ncols   int
	tmp     []float64
	temp    [][]float64 // per-thread scratch, symmetric variant only
	alloc   Allocator
	log     Logger
}

// NewSession builds the partitions and allocates the shared scratch
// vectors. alloc selects the vector allocator (NUMA-aware or default); nil
// selects DefaultAllocator.
func NewSession(m *csr.Matrix, nthreads int, cfg config.Config, alloc Allocator, logger Logger) (*Session, error) {
	if alloc == nil {
		alloc = DefaultAllocator{}
	}
	if logger == nil {
		logger = NewStdLogger(log.Default())
	}
	parts, err := Build(m, nthreads, cfg)
	if err != nil {
		return nil, err
	}
	tmp, err := alloc.Alloc(m.NRows)
	if err != nil {
		return nil, errs.New(errs.OutOfMemory, "driver.NewSession", err)
	}
	temp := make([][]float64, len(parts))
	for i := range temp {
		t, err := alloc.Alloc(m.NCols)
		if err != nil {
			return nil, errs.New(errs.OutOfMemory, "driver.NewSession", err)
		}
		temp[i] = t
	}
	return &Session{parts: parts, nrows: m.NRows, ncols: m.NCols, tmp: tmp, temp: temp, alloc: alloc, log: logger}, nil
}

// Partitions exposes the session's per-thread partitions (row ranges and
// CSX blocks), for diagnostics.
func (s *Session) Partitions() []*Partition { return s.parts }

// Run computes y <- alpha*A*x + beta*y, following the three-barrier
// structure of spec §4.8: a join after every thread's SpMV into tmp stands
// in for B1+compute+B2, and a second join after the alpha/beta combine
// stands in for B3.
func (s *Session) Run(alpha float64, x []float64, beta float64, y []float64) error {
	const op = "driver.Session.Run"
	for i := range s.tmp {
		s.tmp[i] = 0
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(s.parts))
	for _, p := range s.parts {
		wg.Add(1)
		go func(p *Partition) {
			defer wg.Done()
			if err := spmv.Multiply(p.CSX, x, s.tmp); err != nil {
				errCh <- err
			}
		}(p)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return errs.New(errs.CorruptCtl, op, err)
	}

	var combineWg sync.WaitGroup
	for _, p := range s.parts {
		combineWg.Add(1)
		go func(p *Partition) {
			defer combineWg.Done()
			blas.AxpyScale(alpha, s.tmp[p.RowStart:p.RowStart+p.NRows], beta, y[p.RowStart:p.RowStart+p.NRows])
		}(p)
	}
	combineWg.Wait()
	return nil
}

// RunSymmetric computes y <- alpha*A*x + beta*y for a matrix stored
// upper-triangular, per partition's diagonal vector and a switch-reduction
// pass across every thread's temp scratch (spec §4.7/§5).
func (s *Session) RunSymmetric(alpha float64, x []float64, beta float64, y []float64) error {
	const op = "driver.Session.RunSymmetric"
	for i := range s.tmp {
		s.tmp[i] = 0
	}
	for _, t := range s.temp {
		for i := range t {
			t[i] = 0
		}
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(s.parts))
	for i, p := range s.parts {
		wg.Add(1)
		go func(i int, p *Partition) {
			defer wg.Done()
			if err := spmv.MultiplySymmetric(p.CSX, p.DV, x, s.tmp, s.temp[i]); err != nil {
				errCh <- err
			}
		}(i, p)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return errs.New(errs.CorruptCtl, op, err)
	}

	// Switch reduction: fold every thread's transpose scratch into tmp.
	// Each thread reduces only its own row range, reading every other
	// thread's temp slice for that range (legal: all writers are
	// quiescent, this runs strictly after the join above).
	var reduceWg sync.WaitGroup
	for _, p := range s.parts {
		reduceWg.Add(1)
		go func(p *Partition) {
			defer reduceWg.Done()
			for _, t := range s.temp {
				for row := p.RowStart; row < p.RowStart+p.NRows; row++ {
					s.tmp[row] += t[row]
				}
			}
		}(p)
	}
	reduceWg.Wait()

	var combineWg sync.WaitGroup
	for _, p := range s.parts {
		combineWg.Add(1)
		go func(p *Partition) {
			defer combineWg.Done()
			blas.AxpyScale(alpha, s.tmp[p.RowStart:p.RowStart+p.NRows], beta, y[p.RowStart:p.RowStart+p.NRows])
		}(p)
	}
	combineWg.Wait()
	return nil
}
