// Package encode implements the cost-based encoder (C5): it takes a plain
// CSR row window, repeatedly picks the iteration order with the best
// pattern-coverage score, rewrites matching runs into pattern elements, and
// leaves a mixed plain/pattern row representation ready for the CTL builder.
//
// Grounded on original_source/csx/csx_manager.cc (EncodeAll's order/score
// loop) and original_source/patterns/drle.cc (the row/block rewrite rules).
package encode

import (
	"sort"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/pattern"
	"github.com/csxeng/csx/stats"
)

// RowElem is one element of a rewritten row: either a plain scalar or a
// pattern covering pattern.Size original elements (spec §3's "Row rewrite
// intermediate"). Col is the element's (or, for a pattern, its seed's)
// column.
type RowElem struct {
	Col     int
	Value   float64
	Pattern *pattern.Pattern
	Vals    []float64
}

// Matrix is the encoder's working representation of one partition: rows are
// indexed locally (0..NRows-1 relative to the partition's row_start), with
// each row's elements sorted by starting column. Cross-row patterns (any
// non-Horizontal, non-block linear order) are homed at the row of their
// smallest-row generator step.
type Matrix struct {
	NRows, NCols int
	Rows         [][]RowElem
}

// FromCSR builds the initial, all-plain Matrix for rows [rs, re) of m.
func FromCSR(m *csr.Matrix, rs, re int) *Matrix {
	mtx := &Matrix{NRows: re - rs, NCols: m.NCols, Rows: make([][]RowElem, re-rs)}
	for row := rs; row < re; row++ {
		cols, vals := m.Row(row)
		elems := make([]RowElem, len(cols))
		for i := range cols {
			elems[i] = RowElem{Col: cols[i], Value: vals[i]}
		}
		mtx.Rows[row-rs] = elems
	}
	return mtx
}

func (mtx *Matrix) valueAt(row, col int) (float64, bool) {
	for _, e := range mtx.Rows[row] {
		if e.Pattern == nil && e.Col == col {
			return e.Value, true
		}
	}
	return 0, false
}

func (mtx *Matrix) removePlain(row, col int) {
	row_ := mtx.Rows[row]
	for i, e := range row_ {
		if e.Pattern == nil && e.Col == col {
			mtx.Rows[row] = append(row_[:i], row_[i+1:]...)
			return
		}
	}
}

func (mtx *Matrix) insert(row int, el RowElem) {
	r := mtx.Rows[row]
	i := sort.Search(len(r), func(i int) bool { return r[i].Col >= el.Col })
	r = append(r, RowElem{})
	copy(r[i+1:], r[i:])
	r[i] = el
	mtx.Rows[row] = r
}

// collectPlainPoints gathers the coordinates of every remaining plain
// element, the set the next C4 statistics pass and rewrite operate over
// (spec §9: stats are strictly derived from current RowElem state, not the
// original CSR, so encoder/stats never form a cycle).
func collectPlainPoints(mtx *Matrix) []coord.Point {
	var pts []coord.Point
	for row, elems := range mtx.Rows {
		for _, e := range elems {
			if e.Pattern == nil {
				pts = append(pts, coord.Point{Row: row, Col: e.Col})
			}
		}
	}
	return pts
}

func plainNNZ(mtx *Matrix) int {
	n := 0
	for _, elems := range mtx.Rows {
		for _, e := range elems {
			if e.Pattern == nil {
				n++
			}
		}
	}
	return n
}

// Encoder holds the configuration the row/block rewrite rules are
// parameterised by.
type Encoder struct {
	cfg config.Config
}

// New builds an Encoder bound to cfg.
func New(cfg config.Config) *Encoder {
	return &Encoder{cfg: cfg}
}

// EncodeAll implements the automatic encode_all(split_blocks) mode (spec
// §4.5): repeatedly scores every non-ignored order, rewrites the best one if
// its score is positive, and stops when no order scores positively or no
// plain elements remain.
func (e *Encoder) EncodeAll(mtx *Matrix) error {
	const op = "encode.EncodeAll"
	ignore := map[coord.Order]bool{}

	for {
		if plainNNZ(mtx) == 0 {
			return nil
		}

		var (
			bestOrder  coord.Order
			bestScore  int
			bestDeltas []uint64
			found      bool
		)

		totalNNZ := plainNNZ(mtx)
		pts := collectPlainPoints(mtx)
		for _, o := range e.cfg.IterationOrders {
			if ignore[o] {
				continue
			}
			st, err := stats.ScanPoints(pts, o, mtx.NRows, mtx.NCols, e.cfg.MinLimit)
			if err != nil {
				return errs.New(errs.BadInput, op, err)
			}
			score, deltas := scoreOrder(st, totalNNZ, e.cfg)
			if !found || score > bestScore {
				bestOrder, bestScore, bestDeltas, found = o, score, deltas, true
			}
		}

		if !found || bestScore <= 0 {
			return nil
		}

		deltaSet := make(map[uint64]bool, len(bestDeltas))
		for _, d := range bestDeltas {
			deltaSet[d] = true
		}
		if err := e.rewriteOrder(mtx, bestOrder, deltaSet); err != nil {
			return errs.New(errs.BadInput, op, err)
		}
		ignore[bestOrder] = true
	}
}

// EncodeSerial implements the manual encode_serial mode (spec §4.5): apply
// each listed order in sequence, encoding only the given deltas.
func (e *Encoder) EncodeSerial(mtx *Matrix, orders []coord.Order, deltasPerOrder map[coord.Order][]uint64) error {
	const op = "encode.EncodeSerial"
	for _, o := range orders {
		deltaSet := make(map[uint64]bool)
		for _, d := range deltasPerOrder[o] {
			deltaSet[d] = true
		}
		if err := e.rewriteOrder(mtx, o, deltaSet); err != nil {
			return errs.New(errs.BadInput, op, err)
		}
	}
	return nil
}

func scoreOrder(st stats.Stats, totalNNZ int, cfg config.Config) (int, []uint64) {
	var nnzEncoded, npatterns int
	var deltas []uint64
	for d, e := range st {
		if totalNNZ > 0 {
			ratio := float64(e.NNZ) / float64(totalNNZ)
			if ratio < cfg.MinPerc {
				continue
			}
		}
		nnzEncoded += e.NNZ
		npatterns += e.NPatterns
		deltas = append(deltas, d)
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	return nnzEncoded - npatterns, deltas
}

func (e *Encoder) rewriteOrder(mtx *Matrix, order coord.Order, deltas map[uint64]bool) error {
	if order.Kind == coord.BlockRow || order.Kind == coord.BlockCol {
		return e.rewriteBlock(mtx, order)
	}
	return e.rewriteLinear(mtx, order, deltas)
}
