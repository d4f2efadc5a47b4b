// Package stats implements the RLE statistics engine (C4): a delta-RLE scan
// over a row window under a given iteration order, with optional windowed
// sampling for large matrices.
//
// Grounded on original_source/patterns/drle_stats.cc and drle.cc, which scan
// a SpmIdx row range, delta-encode each row's column stream, and run-length
// encode the deltas into the same (value, frequency) shape used here.
package stats

import (
	"fmt"

	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/errs"
)

// Entry is the per-delta aggregate the encoder scores candidate orders by.
type Entry struct {
	NNZ       int // nonzeros explained by patterns at this delta
	NPatterns int // number of pattern instances that would be emitted
}

// Stats maps a delta value to its aggregate (spec §3's Stats = map<delta,
// {nnz, npatterns}>).
type Stats map[uint64]Entry

// DefaultMinLimit is the default minimum RLE run frequency that justifies a
// pattern header (spec §6).
const DefaultMinLimit = 4

// Scan computes Stats for rows [rs, re) of m under order, counting only RLE
// runs with frequency >= minLimit (spec §4.4).
func Scan(m *csr.Matrix, order coord.Order, rs, re int, minLimit uint32) (Stats, error) {
	const op = "stats.Scan"
	if rs < 0 || re > m.NRows || rs > re {
		return nil, errs.New(errs.BadInput, op, fmt.Errorf("invalid row window [%d,%d) for %d rows", rs, re, m.NRows))
	}
	return ScanPoints(collectPoints(m, rs, re), order, m.NRows, m.NCols, minLimit)
}

// ScanPoints is Scan's core, operating directly on a caller-supplied point
// set rather than a CSR window. The encoder uses this to re-derive
// statistics from whatever plain elements remain after previous rewrite
// passes, rather than from the original CSR, keeping statistics strictly a
// function of current state (spec §9's note on avoiding encoder/stats
// cycles).
func ScanPoints(pts []coord.Point, order coord.Order, nrows, ncols int, minLimit uint32) (Stats, error) {
	const op = "stats.ScanPoints"
	reordered, err := coord.Reorder(order, nrows, ncols, pts)
	if err != nil {
		return nil, errs.New(errs.BadInput, op, err)
	}

	if order.Kind == coord.BlockRow || order.Kind == coord.BlockCol {
		return blockStats(reordered, order.Align, minLimit), nil
	}
	return linearStats(reordered, minLimit), nil
}

func collectPoints(m *csr.Matrix, rs, re int) []coord.Point {
	lo, hi := m.RowPtr[rs], m.RowPtr[re]
	pts := make([]coord.Point, 0, hi-lo)
	for row := rs; row < re; row++ {
		for k := m.RowPtr[row]; k < m.RowPtr[row+1]; k++ {
			pts = append(pts, coord.Point{Row: row, Col: m.ColInd[k]})
		}
	}
	return pts
}

// linearStats implements spec §4.4 steps 1-4: group reordered points by
// row', delta-encode each row's column stream, RLE the deltas, and fold
// qualifying runs into Stats.
func linearStats(reordered []coord.Point, minLimit uint32) Stats {
	st := Stats{}
	forEachRow(reordered, func(cols []int) {
		for _, rl := range rleDeltas(cols) {
			if uint32(rl.freq) < minLimit {
				continue
			}
			e := st[rl.value]
			e.NNZ += rl.freq
			e.NPatterns++
			st[rl.value] = e
		}
	})
	return st
}

// blockStats implements spec §4.4 step 5: only contiguous (delta==1) runs
// count, and only the prefix aligned to r. This is an advisory score used to
// decide whether to switch the encoder to a block order at all; the exact
// block placement is computed later, directly against row data, by the
// encoder's block rewrite (spec §4.5) — not reconstructed from this
// aggregate. All qualifying runs are folded into the single delta==1 bucket.
func blockStats(reordered []coord.Point, r int, minLimit uint32) Stats {
	st := Stats{}
	if r <= 0 {
		return st
	}
	forEachRow(reordered, func(cols []int) {
		for _, rl := range rleDeltas(cols) {
			if rl.value != 1 {
				continue
			}
			runLen := rl.freq
			if uint32(runLen) < minLimit {
				continue
			}
			blocks := runLen / r
			if blocks == 0 {
				continue
			}
			e := st[1]
			e.NNZ += blocks * r
			e.NPatterns += blocks
			st[1] = e
		}
	})
	return st
}

func forEachRow(reordered []coord.Point, fn func(cols []int)) {
	i := 0
	for i < len(reordered) {
		j := i
		row := reordered[i].Row
		for j < len(reordered) && reordered[j].Row == row {
			j++
		}
		cols := make([]int, j-i)
		for k := i; k < j; k++ {
			cols[k-i] = reordered[k].Col
		}
		fn(cols)
		i = j
	}
}

type runLength struct {
	value uint64
	freq  int
}

// rleDeltas delta-encodes a strictly increasing column sequence and
// run-length encodes the deltas (spec §4.4 steps 2-3). d[0] is cols[0]
// itself; it joins the following run when it equals the next delta.
func rleDeltas(cols []int) []runLength {
	if len(cols) == 0 {
		return nil
	}
	deltas := make([]uint64, len(cols))
	deltas[0] = uint64(cols[0])
	for i := 1; i < len(cols); i++ {
		deltas[i] = uint64(cols[i] - cols[i-1])
	}

	var runs []runLength
	i := 0
	for i < len(deltas) {
		j := i + 1
		for j < len(deltas) && deltas[j] == deltas[i] {
			j++
		}
		runs = append(runs, runLength{value: deltas[i], freq: j - i})
		i = j
	}
	return runs
}
