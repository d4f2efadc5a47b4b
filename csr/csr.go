// Package csr implements the canonical Compressed Sparse Row store (C2):
// row-pointer/col-index/value arrays built from a stream of sorted triples,
// a row splitter for partitioning work across threads, and a naive
// reference multiply used only for validation.
//
// The type is grounded on github.com/james-bowman/sparse's compressedSparse/
// CSR (compressed.go): the same three-array layout, the same row-scan At,
// and the same panic-on-out-of-range-index convention for the read path —
// but construction here is exclusively from a triple stream (spec §4.2), so
// the incremental Set/insert machinery the teacher needs for a mutable
// construction format is not needed and is not carried over: CSX only ever
// encodes a matrix that has already been fully assembled.
package csr

import (
	"fmt"

	"github.com/csxeng/csx/errs"
)

// Triple is a single (row, col, value) nonzero, zero-based.
type Triple struct {
	Row, Col int
	Value    float64
}

// Matrix is the canonical three-array CSR representation (spec §3).
// Invariants: RowPtr[0] == 0, RowPtr[NRows] == NNZ, RowPtr is monotonically
// non-decreasing, and within each row ColInd is strictly increasing.
type Matrix struct {
	NRows, NCols int
	RowPtr       []int
	ColInd       []int
	Values       []float64
}

// NNZ returns the number of stored nonzero elements.
func (m *Matrix) NNZ() int { return len(m.Values) }

// At returns the element at (row, col), 0.0 if absent. At panics if row or
// col is out of range, matching the teacher's compressedSparse.at bounds
// check.
func (m *Matrix) At(row, col int) float64 {
	if row < 0 || row >= m.NRows {
		panic(fmt.Sprintf("csr: row %d out of range [0,%d)", row, m.NRows))
	}
	if col < 0 || col >= m.NCols {
		panic(fmt.Sprintf("csr: col %d out of range [0,%d)", col, m.NCols))
	}
	for k := m.RowPtr[row]; k < m.RowPtr[row+1]; k++ {
		if m.ColInd[k] == col {
			return m.Values[k]
		}
	}
	return 0
}

// Row returns the column indices and values stored for row i, as slices
// into the matrix's backing storage (not copies).
func (m *Matrix) Row(i int) (cols []int, vals []float64) {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return m.ColInd[lo:hi], m.Values[lo:hi]
}

// FromSortedTriples builds a CSR matrix from triples already sorted by
// (row, col). It fails with a BadInput-kind *errs.Error on a duplicate
// (row,col) pair or an out-of-range index (spec §4.2).
func FromSortedTriples(nrows, ncols int, triples []Triple) (*Matrix, error) {
	const op = "csr.FromSortedTriples"

	rowPtr := make([]int, nrows+1)
	colInd := make([]int, len(triples))
	values := make([]float64, len(triples))

	prevRow, prevCol := -1, -1
	for i, t := range triples {
		if t.Row < 0 || t.Row >= nrows {
			return nil, errs.New(errs.BadInput, op, fmt.Errorf("triple %d: row %d out of range [0,%d)", i, t.Row, nrows))
		}
		if t.Col < 0 || t.Col >= ncols {
			return nil, errs.New(errs.BadInput, op, fmt.Errorf("triple %d: col %d out of range [0,%d)", i, t.Col, ncols))
		}
		if t.Row < prevRow || (t.Row == prevRow && t.Col <= prevCol) {
			if t.Row == prevRow && t.Col == prevCol {
				return nil, errs.New(errs.BadInput, op, fmt.Errorf("duplicate coordinate (%d,%d)", t.Row, t.Col))
			}
			return nil, errs.New(errs.BadInput, op, fmt.Errorf("triples must be sorted by (row,col); triple %d breaks order", i))
		}
		colInd[i] = t.Col
		values[i] = t.Value
		rowPtr[t.Row+1]++
		prevRow, prevCol = t.Row, t.Col
	}
	for i := 1; i <= nrows; i++ {
		rowPtr[i] += rowPtr[i-1]
	}

	return &Matrix{NRows: nrows, NCols: ncols, RowPtr: rowPtr, ColInd: colInd, Values: values}, nil
}
