// Package spmv implements the per-thread SpMV executor (C7): a dispatcher
// that walks a CSX's ctl stream and, per unit, invokes the inner kernel for
// its pattern (DeltaRLE, Linear, or Block), accumulating into the caller's
// y vector.
//
// Grounded on original_source/csx/csx_spmv_mt.cc's per-thread multiply loop
// and the dispatch contract fixed by spec §4.7; the gather/accumulate
// primitives are adapted from the teacher's blas package (package blas).
package spmv

import (
	"fmt"

	"github.com/csxeng/csx/blas"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/ctl"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/pattern"
)

func errUnknownPattern() error {
	return fmt.Errorf("spmv: unit carries neither DeltaRLE nor BlockRLE pattern")
}

func errBadGeneratorLength() error {
	return fmt.Errorf("spmv: pattern generator length does not match unit value count")
}

// Multiply computes y[csx.RowStart:csx.RowStart+csx.NRows] += A_t * x for
// one thread's partition, following the executor contract of spec §4.7.
// x and y are the full (unpartitioned) vectors; Multiply only ever reads x
// and writes the rows belonging to this partition, plus any other rows a
// cross-row Linear/Block pattern seeded in this partition touches (which by
// construction also lie inside the partition, since the encoder never
// splits a pattern across a partition boundary).
func Multiply(csx *ctl.CSX, x, y []float64) error {
	const op = "spmv.Multiply"
	r := ctl.NewReader(csx)

	// yIndx starts one row before the partition's first row: the stream's
	// leading unit always carries NEW_ROW and a default (or explicit) jump
	// of at least 1, which is what actually lands the cursor on RowStart.
	yIndx := csx.RowStart - 1
	xCurr := 0
	var yr float64

	for {
		u, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		if u.NewRow {
			if yIndx >= csx.RowStart {
				y[yIndx] += yr
			}
			if u.RowJump == 0 {
				u.RowJump = 1
			}
			yIndx += u.RowJump
			yr = 0
			xCurr = 0
		}
		xCurr += u.ColumnJump

		switch u.Pattern.Family {
		case pattern.BlockRLE:
			newYr, newXCurr, err := applyBlock(u, x, y, yIndx, xCurr)
			if err != nil {
				return errs.New(errs.CorruptCtl, op, err)
			}
			yr += newYr
			xCurr = newXCurr
		case pattern.DeltaRLE:
			if u.Pattern.Order.Kind == coord.Horizontal {
				add, newXCurr := applyHorizontal(u, x, xCurr)
				yr += add
				xCurr = newXCurr
			} else {
				newYr, newXCurr := applyLinear(u, x, y, yIndx, xCurr)
				yr += newYr
				xCurr = newXCurr
			}
		default:
			return errs.New(errs.CorruptCtl, op, errUnknownPattern())
		}
	}
	if yIndx >= csx.RowStart {
		y[yIndx] += yr
	}
	return nil
}

func applyHorizontal(u ctl.Unit, x []float64, xCurr int) (float64, int) {
	cols := make([]int, u.Pattern.Size)
	cur := xCurr
	for i := 0; i < u.Pattern.Size; i++ {
		cols[i] = cur
		if i < len(u.Deltas) {
			cur += int(u.Deltas[i])
		}
	}
	return blas.GatherMulAdd(x, cols, u.Values), cur
}

// applyLinear handles Vertical/Diagonal/AntiDiagonal units: every step
// after the first targets a different row, so only the home-row (i==0)
// contribution folds into yr; the rest are scattered directly into y.
func applyLinear(u ctl.Unit, x, y []float64, yIndx, xCurr int) (float64, int) {
	dRow, dCol := u.Pattern.Stride()
	row, col := yIndx, xCurr
	var yr float64
	var rows []int
	var vals []float64
	for i := 0; i < u.Pattern.Size; i++ {
		if i > 0 {
			row += dRow
			col += dCol
		}
		if row == yIndx {
			yr += u.Values[i] * x[col]
		} else {
			rows = append(rows, row)
			vals = append(vals, u.Values[i]*x[col])
		}
	}
	if len(rows) > 0 {
		blas.ScatterAdd(y, rows, vals)
	}
	return yr, col
}

// applyBlock handles BlockRow/BlockCol units by expanding the pattern's
// rectangle of (row, col) offsets from the unit's seed.
func applyBlock(u ctl.Unit, x, y []float64, yIndx, xCurr int) (float64, int, error) {
	seed := coord.Point{Row: yIndx, Col: xCurr}
	pts := u.Pattern.Generator(seed)
	if len(pts) != len(u.Values) {
		return 0, 0, errBadGeneratorLength()
	}

	var yr float64
	var rows []int
	var scatterVals []float64
	lastCol := xCurr
	for i, pt := range pts {
		if pt.Col > lastCol {
			lastCol = pt.Col
		}
		if pt.Row == yIndx {
			yr += u.Values[i] * x[pt.Col]
		} else {
			rows = append(rows, pt.Row)
			scatterVals = append(scatterVals, u.Values[i]*x[pt.Col])
		}
	}
	if len(rows) > 0 {
		blas.ScatterAdd(y, rows, scatterVals)
	}
	return yr, lastCol, nil
}
