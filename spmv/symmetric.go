package spmv

import (
	"github.com/csxeng/csx/blas"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/ctl"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/pattern"
)

// MultiplySymmetric executes one thread's partition of a symmetric SpMV
// (spec §4.7's symmetric variant, §5's switch-reduction): csx is assumed to
// store only the upper-triangular part of a symmetric matrix, so every
// off-diagonal unit contributes twice — once in the forward (row, col)
// direction, folded into tmp like Multiply, and once in the transpose
// (col, row) direction, which this thread cannot apply directly since col
// may land outside its own row range. The transpose contribution is instead
// accumulated into this thread's temp scratch (length ncols); the driver
// reduces every thread's temp into tmp after barrier B2 (the
// switch-reduction phase).
//
// dv is this partition's diagonal vector, indexed by local row (dv[i]
// corresponds to absolute row csx.RowStart+i). The diagonal contribution
// x[row]*dv[row] is added directly into tmp alongside the off-diagonal
// forward sum, so the driver's single alpha/beta combine (blas.AxpyScale)
// scales the whole partition total uniformly — a deliberate simplification
// of the source's per-row "times alpha" step, which bakes the scale factor
// into the diagonal term alone; see DESIGN.md.
func MultiplySymmetric(csx *ctl.CSX, dv []float64, x, tmp, temp []float64) error {
	const op = "spmv.MultiplySymmetric"
	r := ctl.NewReader(csx)

	yIndx := csx.RowStart - 1
	xCurr := 0
	var yr float64

	commitRow := func(idx int) {
		if idx < csx.RowStart {
			return
		}
		local := idx - csx.RowStart
		diag := 0.0
		if local < len(dv) {
			diag = x[idx] * dv[local]
		}
		tmp[idx] += yr + diag
	}

	for {
		u, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		if u.NewRow {
			commitRow(yIndx)
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
			newYr, newXCurr, err := applyBlockSym(u, x, temp, yIndx, xCurr)
			if err != nil {
				return errs.New(errs.CorruptCtl, op, err)
			}
			yr += newYr
			xCurr = newXCurr
		case pattern.DeltaRLE:
			if u.Pattern.Order.Kind == coord.Horizontal {
				add, newXCurr := applyHorizontalSym(u, x, temp, yIndx, xCurr)
				yr += add
				xCurr = newXCurr
			} else {
				newYr, newXCurr := applyLinearSym(u, x, temp, yIndx, xCurr)
				yr += newYr
				xCurr = newXCurr
			}
		default:
			return errs.New(errs.CorruptCtl, op, errUnknownPattern())
		}
	}
	commitRow(yIndx)
	return nil
}

// applyHorizontalSym is applyHorizontal plus the transpose scatter into
// temp for every non-diagonal element.
func applyHorizontalSym(u ctl.Unit, x, temp []float64, row, xCurr int) (float64, int) {
	cols := make([]int, u.Pattern.Size)
	cur := xCurr
	for i := 0; i < u.Pattern.Size; i++ {
		cols[i] = cur
		if i < len(u.Deltas) {
			cur += int(u.Deltas[i])
		}
	}
	for i, c := range cols {
		if c != row {
			temp[c] += u.Values[i] * x[row]
		}
	}
	return blas.GatherMulAdd(x, cols, u.Values), cur
}

func applyLinearSym(u ctl.Unit, x, temp []float64, yIndx, xCurr int) (float64, int) {
	dRow, dCol := u.Pattern.Stride()
	row, col := yIndx, xCurr
	var yr float64
	for i := 0; i < u.Pattern.Size; i++ {
		if i > 0 {
			row += dRow
			col += dCol
		}
		if row == yIndx {
			yr += u.Values[i] * x[col]
		} else {
			temp[row] += u.Values[i] * x[col]
		}
		if row != col {
			temp[col] += u.Values[i] * x[row]
		}
	}
	return yr, col
}

func applyBlockSym(u ctl.Unit, x, temp []float64, yIndx, xCurr int) (float64, int, error) {
	seed := coord.Point{Row: yIndx, Col: xCurr}
	pts := u.Pattern.Generator(seed)
	if len(pts) != len(u.Values) {
		return 0, 0, errBadGeneratorLength()
	}

	var yr float64
	lastCol := xCurr
	for i, pt := range pts {
		if pt.Col > lastCol {
			lastCol = pt.Col
		}
		if pt.Row == yIndx {
			yr += u.Values[i] * x[pt.Col]
		} else {
			temp[pt.Row] += u.Values[i] * x[pt.Col]
		}
		if pt.Row != pt.Col {
			temp[pt.Col] += u.Values[i] * x[pt.Row]
		}
	}
	return yr, lastCol, nil
}
