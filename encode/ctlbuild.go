package encode

import (
	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/ctl"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/pattern"
)

// BuildCTL serialises mtx's rewritten rows into one partition's CTL stream
// and values array (spec §4.6), walking rows in order and emitting one unit
// per remaining RowElem: a bare plain scalar becomes a size-1 Horizontal
// DeltaRLE unit, everything else carries its already-assigned pattern.
// Fails with a BadInput-kind error if the partition needs more than 64
// distinct patterns (spec §6's id_map limit).
func (mtx *Matrix) BuildCTL(cfg config.Config, rowStart int) (*ctl.CSX, error) {
	const op = "encode.Matrix.BuildCTL"
	b := ctl.NewBuilder(cfg.AlignedCtl, false)

	prevRow := -1
	nnz := 0
	for row, elems := range mtx.Rows {
		if len(elems) == 0 {
			continue
		}
		rowJump := row - prevRow
		prevRow = row
		cursor := 0
		first := true
		for _, el := range elems {
			p := el.Pattern
			vals := el.Vals
			if p == nil {
				p = &pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 0, Size: 1}
				vals = []float64{el.Value}
			}
			colJump := el.Col - cursor
			deltaWidth, deltas := internalDeltas(p)
			if err := b.EmitUnit(p.ID(), p.Size, first, rowJump, colJump, deltaWidth, deltas, nil, vals); err != nil {
				return nil, errs.New(errs.BadInput, op, err)
			}
			cursor = endCol(p, coord.Point{Row: row, Col: el.Col})
			first = false
			nnz += p.Size
		}
	}

	return b.Finalize(mtx.NRows, mtx.NCols, nnz, rowStart), nil
}

func internalDeltas(p *pattern.Pattern) (int, []uint64) {
	if p.Family != pattern.DeltaRLE || p.Order.Kind != coord.Horizontal || p.Size <= 1 {
		return 0, nil
	}
	width := pattern.DeltaBits(p.Delta)
	deltas := make([]uint64, p.Size-1)
	for i := range deltas {
		deltas[i] = p.Delta
	}
	return width, deltas
}

// endCol returns the column the executor's cursor will sit at once it has
// fully consumed a unit seeded at seed, used to compute the next unit's
// column_jump.
func endCol(p *pattern.Pattern, seed coord.Point) int {
	pts := p.Generator(seed)
	if p.Family == pattern.DeltaRLE {
		return pts[len(pts)-1].Col
	}
	max := seed.Col
	for _, pt := range pts {
		if pt.Col > max {
			max = pt.Col
		}
	}
	return max
}
