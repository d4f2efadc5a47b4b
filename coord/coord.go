// Package coord implements the coordinate model (C1): the iteration-order
// bijections that linearise a matrix's nonzero coordinates so that
// geometric substructures become contiguous runs, plus the total order used
// to sort reordered coordinates.
//
// Coordinates are zero-based everywhere in this package; the one-based MMF
// convention is converted at the mmf package boundary only.
package coord

import (
	"fmt"
	"sort"

	"github.com/csxeng/csx/errs"
)

// Kind tags one of the iteration orders a matrix can be linearised by.
type Kind int

const (
	Horizontal Kind = iota
	Vertical
	Diagonal
	AntiDiagonal
	BlockRow
	BlockCol
)

func (k Kind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "antidiagonal"
	case BlockRow:
		return "block-row"
	case BlockCol:
		return "block-col"
	default:
		return "unknown"
	}
}

// MaxBlockAlignment is K in spec §3: block orders quantise rows/columns to
// one of 1..8.
const MaxBlockAlignment = 8

// Order is a fully parameterised iteration order: a Kind plus, for block
// orders, the row/column alignment r.
type Order struct {
	Kind Kind
	// Align is the block alignment r (1..MaxBlockAlignment) for BlockRow and
	// BlockCol; it is ignored for the other kinds.
	Align int
}

// Horiz, Vert, Diag and AntiDiag are the non-block order singletons.
var (
	Horiz    = Order{Kind: Horizontal}
	Vert     = Order{Kind: Vertical}
	Diag     = Order{Kind: Diagonal}
	AntiDiag = Order{Kind: AntiDiagonal}
)

// BlockRowOrder returns the BlockRow order with row alignment r.
func BlockRowOrder(r int) Order { return Order{Kind: BlockRow, Align: r} }

// BlockColOrder returns the BlockCol order with column alignment r.
func BlockColOrder(r int) Order { return Order{Kind: BlockCol, Align: r} }

func (o Order) String() string {
	if o.Kind == BlockRow || o.Kind == BlockCol {
		return fmt.Sprintf("%s_%d", o.Kind, o.Align)
	}
	return o.Kind.String()
}

// Valid reports whether o is a well-formed order: a non-block kind, or a
// block kind with Align in [1, MaxBlockAlignment].
func (o Order) Valid() bool {
	switch o.Kind {
	case Horizontal, Vertical, Diagonal, AntiDiagonal:
		return true
	case BlockRow, BlockCol:
		return o.Align >= 1 && o.Align <= MaxBlockAlignment
	default:
		return false
	}
}

// Point is a zero-based (row, col) coordinate, in either the original
// coordinate space or an order's reordered (row', col') space.
type Point struct {
	Row, Col int
}

// Less implements the total order (y,x) < (y',x') <=> y<y' || (y==y' &&
// x<x') used to sort reordered coordinates (spec §4.1).
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Map applies the forward mapping of order to (row, col), given the total
// row count nrows of the original (unreordered) matrix. Map is the bijection
// described in spec §3; for BlockRow/BlockCol the row (resp. column) index
// is quantised to a multiple of the order's alignment.
func Map(o Order, nrows int, row, col int) (Point, error) {
	switch o.Kind {
	case Horizontal:
		return Point{row, col}, nil
	case Vertical:
		return Point{col, row}, nil
	case Diagonal:
		rp := nrows + col - row
		if rp <= 0 {
			return Point{}, errs.New(errs.BadInput, "coord.Map", fmt.Errorf("diagonal mapping requires nrows+col-row>0, got %d", rp))
		}
		cp := col
		if row < col {
			cp = row
		}
		return Point{rp, cp}, nil
	case AntiDiagonal:
		rp := col + row + 1
		cp := col
		if rp > nrows {
			cp = col + nrows - rp
		}
		return Point{rp, cp}, nil
	case BlockRow:
		return Point{(row / o.Align) * o.Align, col}, nil
	case BlockCol:
		return Point{row, (col / o.Align) * o.Align}, nil
	default:
		return Point{}, errs.New(errs.ConfigError, "coord.Map", fmt.Errorf("unknown order kind %v", o.Kind))
	}
}

// Unmap applies the inverse mapping of order, recovering the original (row,
// col) from a reordered point p. Unmap(Map(o, nrows, r, c)) == (r, c) for
// every non-block order and every in-range (r, c); this is a testable
// round-trip invariant (spec §4.1, §8 invariant 1).
//
// Block orders are not invertible in general (the quantisation is lossy by
// design — a whole aligned band maps to one row'), so Unmap only supports
// the four non-block orders; callers that need the original coordinate of a
// block-order element track it alongside the reordered point instead.
func Unmap(o Order, nrows int, p Point) (int, int, error) {
	switch o.Kind {
	case Horizontal:
		return p.Row, p.Col, nil
	case Vertical:
		return p.Col, p.Row, nil
	case Diagonal:
		// rp = nrows + col - row, cp = min(col, row)
		// If cp == col (col<=row): row = nrows + cp - rp, col = cp
		// If cp == row (row<col):  col = rp - nrows + cp, row = cp
		rowIfColSmaller := nrows + p.Col - p.Row
		if rowIfColSmaller >= p.Col {
			return rowIfColSmaller, p.Col, nil
		}
		return p.Col, p.Row - nrows + p.Col, nil
	case AntiDiagonal:
		if p.Row <= nrows {
			return p.Row - p.Col - 1, p.Col, nil
		}
		col := p.Col + p.Row - nrows
		row := p.Row - col - 1
		return row, col, nil
	default:
		return 0, 0, errs.New(errs.ConfigError, "coord.Unmap", fmt.Errorf("order %v is not invertible", o))
	}
}

// Reorder maps every point in pts through order's forward mapping and sorts
// the result by the order's total order, in O(n log n). nrows is the row
// count of the original (unreordered) matrix.
func Reorder(o Order, nrows, ncols int, pts []Point) ([]Point, error) {
	_ = ncols
	out := make([]Point, len(pts))
	for i, p := range pts {
		mp, err := Map(o, nrows, p.Row, p.Col)
		if err != nil {
			return nil, err
		}
		out[i] = mp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

// InverseReorder maps every point in pts through order's inverse mapping.
// It does not re-sort: the caller's pts are assumed already in the order's
// natural sequence and the result preserves that sequence in original
// coordinates.
func InverseReorder(o Order, nrows int, pts []Point) ([]Point, error) {
	out := make([]Point, len(pts))
	for i, p := range pts {
		r, c, err := Unmap(o, nrows, p)
		if err != nil {
			return nil, err
		}
		out[i] = Point{r, c}
	}
	return out, nil
}
