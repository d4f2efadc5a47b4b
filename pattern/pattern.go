// Package pattern implements the pattern catalog (C3): the closed set of
// geometric substructures the encoder can recognise, each carrying a
// generator that lazily yields the coordinates it covers in the active
// iteration order.
//
// Grounded on original_source/patterns/csx.h / patterns/drle.cc, which
// define exactly these two pattern families (a run of equally-spaced
// elements, and an aligned rectangular block) and the iter_tag*OFFSET+delta
// pattern-ID scheme the SpMV inner loops key off (spec §4.3).
package pattern

import (
	"fmt"

	"github.com/csxeng/csx/coord"
)

// Family distinguishes the two pattern shapes in the catalog.
type Family int

const (
	// DeltaRLE is a run of Size elements spaced Delta apart along the
	// active iteration order.
	DeltaRLE Family = iota
	// BlockRLE is an r x c aligned block, where r is the order's alignment
	// and c (stored in Delta, per the "delta is always the block's
	// non-alignment dimension" resolution of spec §9's open question) is
	// the other dimension.
	BlockRLE
)

// IDOffset is the multiplier used to build a pattern ID from an iteration
// tag and a delta (spec §4.3): pattern_id = iter_tag*IDOffset + delta.
const IDOffset = 10000

// Pattern is one fully parameterised member of the catalog: a family, the
// order it was detected under, a delta (stride, or block non-alignment
// dimension) and a size (element count).
type Pattern struct {
	Family Family
	Order  coord.Order
	Delta  uint64
	Size   int
}

// DeltaBits classifies delta into the smallest bit-width class it fits,
// {8,16,32,64}, used to choose the CTL delta-body packing width (spec §3/§6).
func DeltaBits(delta uint64) int {
	switch {
	case delta <= 0xFF:
		return 8
	case delta <= 0xFFFF:
		return 16
	case delta <= 0xFFFFFFFF:
		return 32
	default:
		return 64
	}
}

// iterTag maps an order to the small integer tag the pattern ID is built
// from. Block orders fold in their alignment so BlockRow_2 and BlockRow_4
// get distinct tags.
func iterTag(o coord.Order) int64 {
	switch o.Kind {
	case coord.Horizontal:
		return 0
	case coord.Vertical:
		return 1
	case coord.Diagonal:
		return 2
	case coord.AntiDiagonal:
		return 3
	case coord.BlockRow:
		return int64(10 + o.Align)
	case coord.BlockCol:
		return int64(20 + o.Align)
	default:
		return -1
	}
}

// ID returns the pattern's on-wire pattern_id (spec §4.3), the contract the
// SpMV inner loops key dispatch off even though nothing is persisted to
// disk in the common case.
func (p Pattern) ID() int64 {
	return iterTag(p.Order)*IDOffset + int64(p.Delta)
}

// DecodeID reconstructs a Pattern's Family, Order and Delta from its
// pattern_id (the inverse of iterTag plus the ID's delta remainder). Size is
// not recoverable from the ID alone; callers get it from the unit header.
func DecodeID(id int64) (Pattern, error) {
	tag := id / IDOffset
	delta := id % IDOffset
	var o coord.Order
	fam := DeltaRLE
	switch {
	case tag == 0:
		o = coord.Horiz
	case tag == 1:
		o = coord.Vert
	case tag == 2:
		o = coord.Diag
	case tag == 3:
		o = coord.AntiDiag
	case tag >= 10 && tag < 20:
		o = coord.BlockRowOrder(int(tag - 10))
		fam = BlockRLE
	case tag >= 20 && tag < 30:
		o = coord.BlockColOrder(int(tag - 20))
		fam = BlockRLE
	default:
		return Pattern{}, fmt.Errorf("pattern: unknown pattern id %d", id)
	}
	return Pattern{Family: fam, Order: o, Delta: uint64(delta)}, nil
}

func (p Pattern) String() string {
	if p.Family == BlockRLE {
		return fmt.Sprintf("Block(%s, align=%d, other=%d, size=%d)", p.Order, p.Order.Align, p.Delta, p.Size)
	}
	return fmt.Sprintf("DeltaRLE(%s, delta=%d, size=%d)", p.Order, p.Delta, p.Size)
}

// NextColumn advances the reordered column cursor by one step of the
// pattern from currentCol (spec §4.3's next_column). For a DeltaRLE pattern
// this is the run's fixed stride. For a block pattern it is the stride
// across the block's non-alignment dimension; block generator order is
// responsible for the row-wrap within the block, so this is only the
// common-case single step, matching spec §9's note that dispatch fine detail
// is an implementer's choice as long as the generator contract (below)
// holds.
func (p Pattern) NextColumn(currentCol int) int {
	if p.Family == BlockRLE {
		return currentCol + 1
	}
	return currentCol + int(p.Delta)
}

// JumpOnWrap returns the column the executor should resume at once the
// pattern has been fully consumed (spec §4.3's jump_on_wrap), given the
// final column the generator reached.
func (p Pattern) JumpOnWrap(finalCol int) int {
	if p.Family == BlockRLE {
		return finalCol + 1
	}
	return finalCol
}

// Stride returns the per-step (dRow, dCol) displacement, in original
// (unreordered) coordinates, of a DeltaRLE pattern's generator. Every
// non-block order turns out to have a constant affine stride once delta is
// fixed, which is what lets the SpMV executor implement "Linear(order,
// delta)" (spec §4.7) as a simple accumulate-and-advance loop rather than by
// reordering/unmapping at execution time:
//
//   - Horizontal: row fixed, column advances by delta (the common case,
//     dispatched as DeltaRLE(bits) rather than Linear in the executor).
//   - Vertical:   column fixed, row advances by delta (map swaps the axes,
//     so a run at fixed row' = col steps col' = row by delta).
//   - Diagonal:   row and column both advance by delta (map holds
//     row' = R+col-row fixed, so row and col move together).
//   - AntiDiagonal: row advances by delta as column retreats by delta (map
//     holds row' = col+row+1 fixed; the pattern is always seeded at its
//     smallest-row point and walked toward increasing row, the opposite of
//     the order's natural ascending-column traversal, so that a pattern's
//     home row for CTL placement is always its first generator step).
//
// Block patterns have no single stride (they cover a rectangle, not a run)
// and panic if asked.
func (p Pattern) Stride() (dRow, dCol int) {
	if p.Family != DeltaRLE {
		panic("pattern: Stride called on a block pattern")
	}
	d := int(p.Delta)
	switch p.Order.Kind {
	case coord.Horizontal:
		return 0, d
	case coord.Vertical:
		return d, 0
	case coord.Diagonal:
		return d, d
	case coord.AntiDiagonal:
		return d, -d
	default:
		panic("pattern: Stride called on a non-linear order")
	}
}

// Generator yields exactly Size coordinates, in the order the SpMV executor
// will consume them, seeded at the pattern's first (original) coordinate.
// Pattern generators are length-exact: len(Generator(seed)) == Size (spec §8).
func (p Pattern) Generator(seed coord.Point) []coord.Point {
	if p.Family == DeltaRLE {
		dRow, dCol := p.Stride()
		out := make([]coord.Point, p.Size)
		row, col := seed.Row, seed.Col
		for i := 0; i < p.Size; i++ {
			out[i] = coord.Point{Row: row, Col: col}
			row += dRow
			col += dCol
		}
		return out
	}

	// BlockRLE: the order's alignment (p.Order.Align) is the block's extent
	// in the order's quantised dimension; Delta is the other dimension.
	out := make([]coord.Point, 0, p.Size)
	switch p.Order.Kind {
	case coord.BlockRow:
		// rows = Align, cols = Delta; stored row-wise.
		rows, cols := p.Order.Align, int(p.Delta)
		for ii := 0; ii < rows; ii++ {
			for jj := 0; jj < cols; jj++ {
				out = append(out, coord.Point{Row: seed.Row + ii, Col: seed.Col + jj})
			}
		}
	case coord.BlockCol:
		// cols = Align, rows = Delta; stored column-wise.
		cols, rows := p.Order.Align, int(p.Delta)
		for jj := 0; jj < cols; jj++ {
			for ii := 0; ii < rows; ii++ {
				out = append(out, coord.Point{Row: seed.Row + ii, Col: seed.Col + jj})
			}
		}
	}
	return out
}

// CollapsesToLinear reports whether a block pattern whose other dimension is
// 1 should instead be treated as a linear (DeltaRLE) pattern of the
// corresponding non-block order, per spec §8's boundary behaviour.
func (p Pattern) CollapsesToLinear() bool {
	return p.Family == BlockRLE && p.Delta == 1
}
