package ctl

import (
	"fmt"

	"github.com/mhr3/streamvbyte"
)

// Builder assembles one thread's ctl stream and values array incrementally
// (spec §4.6's emit_unit/finalize contract).
type Builder struct {
	aligned  bool
	fullCols bool

	idIndex map[int64]uint8
	idMap   []int64

	ctl    []byte
	values []float64
}

// NewBuilder starts a Builder. aligned pads multi-byte delta bodies to
// their own width boundary, and absolute-column bodies to 4 bytes; fullCols switches the whole CSX to storing
// absolute u32 column indices (backed by streamvbyte) instead of deltas.
func NewBuilder(aligned, fullCols bool) *Builder {
	return &Builder{aligned: aligned, fullCols: fullCols, idIndex: map[int64]uint8{}}
}

func (b *Builder) tagFor(patternID int64) (uint8, error) {
	if t, ok := b.idIndex[patternID]; ok {
		return t, nil
	}
	if len(b.idMap) >= 64 {
		return 0, fmt.Errorf("ctl: more than 64 distinct patterns in one partition")
	}
	t := uint8(len(b.idMap))
	b.idMap = append(b.idMap, patternID)
	b.idIndex[patternID] = t
	return t, nil
}

// EmitUnit appends one unit to the stream.
//
//   - patternID is the pattern_id (spec §4.3); size is the element count,
//     1..255.
//   - newRow/rowJump signal a row boundary; rowJump > 1 sets ROW_JUMP.
//   - colJump is the column_jump varint.
//   - deltaWidth/internalDeltas carry the (size-1) packed per-step deltas,
//     used only for Horizontal runs (the executor's DeltaRLE(bits) dispatch
//     reads them off the wire). Vertical/Diagonal/AntiDiagonal (Linear) and
//     block units derive their stride/geometry from the pattern_id alone,
//     so callers pass deltaWidth=0 and nil deltas for those.
//   - absCols, used only when the Builder was built with fullCols=true,
//     replaces internalDeltas with (size-1) absolute column indices.
func (b *Builder) EmitUnit(patternID int64, size int, newRow bool, rowJump int, colJump int, deltaWidth int, internalDeltas []uint64, absCols []uint32, values []float64) error {
	if size < 1 || size > 255 {
		return fmt.Errorf("ctl: unit size %d out of range [1,255]", size)
	}
	tag, err := b.tagFor(patternID)
	if err != nil {
		return err
	}

	flags := tag & tagMask
	if newRow {
		flags |= flagNewRow
		if rowJump > 1 {
			flags |= flagRowJump
		}
	}
	b.ctl = append(b.ctl, flags, byte(size))
	if newRow && rowJump > 1 {
		b.ctl = AppendVarint(b.ctl, uint64(rowJump))
	}
	b.ctl = AppendVarint(b.ctl, uint64(colJump))

	switch {
	case b.fullCols && len(absCols) > 0:
		if b.aligned {
			b.padAlign(4)
		}
		b.ctl = streamvbyte.EncodeUint32(absCols, b.ctl)
	case len(internalDeltas) > 0:
		if b.aligned && deltaWidth > 8 {
			b.padAlign(deltaWidth / 8)
		}
		for _, d := range internalDeltas {
			b.ctl = packWidth(b.ctl, deltaWidth, d)
		}
	}

	b.values = append(b.values, values...)
	return nil
}

func (b *Builder) padAlign(width int) {
	for len(b.ctl)%width != 0 {
		b.ctl = append(b.ctl, 0)
	}
}

// Finalize returns the assembled CSX for rows [rowStart, rowStart+nrows).
func (b *Builder) Finalize(nrows, ncols, nnz, rowStart int) *CSX {
	return &CSX{
		NRows: nrows, NCols: ncols, NNZ: nnz, RowStart: rowStart,
		Ctl: b.ctl, Values: b.values, IDMap: b.idMap,
		Aligned: b.aligned, FullColumnIndices: b.fullCols,
	}
}
