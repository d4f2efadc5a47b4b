package ctl

import (
	"fmt"

	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/pattern"
	"github.com/mhr3/streamvbyte"
)

func errUnknownTag(tag int) error {
	return fmt.Errorf("unknown pattern tag %d", tag)
}

// Unit is one decoded ctl unit, ready for the SpMV executor's dispatch
// (spec §4.7).
type Unit struct {
	NewRow     bool
	RowJump    int
	ColumnJump int
	Pattern    pattern.Pattern // Size filled in from the unit header
	Deltas     []uint64        // len == Size-1, nil for block patterns
	AbsCols    []uint32        // len == Size-1, set only if CSX.FullColumnIndices
	Values     []float64       // len == Size
}

// Reader walks a CSX's ctl stream one unit at a time.
type Reader struct {
	csx  *CSX
	pos  int
	vpos int
}

// NewReader starts a Reader at the beginning of csx's stream.
func NewReader(csx *CSX) *Reader {
	return &Reader{csx: csx}
}

// Next decodes the next unit, or returns ok=false once the stream is
// exhausted.
func (r *Reader) Next() (Unit, bool, error) {
	const op = "ctl.Reader.Next"
	if r.pos >= len(r.csx.Ctl) {
		return Unit{}, false, nil
	}

	flags := r.csx.Ctl[r.pos]
	size := int(r.csx.Ctl[r.pos+1])
	r.pos += 2

	var u Unit
	u.NewRow = flags&flagNewRow != 0
	tag := int(flags & tagMask)
	if tag >= len(r.csx.IDMap) {
		return Unit{}, false, errs.New(errs.CorruptCtl, op, errUnknownTag(tag))
	}
	patternID := r.csx.IDMap[tag]
	p, err := pattern.DecodeID(patternID)
	if err != nil {
		return Unit{}, false, errs.New(errs.CorruptCtl, op, err)
	}
	p.Size = size
	u.Pattern = p

	if u.NewRow {
		if flags&flagRowJump != 0 {
			rj, n := ReadVarint(r.csx.Ctl[r.pos:])
			u.RowJump = int(rj)
			r.pos += n
		} else {
			u.RowJump = 1
		}
	}

	cj, n := ReadVarint(r.csx.Ctl[r.pos:])
	u.ColumnJump = int(cj)
	r.pos += n

	if p.Family == pattern.DeltaRLE && p.Order.Kind == coord.Horizontal && size > 1 {
		if r.csx.FullColumnIndices {
			count := size - 1
			if r.csx.Aligned {
				r.pos = alignUp(r.pos, 4)
			}
			cols := make([]uint32, count)
			cols = streamvbyte.DecodeUint32(r.csx.Ctl[r.pos:], count, cols)
			u.AbsCols = cols
			r.pos += streamvbyteEncodedLen(cols)
		} else {
			width := pattern.DeltaBits(p.Delta)
			if r.csx.Aligned && width > 8 {
				r.pos = alignUp(r.pos, width/8)
			}
			u.Deltas = make([]uint64, size-1)
			step := width / 8
			for i := range u.Deltas {
				u.Deltas[i] = unpackWidth(r.csx.Ctl[r.pos:], width)
				r.pos += step
			}
		}
	}

	u.Values = r.csx.Values[r.vpos : r.vpos+size]
	r.vpos += size
	return u, true, nil
}

func alignUp(pos, width int) int {
	if pos%width == 0 {
		return pos
	}
	return pos + (width - pos%width)
}

// streamvbyteEncodedLen re-encodes cols to recover the byte length consumed;
// the decoder doesn't report bytes read directly, so the reader must know
// where the next unit begins to keep cursors in sync.
func streamvbyteEncodedLen(cols []uint32) int {
	return len(streamvbyte.EncodeUint32(cols, nil))
}
