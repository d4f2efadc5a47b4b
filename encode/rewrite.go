package encode

import (
	"sort"

	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/pattern"
)

// rewriteLinear implements the row rewrite for Horizontal/Vertical/Diagonal/
// AntiDiagonal (spec §4.5): reorder the remaining plain points under order,
// re-delta-encode and re-RLE each reordered row, and replace every
// qualifying run with a pattern element, honouring max_limit by chunking
// oversize runs.
func (e *Encoder) rewriteLinear(mtx *Matrix, order coord.Order, deltas map[uint64]bool) error {
	pts := collectPlainPoints(mtx)
	reordered, err := coord.Reorder(order, mtx.NRows, mtx.NCols, pts)
	if err != nil {
		return err
	}

	i := 0
	for i < len(reordered) {
		j := i
		rowp := reordered[i].Row
		for j < len(reordered) && reordered[j].Row == rowp {
			j++
		}
		if err := e.rewriteRunGroup(mtx, order, reordered[i:j], deltas); err != nil {
			return err
		}
		i = j
	}
	return nil
}

// rewriteRunGroup re-delta-encodes one reordered row's column stream and
// replaces qualifying RLE runs with pattern elements (spec §4.4 steps 2-3,
// §4.5's row rewrite). Run segmentation mirrors stats.rleDeltas exactly: a
// run at column-index [s, s+f) covers the f points cols[s..s+f-1], which are
// mutually spaced by the run's delta value regardless of what precedes them.
func (e *Encoder) rewriteRunGroup(mtx *Matrix, order coord.Order, group []coord.Point, deltas map[uint64]bool) error {
	cols := make([]int, len(group))
	for k, p := range group {
		cols[k] = p.Col
	}

	pos := 0
	for pos < len(cols) {
		var v uint64
		if pos == 0 {
			v = uint64(cols[0])
		} else {
			v = uint64(cols[pos] - cols[pos-1])
		}
		end := pos + 1
		for end < len(cols) && uint64(cols[end]-cols[end-1]) == v {
			end++
		}
		freq := end - pos

		if deltas[v] && uint32(freq) >= e.cfg.MinLimit {
			consumed, err := e.emitLinearRuns(mtx, order, v, group[pos:end])
			if err != nil {
				return err
			}
			if consumed {
				pos = end
				continue
			}
		}
		pos = end
	}
	return nil
}

// emitLinearRuns splits a qualifying run into max_limit-sized pattern
// elements (spec §8's max_limit boundary behaviour: a run of max_limit+1 is
// one full pattern followed by a residual unit) and applies each chunk.
func (e *Encoder) emitLinearRuns(mtx *Matrix, order coord.Order, delta uint64, run []coord.Point) (bool, error) {
	maxLimit := int(e.cfg.MaxLimit)
	if maxLimit <= 0 {
		maxLimit = 255
	}
	for len(run) > 0 {
		if uint32(len(run)) < e.cfg.MinLimit {
			break // residual shorter than min_limit stays plain
		}
		n := len(run)
		if n > maxLimit {
			n = maxLimit
		}
		if err := applyLinearChunk(mtx, order, delta, run[:n]); err != nil {
			return false, err
		}
		run = run[n:]
	}
	return true, nil
}

// applyLinearChunk unmaps one reordered run into original coordinates,
// re-seeds it at its smallest-row point (per pattern.Pattern.Stride's
// always-increasing-row convention), removes the consumed plain elements,
// and inserts the new pattern element at its home row.
func applyLinearChunk(mtx *Matrix, order coord.Order, delta uint64, reorderedRun []coord.Point) error {
	orig := make([]coord.Point, len(reorderedRun))
	for i, rp := range reorderedRun {
		row, col, err := coord.Unmap(order, mtx.NRows, rp)
		if err != nil {
			return err
		}
		orig[i] = coord.Point{Row: row, Col: col}
	}
	if len(orig) >= 2 && orig[0].Row > orig[len(orig)-1].Row {
		for l, r := 0, len(orig)-1; l < r; l, r = l+1, r-1 {
			orig[l], orig[r] = orig[r], orig[l]
		}
	}

	vals := make([]float64, len(orig))
	for i, p := range orig {
		vals[i], _ = mtx.valueAt(p.Row, p.Col)
		mtx.removePlain(p.Row, p.Col)
	}

	p := &pattern.Pattern{Family: pattern.DeltaRLE, Order: order, Delta: delta, Size: len(orig)}
	home := orig[0]
	mtx.insert(home.Row, RowElem{Col: home.Col, Pattern: p, Vals: vals})
	return nil
}

// rewriteBlock implements the block rewrite (spec §4.5): per aligned band,
// find the maximal runs of columns (BlockRow) or rows (BlockCol) present in
// every row/column of the band, and replace runs of at least 2*align
// elements with block patterns, splitting oversize runs to respect
// max_limit. This is a single-pass, per-band approximation of the source's
// DoEncodeBlock/DoEncodeBlockAlt; see DESIGN.md for the simplification this
// makes relative to the source's greedy multi-band descent.
func (e *Encoder) rewriteBlock(mtx *Matrix, order coord.Order) error {
	align := order.Align
	if align <= 0 {
		return nil
	}
	maxC := int(e.cfg.MaxLimit) / align
	if maxC < 1 {
		maxC = 1
	}

	if order.Kind == coord.BlockRow {
		for band := 0; band+align <= mtx.NRows; band += align {
			if err := applyBlockBand(mtx, order, band, align, maxC, e.cfg.SplitBlocks, false); err != nil {
				return err
			}
		}
		return nil
	}

	// BlockCol: transpose the roles of row/column by scanning bands over
	// columns and collecting, per column in the band, the set of rows where
	// that column's band membership is complete.
	for band := 0; band+align <= mtx.NCols; band += align {
		if err := applyBlockBand(mtx, order, band, align, maxC, e.cfg.SplitBlocks, true); err != nil {
			return err
		}
	}
	return nil
}

// applyBlockBand handles one aligned band. For BlockRow, band is a row
// index and align rows are scanned for columns present in all of them. For
// BlockCol (transposed=true), band is a column index and align columns are
// scanned for rows present in all of them.
func applyBlockBand(mtx *Matrix, order coord.Order, band, align, maxC int, splitBlocks, transposed bool) error {
	present := map[int]int{} // candidate index (col for BlockRow, row for BlockCol) -> count of band lines containing it
	if !transposed {
		for i := 0; i < align; i++ {
			for _, el := range mtx.Rows[band+i] {
				if el.Pattern == nil {
					present[el.Col]++
				}
			}
		}
	} else {
		for row := 0; row < mtx.NRows; row++ {
			for _, el := range mtx.Rows[row] {
				if el.Pattern == nil && el.Col >= band && el.Col < band+align {
					present[row]++
				}
			}
		}
	}

	var cands []int
	for idx, c := range present {
		if c == align {
			cands = append(cands, idx)
		}
	}
	sort.Ints(cands)

	for _, run := range consecutiveRuns(cands) {
		c := len(run)
		if c < 2 {
			continue
		}
		start := run[0]
		for c > 0 {
			n := c
			if n > maxC {
				n = maxC
			}
			if n < 2 && !splitBlocks {
				break
			}
			if n < 1 {
				break
			}
			if err := applyBlockChunk(mtx, order, band, align, start, n, transposed); err != nil {
				return err
			}
			start += n
			c -= n
		}
	}
	return nil
}

func consecutiveRuns(sorted []int) [][]int {
	var runs [][]int
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[j-1]+1 {
			j++
		}
		runs = append(runs, sorted[i:j])
		i = j
	}
	return runs
}

// applyBlockChunk materialises one block instance (or, when the
// non-alignment dimension collapses to 1, the corresponding linear pattern
// per spec §8's boundary behaviour) and removes its consumed plain
// elements.
func applyBlockChunk(mtx *Matrix, order coord.Order, band, align, start, otherDim int, transposed bool) error {
	var homeRow, homeCol int
	if !transposed {
		homeRow, homeCol = band, start
	} else {
		homeRow, homeCol = start, band
	}

	var p *pattern.Pattern
	if otherDim == 1 {
		// Collapses to a linear pattern (spec §8).
		if !transposed {
			p = &pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Vert, Delta: 1, Size: align}
		} else {
			p = &pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 1, Size: align}
		}
	} else {
		p = &pattern.Pattern{Family: pattern.BlockRLE, Order: order, Delta: uint64(otherDim), Size: align * otherDim}
	}

	seed := coord.Point{Row: homeRow, Col: homeCol}
	pts := p.Generator(seed)
	vals := make([]float64, len(pts))
	for i, pt := range pts {
		v, ok := mtx.valueAt(pt.Row, pt.Col)
		if !ok {
			continue
		}
		vals[i] = v
		mtx.removePlain(pt.Row, pt.Col)
	}
	mtx.insert(homeRow, RowElem{Col: homeCol, Pattern: p, Vals: vals})
	return nil
}
