package encode

import (
	"sort"

	"github.com/csxeng/csx/coord"
)

// Decode expands every pattern element matching order back into plain
// elements (spec §4.5's decode(order)). Nothing in this module calls it:
// SearchEncodeTree branches on cloned matrices instead of decoding.
func (mtx *Matrix) Decode(order coord.Order) {
	type plain struct {
		row, col int
		value    float64
	}
	var toInsert []plain

	for row := range mtx.Rows {
		kept := mtx.Rows[row][:0]
		for _, el := range mtx.Rows[row] {
			if el.Pattern == nil || el.Pattern.Order != order {
				kept = append(kept, el)
				continue
			}
			pts := el.Pattern.Generator(coord.Point{Row: row, Col: el.Col})
			for i, pt := range pts {
				toInsert = append(toInsert, plain{pt.Row, pt.Col, el.Vals[i]})
			}
		}
		mtx.Rows[row] = kept
	}

	for _, p := range toInsert {
		mtx.insert(p.row, RowElem{Col: p.col, Value: p.value})
	}

	for row := range mtx.Rows {
		sort.Slice(mtx.Rows[row], func(i, j int) bool { return mtx.Rows[row][i].Col < mtx.Rows[row][j].Col })
	}
}
