package encode

import (
	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/errs"
	"github.com/csxeng/csx/stats"
)

// TreeNode is one state in the exploratory order-application search: the
// matrix as rewritten along the path from the root, the orders already
// applied on that path, and this state's total score (sum of each step's
// scoreOrder gain).
type TreeNode struct {
	Mtx     *Matrix
	Applied []coord.Order
	Score   int
}

// SearchEncodeTree is the optional exploratory side utility spec §9 names
// (the source's make_encode_tree): a breadth-first search over every order
// of applying cfg.IterationOrders, rather than EncodeAll's single greedy
// order-by-best-score-first pass. Cost is exponential in maxDepth (branching
// factor is len(cfg.IterationOrders) at every level), so callers should keep
// maxDepth small; it exists for comparing against the greedy result on small
// matrices, not as a replacement for EncodeAll in the driver's hot path.
func SearchEncodeTree(mtx *Matrix, cfg config.Config, maxDepth int) (*TreeNode, error) {
	const op = "encode.SearchEncodeTree"
	root := &TreeNode{Mtx: cloneMatrix(mtx), Applied: nil, Score: 0}
	frontier := []*TreeNode{root}
	best := root

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []*TreeNode
		for _, node := range frontier {
			if plainNNZ(node.Mtx) == 0 {
				continue
			}
			tried := map[coord.Order]bool{}
			for _, o := range node.Applied {
				tried[o] = true
			}
			totalNNZ := plainNNZ(node.Mtx)
			pts := collectPlainPoints(node.Mtx)
			for _, o := range cfg.IterationOrders {
				if tried[o] {
					continue
				}
				st, err := stats.ScanPoints(pts, o, node.Mtx.NRows, node.Mtx.NCols, cfg.MinLimit)
				if err != nil {
					return nil, errs.New(errs.BadInput, op, err)
				}
				score, deltas := scoreOrder(st, totalNNZ, cfg)
				if score <= 0 {
					continue
				}
				child := &TreeNode{
					Mtx:     cloneMatrix(node.Mtx),
					Applied: append(append([]coord.Order{}, node.Applied...), o),
					Score:   node.Score + score,
				}
				deltaSet := make(map[uint64]bool, len(deltas))
				for _, d := range deltas {
					deltaSet[d] = true
				}
				enc := New(cfg)
				if err := enc.rewriteOrder(child.Mtx, o, deltaSet); err != nil {
					return nil, errs.New(errs.BadInput, op, err)
				}
				next = append(next, child)
				if child.Score > best.Score {
					best = child
				}
			}
		}
		frontier = next
	}

	return best, nil
}

// cloneMatrix deep-copies mtx so tree branches can diverge independently.
func cloneMatrix(mtx *Matrix) *Matrix {
	out := &Matrix{NRows: mtx.NRows, NCols: mtx.NCols, Rows: make([][]RowElem, len(mtx.Rows))}
	for i, elems := range mtx.Rows {
		cp := make([]RowElem, len(elems))
		copy(cp, elems)
		out.Rows[i] = cp
	}
	return out
}
