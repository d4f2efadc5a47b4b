package encode

import (
	"testing"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/csr"
)

// TestSearchEncodeTreeFindsIdentityDiagonal checks that the exploratory
// search reaches the same zero-plain-elements result EncodeAll does on the
// S1 identity scenario, via a single Diagonal step.
func TestSearchEncodeTreeFindsIdentityDiagonal(t *testing.T) {
	var triples []csr.Triple
	for i := 0; i < 4; i++ {
		triples = append(triples, csr.Triple{Row: i, Col: i, Value: 1})
	}
	m, err := csr.FromSortedTriples(4, 4, triples)
	if err != nil {
		t.Fatal(err)
	}

	mtx := FromCSR(m, 0, 4)
	cfg := config.Default()
	node, err := SearchEncodeTree(mtx, cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if plainNNZ(node.Mtx) != 0 {
		t.Errorf("search left %d plain elements, want 0", plainNNZ(node.Mtx))
	}
	if len(node.Applied) == 0 {
		t.Error("expected at least one order applied")
	}
}

// TestSearchEncodeTreeRespectsMaxDepth checks the search never explores
// past maxDepth levels.
func TestSearchEncodeTreeRespectsMaxDepth(t *testing.T) {
	var triples []csr.Triple
	for i := 0; i < 4; i++ {
		triples = append(triples, csr.Triple{Row: i, Col: i, Value: 1})
	}
	m, err := csr.FromSortedTriples(4, 4, triples)
	if err != nil {
		t.Fatal(err)
	}

	mtx := FromCSR(m, 0, 4)
	cfg := config.Default()
	node, err := SearchEncodeTree(mtx, cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(node.Applied) != 0 {
		t.Errorf("maxDepth=0 applied %d orders, want 0", len(node.Applied))
	}
}
