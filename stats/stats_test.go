package stats

import (
	"testing"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/csr"
)

// denseRowMatrix builds an n x n matrix where row `denseRow` is fully dense
// (stride-1 run of n elements) and all other rows are empty.
func denseRowMatrix(t *testing.T, n, denseRow int) *csr.Matrix {
	t.Helper()
	var triples []csr.Triple
	for c := 0; c < n; c++ {
		triples = append(triples, csr.Triple{Row: denseRow, Col: c, Value: 1})
	}
	m, err := csr.FromSortedTriples(n, n, triples)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestScanFindsStride1Run(t *testing.T) {
	m := denseRowMatrix(t, 8, 2)
	st, err := Scan(m, coord.Horiz, 0, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := st[1]
	if !ok {
		t.Fatalf("expected stride-1 entry, got %+v", st)
	}
	if e.NNZ != 7 || e.NPatterns != 1 {
		// 8 columns -> 8 deltas: d[0]=col[0]=0 (singleton run), d[1..7]=1 (run of 7)
		t.Errorf("got %+v, want {NNZ:7 NPatterns:1}", e)
	}
}

func TestScanIgnoresBelowMinLimit(t *testing.T) {
	m := denseRowMatrix(t, 3, 0)
	st, err := Scan(m, coord.Horiz, 0, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(st) != 0 {
		t.Errorf("expected no qualifying runs below min_limit, got %+v", st)
	}
}

func TestScanRejectsInvalidWindow(t *testing.T) {
	m := denseRowMatrix(t, 3, 0)
	if _, err := Scan(m, coord.Horiz, 2, 10, 4); err == nil {
		t.Error("expected error for out-of-range window")
	}
}

func TestBlockStatsDetectsAlignedBlocks(t *testing.T) {
	// 4x4 matrix, two 2x2 all-ones blocks on the diagonal.
	var triples []csr.Triple
	for _, blk := range [][2]int{{0, 0}, {2, 2}} {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				triples = append(triples, csr.Triple{Row: blk[0] + i, Col: blk[1] + j, Value: 1})
			}
		}
	}
	sortTriples(triples)
	m, err := csr.FromSortedTriples(4, 4, triples)
	if err != nil {
		t.Fatal(err)
	}
	st, err := Scan(m, coord.BlockRowOrder(2), 0, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st[1]; !ok {
		t.Errorf("expected block-adaptation entry at delta=1, got %+v", st)
	}
}

func TestScanSampledReproducible(t *testing.T) {
	m := denseRowMatrix(t, 1000, 500)
	cfg := config.Default()
	cfg.WindowSize = 100
	cfg.SamplingPortion = 0.25
	cfg.SamplesMax = 8
	cfg.Seed = 0

	s1, err := ScanSampled(m, coord.Horiz, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := ScanSampled(m, coord.Horiz, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s1) != len(s2) {
		t.Fatalf("non-reproducible: %v vs %v", s1, s2)
	}
	for k, v := range s1 {
		if s2[k] != v {
			t.Errorf("non-reproducible at delta=%d: %+v vs %+v", k, v, s2[k])
		}
	}
}

func sortTriples(ts []csr.Triple) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && less(ts[j], ts[j-1]); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

func less(a, b csr.Triple) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
