package driver

import (
	"math"
	"testing"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/csr"
)

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func denseishMatrix(t *testing.T) *csr.Matrix {
	t.Helper()
	var triples []csr.Triple
	for r := 0; r < 8; r++ {
		triples = append(triples, csr.Triple{Row: r, Col: r, Value: float64(r + 1)})
		if r+1 < 8 {
			triples = append(triples, csr.Triple{Row: r, Col: r + 1, Value: 1})
		}
	}
	m, err := csr.FromSortedTriples(8, 8, triples)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// TestSessionRunMatchesReference checks a multithreaded driver run against
// csr.ReferenceMultiply (spec invariant 2), at several thread counts.
func TestSessionRunMatchesReference(t *testing.T) {
	m := denseishMatrix(t)
	x := make([]float64, 8)
	for i := range x {
		x[i] = float64(i + 1)
	}
	want := make([]float64, 8)
	m.ReferenceMultiply(x, want)

	for _, n := range []int{1, 2, 4} {
		sess, err := NewSession(m, n, config.Default(), nil, nil)
		if err != nil {
			t.Fatalf("threads=%d: %v", n, err)
		}
		y := make([]float64, 8)
		if err := sess.Run(1, x, 0, y); err != nil {
			t.Fatalf("threads=%d: Run: %v", n, err)
		}
		for i := range want {
			if !approxEq(y[i], want[i]) {
				t.Errorf("threads=%d: y[%d] = %v, want %v", n, i, y[i], want[i])
			}
		}
	}
}

// TestSessionRunAlphaBeta checks the alpha/beta combine step.
func TestSessionRunAlphaBeta(t *testing.T) {
	m := denseishMatrix(t)
	x := make([]float64, 8)
	for i := range x {
		x[i] = 1
	}
	sess, err := NewSession(m, 2, config.Default(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	y := make([]float64, 8)
	for i := range y {
		y[i] = 10
	}
	if err := sess.Run(2, x, 3, y); err != nil {
		t.Fatal(err)
	}

	ref := make([]float64, 8)
	m.ReferenceMultiply(x, ref)
	for i := range ref {
		want := 2*ref[i] + 3*10
		if !approxEq(y[i], want) {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want)
		}
	}
}
