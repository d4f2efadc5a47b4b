package spmv

import (
	"math"
	"testing"

	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/ctl"
	"github.com/csxeng/csx/pattern"
)

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestMultiplyIdentity builds a 4x4 identity matrix as four independent
// plain (size-1, Horizontal delta=0) units, one per row, and checks y == x.
func TestMultiplyIdentity(t *testing.T) {
	b := ctl.NewBuilder(false, false)
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 0, Size: 1}
	for row := 0; row < 4; row++ {
		if err := b.EmitUnit(p.ID(), 1, true, 1, row, 0, nil, nil, []float64{1}); err != nil {
			t.Fatal(err)
		}
	}
	csx := b.Finalize(4, 4, 4, 0)

	x := []float64{1, 2, 3, 4}
	y := make([]float64, 4)
	if err := Multiply(csx, x, y); err != nil {
		t.Fatal(err)
	}
	for i := range x {
		if !approxEq(y[i], x[i]) {
			t.Errorf("y[%d] = %v, want %v", i, y[i], x[i])
		}
	}
}

// TestMultiplyDenseRow encodes one fully dense row of a 1x4 matrix as a
// single Horizontal DeltaRLE(delta=1, size=4) unit.
func TestMultiplyDenseRow(t *testing.T) {
	b := ctl.NewBuilder(false, false)
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 1, Size: 4}
	vals := []float64{1, 2, 3, 4}
	if err := b.EmitUnit(p.ID(), 4, true, 1, 0, 8, []uint64{1, 1, 1}, nil, vals); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(1, 4, 4, 0)

	x := []float64{1, 1, 1, 1}
	y := make([]float64, 1)
	if err := Multiply(csx, x, y); err != nil {
		t.Fatal(err)
	}
	if !approxEq(y[0], 10) {
		t.Errorf("y[0] = %v, want 10", y[0])
	}
}

// TestMultiplyDiagonalCrossRow encodes a 3x3 diagonal (A[i][i]=1) as one
// Diagonal DeltaRLE(delta=1, size=3) unit seeded at row 0, and checks its
// scatter-writes land in rows 1 and 2 correctly (spec scenario S3's model).
func TestMultiplyDiagonalCrossRow(t *testing.T) {
	b := ctl.NewBuilder(false, false)
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Diag, Delta: 1, Size: 3}
	vals := []float64{1, 1, 1}
	if err := b.EmitUnit(p.ID(), 3, true, 1, 0, 0, nil, nil, vals); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(3, 3, 3, 0)

	x := []float64{5, 6, 7}
	y := make([]float64, 3)
	if err := Multiply(csx, x, y); err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 6, 7}
	for i := range want {
		if !approxEq(y[i], want[i]) {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

// TestMultiplyBlock encodes a 2x2 dense block at the top-left of a 2x2
// matrix as one BlockRow_2 unit with other-dimension (Delta) 2.
func TestMultiplyBlock(t *testing.T) {
	b := ctl.NewBuilder(false, false)
	p := pattern.Pattern{Family: pattern.BlockRLE, Order: coord.BlockRowOrder(2), Delta: 2, Size: 4}
	vals := []float64{1, 2, 3, 4} // row0: [1,2], row1: [3,4]
	if err := b.EmitUnit(p.ID(), 4, true, 1, 0, 0, nil, nil, vals); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(2, 2, 4, 0)

	x := []float64{1, 1}
	y := make([]float64, 2)
	if err := Multiply(csx, x, y); err != nil {
		t.Fatal(err)
	}
	if !approxEq(y[0], 3) || !approxEq(y[1], 7) {
		t.Errorf("y = %v, want [3 7]", y)
	}
}
