package coord

import "testing"

// TestRoundTrip verifies the invertibility invariant from spec §4.1 and §8
// invariant 1: Unmap(Map(o, nrows, r, c)) == (r, c) for every in-range (r, c)
// and every non-block order.
func TestRoundTrip(t *testing.T) {
	const nrows = 9
	orders := []Order{Horiz, Vert, Diag, AntiDiag}

	for _, o := range orders {
		for r := 0; r < nrows; r++ {
			for c := 0; c < nrows; c++ {
				p, err := Map(o, nrows, r, c)
				if err != nil {
					// Diagonal requires nrows+col-row>0; skip invalid inputs.
					continue
				}
				gr, gc, err := Unmap(o, nrows, p)
				if err != nil {
					t.Fatalf("%v: Unmap(%v) error: %v", o, p, err)
				}
				if gr != r || gc != c {
					t.Errorf("%v: round trip (%d,%d) -> %v -> (%d,%d), want (%d,%d)", o, r, c, p, gr, gc, r, c)
				}
			}
		}
	}
}

func TestBlockRowQuantisation(t *testing.T) {
	o := BlockRowOrder(4)
	p, err := Map(o, 16, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if p.Row != 4 || p.Col != 10 {
		t.Errorf("got %v, want {4 10}", p)
	}
}

func TestOrderValid(t *testing.T) {
	if !Horiz.Valid() {
		t.Error("Horizontal should be valid")
	}
	if BlockRowOrder(9).Valid() {
		t.Error("BlockRow with align 9 should be invalid (K=8)")
	}
	if !BlockRowOrder(8).Valid() {
		t.Error("BlockRow with align 8 should be valid")
	}
}

func TestReorderSortsByTotalOrder(t *testing.T) {
	pts := []Point{{2, 1}, {0, 5}, {0, 1}, {1, 0}}
	got, err := Reorder(Horiz, 3, 6, pts)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 1}, {0, 5}, {1, 0}, {2, 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDiagonalInvariantViolation(t *testing.T) {
	// R + col - row must be > 0; row=5,col=0,nrows=3 violates it (3+0-5=-2).
	if _, err := Map(Diag, 3, 5, 0); err == nil {
		t.Error("expected error for diagonal invariant violation")
	}
}
