package mmf

import (
	"strings"
	"testing"
)

const sample = `%%MatrixMarket sample
3 3 4
1 1 2
2 2 3
1 3 4
3 1 5
`

func TestOpenParsesHeader(t *testing.T) {
	r, err := Open(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	h := r.Header()
	if h.NRows != 3 || h.NCols != 3 || h.NNZ != 4 {
		t.Errorf("got %+v, want {3 3 4}", h)
	}
}

func TestNextConvertsToZeroBased(t *testing.T) {
	r, err := Open(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	row, col, val, ok := r.Next()
	if !ok {
		t.Fatal("expected a triple")
	}
	if row != 0 || col != 0 || val != 2 {
		t.Errorf("got (%d,%d,%v), want (0,0,2)", row, col, val)
	}
}

func TestLoadCSRBuildsSortedMatrix(t *testing.T) {
	r, err := Open(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	m, err := LoadCSR(r)
	if err != nil {
		t.Fatal(err)
	}
	if m.NNZ() != 4 {
		t.Fatalf("NNZ = %d, want 4", m.NNZ())
	}
	if m.At(0, 0) != 2 || m.At(1, 1) != 3 || m.At(0, 2) != 4 || m.At(2, 0) != 5 {
		t.Errorf("matrix values wrong: %+v", m.Values)
	}
}

func TestLoadCSRRejectsNNZMismatch(t *testing.T) {
	bad := `3 3 9
1 1 2
`
	r, err := Open(strings.NewReader(bad))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCSR(r); err == nil {
		t.Error("expected error for NNZ header mismatch")
	}
}
