package pattern

import (
	"testing"

	"github.com/csxeng/csx/coord"
)

func TestGeneratorLengthExact(t *testing.T) {
	cases := []Pattern{
		{Family: DeltaRLE, Order: coord.Horiz, Delta: 1, Size: 5},
		{Family: DeltaRLE, Order: coord.Diag, Delta: 3, Size: 7},
		{Family: BlockRLE, Order: coord.BlockRowOrder(2), Delta: 2, Size: 4},
		{Family: BlockRLE, Order: coord.BlockColOrder(3), Delta: 2, Size: 6},
	}
	for _, p := range cases {
		got := p.Generator(coord.Point{Row: 0, Col: 0})
		if len(got) != p.Size {
			t.Errorf("%v: generator produced %d points, want %d", p, len(got), p.Size)
		}
	}
}

func TestBlockRowGeneratorRowWise(t *testing.T) {
	p := Pattern{Family: BlockRLE, Order: coord.BlockRowOrder(2), Delta: 2, Size: 4}
	got := p.Generator(coord.Point{Row: 4, Col: 6})
	want := []coord.Point{{4, 6}, {4, 7}, {5, 6}, {5, 7}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBlockColGeneratorColWise(t *testing.T) {
	p := Pattern{Family: BlockRLE, Order: coord.BlockColOrder(2), Delta: 3, Size: 6}
	got := p.Generator(coord.Point{Row: 0, Col: 0})
	want := []coord.Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPatternIDDistinctPerOrder(t *testing.T) {
	ids := map[int64]bool{}
	for _, o := range []coord.Order{coord.Horiz, coord.Vert, coord.Diag, coord.AntiDiag, coord.BlockRowOrder(2), coord.BlockColOrder(2)} {
		p := Pattern{Family: DeltaRLE, Order: o, Delta: 1, Size: 4}
		id := p.ID()
		if ids[id] {
			t.Errorf("duplicate pattern id %d for order %v", id, o)
		}
		ids[id] = true
	}
}

func TestDeltaBitsClasses(t *testing.T) {
	cases := []struct {
		delta uint64
		want  int
	}{
		{0, 8}, {255, 8}, {256, 16}, {65535, 16}, {65536, 32}, {1 << 32, 64},
	}
	for _, c := range cases {
		if got := DeltaBits(c.delta); got != c.want {
			t.Errorf("DeltaBits(%d) = %d, want %d", c.delta, got, c.want)
		}
	}
}

func TestCollapsesToLinear(t *testing.T) {
	p := Pattern{Family: BlockRLE, Order: coord.BlockRowOrder(4), Delta: 1, Size: 4}
	if !p.CollapsesToLinear() {
		t.Error("block pattern with other_dim==1 should collapse to linear")
	}
}
