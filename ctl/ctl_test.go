package ctl

import (
	"testing"

	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/pattern"
)

func horizPlain(col int) (patternID int64, deltaWidth int) {
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 0, Size: 1}
	return p.ID(), 0
}

func TestBuilderRoundTripPlainRow(t *testing.T) {
	b := NewBuilder(false, false)
	id, _ := horizPlain(0)
	if err := b.EmitUnit(id, 1, true, 1, 0, 0, nil, nil, []float64{2}); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(1, 1, 1, 0)

	r := NewReader(csx)
	u, ok, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a unit")
	}
	if !u.NewRow || u.RowJump != 1 || u.ColumnJump != 0 || u.Values[0] != 2 {
		t.Errorf("got %+v", u)
	}
	if _, ok, _ := r.Next(); ok {
		t.Error("expected stream exhausted")
	}
}

func TestBuilderRoundTripDeltaRLE(t *testing.T) {
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 1, Size: 4}
	b := NewBuilder(false, false)
	vals := []float64{1, 1, 1, 1}
	if err := b.EmitUnit(p.ID(), 4, true, 1, 0, 8, []uint64{1, 1, 1}, nil, vals); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(1, 4, 4, 0)

	r := NewReader(csx)
	u, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next: %v %v", ok, err)
	}
	if len(u.Deltas) != 3 || u.Deltas[0] != 1 || u.Deltas[1] != 1 || u.Deltas[2] != 1 {
		t.Errorf("got deltas %v", u.Deltas)
	}
	if len(u.Values) != 4 {
		t.Errorf("got %d values, want 4", len(u.Values))
	}
}

func TestBuilderRejectsTooManyPatterns(t *testing.T) {
	b := NewBuilder(false, false)
	for i := 0; i < 64; i++ {
		p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: uint64(i + 1), Size: 1}
		if err := b.EmitUnit(p.ID(), 1, true, 1, 0, 0, nil, nil, []float64{1}); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 999, Size: 1}
	if err := b.EmitUnit(p.ID(), 1, true, 1, 0, 0, nil, nil, []float64{1}); err == nil {
		t.Error("expected overflow error past 64 distinct patterns")
	}
}

func TestBuilderRejectsBadSize(t *testing.T) {
	b := NewBuilder(false, false)
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 1, Size: 0}
	if err := b.EmitUnit(p.ID(), 0, true, 1, 0, 0, nil, nil, nil); err == nil {
		t.Error("expected error for size 0")
	}
	if err := b.EmitUnit(p.ID(), 256, true, 1, 0, 0, nil, nil, nil); err == nil {
		t.Error("expected error for size 256")
	}
}

func TestBuilderFullColumnIndices(t *testing.T) {
	p := pattern.Pattern{Family: pattern.DeltaRLE, Order: coord.Horiz, Delta: 3, Size: 3}
	b := NewBuilder(false, true)
	vals := []float64{1, 1, 1}
	if err := b.EmitUnit(p.ID(), 3, true, 1, 0, 0, nil, []uint32{3, 6}, vals); err != nil {
		t.Fatal(err)
	}
	csx := b.Finalize(1, 10, 3, 0)

	r := NewReader(csx)
	u, ok, err := r.Next()
	if err != nil || !ok {
		t.Fatalf("Next: %v %v", ok, err)
	}
	if len(u.AbsCols) != 2 || u.AbsCols[0] != 3 || u.AbsCols[1] != 6 {
		t.Errorf("got abs cols %v", u.AbsCols)
	}
}

func TestReaderRejectsUnknownTag(t *testing.T) {
	csx := &CSX{Ctl: []byte{0x80, 1, 0}, Values: []float64{1}, IDMap: nil}
	r := NewReader(csx)
	if _, _, err := r.Next(); err == nil {
		t.Error("expected CorruptCtl error for empty id map")
	}
}
