package main

import (
	"testing"

	"github.com/csxeng/csx/coord"
)

func TestParseIterFlag(t *testing.T) {
	orders, err := parseIterFlag("horizontal,diagonal")
	if err != nil {
		t.Fatal(err)
	}
	want := []coord.Order{coord.Horiz, coord.Diag}
	if len(orders) != len(want) {
		t.Fatalf("got %v, want %v", orders, want)
	}
	for i := range want {
		if orders[i] != want[i] {
			t.Errorf("orders[%d] = %v, want %v", i, orders[i], want[i])
		}
	}
}

func TestParseIterFlagRejectsUnknown(t *testing.T) {
	if _, err := parseIterFlag("sideways"); err == nil {
		t.Error("expected error for unknown order tag")
	}
}

func TestFlagsToConfigDefaults(t *testing.T) {
	f := newFlagSet()
	if err := f.Parse([]string{"matrix.mtx"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.toConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.IterationOrders) == 0 {
		t.Error("expected default iteration orders when --iter is unset")
	}
}

func TestFlagsToConfigRejectsBadSamplingPortion(t *testing.T) {
	f := newFlagSet()
	if err := f.Parse([]string{"--sampling-portion=2", "matrix.mtx"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.toConfig(); err == nil {
		t.Error("expected config error for sampling-portion out of [0,1]")
	}
}
