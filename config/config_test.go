package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsBadMinPerc(t *testing.T) {
	c := Default()
	c.MinPerc = 1.5
	if err := c.Validate(); err == nil {
		t.Error("expected error for min_perc > 1")
	}
}

func TestValidateRejectsEmptyOrders(t *testing.T) {
	c := Default()
	c.IterationOrders = nil
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty iteration order list")
	}
}

func TestFromEnvOverlaysWindowSize(t *testing.T) {
	t.Setenv(EnvWindowSize, "4096")
	cfg, err := FromEnv(Default())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WindowSize != 4096 {
		t.Errorf("got WindowSize=%d, want 4096", cfg.WindowSize)
	}
}

func TestFromEnvParsesOrders(t *testing.T) {
	t.Setenv(EnvXformConf, "diagonal,block-row-4")
	cfg, err := FromEnv(Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.IterationOrders) != 2 {
		t.Fatalf("got %d orders, want 2", len(cfg.IterationOrders))
	}
}

func TestMTConfFromEnvDefault(t *testing.T) {
	n, err := MTConfFromEnv(4)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("got %d, want 4", n)
	}
}
