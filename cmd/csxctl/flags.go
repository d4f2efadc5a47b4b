package main

import (
	"flag"

	"github.com/csxeng/csx/config"
)

// csxFlags wraps a flag.FlagSet with the option surface spec §6 defines.
type csxFlags struct {
	flagSet *flag.FlagSet

	threads         int
	iter            string
	windowSize      uint
	samples         uint
	samplingPortion float64
	splitBlocks     bool
	check           bool
	bench           int
}

func newFlagSet() *csxFlags {
	f := &csxFlags{flagSet: flag.NewFlagSet("csxctl", flag.ContinueOnError)}
	f.flagSet.IntVar(&f.threads, "threads", 1, "number of worker threads")
	f.flagSet.StringVar(&f.iter, "iter", "", "comma-separated iteration order list, e.g. horizontal,diagonal")
	f.flagSet.UintVar(&f.windowSize, "window-size", 0, "statistics sampling window size (0 = full scan)")
	f.flagSet.UintVar(&f.samples, "samples", 0, "maximum number of sampled windows")
	f.flagSet.Float64Var(&f.samplingPortion, "sampling-portion", 0, "sample-inclusion probability in [0,1]")
	f.flagSet.BoolVar(&f.splitBlocks, "split-blocks", false, "allow splitting oversize block runs")
	f.flagSet.BoolVar(&f.check, "check", false, "validate the encoded engine against the reference CSR multiply")
	f.flagSet.IntVar(&f.bench, "bench", 0, "benchmark LOOPS repeated SpMV calls")
	return f
}

func (f *csxFlags) Parse(args []string) error {
	return f.flagSet.Parse(args)
}

// toConfig builds the encoder Config implied by the parsed flags, starting
// from the documented defaults (spec §6 table).
func (f *csxFlags) toConfig() (config.Config, error) {
	cfg := config.Default()
	if f.iter != "" {
		orders, err := parseIterFlag(f.iter)
		if err != nil {
			return cfg, err
		}
		cfg.IterationOrders = orders
	}
	cfg.WindowSize = uint32(f.windowSize)
	cfg.SamplesMax = uint32(f.samples)
	cfg.SamplingPortion = f.samplingPortion
	cfg.SplitBlocks = f.splitBlocks
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
