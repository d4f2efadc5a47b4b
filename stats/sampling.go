package stats

import (
	"math/rand"

	"github.com/csxeng/csx/config"
	"github.com/csxeng/csx/coord"
	"github.com/csxeng/csx/csr"
	"github.com/csxeng/csx/errs"
)

// DefaultMaxSamplingTries is the number of retries before a sampling pass
// with no nonzero samples falls back to a full scan (spec §4.4, default 3).
const DefaultMaxSamplingTries = 3

// window is a contiguous row range considered for sampling.
type window struct{ start, end int }

func splitWindows(m *csr.Matrix, policy config.SplitPolicy, size uint32) []window {
	if size == 0 || int(size) >= m.NRows {
		return []window{{0, m.NRows}}
	}

	var wins []window
	switch policy {
	case config.ByRows:
		for start := 0; start < m.NRows; start += int(size) {
			end := start + int(size)
			if end > m.NRows {
				end = m.NRows
			}
			wins = append(wins, window{start, end})
		}
	default: // ByNnz
		target := int(size)
		start := 0
		for start < m.NRows {
			base := m.RowPtr[start]
			row := start
			for row < m.NRows && m.RowPtr[row+1]-base < target {
				row++
			}
			if row == start {
				row++
			}
			if row > m.NRows {
				row = m.NRows
			}
			wins = append(wins, window{start, row})
			start = row
		}
	}
	return wins
}

// ScanSampled estimates Stats for the full matrix by sampling windows
// (spec §4.4): windows are split per cfg.SplitPolicyOpt/cfg.WindowSize and
// sampled uniformly at random with cfg.SamplingPortion (derived from
// cfg.SamplesMax when zero) using the fixed, documented seed cfg.Seed so
// encoding is reproducible (invariant: spec §8 law S5). Sampled statistics
// are linearly rescaled by nnz_total/nnz_sampled.
//
// If no window contains any nonzero after DefaultMaxSamplingTries retries,
// ScanSampled falls back to a full scan over the whole matrix and reports
// the fallback through warn (spec §4.4's SamplingFailure recovery).
func ScanSampled(m *csr.Matrix, order coord.Order, cfg config.Config, warn func(string, ...any)) (Stats, error) {
	const op = "stats.ScanSampled"

	if cfg.WindowSize == 0 || int(cfg.WindowSize) >= m.NRows {
		return Scan(m, order, 0, m.NRows, cfg.MinLimit)
	}

	windows := splitWindows(m, cfg.SplitPolicyOpt, cfg.WindowSize)
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	portion := cfg.SamplingPortion
	if portion == 0 {
		if cfg.SamplesMax == 0 || len(windows) == 0 {
			portion = 1
		} else {
			portion = float64(cfg.SamplesMax) / float64(len(windows))
			if portion > 1 {
				portion = 1
			}
		}
	}

	for attempt := 0; attempt < DefaultMaxSamplingTries; attempt++ {
		merged := Stats{}
		nnzSampled, nnzTotal := 0, m.NNZ()
		sampled := 0
		for _, w := range windows {
			if cfg.SamplesMax > 0 && uint32(sampled) >= cfg.SamplesMax {
				break
			}
			if rng.Float64() > portion {
				continue
			}
			sampled++
			st, err := Scan(m, order, w.start, w.end, cfg.MinLimit)
			if err != nil {
				return nil, errs.New(errs.BadInput, op, err)
			}
			nnzSampled += m.RowPtr[w.end] - m.RowPtr[w.start]
			mergeInto(merged, st)
		}
		if nnzSampled > 0 {
			return rescale(merged, float64(nnzTotal)/float64(nnzSampled)), nil
		}
	}

	if warn != nil {
		warn("stats: no nonzero samples after %d tries, falling back to full scan", DefaultMaxSamplingTries)
	}
	return Scan(m, order, 0, m.NRows, cfg.MinLimit)
}

func mergeInto(dst, src Stats) {
	for k, v := range src {
		e := dst[k]
		e.NNZ += v.NNZ
		e.NPatterns += v.NPatterns
		dst[k] = e
	}
}

func rescale(st Stats, factor float64) Stats {
	out := make(Stats, len(st))
	for k, v := range st {
		out[k] = Entry{
			NNZ:       int(float64(v.NNZ) * factor),
			NPatterns: int(float64(v.NPatterns) * factor),
		}
	}
	return out
}

