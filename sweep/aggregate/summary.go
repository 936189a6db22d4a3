// Package aggregate turns an unordered collection of result records into
// status tallies, per-predictor best configurations, instruction-weighted
// cross-predictor comparisons and per-category means.
package aggregate

import (
	"sort"

	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"gonum.org/v1/gonum/stat"
)

// BestConfig is the configuration with the lowest mean MPKI for one predictor.
type BestConfig struct {
	ConfigID string              `json:"config_id"`
	Config   space.Configuration `json:"config,omitempty"`
	AvgMPKI  float64             `json:"average_mpki"`
	Traces   int                 `json:"traces"` // successful runs behind the mean
}

// Summary aggregates a sweep's records.
type Summary struct {
	SweepID            string                      `json:"sweep_id,omitempty"`
	Total              int                         `json:"total_experiments"`
	Success            int                         `json:"successful_experiments"`
	Failed             int                         `json:"failed_experiments"`
	Timeout            int                         `json:"timeout_experiments"`
	Error              int                         `json:"error_experiments"`
	MeanRuntimeSeconds float64                     `json:"average_runtime"`
	BestConfigs        map[space.Family]BestConfig `json:"best_configs_by_predictor"`
	Comparison         *Comparison                 `json:"comparison,omitempty"`
	CategoryMeans      *CategoryMeans              `json:"category_means,omitempty"`
}

// Summarize computes tallies, mean runtime over successes and the best
// configuration per predictor. Records without full-simulation metrics count
// in the tallies but not in the MPKI means. Safe for nil or empty input.
func Summarize(records []results.Record) *Summary {
	summary := &Summary{
		BestConfigs: make(map[space.Family]BestConfig),
	}
	summary.Total = len(records)

	var runtimes []float64
	for _, r := range records {
		switch r.Status {
		case results.StatusSuccess:
			summary.Success++
			runtimes = append(runtimes, r.RuntimeSeconds)
		case results.StatusFailed:
			summary.Failed++
		case results.StatusTimeout:
			summary.Timeout++
		case results.StatusError:
			summary.Error++
		}
	}
	summary.MeanRuntimeSeconds = mean(runtimes)

	for f, best := range bestConfigs(records) {
		summary.BestConfigs[f] = best
	}
	return summary
}

// mean is the arithmetic mean, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

type configGroup struct {
	config space.Configuration
	mpkis  []float64
}

// bestConfigs groups successful records by (predictor, config_id) and picks
// the lowest mean MPKI per predictor, breaking ties by the lowest config_id.
func bestConfigs(records []results.Record) map[space.Family]BestConfig {
	groups := make(map[space.Family]map[string]*configGroup)
	for _, r := range records {
		if !r.Succeeded(results.SectionFull) {
			continue
		}
		byID, ok := groups[r.Predictor]
		if !ok {
			byID = make(map[string]*configGroup)
			groups[r.Predictor] = byID
		}
		g, ok := byID[r.ConfigID]
		if !ok {
			g = &configGroup{}
			byID[r.ConfigID] = g
		}
		if g.config == nil {
			g.config = r.Config
		}
		g.mpkis = append(g.mpkis, r.Full.MPKI)
	}

	out := make(map[space.Family]BestConfig, len(groups))
	for f, byID := range groups {
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		var best BestConfig
		for i, id := range ids {
			g := byID[id]
			m := mean(g.mpkis)
			if i == 0 || m < best.AvgMPKI {
				best = BestConfig{ConfigID: id, Config: g.config, AvgMPKI: m, Traces: len(g.mpkis)}
			}
		}
		out[f] = best
	}
	return out
}

// Predictors returns the distinct predictors in first-seen order.
func Predictors(records []results.Record) []space.Family {
	seen := map[space.Family]bool{}
	var out []space.Family
	for _, r := range records {
		if !seen[r.Predictor] {
			seen[r.Predictor] = true
			out = append(out, r.Predictor)
		}
	}
	return out
}
