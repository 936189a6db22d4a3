package aggregate

import (
	"sort"

	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/sirupsen/logrus"
)

// DefaultBaseline is preferred as the comparison baseline when present.
const DefaultBaseline = space.Onebit

// CompareOptions selects the baseline and the measurement section.
type CompareOptions struct {
	Baseline space.Family    // empty = onebit if present, else the first predictor seen
	Section  results.Section // empty = full
}

// Totals are one predictor's summed counters across all workloads, and the
// instruction-weighted rates derived from them.
type Totals struct {
	Predictor      space.Family `json:"predictor"`
	Runs           int          `json:"runs"`
	Instructions   int64        `json:"instructions"`
	Mispredictions int64        `json:"mispredictions"`
	Cycles         int64        `json:"cycles"`
	MPKI           float64      `json:"mpki"`
	IPC            float64      `json:"ipc"`
}

// ComparisonRecord is one predictor measured against the baseline.
type ComparisonRecord struct {
	Totals
	MPKIImprovementPercent float64 `json:"mpki_improvement_percent"` // positive = fewer mispredictions
	IPCImprovementPercent  float64 `json:"ipc_improvement_percent"`  // positive = faster
}

// Comparison is the cross-predictor table.
type Comparison struct {
	Section  results.Section    `json:"section"`
	Baseline Totals             `json:"baseline"`
	Rows     []ComparisonRecord `json:"rows"`
	Excluded []space.Family     `json:"excluded,omitempty"` // zero aggregate instructions
}

// Compare builds the instruction-weighted comparison: MPKI is total
// mispredictions over total instructions, not a mean of per-run MPKI. It
// returns nil when the baseline is missing or has no instructions.
func Compare(records []results.Record, opts CompareOptions) *Comparison {
	sec := opts.Section
	if sec == "" {
		sec = results.SectionFull
	}
	predictors := Predictors(records)
	if len(predictors) == 0 {
		return nil
	}
	baseline := opts.Baseline
	if baseline == "" {
		baseline = predictors[0]
		for _, p := range predictors {
			if p == DefaultBaseline {
				baseline = p
				break
			}
		}
	}

	totals := sumTotals(records, sec)
	base, ok := totals[baseline]
	if !ok || base.Instructions == 0 {
		logrus.Warnf("Comparison skipped: baseline %q has no %s instructions", baseline, sec)
		return nil
	}

	c := &Comparison{Section: sec, Baseline: *base}
	for _, p := range predictors {
		if p == baseline {
			continue
		}
		cur, ok := totals[p]
		if !ok || cur.Instructions == 0 {
			c.Excluded = append(c.Excluded, p)
			continue
		}
		c.Rows = append(c.Rows, ComparisonRecord{
			Totals:                 *cur,
			MPKIImprovementPercent: improvement(base.MPKI, cur.MPKI, true),
			IPCImprovementPercent:  improvement(base.IPC, cur.IPC, false),
		})
	}
	sort.Slice(c.Rows, func(i, j int) bool { return c.Rows[i].Predictor < c.Rows[j].Predictor })
	sort.Slice(c.Excluded, func(i, j int) bool { return c.Excluded[i] < c.Excluded[j] })
	return c
}

func sumTotals(records []results.Record, sec results.Section) map[space.Family]*Totals {
	totals := make(map[space.Family]*Totals)
	for _, r := range records {
		if !r.Succeeded(sec) {
			continue
		}
		m := r.Metrics(sec)
		t, ok := totals[r.Predictor]
		if !ok {
			t = &Totals{Predictor: r.Predictor}
			totals[r.Predictor] = t
		}
		t.Runs++
		t.Instructions += m.Instructions
		t.Mispredictions += m.Mispredictions
		t.Cycles += m.Cycles
	}
	for _, t := range totals {
		if t.Instructions > 0 {
			t.MPKI = float64(t.Mispredictions) * 1000 / float64(t.Instructions)
		}
		if t.Cycles > 0 {
			t.IPC = float64(t.Instructions) / float64(t.Cycles)
		}
	}
	return totals
}

// improvement is the percent change from base to cur, signed so that positive
// is better. A zero base yields 0.
func improvement(base, cur float64, lowerIsBetter bool) float64 {
	if base == 0 {
		return 0
	}
	if lowerIsBetter {
		return (base - cur) / base * 100
	}
	return (cur - base) / base * 100
}
