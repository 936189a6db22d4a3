package aggregate

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// PrintSummary writes the tallies and best configurations.
func PrintSummary(w io.Writer, s *Summary) {
	_, _ = fmt.Fprintln(w, "=== Sweep Summary ===")
	if s.SweepID != "" {
		_, _ = fmt.Fprintf(w, "Sweep ID             : %s\n", s.SweepID)
	}
	_, _ = fmt.Fprintf(w, "Total Experiments    : %s\n", humanize.Comma(int64(s.Total)))
	_, _ = fmt.Fprintf(w, "Successful           : %s\n", humanize.Comma(int64(s.Success)))
	_, _ = fmt.Fprintf(w, "Failed               : %s\n", humanize.Comma(int64(s.Failed)))
	_, _ = fmt.Fprintf(w, "Timed Out            : %s\n", humanize.Comma(int64(s.Timeout)))
	_, _ = fmt.Fprintf(w, "Errors               : %s\n", humanize.Comma(int64(s.Error)))
	if s.Success > 0 {
		_, _ = fmt.Fprintf(w, "Average Runtime      : %.2f s\n", s.MeanRuntimeSeconds)
	}
	if len(s.BestConfigs) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "\n=== Best Configuration per Predictor ===")
	for _, f := range sortedFamilies(s.BestConfigs) {
		b := s.BestConfigs[f]
		params := ""
		if b.Config != nil {
			for _, p := range b.Config.Params() {
				params += fmt.Sprintf(" %s=%d", p.Name, p.Value)
			}
			params += fmt.Sprintf(" (%.2f KB)", b.Config.EstimatedMemoryKB())
		}
		_, _ = fmt.Fprintf(w, "%-12s %-24s avg MPKI %8.4f over %d runs%s\n", f, b.ConfigID, b.AvgMPKI, b.Traces, params)
	}
}

// PrintComparison writes each predictor's weighted metrics against the baseline.
func PrintComparison(w io.Writer, c *Comparison) {
	if c == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "\n=== Predictor Comparison (%s section, baseline %s) ===\n", c.Section, c.Baseline.Predictor)
	_, _ = fmt.Fprintf(w, "%-12s MPKI %8.4f  IPC %6.4f  (%s instructions)\n",
		c.Baseline.Predictor, c.Baseline.MPKI, c.Baseline.IPC, humanize.Comma(c.Baseline.Instructions))
	for _, r := range c.Rows {
		_, _ = fmt.Fprintf(w, "%s vs %s:\n", r.Predictor, c.Baseline.Predictor)
		_, _ = fmt.Fprintf(w, "  MPKI improvement: %+6.2f%% (%.4f, %s instructions)\n",
			r.MPKIImprovementPercent, r.MPKI, humanize.Comma(r.Instructions))
		_, _ = fmt.Fprintf(w, "  IPC improvement:  %+6.2f%% (%.4f)\n", r.IPCImprovementPercent, r.IPC)
	}
	for _, f := range c.Excluded {
		_, _ = fmt.Fprintf(w, "%s: excluded, no instructions measured\n", f)
	}
}

// PrintCategoryMeans writes per-category and per-predictor arithmetic means.
func PrintCategoryMeans(w io.Writer, cm *CategoryMeans) {
	if cm == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "\n=== Aggregate Metrics per Workload Category and Predictor (%s section) ===\n", cm.Section)
	for _, cat := range cm.Categories() {
		_, _ = fmt.Fprintf(w, "Workload: %s\n", cat)
		preds := cm.ByCategory[cat]
		for _, f := range sortedFamilies(preds) {
			m := preds[f]
			_, _ = fmt.Fprintf(w, "  %-12s BrMisPKI: %8.4f, CycWpPKI: %8.4f, IPC: %6.4f\n", f, m.MPKI, m.WrongPathPKI, m.IPC)
		}
	}
	_, _ = fmt.Fprintln(w, "\n=== Aggregate Metrics per Predictor ===")
	for _, f := range sortedFamilies(cm.ByPredictor) {
		m := cm.ByPredictor[f]
		_, _ = fmt.Fprintf(w, "%-12s BrMisPKI AMean: %8.4f, CycWpPKI AMean: %8.4f, IPC AMean: %6.4f (%s runs)\n",
			f, m.MPKI, m.WrongPathPKI, m.IPC, humanize.Comma(int64(m.Runs)))
	}
}
