package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbpsweep/cbpsweep/sweep/aggregate"
	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

var (
	resultsCSV       string // Results CSV written by sweep or train
	summarizeSection string // Section for means and comparison
	summaryOutput    string // Optional summary.json destination
)

// summarizeCmd recomputes summaries from a results CSV without rerunning anything
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Recompute the summary and comparison from a results CSV",
	Run: func(cmd *cobra.Command, args []string) {
		sec, err := results.ParseSection(summarizeSection)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		records, err := results.LoadCSV(resultsCSV)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Loaded %d records from %s", len(records), resultsCSV)

		summary := aggregate.Summarize(records)
		summary.CategoryMeans = aggregate.ComputeCategoryMeans(records, sec)
		summary.Comparison = aggregate.Compare(records, aggregate.CompareOptions{
			Baseline: space.Family(baseline),
			Section:  sec,
		})

		out := cmd.OutOrStdout()
		aggregate.PrintSummary(out, summary)
		aggregate.PrintCategoryMeans(out, summary.CategoryMeans)
		aggregate.PrintComparison(out, summary.Comparison)

		if summaryOutput != "" {
			if err := results.WriteJSON(summaryOutput, summary); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Summary statistics saved to %s", summaryOutput)
		}
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&resultsCSV, "results", "", "Results CSV to summarize")
	summarizeCmd.Flags().StringVar(&summarizeSection, "section", string(results.SectionFull), "Section for means and comparison (full or warmup)")
	summarizeCmd.Flags().StringVar(&baseline, "baseline", "", "Baseline predictor for comparisons (default onebit if present)")
	summarizeCmd.Flags().StringVar(&summaryOutput, "output", "", "Also write the summary as JSON to this path")
	_ = summarizeCmd.MarkFlagRequired("results")
}
