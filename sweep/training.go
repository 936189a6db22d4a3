package sweep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cbpsweep/cbpsweep/sweep/aggregate"
	"github.com/cbpsweep/cbpsweep/sweep/dispatch"
	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/cbpsweep/cbpsweep/sweep/traces"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// DefaultConfigID labels the simulator-default configuration in training runs.
const DefaultConfigID = "default"

// TrainingOptions configures the training-list run: every predictor with its
// default configuration on every trace, with one run log per (predictor, trace).
type TrainingOptions struct {
	ResultsDir string
	Families   []space.Family
	Traces     []traces.Trace
	Timeout    time.Duration
	Dispatcher dispatch.Dispatcher

	Section  results.Section // section for means and comparison; empty = warmup
	Baseline space.Family    // empty = onebit if present, else the first predictor seen

	Out io.Writer
}

// TrainingExperiments pairs every trace with every predictor's default configuration.
func TrainingExperiments(families []space.Family, ts []traces.Trace, timeout time.Duration) []dispatch.Experiment {
	exps := make([]dispatch.Experiment, 0, len(families)*len(ts))
	for _, t := range ts {
		for _, f := range families {
			exps = append(exps, dispatch.Experiment{
				Family:   f,
				Config:   space.Default(f),
				ConfigID: DefaultConfigID,
				Trace:    t,
				Timeout:  timeout,
			})
		}
	}
	return exps
}

// RunTraining executes the training-list variant. Run logs live under
// ResultsDir/<predictor>/<category>/; a pair whose log already exists is not
// run again, so an interrupted run resumes where it stopped.
func RunTraining(ctx context.Context, opts TrainingOptions) (*Outcome, error) {
	if err := os.MkdirAll(opts.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	sec := opts.Section
	if sec == "" {
		sec = results.SectionWarmup
	}

	exps := TrainingExperiments(opts.Families, opts.Traces, opts.Timeout)
	logrus.Infof("Total combinations to run: %d (traces: %d, predictors: %d)",
		len(exps), len(opts.Traces), len(opts.Families))

	d := opts.Dispatcher
	d.ArtifactDir = opts.ResultsDir
	records := d.Run(ctx, exps)

	out := &Outcome{
		Records:     records,
		ResultsPath: filepath.Join(opts.ResultsDir, TrainingResultsFile),
		SummaryPath: filepath.Join(opts.ResultsDir, SummaryFile),
	}
	if err := results.WriteCSV(out.ResultsPath, records); err != nil {
		return out, err
	}

	out.Summary = aggregate.Summarize(records)
	out.Summary.SweepID = xid.New().String()
	out.Summary.CategoryMeans = aggregate.ComputeCategoryMeans(records, sec)
	if len(aggregate.Predictors(records)) > 1 {
		out.Summary.Comparison = aggregate.Compare(records, aggregate.CompareOptions{Baseline: opts.Baseline, Section: sec})
	}
	if err := results.WriteJSON(out.SummaryPath, out.Summary); err != nil {
		return out, err
	}

	if opts.Out != nil {
		aggregate.PrintSummary(opts.Out, out.Summary)
		aggregate.PrintCategoryMeans(opts.Out, out.Summary.CategoryMeans)
		aggregate.PrintComparison(opts.Out, out.Summary.Comparison)
	}
	logrus.Infof("Results saved to %s", out.ResultsPath)
	return out, nil
}
