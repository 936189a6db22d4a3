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
	"github.com/dustin/go-humanize"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Artifact file names inside the results directory.
const (
	ConfigSummaryFile   = "config_summary.json"
	SweepResultsFile    = "comprehensive_sweep_results.csv"
	TrainingResultsFile = "results.csv"
	SummaryFile         = "summary.json"
)

// Options configures a comprehensive sweep.
type Options struct {
	ResultsDir string
	Families   []space.Family
	Spaces     space.Spaces // nil = space.DefaultSpaces()
	Space      space.Options
	Traces     []traces.Trace
	Timeout    time.Duration

	// Dispatcher carries the simulator, parallelism and progress settings.
	Dispatcher dispatch.Dispatcher

	// Compare adds the instruction-weighted cross-predictor table.
	Compare        bool
	CompareOptions aggregate.CompareOptions

	// Out receives the human-readable summary; nil prints nothing.
	Out io.Writer
}

// Outcome is what a finished sweep produced.
type Outcome struct {
	Plan        *PlanResult
	Records     []results.Record
	Summary     *aggregate.Summary
	ResultsPath string
	SummaryPath string
}

// Run executes a comprehensive sweep: plan, write config_summary.json,
// dispatch every experiment, then write the results CSV and summary.json once
// all workers have joined.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if err := os.MkdirAll(opts.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	sweepID := xid.New().String()
	logrus.Infof("Sweep %s: %d predictors, %d traces", sweepID, len(opts.Families), len(opts.Traces))

	plan := Plan(opts.Spaces, opts.Families, opts.Traces, opts.Space, opts.Timeout)
	parallelism := opts.Dispatcher.Parallelism
	if parallelism <= 0 {
		parallelism = dispatch.DefaultParallelism()
	}
	logrus.Infof("Total experiments: %s (estimated runtime %.1f minutes)",
		humanize.Comma(int64(len(plan.Experiments))), EstimatedMinutes(len(plan.Experiments), parallelism))

	configPath := filepath.Join(opts.ResultsDir, ConfigSummaryFile)
	if err := results.WriteConfigSummary(configPath, results.NewConfigSummary(plan.Configs)); err != nil {
		return nil, err
	}

	d := opts.Dispatcher
	d.ArtifactDir = ""
	records := d.Run(ctx, plan.Experiments)

	out := &Outcome{
		Plan:        plan,
		Records:     records,
		ResultsPath: filepath.Join(opts.ResultsDir, SweepResultsFile),
		SummaryPath: filepath.Join(opts.ResultsDir, SummaryFile),
	}
	if err := results.WriteCSV(out.ResultsPath, records); err != nil {
		return out, err
	}

	out.Summary = aggregate.Summarize(records)
	out.Summary.SweepID = sweepID
	if opts.Compare {
		out.Summary.Comparison = aggregate.Compare(records, opts.CompareOptions)
	}
	if err := results.WriteJSON(out.SummaryPath, out.Summary); err != nil {
		return out, err
	}

	if opts.Out != nil {
		aggregate.PrintSummary(opts.Out, out.Summary)
		aggregate.PrintComparison(opts.Out, out.Summary.Comparison)
	}
	logrus.Infof("Results saved to %s", out.ResultsPath)
	logrus.Infof("Configuration summary saved to %s", configPath)
	logrus.Infof("Summary statistics saved to %s", out.SummaryPath)
	return out, nil
}
