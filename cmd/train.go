package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbpsweep/cbpsweep/sweep"
	"github.com/cbpsweep/cbpsweep/sweep/dispatch"
	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/cbpsweep/cbpsweep/sweep/traces"
)

var (
	trainPredictors []string // Predictors run with their default configuration
	allPredictors   bool     // Run every known predictor
	section         string   // Measurement section used for means and comparisons
)

// trainCmd runs each predictor's default configuration over the training list,
// keeping one run log per (predictor, trace) so reruns resume
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run default predictor configurations over the training trace list",
	Run: func(cmd *cobra.Command, args []string) {
		names := trainPredictors
		if allPredictors {
			names = nil
			for _, f := range space.KnownFamilies() {
				names = append(names, string(f))
			}
		}
		families, err := parseFamilies(names)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sec, err := results.ParseSection(section)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Testing predictors: %v", families)

		ts, err := traces.Discover(traceDir, traces.Options{
			Suffix:     traces.TrainingSuffix,
			Categories: categories,
			Sample:     sampleTraces,
		})
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Got %d traces", len(ts))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = sweep.RunTraining(ctx, sweep.TrainingOptions{
			ResultsDir: resultsDir,
			Families:   families,
			Traces:     ts,
			Timeout:    timeout,
			Dispatcher: dispatch.Dispatcher{
				Simulator:   newSimulator(),
				Parallelism: parallelJobs,
				Progress:    progress,
			},
			Section:  sec,
			Baseline: space.Family(baseline),
			Out:      cmd.OutOrStdout(),
		})
		if err != nil {
			logrus.Fatalf("Training run failed: %v", err)
		}
	},
}

func init() {
	addSimulatorFlags(trainCmd)
	trainCmd.Flags().StringSliceVar(&trainPredictors, "predictors", []string{string(space.TageSCL)}, "Comma-separated predictors to test")
	trainCmd.Flags().BoolVar(&allPredictors, "all-predictors", false, "Run every known predictor")
	trainCmd.Flags().StringVar(&section, "section", string(results.SectionWarmup), "Section for means and comparison (warmup or full)")
	trainCmd.Flags().StringSliceVar(&categories, "categories", nil, "Trace categories to test (fp, int, web, ...)")
	trainCmd.Flags().IntVar(&sampleTraces, "sample", 0, "Sample the first N traces per category (0 = all)")
}
