package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbpsweep/cbpsweep/sweep"
	"github.com/cbpsweep/cbpsweep/sweep/aggregate"
	"github.com/cbpsweep/cbpsweep/sweep/dispatch"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/cbpsweep/cbpsweep/sweep/traces"
)

var (
	sweepPredictors []string // Predictors whose parameter spaces are swept
	noCompare       bool     // Skip the cross-predictor comparison
)

// sweepCmd runs every budget-filtered configuration of each predictor on every trace
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep predictor configurations across a trace set",
	Run: func(cmd *cobra.Command, args []string) {
		families, err := parseFamilies(sweepPredictors)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		spaces, err := loadSpaces()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if maxMemoryKB < 0 {
			logrus.Fatalf("--max-memory-kb must be >= 0, got %v", maxMemoryKB)
		}

		ts, err := traces.Discover(traceDir, traces.Options{
			Suffix:     traces.SweepSuffix,
			Categories: categories,
			Sample:     sampleTraces,
		})
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Found %d trace files", len(ts))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = sweep.Run(ctx, sweep.Options{
			ResultsDir: resultsDir,
			Families:   families,
			Spaces:     spaces,
			Space:      space.Options{MaxMemoryKB: maxMemoryKB, MaxConfigs: maxConfigs},
			Traces:     ts,
			Timeout:    timeout,
			Dispatcher: dispatch.Dispatcher{
				Simulator:   newSimulator(),
				Parallelism: parallelJobs,
				Progress:    progress,
			},
			Compare:        !noCompare,
			CompareOptions: aggregate.CompareOptions{Baseline: space.Family(baseline)},
			Out:            cmd.OutOrStdout(),
		})
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		logrus.Info("Sweep complete.")
	},
}

func init() {
	addSimulatorFlags(sweepCmd)
	addSpaceFlags(sweepCmd)
	sweepCmd.Flags().StringSliceVar(&sweepPredictors, "predictors", nil, "Comma-separated predictors to sweep (onebit,twobit,gshare,correlating,local,tournament)")
	sweepCmd.Flags().StringSliceVar(&categories, "categories", nil, "Trace categories to test (fp, int, web, ...)")
	sweepCmd.Flags().IntVar(&sampleTraces, "sample", 0, "Sample the first N traces per category (0 = all)")
	sweepCmd.Flags().BoolVar(&noCompare, "no-compare", false, "Skip the cross-predictor comparison")
	_ = sweepCmd.MarkFlagRequired("predictors")
}
