package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbpsweep/cbpsweep/sweep/dispatch"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

var (
	// Shared CLI flags
	logLevel      string        // Log verbosity level
	traceDir      string        // Root of the category-organized trace tree
	resultsDir    string        // Where results and run logs are written
	categories    []string      // Trace categories (subdirectories) to include
	sampleTraces  int           // Keep the first N traces per category (0 = all)
	parallelJobs  int           // Concurrent simulator processes
	timeout       time.Duration // Per-experiment wall-clock limit
	simulatorPath string        // Simulator executable
	predFlag      string        // Flag preceding the predictor name ("" = positional)
	simulatorDir  string        // Working directory for the simulator
	baseline      string        // Comparison baseline predictor
	progress      bool          // Draw a progress bar

	// Configuration space flags
	maxMemoryKB float64 // Memory budget per configuration (KB)
	maxConfigs  int     // Max configurations per predictor (0 = unbounded)
	spaceFile   string  // YAML parameter-space overrides
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cbpsweep",
	Short: "Branch-predictor configuration sweeps over an external simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseFamilies validates predictor names. Unknown names are an error so a
// typo cannot silently run the simulator's default predictor.
func parseFamilies(names []string) ([]space.Family, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no predictors given (known: %v)", space.KnownFamilies())
	}
	seen := map[space.Family]bool{}
	out := make([]space.Family, 0, len(names))
	for _, n := range names {
		if !space.IsKnownFamily(n) {
			return nil, fmt.Errorf("%q is not a valid predictor (known: %v)", n, space.KnownFamilies())
		}
		f := space.Family(n)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// parameterizedFamilies lists the families with a tunable parameter space, sorted.
func parameterizedFamilies() []string {
	var out []string
	for _, f := range space.KnownFamilies() {
		if space.IsParameterized(f) {
			out = append(out, string(f))
		}
	}
	sort.Strings(out)
	return out
}

// loadSpaces returns the built-in grids, overridden by --space-file when set.
func loadSpaces() (space.Spaces, error) {
	if spaceFile == "" {
		return space.DefaultSpaces(), nil
	}
	spaces, err := space.LoadSpaces(spaceFile)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded parameter spaces from %s", spaceFile)
	return spaces, nil
}

func newSimulator() *dispatch.ExecSimulator {
	sim := dispatch.NewExecSimulator(simulatorPath)
	sim.PredictorFlag = predFlag
	sim.Dir = simulatorDir
	return sim
}

func addSimulatorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&traceDir, "trace-dir", "", "Directory containing trace files (one subdirectory per category)")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "Directory to save results")
	cmd.Flags().IntVar(&parallelJobs, "parallel", dispatch.DefaultParallelism(), "Number of parallel simulator processes")
	cmd.Flags().DurationVar(&timeout, "timeout", dispatch.DefaultTimeout, "Timeout per simulation")
	cmd.Flags().StringVar(&simulatorPath, "simulator", "./cbp", "Path to the simulator executable")
	cmd.Flags().StringVar(&predFlag, "pred-flag", dispatch.DefaultPredictorFlag, "Flag preceding the predictor name (empty for positional)")
	cmd.Flags().StringVar(&simulatorDir, "simulator-dir", "", "Working directory for simulator processes")
	cmd.Flags().StringVar(&baseline, "baseline", "", "Baseline predictor for comparisons (default onebit if present)")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar on stderr")
	_ = cmd.MarkFlagRequired("trace-dir")
	_ = cmd.MarkFlagRequired("results-dir")
}

func addSpaceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&maxMemoryKB, "max-memory-kb", space.DefaultMaxMemoryKB, "Maximum estimated memory per configuration in KB")
	cmd.Flags().IntVar(&maxConfigs, "max-configs", space.DefaultMaxConfigs, "Maximum configurations per predictor (0 = no limit)")
	cmd.Flags().StringVar(&spaceFile, "space-file", "", "YAML file overriding parameter spaces per predictor")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(configsCmd)
	rootCmd.AddCommand(summarizeCmd)
}
