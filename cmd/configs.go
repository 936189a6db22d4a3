package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

var (
	configPredictors []string // Predictors whose configurations are listed
	configsOutput    string   // Optional config_summary.json destination
)

// configsCmd prints the configurations a sweep would run, without running them
var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List the budget-filtered configurations of each predictor",
	Run: func(cmd *cobra.Command, args []string) {
		families, err := parseFamilies(configPredictors)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		spaces, err := loadSpaces()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := space.Options{MaxMemoryKB: maxMemoryKB, MaxConfigs: maxConfigs}

		generated := make(map[space.Family][]space.Configuration, len(families))
		for _, f := range families {
			generated[f] = space.Generate(spaces.Lookup(f), opts)
		}
		cs := results.NewConfigSummary(generated)
		printConfigs(cmd.OutOrStdout(), families, cs)

		if configsOutput != "" {
			if err := results.WriteConfigSummary(configsOutput, cs); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Configuration summary saved to %s", configsOutput)
		}
	},
}

func printConfigs(w io.Writer, families []space.Family, cs results.ConfigSummary) {
	for _, f := range families {
		entries := cs[f]
		total := 0.0
		for _, e := range entries {
			total += e.Config.EstimatedMemoryKB()
		}
		_, _ = fmt.Fprintf(w, "=== %s: %d configurations ===\n", f, len(entries))
		for _, e := range entries {
			params := make([]string, 0, 4)
			for _, p := range e.Config.Params() {
				params = append(params, fmt.Sprintf("%s=%d", p.Name, p.Value))
			}
			kb := e.Config.EstimatedMemoryKB()
			_, _ = fmt.Fprintf(w, "%-24s %-70s %10.2f KB (%s)\n", e.ConfigID, strings.Join(params, " "), kb,
				humanize.IBytes(uint64(kb*1024)))
		}
	}
}

func init() {
	addSpaceFlags(configsCmd)
	configsCmd.Flags().StringSliceVar(&configPredictors, "predictors", parameterizedFamilies(), "Comma-separated predictors to list")
	configsCmd.Flags().StringVar(&configsOutput, "output", "", "Also write the configurations as config_summary.json to this path")
}
