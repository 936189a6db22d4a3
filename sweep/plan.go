package sweep

import (
	"time"

	"github.com/cbpsweep/cbpsweep/sweep/dispatch"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/cbpsweep/cbpsweep/sweep/traces"
	"github.com/sirupsen/logrus"
)

// secondsPerExperiment is a rough simulator cost used only for the runtime estimate log.
const secondsPerExperiment = 30

// PlanResult is the expanded sweep.
type PlanResult struct {
	Experiments []dispatch.Experiment
	Configs     map[space.Family][]space.Configuration // in config_id order
	Skipped     []space.Family                         // no configuration fits the budget
}

// Plan generates each family's configurations and pairs every configuration
// with every trace. A family that yields no configuration is skipped with a
// warning.
func Plan(spaces space.Spaces, families []space.Family, ts []traces.Trace, opts space.Options, timeout time.Duration) *PlanResult {
	if spaces == nil {
		spaces = space.DefaultSpaces()
	}
	plan := &PlanResult{Configs: make(map[space.Family][]space.Configuration)}
	for _, f := range families {
		configs := space.Generate(spaces.Lookup(f), opts)
		if len(configs) == 0 {
			logrus.Warnf("%s: no configuration fits within %.1f KB, skipping", f, opts.MaxMemoryKB)
			plan.Skipped = append(plan.Skipped, f)
			continue
		}
		logrus.Infof("%s: %d configurations (memory: %.1f KB limit)", f, len(configs), opts.MaxMemoryKB)
		plan.Configs[f] = configs
		for i, c := range configs {
			id := space.ConfigID(f, i)
			for _, t := range ts {
				plan.Experiments = append(plan.Experiments, dispatch.Experiment{
					Family:   f,
					Config:   c,
					ConfigID: id,
					Trace:    t,
					Timeout:  timeout,
				})
			}
		}
	}
	return plan
}

// EstimatedMinutes is a coarse wall-clock estimate for n experiments.
func EstimatedMinutes(n, parallelism int) float64 {
	if parallelism <= 0 {
		parallelism = 1
	}
	return float64(n*secondsPerExperiment) / float64(parallelism) / 60
}
