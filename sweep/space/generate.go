package space

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxMemoryKB = 256.0
	DefaultMaxConfigs  = 50
)

// ParamRange is the ordered candidate values of one parameter.
type ParamRange struct {
	Name   string `yaml:"name"`
	Values []int  `yaml:"values"`
}

// ParameterSpace is the grid swept for one predictor family.
type ParameterSpace struct {
	Family Family
	Params []ParamRange
}

// Spaces maps each family to its parameter space.
type Spaces map[Family]ParameterSpace

// Options bounds configuration generation.
type Options struct {
	MaxMemoryKB float64 // configurations above this estimate are discarded
	MaxConfigs  int     // 0 or negative = keep every configuration within budget
}

// DefaultOptions returns the 256 KB / 50 configuration bounds.
func DefaultOptions() Options {
	return Options{MaxMemoryKB: DefaultMaxMemoryKB, MaxConfigs: DefaultMaxConfigs}
}

// Cartesian returns every combination of the space's parameter values, in
// declaration order with the last parameter varying fastest. A parameter with
// no candidate values yields no combinations.
func Cartesian(ps ParameterSpace) [][]Param {
	for _, r := range ps.Params {
		if len(r.Values) == 0 {
			return nil
		}
	}
	idx := make([]int, len(ps.Params))
	var out [][]Param
	for {
		combo := make([]Param, len(ps.Params))
		for i, r := range ps.Params {
			combo[i] = Param{Name: r.Name, Value: r.Values[idx[i]]}
		}
		out = append(out, combo)

		// advance the odometer
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(ps.Params[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

// Generate returns the configurations of ps that fit opts.MaxMemoryKB, sorted by
// estimated memory ascending and, when more than opts.MaxConfigs remain, sampled
// at an even stride across the memory range. Families without a parameter
// schema yield a single DefaultConfig. Invalid combinations are dropped, so the
// result may be empty; it is never an error.
func Generate(ps ParameterSpace, opts Options) []Configuration {
	if !IsParameterized(ps.Family) {
		return []Configuration{Default(ps.Family)}
	}

	var candidates []Configuration
	dropped := 0
	for _, combo := range Cartesian(ps) {
		values := make(map[string]int, len(combo))
		for _, p := range combo {
			values[p.Name] = p.Value
		}
		c, err := NewConfiguration(ps.Family, values)
		if err != nil {
			dropped++
			logrus.Debugf("skipping %s combination %v: %v", ps.Family, combo, err)
			continue
		}
		if c.EstimatedMemoryKB() <= opts.MaxMemoryKB {
			candidates = append(candidates, c)
		}
	}
	if dropped > 0 {
		logrus.Warnf("%s: dropped %d malformed parameter combinations", ps.Family, dropped)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EstimatedMemoryKB() < candidates[j].EstimatedMemoryKB()
	})
	return downsample(candidates, opts.MaxConfigs)
}

// downsample keeps max entries taken at stride len/max from the cost-sorted
// candidates. The last kept slot is the most expensive candidate so the
// sample covers both ends of the memory range.
func downsample(sorted []Configuration, max int) []Configuration {
	if max <= 0 || len(sorted) <= max {
		return sorted
	}
	step := len(sorted) / max
	out := make([]Configuration, 0, max)
	for i := 0; i < len(sorted) && len(out) < max; i += step {
		out = append(out, sorted[i])
	}
	if max >= 2 {
		out[len(out)-1] = sorted[len(sorted)-1]
	}
	return out
}

// ConfigID labels the i-th generated configuration of a family within one sweep.
func ConfigID(f Family, i int) string {
	return fmt.Sprintf("%s_config_%03d", f, i)
}
