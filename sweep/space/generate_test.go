package space

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartesian_OrderLastParamFastest(t *testing.T) {
	ps := ParameterSpace{Family: Gshare, Params: []ParamRange{
		{Name: "table_bits", Values: []int{12, 14}},
		{Name: "history_bits", Values: []int{2, 4, 6}},
	}}

	combos := Cartesian(ps)

	require.Len(t, combos, 6)
	assert.Equal(t, []Param{{"table_bits", 12}, {"history_bits", 2}}, combos[0])
	assert.Equal(t, []Param{{"table_bits", 12}, {"history_bits", 4}}, combos[1])
	assert.Equal(t, []Param{{"table_bits", 14}, {"history_bits", 6}}, combos[5])
}

func TestCartesian_EmptyValueList_NoCombinations(t *testing.T) {
	ps := ParameterSpace{Family: Gshare, Params: []ParamRange{
		{Name: "table_bits", Values: []int{12}},
		{Name: "history_bits", Values: nil},
	}}
	assert.Empty(t, Cartesian(ps))
}

func TestGenerate_EveryConfigWithinBudget(t *testing.T) {
	budgets := []float64{0, 0.5, 4, 16, 64, 256, 1024}
	for f, ps := range DefaultSpaces() {
		for _, budget := range budgets {
			configs := Generate(ps, Options{MaxMemoryKB: budget, MaxConfigs: 0})
			for _, c := range configs {
				assert.LessOrEqual(t, c.EstimatedMemoryKB(), budget,
					"%s config %v exceeds %v KB", f, c.Params(), budget)
			}
		}
	}
}

func TestGenerate_SortedByMemoryAscending(t *testing.T) {
	configs := Generate(DefaultSpaces()[Local], Options{MaxMemoryKB: 256})
	require.NotEmpty(t, configs)
	for i := 1; i < len(configs); i++ {
		assert.LessOrEqual(t, configs[i-1].EstimatedMemoryKB(), configs[i].EstimatedMemoryKB())
	}
}

func TestGenerate_Downsample_StrideAndEndpoints(t *testing.T) {
	// GIVEN the twobit grid: 7 sizes, all within 256 KB
	ps := DefaultSpaces()[Twobit]
	all := Generate(ps, Options{MaxMemoryKB: 256})
	require.Len(t, all, 7)

	// WHEN limited to 3 configurations
	sampled := Generate(ps, Options{MaxMemoryKB: 256, MaxConfigs: 3})

	// THEN stride 7/3=2 picks entries 0 and 2, and the last slot is the most expensive
	require.Len(t, sampled, 3)
	assert.Equal(t, TwobitConfig{TableBits: 10}, sampled[0])
	assert.Equal(t, TwobitConfig{TableBits: 14}, sampled[1])
	assert.Equal(t, TwobitConfig{TableBits: 19}, sampled[2])
}

func TestGenerate_Downsample_NeverExceedsMaxAndKeepsRange(t *testing.T) {
	for f, ps := range DefaultSpaces() {
		all := Generate(ps, Options{MaxMemoryKB: 256})
		if len(all) < 2 {
			continue
		}
		minKB := all[0].EstimatedMemoryKB()
		maxKB := all[len(all)-1].EstimatedMemoryKB()
		for _, max := range []int{1, 2, 3, 7, 10, 50} {
			sampled := Generate(ps, Options{MaxMemoryKB: 256, MaxConfigs: max})
			assert.LessOrEqual(t, len(sampled), max, "%s max=%d", f, max)
			if max >= 2 && len(all) > 0 {
				assert.Equal(t, minKB, sampled[0].EstimatedMemoryKB(), "%s max=%d min", f, max)
				assert.Equal(t, maxKB, sampled[len(sampled)-1].EstimatedMemoryKB(), "%s max=%d max", f, max)
			}
		}
	}
}

func TestGenerate_Tournament_SampledToFifty(t *testing.T) {
	configs := Generate(DefaultSpaces()[Tournament], DefaultOptions())

	require.Len(t, configs, DefaultMaxConfigs)
	assert.InDelta(t, 0.75, configs[0].EstimatedMemoryKB(), 1e-12)
	assert.InDelta(t, 48.0, configs[len(configs)-1].EstimatedMemoryKB(), 1e-12)
}

func TestGenerate_UnknownFamily_SingleDefault(t *testing.T) {
	configs := Generate(ParameterSpace{Family: "perceptron"}, DefaultOptions())

	require.Len(t, configs, 1)
	assert.Equal(t, DefaultConfig{Predictor: "perceptron"}, configs[0])
	assert.Empty(t, configs[0].Params())
}

func TestGenerate_TageHasNoParameters_SingleDefault(t *testing.T) {
	configs := Generate(DefaultSpaces().Lookup(TageSCL), DefaultOptions())

	require.Len(t, configs, 1)
	assert.Equal(t, TageSCL, configs[0].Family())
}

func TestGenerate_TightBudget_Empty(t *testing.T) {
	configs := Generate(DefaultSpaces()[Gshare], Options{MaxMemoryKB: 0.1, MaxConfigs: 50})
	assert.Empty(t, configs)
}

func TestGenerate_MissingParameter_Empty(t *testing.T) {
	// GIVEN a gshare space without history_bits
	ps := ParameterSpace{Family: Gshare, Params: []ParamRange{{Name: "table_bits", Values: []int{14}}}}

	// THEN no configuration can be built, and nothing panics
	assert.Empty(t, Generate(ps, DefaultOptions()))
}

func TestConfigID_DistinctWithinFamily(t *testing.T) {
	configs := Generate(DefaultSpaces()[Gshare], DefaultOptions())
	seen := map[string]bool{}
	for i := range configs {
		id := ConfigID(Gshare, i)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Equal(t, "gshare_config_007", ConfigID(Gshare, 7))
}

func ExampleConfigID() {
	fmt.Println(ConfigID(Tournament, 42))
	// Output: tournament_config_042
}
