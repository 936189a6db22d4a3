package space

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MaxBits bounds every bit-width parameter. Larger tables are not meaningful
// for a single predictor and would overflow the simulator's index math.
const MaxBits = 30

// memoryKey is the derived field emitted alongside the parameters on output.
const memoryKey = "estimated_memory_kb"

// Param is one named integer parameter of a configuration.
type Param struct {
	Name  string
	Value int
}

// Configuration is one concrete parameter set for a predictor family.
// Each family has its own variant type; build them with NewConfiguration.
type Configuration interface {
	Family() Family
	// Params returns the parameters in schema order.
	Params() []Param
	// EstimatedMemoryKB is recomputed from the parameters on every call.
	EstimatedMemoryKB() float64
}

// schemas lists the required parameters of every parameterized family, in the
// order the simulator documents them.
var schemas = map[Family][]string{
	Onebit:      {"table_bits"},
	Twobit:      {"table_bits"},
	Gshare:      {"table_bits", "history_bits"},
	Correlating: {"pc_bits", "history_bits", "counter_bits"},
	Local:       {"lht_bits", "history_bits", "pht_bits"},
	Tournament:  {"selector_bits", "bimodal_bits", "gshare_table_bits", "gshare_history_bits"},
}

// Schema returns the parameter names of a family, or nil when the family has none.
func Schema(f Family) []string {
	names := schemas[f]
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// IsParameterized returns true if the family has a tunable parameter schema.
func IsParameterized(f Family) bool {
	_, ok := schemas[f]
	return ok
}

type OnebitConfig struct {
	TableBits int
}

type TwobitConfig struct {
	TableBits int
}

type GshareConfig struct {
	TableBits   int
	HistoryBits int
}

type CorrelatingConfig struct {
	PCBits      int
	HistoryBits int
	CounterBits int
}

type LocalConfig struct {
	LHTBits     int
	HistoryBits int
	PHTBits     int
}

type TournamentConfig struct {
	SelectorBits      int
	BimodalBits       int
	GshareTableBits   int
	GshareHistoryBits int
}

// DefaultConfig runs a family with the simulator's built-in parameters.
type DefaultConfig struct {
	Predictor Family
}

func (OnebitConfig) Family() Family      { return Onebit }
func (TwobitConfig) Family() Family      { return Twobit }
func (GshareConfig) Family() Family      { return Gshare }
func (CorrelatingConfig) Family() Family { return Correlating }
func (LocalConfig) Family() Family       { return Local }
func (TournamentConfig) Family() Family  { return Tournament }
func (c DefaultConfig) Family() Family   { return c.Predictor }

func (c OnebitConfig) Params() []Param {
	return []Param{{"table_bits", c.TableBits}}
}

func (c TwobitConfig) Params() []Param {
	return []Param{{"table_bits", c.TableBits}}
}

func (c GshareConfig) Params() []Param {
	return []Param{{"table_bits", c.TableBits}, {"history_bits", c.HistoryBits}}
}

func (c CorrelatingConfig) Params() []Param {
	return []Param{{"pc_bits", c.PCBits}, {"history_bits", c.HistoryBits}, {"counter_bits", c.CounterBits}}
}

func (c LocalConfig) Params() []Param {
	return []Param{{"lht_bits", c.LHTBits}, {"history_bits", c.HistoryBits}, {"pht_bits", c.PHTBits}}
}

func (c TournamentConfig) Params() []Param {
	return []Param{
		{"selector_bits", c.SelectorBits},
		{"bimodal_bits", c.BimodalBits},
		{"gshare_table_bits", c.GshareTableBits},
		{"gshare_history_bits", c.GshareHistoryBits},
	}
}

func (DefaultConfig) Params() []Param { return nil }

// NewConfiguration validates values against the family's schema and returns
// the family's variant. Families without a schema accept no values and yield
// a DefaultConfig.
func NewConfiguration(f Family, values map[string]int) (Configuration, error) {
	names, ok := schemas[f]
	if !ok {
		if len(values) > 0 {
			return nil, fmt.Errorf("predictor %q takes no parameters, got %d", f, len(values))
		}
		return DefaultConfig{Predictor: f}, nil
	}
	for _, name := range names {
		v, present := values[name]
		if !present {
			return nil, fmt.Errorf("predictor %q: missing parameter %q", f, name)
		}
		if v < 0 || v > MaxBits {
			return nil, fmt.Errorf("predictor %q: %s must be in [0, %d], got %d", f, name, MaxBits, v)
		}
	}
	if len(values) != len(names) {
		for name := range values {
			if !contains(names, name) {
				return nil, fmt.Errorf("predictor %q: unknown parameter %q", f, name)
			}
		}
	}

	switch f {
	case Onebit:
		return OnebitConfig{TableBits: values["table_bits"]}, nil
	case Twobit:
		return TwobitConfig{TableBits: values["table_bits"]}, nil
	case Gshare:
		return GshareConfig{TableBits: values["table_bits"], HistoryBits: values["history_bits"]}, nil
	case Correlating:
		return CorrelatingConfig{
			PCBits:      values["pc_bits"],
			HistoryBits: values["history_bits"],
			CounterBits: values["counter_bits"],
		}, nil
	case Local:
		return LocalConfig{
			LHTBits:     values["lht_bits"],
			HistoryBits: values["history_bits"],
			PHTBits:     values["pht_bits"],
		}, nil
	case Tournament:
		return TournamentConfig{
			SelectorBits:      values["selector_bits"],
			BimodalBits:       values["bimodal_bits"],
			GshareTableBits:   values["gshare_table_bits"],
			GshareHistoryBits: values["gshare_history_bits"],
		}, nil
	}
	return nil, fmt.Errorf("predictor %q: schema has no variant", f)
}

// Default returns the configuration that leaves every parameter to the simulator.
func Default(f Family) Configuration {
	return DefaultConfig{Predictor: f}
}

// Env returns the per-process environment overlay that delivers c to the
// simulator, one <FAMILY>_<PARAM>=<value> entry per parameter.
func Env(c Configuration) []string {
	params := c.Params()
	env := make([]string, 0, len(params))
	for _, p := range params {
		env = append(env, c.Family().EnvKey(p.Name)+"="+strconv.Itoa(p.Value))
	}
	return env
}

// ValueMap returns the parameters as a name → value map.
func ValueMap(c Configuration) map[string]int {
	m := make(map[string]int)
	for _, p := range c.Params() {
		m[p.Name] = p.Value
	}
	return m
}

// Encode serializes c as a JSON object: parameters in schema order followed by
// the derived estimated_memory_kb.
func Encode(c Configuration) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, p := range c.Params() {
		fmt.Fprintf(&buf, "%q:%d,", p.Name, p.Value)
	}
	mem, err := json.Marshal(c.EstimatedMemoryKB())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", memoryKey, err)
	}
	fmt.Fprintf(&buf, "%q:%s}", memoryKey, mem)
	return buf.Bytes(), nil
}

// Decode parses an object written by Encode. The stored estimated_memory_kb is
// ignored and recomputed from the parameters. An object without parameters is
// the simulator-default configuration of f.
func Decode(f Family, data []byte) (Configuration, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("decoding %s configuration: empty input", f)
	}
	raw := map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s configuration: %w", f, err)
	}
	delete(raw, memoryKey)
	if len(raw) == 0 {
		return Default(f), nil
	}
	values := make(map[string]int, len(raw))
	for name, v := range raw {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("decoding %s configuration: %s=%v is not an integer", f, name, v)
		}
		values[name] = int(v)
	}
	return NewConfiguration(f, values)
}

func (c OnebitConfig) MarshalJSON() ([]byte, error)      { return Encode(c) }
func (c TwobitConfig) MarshalJSON() ([]byte, error)      { return Encode(c) }
func (c GshareConfig) MarshalJSON() ([]byte, error)      { return Encode(c) }
func (c CorrelatingConfig) MarshalJSON() ([]byte, error) { return Encode(c) }
func (c LocalConfig) MarshalJSON() ([]byte, error)       { return Encode(c) }
func (c TournamentConfig) MarshalJSON() ([]byte, error)  { return Encode(c) }
func (c DefaultConfig) MarshalJSON() ([]byte, error)     { return Encode(c) }

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
