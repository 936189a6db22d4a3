package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cbpsweep/cbpsweep/sweep/space"
)

// ConfigEntry is one swept configuration as listed in config_summary.json.
type ConfigEntry struct {
	ConfigID string              `json:"config_id"`
	Config   space.Configuration `json:"config"`
}

// ConfigSummary maps each predictor to the configurations actually swept, in
// generation order.
type ConfigSummary map[space.Family][]ConfigEntry

// NewConfigSummary labels each family's configurations with their config ids.
func NewConfigSummary(configs map[space.Family][]space.Configuration) ConfigSummary {
	cs := make(ConfigSummary, len(configs))
	for f, list := range configs {
		entries := make([]ConfigEntry, len(list))
		for i, c := range list {
			entries[i] = ConfigEntry{ConfigID: space.ConfigID(f, i), Config: c}
		}
		cs[f] = entries
	}
	return cs
}

// Families returns the summary's predictors, sorted.
func (cs ConfigSummary) Families() []space.Family {
	out := make([]space.Family, 0, len(cs))
	for f := range cs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WriteConfigSummary writes config_summary.json.
func WriteConfigSummary(path string, cs ConfigSummary) error {
	return WriteJSON(path, cs)
}

// LoadConfigSummary reads a file written by WriteConfigSummary, rebuilding each
// configuration through its family's schema.
func LoadConfigSummary(path string) (ConfigSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config summary: %w", err)
	}
	var raw map[space.Family][]struct {
		ConfigID string          `json:"config_id"`
		Config   json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config summary %s: %w", path, err)
	}
	cs := make(ConfigSummary, len(raw))
	for f, list := range raw {
		entries := make([]ConfigEntry, 0, len(list))
		for _, e := range list {
			c, err := space.Decode(f, e.Config)
			if err != nil {
				return nil, fmt.Errorf("config summary %s: %s: %w", path, e.ConfigID, err)
			}
			entries = append(entries, ConfigEntry{ConfigID: e.ConfigID, Config: c})
		}
		cs[f] = entries
	}
	return cs, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v any) error {
	return WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		return nil
	})
}
