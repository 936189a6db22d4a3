// Package space defines predictor parameter spaces, the per-family memory cost
// model, and the budget-aware configuration generator used by sweeps.
package space

import (
	"sort"
	"strings"
)

// Family names a branch-predictor family understood by the simulator's -pred flag.
type Family string

const (
	Onebit      Family = "onebit"
	Twobit      Family = "twobit"
	Gshare      Family = "gshare"
	Correlating Family = "correlating"
	Local       Family = "local"
	Tournament  Family = "tournament"
	TageSCL     Family = "tage-sc-l"
)

// knownFamilies maps accepted predictor names. Families without a parameter
// schema (tage-sc-l) run with the simulator's built-in defaults.
var knownFamilies = map[Family]bool{
	Onebit:      true,
	Twobit:      true,
	Gshare:      true,
	Correlating: true,
	Local:       true,
	Tournament:  true,
	TageSCL:     true,
}

// IsKnownFamily returns true if name is a predictor family the simulator accepts.
func IsKnownFamily(name string) bool {
	return knownFamilies[Family(name)]
}

// KnownFamilies returns all accepted family names, sorted.
func KnownFamilies() []Family {
	out := make([]Family, 0, len(knownFamilies))
	for f := range knownFamilies {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EnvPrefix returns the environment-variable namespace for the family,
// e.g. "GSHARE" or "TAGE_SC_L".
func (f Family) EnvPrefix() string {
	return strings.ToUpper(strings.ReplaceAll(string(f), "-", "_"))
}

// EnvKey returns the namespaced variable name for one parameter of the family.
func (f Family) EnvKey(param string) string {
	return f.EnvPrefix() + "_" + strings.ToUpper(param)
}
