package space

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpaceFile is the YAML layout of a parameter-space override file:
//
//	families:
//	  gshare:
//	    - name: table_bits
//	      values: [14, 16, 18]
//	    - name: history_bits
//	      values: [4, 8, 12]
type SpaceFile struct {
	Families map[string][]ParamRange `yaml:"families"`
}

// LoadSpaces reads an override file and merges it over DefaultSpaces. A family
// listed in the file replaces the built-in grid for that family entirely.
// Unknown YAML fields are rejected so typos fail loudly.
func LoadSpaces(path string) (Spaces, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading space file: %w", err)
	}
	var sf SpaceFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("parsing space file %s: %w", path, err)
	}
	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("space file %s: %w", path, err)
	}

	spaces := DefaultSpaces()
	for name, params := range sf.Families {
		f := Family(name)
		spaces[f] = ParameterSpace{Family: f, Params: params}
	}
	return spaces, nil
}

// Validate checks family names, parameter names and value ranges.
func (sf *SpaceFile) Validate() error {
	for name, params := range sf.Families {
		f := Family(name)
		if !IsKnownFamily(name) {
			return fmt.Errorf("unknown predictor %q", name)
		}
		if !IsParameterized(f) && len(params) > 0 {
			return fmt.Errorf("predictor %q takes no parameters", name)
		}
		seen := make(map[string]bool, len(params))
		for _, p := range params {
			if !contains(schemas[f], p.Name) {
				return fmt.Errorf("predictor %q: unknown parameter %q (valid: %v)", name, p.Name, schemas[f])
			}
			if seen[p.Name] {
				return fmt.Errorf("predictor %q: parameter %q listed twice", name, p.Name)
			}
			seen[p.Name] = true
			for _, v := range p.Values {
				if v < 0 || v > MaxBits {
					return fmt.Errorf("predictor %q: %s value %d outside [0, %d]", name, p.Name, v, MaxBits)
				}
			}
		}
	}
	return nil
}
