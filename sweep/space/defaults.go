package space

// DefaultSpaces returns the built-in sweep grids. Values are index widths in
// bits, so every step doubles the table it sizes.
func DefaultSpaces() Spaces {
	return Spaces{
		Onebit: {Family: Onebit, Params: []ParamRange{
			{Name: "table_bits", Values: []int{10, 12, 14, 16, 17, 18, 19, 20}},
		}},
		Twobit: {Family: Twobit, Params: []ParamRange{
			{Name: "table_bits", Values: []int{10, 12, 14, 16, 17, 18, 19}},
		}},
		Gshare: {Family: Gshare, Params: []ParamRange{
			{Name: "table_bits", Values: []int{12, 14, 16, 17, 18, 19}},
			{Name: "history_bits", Values: []int{2, 4, 6, 8, 10, 12, 14, 16}},
		}},
		Correlating: {Family: Correlating, Params: []ParamRange{
			{Name: "pc_bits", Values: []int{8, 10, 12, 14, 16}},
			{Name: "history_bits", Values: []int{2, 4, 6, 8, 10}},
			{Name: "counter_bits", Values: []int{2}},
		}},
		Local: {Family: Local, Params: []ParamRange{
			{Name: "lht_bits", Values: []int{8, 10, 12, 14}},
			{Name: "history_bits", Values: []int{4, 6, 8, 10, 12}},
			{Name: "pht_bits", Values: []int{8, 10, 12, 14, 16}},
		}},
		Tournament: {Family: Tournament, Params: []ParamRange{
			{Name: "selector_bits", Values: []int{10, 12, 14, 16}},
			{Name: "bimodal_bits", Values: []int{10, 12, 14, 16}},
			{Name: "gshare_table_bits", Values: []int{10, 12, 14, 16}},
			{Name: "gshare_history_bits", Values: []int{2, 4, 6, 8, 10}},
		}},
	}
}

// Lookup returns the space for f, or an empty space (which generates a single
// default configuration for parameterless families) when none is defined.
func (s Spaces) Lookup(f Family) ParameterSpace {
	if ps, ok := s[f]; ok {
		return ps
	}
	return ParameterSpace{Family: f}
}
