// Package simout extracts branch-prediction measurements from the simulator's
// textual output (captured stdout or a persisted run log).
package simout

import (
	"fmt"
	"strconv"
	"strings"
)

// numFields is the width of one measurement data line.
const numFields = 12

// Metrics is one measurement line of the simulator's report.
type Metrics struct {
	Instructions           int64   `json:"instructions"`
	Cycles                 int64   `json:"cycles"`
	IPC                    float64 `json:"ipc"`
	Branches               int64   `json:"num_branches"`
	Mispredictions         int64   `json:"mispredictions"`
	BranchesPerCycle       float64 `json:"branches_per_cycle"`
	MispredictionsPerCycle float64 `json:"mispred_per_cycle"`
	MissRatePercent        float64 `json:"miss_rate_percent"`
	MPKI                   float64 `json:"mpki"`
	WrongPathCycles        int64   `json:"cycles_wrong_path"`
	AvgWrongPathCycles     float64 `json:"avg_wrong_path"`
	WrongPathPKI           float64 `json:"wrong_path_pki"`
}

// parseDataLine splits a data line into exactly twelve numeric fields:
// Instr Cycles IPC NumBr MispBr BrPerCyc MispBrPerCyc MR% MPKI CycWP CycWPAvg CycWPPKI.
func parseDataLine(line string) (*Metrics, error) {
	fields := strings.Fields(line)
	if len(fields) != numFields {
		return nil, fmt.Errorf("data line has %d fields, want %d", len(fields), numFields)
	}
	p := fieldParser{fields: fields}
	m := &Metrics{
		Instructions:           p.integer(0),
		Cycles:                 p.integer(1),
		IPC:                    p.real(2),
		Branches:               p.integer(3),
		Mispredictions:         p.integer(4),
		BranchesPerCycle:       p.real(5),
		MispredictionsPerCycle: p.real(6),
		MissRatePercent:        p.percent(7),
		MPKI:                   p.real(8),
		WrongPathCycles:        p.integer(9),
		AvgWrongPathCycles:     p.real(10),
		WrongPathPKI:           p.real(11),
	}
	if p.err != nil {
		return nil, p.err
	}
	return m, nil
}

// fieldParser keeps the first conversion error so a data line parses in one pass.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) integer(i int) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(p.fields[i], 10, 64)
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i, err)
	}
	return v
}

func (p *fieldParser) real(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i, err)
	}
	return v
}

func (p *fieldParser) percent(i int) float64 {
	p.fields[i] = strings.TrimSuffix(p.fields[i], "%")
	return p.real(i)
}
