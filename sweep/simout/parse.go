package simout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// WarmupHeader introduces the mid-run snapshot taken at 50% of instructions.
	WarmupHeader = "DIRECT CONDITIONAL BRANCH PREDICTION MEASUREMENTS (50 Perc instructions)"
	// FullHeader introduces the end-of-run counters (not reset at warmup end).
	FullHeader = "DIRECT CONDITIONAL BRANCH PREDICTION MEASUREMENTS (Full Simulation i.e. Counts Not Reset When Warmup Ends)"

	// sectionBanner prefixes every measurement section the simulator prints,
	// including ones this parser does not capture.
	sectionBanner = "DIRECT CONDITIONAL BRANCH PREDICTION MEASUREMENTS"

	execTimeMarker = "ExecTime"
	maxLineBytes   = 1 << 20
)

// columnKeywords must all appear on the line preceding a data line.
var columnKeywords = []string{
	"Instr", "Cycles", "IPC", "NumBr", "MispBr", "BrPerCyc", "MispBrPerCyc", "MR", "MPKI", "CycWP", "CycWPAvg",
}

// Report is everything recognized in one simulator output. Nil fields were not
// found and must be treated as unknown, not zero.
type Report struct {
	Warmup   *Metrics // 50%-of-instructions section
	Full     *Metrics // full-simulation section
	ExecTime *float64 // seconds, from an "ExecTime = <s>" line
}

// Headline returns the authoritative metrics of the run (the full-simulation section).
func (r Report) Headline() *Metrics {
	return r.Full
}

// Empty reports whether no measurement section was captured.
func (r Report) Empty() bool {
	return r.Warmup == nil && r.Full == nil
}

type parserState int

const (
	stateScanning parserState = iota
	stateInWarmup
	stateInFull
)

// parser is the line-oriented state machine. Entering a section happens on its
// header; a column-keyword line arms expectData; the next non-empty line is
// consumed as data. A well-formed data line fills the section and returns to
// scanning. A malformed one disarms expectData and the section keeps scanning
// for another keyword line.
type parser struct {
	state      parserState
	expectData bool
	report     Report
}

func (p *parser) feed(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	if strings.Contains(line, execTimeMarker) {
		fields := strings.Fields(line)
		if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
			p.report.ExecTime = &v
		}
	}

	switch {
	case p.report.Warmup == nil && p.state != stateInWarmup && strings.Contains(line, WarmupHeader):
		p.enter(stateInWarmup)
		return
	case p.report.Full == nil && p.state != stateInFull && strings.Contains(line, FullHeader):
		p.enter(stateInFull)
		return
	case strings.Contains(line, sectionBanner):
		// an uncaptured section, or a repeat of one already captured
		p.enter(stateScanning)
		return
	}

	if p.state == stateScanning {
		return
	}

	if p.expectData {
		p.expectData = false
		m, err := parseDataLine(line)
		if err == nil {
			if p.state == stateInWarmup {
				p.report.Warmup = m
			} else {
				p.report.Full = m
			}
			p.state = stateScanning
			return
		}
	}

	if isColumnHeader(line) {
		p.expectData = true
	}
}

func (p *parser) enter(s parserState) {
	p.state = s
	p.expectData = false
}

func isColumnHeader(line string) bool {
	for _, kw := range columnKeywords {
		if !strings.Contains(line, kw) {
			return false
		}
	}
	return true
}

// Parse scans captured simulator output. Text without a recognizable section
// yields an empty Report; Parse never fails.
func Parse(text string) Report {
	r, _ := ParseReader(strings.NewReader(text))
	return r
}

// ParseReader scans r line by line. The error reports only read failures; the
// sections captured before a failure are still returned.
func ParseReader(r io.Reader) (Report, error) {
	var p parser
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return p.report, fmt.Errorf("scanning simulator output: %w", err)
	}
	return p.report, nil
}

// ParseFile parses a persisted run log.
func ParseFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("opening run log: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseReader(f)
}
