// Package results holds the per-experiment result record and the flat files a
// sweep persists: the results CSV, the configuration summary and the summary
// document.
package results

import (
	"fmt"

	"github.com/cbpsweep/cbpsweep/sweep/simout"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

// Status is the outcome of one experiment.
type Status string

const (
	StatusSuccess Status = "success" // exit 0; metrics may still be unknown
	StatusFailed  Status = "failed"  // non-zero exit
	StatusTimeout Status = "timeout" // wall-clock limit reached
	StatusError   Status = "error"   // the simulator could not be invoked
)

// ParseStatus validates a persisted status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusSuccess, StatusFailed, StatusTimeout, StatusError:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Record is the outcome of one experiment. Nil metrics are unknown, not zero.
type Record struct {
	Predictor      space.Family        `json:"predictor"`
	ConfigID       string              `json:"config_id"`
	Config         space.Configuration `json:"config"`
	Trace          string              `json:"trace"`
	Category       string              `json:"trace_category"`
	TraceSizeMB    float64             `json:"trace_size_mb"`
	Status         Status              `json:"status"`
	RuntimeSeconds float64             `json:"runtime_seconds"`
	ExecTime       *float64            `json:"exec_time,omitempty"` // simulator wall time from the run log
	Error          string              `json:"error,omitempty"`
	Full           *simout.Metrics     `json:"full,omitempty"`
	Warmup         *simout.Metrics     `json:"warmup,omitempty"`
	LogPath        string              `json:"log_path,omitempty"`
}

// Section selects which measurement section of a record to read.
type Section string

const (
	SectionFull   Section = "full"
	SectionWarmup Section = "warmup"
)

// ParseSection accepts "full", "warmup" and the "50" alias of warmup.
func ParseSection(s string) (Section, error) {
	switch s {
	case "full", "":
		return SectionFull, nil
	case "warmup", "50":
		return SectionWarmup, nil
	}
	return "", fmt.Errorf("unknown section %q (want full or warmup)", s)
}

// Metrics returns the record's measurements for sec, nil when unknown.
func (r Record) Metrics(sec Section) *simout.Metrics {
	if sec == SectionWarmup {
		return r.Warmup
	}
	return r.Full
}

// Succeeded reports whether the run completed and produced metrics for sec.
func (r Record) Succeeded(sec Section) bool {
	return r.Status == StatusSuccess && r.Metrics(sec) != nil
}
