// Package testutil provides shared test infrastructure for the sweep engine.
// It loads the captured simulator logs under testdata/ used by the parser,
// dispatcher and orchestration tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Golden log names under testdata/.
const (
	// TwoSectionLog carries a warmup section, a full section, an ignored
	// "Last 10M" section and an ExecTime line.
	TwoSectionLog = "cbp_two_section.log"
	// MalformedLog has only a full section whose first candidate data lines are noise.
	MalformedLog = "cbp_malformed.log"
	// NoMeasurementsLog is a partial run that never printed a measurement section.
	NoMeasurementsLog = "cbp_no_measurements.log"
)

// TestdataPath resolves name inside the repository's testdata/ directory.
// The path is resolved relative to this source file: sweep/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// LoadLog returns the contents of a golden simulator log.
func LoadLog(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden log %s: %v", name, err)
	}
	return string(data)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
