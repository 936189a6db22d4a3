package simout

import (
	"errors"
	"strings"
	"testing"

	"github.com/cbpsweep/cbpsweep/sweep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keywordLine = "       Instr       Cycles      IPC      NumBr     MispBr BrPerCyc MispBrPerCyc        MR     MPKI      CycWP   CycWPAvg   CycWPPKI"

func TestParse_FullSectionLiteralValues(t *testing.T) {
	// GIVEN a full-simulation section with known literal values
	text := strings.Join([]string{
		FullHeader,
		keywordLine,
		"1000000 800000 1.25 200000 20000 0.25 0.025 10.00% 20.0 5000 0.25 5.0",
	}, "\n")

	// WHEN parsed
	r := Parse(text)

	// THEN the headline metrics carry the exact values
	m := r.Headline()
	require.NotNil(t, m)
	assert.Equal(t, int64(1000000), m.Instructions)
	assert.Equal(t, int64(800000), m.Cycles)
	assert.Equal(t, 1.25, m.IPC)
	assert.Equal(t, int64(200000), m.Branches)
	assert.Equal(t, int64(20000), m.Mispredictions)
	assert.Equal(t, 10.0, m.MissRatePercent)
	assert.Equal(t, 20.0, m.MPKI)
	assert.Equal(t, int64(5000), m.WrongPathCycles)
	assert.Equal(t, 5.0, m.WrongPathPKI)
	assert.Nil(t, r.Warmup)
}

func TestParse_GoldenTwoSectionLog(t *testing.T) {
	// GIVEN a captured run with a "Last 10M" section before the two tracked ones
	text := testutil.LoadLog(t, testutil.TwoSectionLog)

	// WHEN parsed
	r := Parse(text)

	// THEN both sections are retained separately and the untracked one is ignored
	require.NotNil(t, r.Warmup)
	require.NotNil(t, r.Full)
	assert.Equal(t, int64(500000), r.Warmup.Instructions)
	assert.Equal(t, 22.0, r.Warmup.MPKI)
	testutil.AssertFloat64Equal(t, "warmup ipc", 1.2195, r.Warmup.IPC, 1e-12)
	assert.Equal(t, int64(1000000), r.Full.Instructions)
	assert.Equal(t, 20.0, r.Full.MPKI)
	require.NotNil(t, r.ExecTime)
	assert.Equal(t, 12.5, *r.ExecTime)
}

func TestParse_NoHeader_EmptyReport(t *testing.T) {
	for _, text := range []string{
		"",
		testutil.LoadLog(t, testutil.NoMeasurementsLog),
		// data without a section header is not a measurement
		keywordLine + "\n1000000 800000 1.25 200000 20000 0.25 0.025 10.00% 20.0 5000 0.25 5.0\n",
	} {
		r := Parse(text)
		assert.True(t, r.Empty())
		assert.Nil(t, r.Headline())
		assert.Nil(t, r.ExecTime)
	}
}

func TestParse_MalformedDataLines_SkippedAndScanningContinues(t *testing.T) {
	// GIVEN a section whose first keyword-triggered lines are not data
	text := testutil.LoadLog(t, testutil.MalformedLog)

	// WHEN parsed
	r := Parse(text)

	// THEN the first well-formed data line after a keyword line wins
	require.NotNil(t, r.Full)
	assert.Equal(t, int64(30000), r.Full.Mispredictions)
	assert.Equal(t, 15.0, r.Full.MPKI)
	assert.Equal(t, 7.5, r.Full.MissRatePercent)
}

func TestParse_FirstOccurrenceRetained(t *testing.T) {
	// GIVEN two full sections
	text := strings.Join([]string{
		FullHeader,
		keywordLine,
		"1000000 800000 1.25 200000 20000 0.25 0.025 10.00% 20.0 5000 0.25 5.0",
		FullHeader,
		keywordLine,
		"9 9 1 9 9 1 1 1% 1 9 1 1",
	}, "\n")

	// THEN the second one does not overwrite the first
	r := Parse(text)
	require.NotNil(t, r.Full)
	assert.Equal(t, int64(1000000), r.Full.Instructions)
}

func TestParse_DataLineNeedsKeywordLine(t *testing.T) {
	// GIVEN a header followed directly by numbers
	text := FullHeader + "\n1000000 800000 1.25 200000 20000 0.25 0.025 10.00% 20.0 5000 0.25 5.0\n"

	// THEN nothing is captured
	assert.True(t, Parse(text).Empty())
}

func TestParseDataLine_FieldValidation(t *testing.T) {
	_, err := parseDataLine("1 2 3")
	assert.ErrorContains(t, err, "3 fields")

	_, err = parseDataLine("1 2 x 4 5 6 7 8% 9 10 11 12")
	assert.ErrorContains(t, err, "field 2")

	_, err = parseDataLine("1.5 2 3 4 5 6 7 8% 9 10 11 12")
	assert.ErrorContains(t, err, "field 0", "instruction count must be an integer")

	m, err := parseDataLine("1 2 3 4 5 6 7 8 9 10 11 12")
	require.NoError(t, err, "percent sign is optional")
	assert.Equal(t, 8.0, m.MissRatePercent)
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("disk gone")
	}
	r.sent = true
	data := FullHeader + "\n" + keywordLine + "\n1 2 3 4 5 6 7 8% 9 10 11 12\n"
	return copy(p, data), nil
}

func TestParseReader_ReadErrorKeepsCapturedSections(t *testing.T) {
	r, err := ParseReader(&failingReader{})

	assert.ErrorContains(t, err, "disk gone")
	require.NotNil(t, r.Full)
	assert.Equal(t, int64(1), r.Full.Instructions)
}

func TestParseFile(t *testing.T) {
	r, err := ParseFile(testutil.TestdataPath(t, testutil.TwoSectionLog))
	require.NoError(t, err)
	assert.False(t, r.Empty())

	_, err = ParseFile(testutil.TestdataPath(t, "does_not_exist.log"))
	assert.Error(t, err)
}
