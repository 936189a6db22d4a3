package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbpsweep/cbpsweep/sweep/simout"
	"github.com/cbpsweep/cbpsweep/sweep/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	exec := 12.5
	return []Record{
		{
			Predictor:      space.Gshare,
			ConfigID:       "gshare_config_000",
			Config:         space.GshareConfig{TableBits: 12, HistoryBits: 4},
			Trace:          "int_0_trace.gz",
			Category:       "int",
			TraceSizeMB:    1.5,
			Status:         StatusSuccess,
			RuntimeSeconds: 3.25,
			ExecTime:       &exec,
			Full: &simout.Metrics{
				Instructions: 1000000, Cycles: 800000, IPC: 1.25, Branches: 200000,
				Mispredictions: 20000, BranchesPerCycle: 0.25, MispredictionsPerCycle: 0.025,
				MissRatePercent: 10, MPKI: 20, WrongPathCycles: 5000, AvgWrongPathCycles: 0.25, WrongPathPKI: 5,
			},
		},
		{
			Predictor:      space.TageSCL,
			ConfigID:       "tage-sc-l_config_000",
			Config:         space.Default(space.TageSCL),
			Trace:          "fp_1_trace.gz",
			Category:       "fp",
			Status:         StatusFailed,
			RuntimeSeconds: 0.5,
			Error:          "segfault, core dumped\nline two",
		},
	}
}

func TestCSV_WriteLoad_PreservesUnknownMetrics(t *testing.T) {
	// GIVEN a success with full metrics only and a failure without metrics
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	records := sampleRecords()

	// WHEN written and loaded back
	require.NoError(t, WriteCSV(path, records))
	loaded, err := LoadCSV(path)

	// THEN records round-trip and unknown metrics stay nil, never zero
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, records[0], loaded[0])
	assert.Nil(t, loaded[0].Warmup)
	assert.Nil(t, loaded[1].Full)
	assert.Nil(t, loaded[1].ExecTime)
	assert.Equal(t, records[1].Error, loaded[1].Error)
	assert.Equal(t, space.DefaultConfig{Predictor: space.TageSCL}, loaded[1].Config)
}

func TestCSV_ConfigInlinedAsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRecords()[:1]))

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "predictor,config_id,config,trace,"))
	assert.Contains(t, lines[1], `"{""table_bits"":12,""history_bits"":4,""estimated_memory_kb"":1}"`)
	// warmup cells are empty
	assert.True(t, strings.HasSuffix(lines[1], ",,,,,,,,,,,"))
}

func TestDecodeCSV_RejectsForeignHeader(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("Workload,Run,Predictor\nint,int_0,gshare\n"))
	assert.Error(t, err)
}

func TestDecodeCSV_RejectsUnknownStatus(t *testing.T) {
	var buf bytes.Buffer
	recs := sampleRecords()[:1]
	recs[0].Status = "Pass"
	require.NoError(t, EncodeCSV(&buf, recs))

	_, err := DecodeCSV(&buf)
	assert.ErrorContains(t, err, "unknown status")
}

func TestWriteAtomic_FailureLeavesNoFile(t *testing.T) {
	// GIVEN a writer that fails midway
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("{partial"))
		return errors.New("boom")
	})

	// THEN neither the target nor a temp file remains
	assert.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestConfigSummary_WriteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_summary.json")
	cs := NewConfigSummary(map[space.Family][]space.Configuration{
		space.Twobit:  {space.TwobitConfig{TableBits: 10}, space.TwobitConfig{TableBits: 12}},
		space.TageSCL: {space.Default(space.TageSCL)},
	})

	require.NoError(t, WriteConfigSummary(path, cs))
	loaded, err := LoadConfigSummary(path)

	require.NoError(t, err)
	assert.Equal(t, cs, loaded)
	assert.Equal(t, []space.Family{space.TageSCL, space.Twobit}, loaded.Families())
	assert.Equal(t, "twobit_config_001", loaded[space.Twobit][1].ConfigID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	cfg := raw["twobit"][0]["config"].(map[string]any)
	assert.Equal(t, 0.25, cfg["estimated_memory_kb"])
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("50")
	require.NoError(t, err)
	assert.Equal(t, SectionWarmup, s)

	s, err = ParseSection("")
	require.NoError(t, err)
	assert.Equal(t, SectionFull, s)

	_, err = ParseSection("last10m")
	assert.Error(t, err)
}

func TestRecord_Succeeded(t *testing.T) {
	recs := sampleRecords()
	assert.True(t, recs[0].Succeeded(SectionFull))
	assert.False(t, recs[0].Succeeded(SectionWarmup))
	assert.False(t, recs[1].Succeeded(SectionFull))
}
