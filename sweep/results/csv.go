package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cbpsweep/cbpsweep/sweep/simout"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

// Metric column suffixes, in data-line order.
var metricColumns = []string{
	"instructions", "cycles", "ipc", "num_branches", "mispredictions",
	"branches_per_cycle", "mispred_per_cycle", "miss_rate_percent", "mpki",
	"cycles_wrong_path", "avg_wrong_path", "wrong_path_pki",
}

var recordColumns = []string{
	"predictor", "config_id", "config", "trace", "trace_category", "trace_size_mb",
	"status", "runtime_seconds", "exec_time", "error", "log_path",
}

// Columns returns the CSV header: record fields, full-simulation metrics, then
// the same metrics prefixed "warmup_".
func Columns() []string {
	cols := append([]string{}, recordColumns...)
	cols = append(cols, metricColumns...)
	for _, c := range metricColumns {
		cols = append(cols, "warmup_"+c)
	}
	return cols
}

// WriteCSV writes one row per record. The configuration is inlined as JSON and
// unknown values are empty cells.
func WriteCSV(path string, records []Record) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, records)
	})
}

// EncodeCSV writes the header and one row per record to w.
func EncodeCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range records {
		row, err := recordRow(r)
		if err != nil {
			return fmt.Errorf("CSV row %d: %w", i, err)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func recordRow(r Record) ([]string, error) {
	config := ""
	if r.Config != nil {
		data, err := space.Encode(r.Config)
		if err != nil {
			return nil, err
		}
		config = string(data)
	}
	row := []string{
		string(r.Predictor),
		r.ConfigID,
		config,
		r.Trace,
		r.Category,
		formatFloat(r.TraceSizeMB),
		string(r.Status),
		formatFloat(r.RuntimeSeconds),
		"",
		r.Error,
		r.LogPath,
	}
	if r.ExecTime != nil {
		row[8] = formatFloat(*r.ExecTime)
	}
	row = append(row, metricCells(r.Full)...)
	row = append(row, metricCells(r.Warmup)...)
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func metricCells(m *simout.Metrics) []string {
	cells := make([]string, len(metricColumns))
	if m == nil {
		return cells
	}
	cells[0] = strconv.FormatInt(m.Instructions, 10)
	cells[1] = strconv.FormatInt(m.Cycles, 10)
	cells[2] = formatFloat(m.IPC)
	cells[3] = strconv.FormatInt(m.Branches, 10)
	cells[4] = strconv.FormatInt(m.Mispredictions, 10)
	cells[5] = formatFloat(m.BranchesPerCycle)
	cells[6] = formatFloat(m.MispredictionsPerCycle)
	cells[7] = formatFloat(m.MissRatePercent)
	cells[8] = formatFloat(m.MPKI)
	cells[9] = strconv.FormatInt(m.WrongPathCycles, 10)
	cells[10] = formatFloat(m.AvgWrongPathCycles)
	cells[11] = formatFloat(m.WrongPathPKI)
	return cells
}

// LoadCSV reads a file written by WriteCSV.
func LoadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	defer func() { _ = file.Close() }()
	return DecodeCSV(file)
}

// DecodeCSV reads records from r. The header row must match Columns.
func DecodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	cols := Columns()
	reader.FieldsPerRecord = len(cols)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, c := range cols {
		if header[i] != c {
			return nil, fmt.Errorf("CSV column %d is %q, expected %q", i, header[i], c)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

func parseRecord(row []string) (*Record, error) {
	p := cellParser{}
	status, err := ParseStatus(row[6])
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Predictor:      space.Family(row[0]),
		ConfigID:       row[1],
		Trace:          row[3],
		Category:       row[4],
		TraceSizeMB:    p.float(row[5], "trace_size_mb"),
		Status:         status,
		RuntimeSeconds: p.float(row[7], "runtime_seconds"),
		Error:          row[9],
		LogPath:        row[10],
	}
	if row[2] != "" {
		rec.Config, err = space.Decode(rec.Predictor, []byte(row[2]))
		if err != nil {
			return nil, err
		}
	}
	if row[8] != "" {
		v := p.float(row[8], "exec_time")
		rec.ExecTime = &v
	}
	n := len(recordColumns)
	rec.Full = p.metrics(row[n : n+len(metricColumns)])
	rec.Warmup = p.metrics(row[n+len(metricColumns):])
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

// cellParser keeps the first conversion error across a row.
type cellParser struct {
	err error
}

func (p *cellParser) float(s, column string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", column, err)
	}
	return v
}

func (p *cellParser) integer(s, column string) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", column, err)
	}
	return v
}

// metrics returns nil when every cell is empty.
func (p *cellParser) metrics(cells []string) *simout.Metrics {
	empty := true
	for _, c := range cells {
		if c != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}
	return &simout.Metrics{
		Instructions:           p.integer(cells[0], metricColumns[0]),
		Cycles:                 p.integer(cells[1], metricColumns[1]),
		IPC:                    p.float(cells[2], metricColumns[2]),
		Branches:               p.integer(cells[3], metricColumns[3]),
		Mispredictions:         p.integer(cells[4], metricColumns[4]),
		BranchesPerCycle:       p.float(cells[5], metricColumns[5]),
		MispredictionsPerCycle: p.float(cells[6], metricColumns[6]),
		MissRatePercent:        p.float(cells[7], metricColumns[7]),
		MPKI:                   p.float(cells[8], metricColumns[8]),
		WrongPathCycles:        p.integer(cells[9], metricColumns[9]),
		AvgWrongPathCycles:     p.float(cells[10], metricColumns[10]),
		WrongPathPKI:           p.float(cells[11], metricColumns[11]),
	}
}
