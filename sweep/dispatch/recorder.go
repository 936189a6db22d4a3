package dispatch

import (
	"sync"

	"github.com/cbpsweep/cbpsweep/sweep/results"
)

// Recorder collects result records from concurrent workers (goroutine-safe).
type Recorder struct {
	mu      sync.Mutex
	records []results.Record
}

// Add appends one record.
func (r *Recorder) Add(rec results.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Len returns the number of records collected so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Records returns a copy of all recorded records, in completion order.
func (r *Recorder) Records() []results.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]results.Record, len(r.records))
	copy(result, r.records)
	return result
}
