package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// RecordWriter is the line-delimited JSON record sink: one record per
// call, one JSON object per line. Safe for concurrent use.
type RecordWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRecordWriter creates a record sink writing to w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: w}
}

// Write emits one record as a JSON line.
func (rw *RecordWriter) Write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	data = append(data, '\n')

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if _, err := rw.w.Write(data); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}
