package record

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// StageTiming is one replicate's per-stage wall-clock cost. Its shape never
// varies with host_num, so it is written with gocsv's header-once streaming
// rather than the dynamic-width encoding/csv path used for the main output.
type StageTiming struct {
	Rep         int     `csv:"rep"`
	MutateMs    float64 `csv:"mutate_ms"`
	ReassortMs  float64 `csv:"reassort_ms"`
	ReproduceMs float64 `csv:"reproduce_ms"`
	MigrateMs   float64 `csv:"migrate_ms"`
	TotalMs     float64 `csv:"total_ms"`
	Generations int     `csv:"generations"`
}

// TimingWriter streams StageTiming rows, writing the header once.
type TimingWriter struct {
	file          *os.File
	headerWritten bool
}

// NewTimingWriter creates (or truncates) the timing CSV at path.
func NewTimingWriter(path string) (*TimingWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: creating timing CSV: %w", err)
	}
	return &TimingWriter{file: f}, nil
}

// Write appends one StageTiming row.
func (w *TimingWriter) Write(s StageTiming) error {
	records := []StageTiming{s}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("record: writing timing row: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("record: writing timing row: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *TimingWriter) Close() error {
	return w.file.Close()
}
