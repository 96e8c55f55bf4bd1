// Package tsv writes mass-shift distributions as tab-delimited text files
package tsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

// Column order of the output table
var header = []string{"mass", "shift", "abundance"}

// Writer handles writing distributions to tab-delimited files
type Writer struct {
	file      *os.File
	csv       *csv.Writer
	finalized bool
}

// NewWriter creates the output file and writes the header row
func NewWriter(outputPath string) (*Writer, error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	cw := csv.NewWriter(f)
	cw.Comma = '\t'

	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &Writer{file: f, csv: cw}, nil
}

// WriteEntry writes a single distribution row. Abundance uses the shortest
// representation that parses back to the same float64, so written files
// round-trip exactly through the dist reader.
func (w *Writer) WriteEntry(mass, shift int, abundance float64) error {
	record := []string{
		strconv.Itoa(mass),
		strconv.Itoa(shift),
		strconv.FormatFloat(abundance, 'g', -1, 64),
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// WriteDistribution writes every distribution entry, ordered by mass then shift
func (w *Writer) WriteDistribution(dist envelope.Distribution) error {
	for _, key := range dist.Keys() {
		if err := w.WriteEntry(key.Mass, key.Shift, dist[key]); err != nil {
			return err
		}
	}
	return nil
}

// Finalize flushes buffered rows and closes the file
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Close closes the writer (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
