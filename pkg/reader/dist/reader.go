// Package dist provides a streaming reader for tab-delimited mass-shift
// distribution files, the format written by the tsv writer
package dist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

// Required header columns; column order is free
const (
	colMass      = "mass"
	colShift     = "shift"
	colAbundance = "abundance"
)

// Entry is one parsed distribution row
type Entry struct {
	Mass      int
	Shift     int
	Abundance float64
}

// Reader provides streaming access to tab-delimited distribution files.
// Columns are resolved by header name, so any column order is accepted.
type Reader struct {
	csv          *csv.Reader
	columns      map[string]int
	currentEntry Entry
	done         bool
	err          error
}

// NewReader creates a new distribution reader
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	return &Reader{csv: cr}
}

// Next advances to the next entry. Returns false when no more entries or error.
func (r *Reader) Next() bool {
	if r.err != nil || r.done {
		return false
	}

	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			r.err = err
			return false
		}
		if r.done {
			return false
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	entry, err := r.parseEntry(record)
	if err != nil {
		r.err = err
		return false
	}

	r.currentEntry = entry
	return true
}

// Entry returns the current entry
func (r *Reader) Entry() Entry {
	return r.currentEntry
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readHeader reads the header line and maps column names to field indexes.
// An input with no lines at all is treated as an empty distribution.
func (r *Reader) readHeader() error {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			r.done = true
			return nil
		}
		return err
	}

	columns := make(map[string]int, len(record))
	for i, name := range record {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range []string{colMass, colShift, colAbundance} {
		if _, ok := columns[name]; !ok {
			missing = append(missing, "'"+name+"'")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns in header: %s", strings.Join(missing, ", "))
	}

	r.columns = columns
	return nil
}

// parseEntry parses a single distribution row
func (r *Reader) parseEntry(record []string) (Entry, error) {
	mass, err := r.intField(record, colMass)
	if err != nil {
		return Entry{}, err
	}

	shift, err := r.intField(record, colShift)
	if err != nil {
		return Entry{}, err
	}

	abundanceStr := strings.TrimSpace(record[r.columns[colAbundance]])
	abundance, err := strconv.ParseFloat(abundanceStr, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("line %d: invalid abundance '%s': %w", r.line(), abundanceStr, err)
	}

	return Entry{Mass: mass, Shift: shift, Abundance: abundance}, nil
}

// intField parses one integer column of the current record
func (r *Reader) intField(record []string, col string) (int, error) {
	s := strings.TrimSpace(record[r.columns[col]])
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s '%s': %w", r.line(), col, s, err)
	}
	return n, nil
}

// line returns the input line number of the current record
func (r *Reader) line() int {
	line, _ := r.csv.FieldPos(0)
	return line
}

// Load reads a whole distribution file. Rows that share a (mass, shift) key
// accumulate by summation, matching the distribution's own fold.
func Load(r io.Reader) (envelope.Distribution, error) {
	reader := NewReader(r)
	d := make(envelope.Distribution)

	for reader.Next() {
		entry := reader.Entry()
		d[envelope.Key{Mass: entry.Mass, Shift: entry.Shift}] += entry.Abundance
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	return d, nil
}
