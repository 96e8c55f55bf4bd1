// Package abundance provides a streaming reader for tab-delimited isotope
// abundance tables
package abundance

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/isoshift/pkg/core"
)

// Required header columns; column order is free
const (
	colElement   = "element"
	colIsotope   = "isotope"
	colMassShift = "mass shift"
	colAbundance = "abundance"
)

// Row is one parsed table row: a single isotope of a single element
type Row struct {
	Element   string
	Isotope   int // mass number
	Shift     int
	Abundance float64
}

// Reader provides streaming access to tab-delimited abundance tables.
// Columns are resolved by header name, so any column order is accepted.
type Reader struct {
	csv        *csv.Reader
	columns    map[string]int
	currentRow Row
	done       bool
	err        error
}

// NewReader creates a new abundance table reader
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	return &Reader{csv: cr}
}

// Next advances to the next row. Returns false when no more rows or error.
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

	row, err := r.parseRow(record)
	if err != nil {
		r.err = err
		return false
	}

	r.currentRow = row
	return true
}

// Row returns the current row
func (r *Reader) Row() Row {
	return r.currentRow
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readHeader reads the header line and maps column names to field indexes.
// An input with no lines at all is treated as a table with no rows.
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
	for _, name := range []string{colElement, colIsotope, colMassShift, colAbundance} {
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

// parseRow parses a single table row
func (r *Reader) parseRow(record []string) (Row, error) {
	element := strings.TrimSpace(record[r.columns[colElement]])
	if element == "" {
		return Row{}, fmt.Errorf("line %d: empty element", r.line())
	}

	isotope, err := r.intField(record, colIsotope)
	if err != nil {
		return Row{}, err
	}

	shift, err := r.intField(record, colMassShift)
	if err != nil {
		return Row{}, err
	}

	abundanceStr := strings.TrimSpace(record[r.columns[colAbundance]])
	abundance, err := strconv.ParseFloat(abundanceStr, 64)
	if err != nil {
		return Row{}, fmt.Errorf("line %d: invalid abundance '%s': %w", r.line(), abundanceStr, err)
	}

	return Row{
		Element:   element,
		Isotope:   isotope,
		Shift:     shift,
		Abundance: abundance,
	}, nil
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

// Load reads a whole abundance table. Rows for the same element accumulate
// into that element's isotope mapping; a repeated (element, isotope) pair
// overwrites the earlier entry.
func Load(r io.Reader) (core.AbundanceTable, error) {
	reader := NewReader(r)
	table := make(core.AbundanceTable)

	for reader.Next() {
		row := reader.Row()
		table.Add(row.Element, row.Isotope, core.Isotope{
			Shift:     row.Shift,
			Abundance: row.Abundance,
		})
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	return table, nil
}
