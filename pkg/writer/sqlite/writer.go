// Package sqlite provides SQLite database writing for mass-shift distributions
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

// Date format for RunTable (ISO 8601)
const runDateFormat = "2006-01-02"

// Writer handles writing distributions to SQLite database files
type Writer struct {
	db         *sql.DB
	outputPath string
	entryStmt  *sql.Stmt
	formula    string
	workers    int
	entries    int
	total      float64
	finalized  bool
}

// NewWriter creates a new SQLite writer. Formula and worker count are run
// metadata stamped into RunTable by Finalize.
func NewWriter(outputPath, formula string, workers int) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		formula:    formula,
		workers:    workers,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS EnvelopeTable (
		Mass INTEGER NOT NULL,
		Shift INTEGER NOT NULL,
		Abundance DOUBLE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS RunTable (
		Formula TEXT,
		CreationDate TEXT,
		Workers INTEGER,
		Entries INTEGER,
		TotalAbundance DOUBLE
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.entryStmt, err = w.db.Prepare(`
		INSERT INTO EnvelopeTable (Mass, Shift, Abundance) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare envelope statement: %w", err)
	}

	return nil
}

// WriteEntry writes a single distribution row to the database
func (w *Writer) WriteEntry(mass, shift int, abundance float64) error {
	if _, err := w.entryStmt.Exec(mass, shift, abundance); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	w.entries++
	w.total += abundance
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

// Finalize stamps the run table and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	_, err := w.db.Exec(`
		INSERT INTO RunTable (Formula, CreationDate, Workers, Entries, TotalAbundance)
		VALUES (?, ?, ?, ?, ?)
	`, w.formula, time.Now().Format(runDateFormat), w.workers, w.entries, w.total)
	if err != nil {
		w.db.Close()
		return fmt.Errorf("failed to insert run metadata: %w", err)
	}

	if w.entryStmt != nil {
		w.entryStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
