package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/isoshift/pkg/core"
	"github.com/ChrisMcGann/isoshift/pkg/envelope"
	"github.com/ChrisMcGann/isoshift/pkg/filter"
	"github.com/ChrisMcGann/isoshift/pkg/reader/abundance"
	"github.com/ChrisMcGann/isoshift/pkg/writer/sqlite"
	"github.com/ChrisMcGann/isoshift/pkg/writer/tsv"
)

func runEnvelope(cmd *cobra.Command, args []string) error {
	// Parse the formula
	atoms, err := core.ParseFormula(formula)
	if err != nil {
		return err
	}

	// Load the abundance table
	table, err := loadAbundanceTable()
	if err != nil {
		return err
	}

	// Check the inputs before enumeration; enumeration is the expensive part
	if err := core.CheckCongruency(atoms, table); err != nil {
		return err
	}
	if strict {
		if err := core.CheckNormalization(atoms, table, 0); err != nil {
			return err
		}
	}

	// Resolve output format before doing any work
	format, err := resolveOutputFormat()
	if err != nil {
		return err
	}

	space, err := envelope.NewSpace(atoms, table)
	if err != nil {
		return err
	}

	fmt.Printf("Computing envelope for %s...\n", formula)
	fmt.Printf("Atoms: %d\n", atoms.TotalAtoms())
	fmt.Printf("Isotopomers: %s\n", space.Size())
	fmt.Printf("Workers: %d\n", numCPUs)

	if topN > 0 {
		fmt.Printf("Top N filter: %d\n", topN)
	}
	if cutoffPercent > 0 {
		fmt.Printf("Abundance cutoff: %.1f%%\n", cutoffPercent)
	}

	// Cancel the enumeration on interrupt; no output file exists yet, so an
	// interrupted run leaves nothing behind
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	dist, err := envelope.Compute(ctx, atoms, table, envelope.Options{
		Workers:   numCPUs,
		BatchSize: batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to compute envelope: %w", err)
	}

	// Prune the finished distribution if requested
	if topN > 0 || cutoffPercent > 0 {
		filterConfig := &filter.Config{
			TopN:   topN,
			Cutoff: cutoffPercent,
		}
		before := len(dist)
		filterConfig.Apply(dist)
		fmt.Printf("Filtered %d entries down to %d\n", before, len(dist))
	}

	// Write the result
	switch format {
	case "tsv":
		err = writeTSV(dist)
	case "sqlite":
		err = writeSQLite(dist)
	default:
		err = fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nEnvelope complete!\n")
	fmt.Printf("Entries: %d\n", len(dist))
	fmt.Printf("Total abundance: %g\n", dist.Total())
	fmt.Printf("Output: %s\n", outputFile)

	return nil
}

// loadAbundanceTable opens and parses the --abundance-table file.
func loadAbundanceTable() (core.AbundanceTable, error) {
	if _, err := os.Stat(abundanceFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("abundance table does not exist: %s", abundanceFile)
	}

	f, err := os.Open(abundanceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open abundance table: %w", err)
	}
	defer f.Close()

	table, err := abundance.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abundance table: %w", err)
	}

	return table, nil
}

// resolveOutputFormat picks the output format from --to, falling back to the
// output file extension. Anything that is not a SQLite extension is written
// as tab-delimited text, so any output filename works without --to.
func resolveOutputFormat() (string, error) {
	if outputFormat == "" {
		switch strings.ToLower(filepath.Ext(outputFile)) {
		case ".db", ".sqlite", ".sqlite3":
			return "sqlite", nil
		default:
			return "tsv", nil
		}
	}

	format := strings.ToLower(outputFormat)
	if format != "tsv" && format != "sqlite" {
		return "", fmt.Errorf("invalid output format '%s', must be tsv or sqlite", format)
	}
	return format, nil
}

func writeTSV(dist envelope.Distribution) error {
	writer, err := tsv.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteDistribution(dist); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize output: %w", err)
	}

	return nil
}

func writeSQLite(dist envelope.Distribution) error {
	writer, err := sqlite.NewWriter(outputFile, formula, numCPUs)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteDistribution(dist); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	return nil
}
