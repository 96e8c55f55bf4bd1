// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

var (
	// Flags for the envelope and validate commands
	formula       string
	abundanceFile string
	outputFile    string
	outputFormat  string
	numCPUs       int
	batchSize     int
	strict        bool
	topN          int
	cutoffPercent float64
)

var rootCmd = &cobra.Command{
	Use:   "isoshift",
	Short: "isoshift - Isotopic mass-shift envelope calculator",
	Long: `isoshift computes the isotopic mass-shift distribution (the "isotopic
envelope") of a molecule from an empirical formula and a per-element isotope
abundance table.

Every isotope assignment across all atom instances is enumerated exactly and
reduced into a (mass, shift) probability distribution with support for:
- Parallel enumeration on a fixed worker pool
- Tab-delimited and SQLite output
- Envelope pruning (top-N, abundance cutoff)
- Input validation and result summaries`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(envelopeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	// Envelope command flags
	envelopeCmd.Flags().StringVarP(&formula, "formula", "f", "", "Empirical chemical formula, e.g. C6H12O6 (required)")
	envelopeCmd.Flags().StringVarP(&abundanceFile, "abundance-table", "a", "", "Tab-delimited isotope abundance table (required)")
	envelopeCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file path (required)")
	envelopeCmd.Flags().StringVar(&outputFormat, "to", "", "Output format: tsv or sqlite (auto-detect from extension if not specified)")
	envelopeCmd.Flags().IntVarP(&numCPUs, "num-cpus", "n", 1, "Number of workers for parallel enumeration")
	envelopeCmd.Flags().IntVar(&batchSize, "batch-size", envelope.DefaultBatchSize, "Isotopomers per work unit")
	envelopeCmd.Flags().BoolVar(&strict, "strict", false, "Require every element's abundances to sum to 1.0")
	envelopeCmd.Flags().IntVar(&topN, "top-n", 0, "Keep only the N most abundant entries (0 = no limit)")
	envelopeCmd.Flags().Float64Var(&cutoffPercent, "cutoff", 0, "Abundance cutoff as % of the most abundant entry (0 = no cutoff)")

	envelopeCmd.MarkFlagRequired("formula")
	envelopeCmd.MarkFlagRequired("abundance-table")
	envelopeCmd.MarkFlagRequired("out")

	// Validate command flags
	validateCmd.Flags().StringVarP(&formula, "formula", "f", "", "Empirical chemical formula to validate (required)")
	validateCmd.Flags().StringVarP(&abundanceFile, "abundance-table", "a", "", "Tab-delimited isotope abundance table (required)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Fail if any element's abundances do not sum to 1.0")

	validateCmd.MarkFlagRequired("formula")
	validateCmd.MarkFlagRequired("abundance-table")
}

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Compute the isotopic envelope of a chemical formula",
	Long: `Compute the full isotopic mass-shift distribution of a molecule by
enumerating every isotopomer of its empirical formula against a tab-delimited
isotope abundance table.

Examples:
  # Compute the envelope of glucose with default settings
  isoshift envelope --formula C6H12O6 --abundance-table isotopes.tsv --out envelope.tsv

  # Spread the enumeration across 8 workers and write a SQLite database
  isoshift envelope -f C6H12O6 -a isotopes.tsv -o envelope.db -n 8

  # Keep only entries above 0.01% of the most abundant entry
  isoshift envelope -f C6H12O6 -a isotopes.tsv -o envelope.tsv --cutoff 0.01`,
	RunE: runEnvelope,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a formula against an abundance table",
	Long: `Validate that an empirical formula parses and that every element it
references appears in the abundance table, and report per-element isotope
counts, abundance sums, and the size of the isotopomer space.`,
	RunE: runValidate,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a computed envelope file",
	Long:  `Print summary statistics about a computed envelope including entry count, mass and shift ranges, and total abundance.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}
