package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/isoshift/pkg/reader/dist"
)

func runSummarize(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	d, err := dist.Load(f)
	if err != nil {
		return fmt.Errorf("failed to read envelope: %w", err)
	}

	fmt.Printf("Summary of %s:\n", inputFile)
	fmt.Printf("Entries: %d\n", len(d))
	if len(d) == 0 {
		return nil
	}

	// Keys are sorted by mass then shift, so the mass range falls out of the
	// ends; shift range and peak entry need a scan
	keys := d.Keys()
	minShift, maxShift := keys[0].Shift, keys[0].Shift
	peak := keys[0]
	for _, key := range keys {
		if key.Shift < minShift {
			minShift = key.Shift
		}
		if key.Shift > maxShift {
			maxShift = key.Shift
		}
		if d[key] > d[peak] {
			peak = key
		}
	}

	fmt.Printf("Mass range: %d - %d\n", keys[0].Mass, keys[len(keys)-1].Mass)
	fmt.Printf("Shift range: %d - %d\n", minShift, maxShift)
	fmt.Printf("Most abundant: mass %d, shift %d (%g)\n", peak.Mass, peak.Shift, d[peak])
	fmt.Printf("Total abundance: %g\n", d.Total())

	return nil
}
