package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/isoshift/pkg/core"
	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

func runValidate(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Validating %s against %s...\n\n", formula, abundanceFile)

	// Every formula element must have table entries
	if err := core.CheckCongruency(atoms, table); err != nil {
		return err
	}

	// Per-element report
	for _, element := range atoms.Elements() {
		fmt.Printf("%s: %d atoms, %d isotopes, abundance sum %g\n",
			element, atoms[element], len(table[element]), table.AbundanceSum(element))
	}

	space, err := envelope.NewSpace(atoms, table)
	if err != nil {
		return err
	}
	fmt.Printf("\nIsotopomer space: %s isotopomers\n", space.Size())

	// Surface non-normalized elements; only --strict makes them fatal
	if err := core.CheckNormalization(atoms, table, 0); err != nil {
		if strict {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Printf("Validation passed!\n")
	return nil
}
