// isoshift - Isotopic mass-shift envelope calculator
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/isoshift/cmd/isoshift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
