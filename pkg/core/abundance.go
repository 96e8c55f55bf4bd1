// Package core provides the abundance table model and its validation logic.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// NormalizationTolerance is the default tolerance used when checking that
// an element's isotope abundances sum to 1.0.
const NormalizationTolerance = 1e-9

// Isotope describes one isotope of an element: its mass shift relative to
// the monoisotopic mass and its natural abundance.
type Isotope struct {
	Shift     int
	Abundance float64
}

// AbundanceTable maps element symbols to their isotopes, keyed by integer
// mass number. The table is loaded once and shared read-only by every
// worker during enumeration.
type AbundanceTable map[string]map[int]Isotope

// Add records one isotope for an element, creating the element's entry on
// first use. A repeated (element, mass) pair overwrites the earlier entry.
func (t AbundanceTable) Add(element string, mass int, iso Isotope) {
	isotopes, ok := t[element]
	if !ok {
		isotopes = make(map[int]Isotope)
		t[element] = isotopes
	}
	isotopes[mass] = iso
}

// AbundanceSum returns the sum of abundances over an element's isotopes.
// For a properly normalized table this is 1.0 for every element.
func (t AbundanceTable) AbundanceSum(element string) float64 {
	sum := 0.0
	for _, iso := range t[element] {
		sum += iso.Abundance
	}
	return sum
}

// MissingAbundanceError reports formula elements that are absent from the
// abundance table. Every missing element is collected before failing, not
// just the first.
type MissingAbundanceError struct {
	Elements []string
}

func (e *MissingAbundanceError) Error() string {
	quoted := make([]string, len(e.Elements))
	for i, element := range e.Elements {
		quoted[i] = "'" + element + "'"
	}
	return fmt.Sprintf("missing abundances for the following atoms: %s", strings.Join(quoted, ", "))
}

// CheckCongruency verifies that every element of the formula has an entry
// in the abundance table. It runs before any enumeration work so that a bad
// table fails cheaply; enumeration is the expensive phase.
func CheckCongruency(formula AtomCount, table AbundanceTable) error {
	var missing []string
	for element := range formula {
		if _, ok := table[element]; !ok {
			missing = append(missing, element)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingAbundanceError{Elements: missing}
	}

	return nil
}

// NormalizationError reports formula elements whose isotope abundances do
// not sum to 1.0 within tolerance. It is only produced by the optional
// strict check; the default behavior trusts the table.
type NormalizationError struct {
	Elements []string
	Sums     map[string]float64
}

func (e *NormalizationError) Error() string {
	parts := make([]string, len(e.Elements))
	for i, element := range e.Elements {
		parts[i] = fmt.Sprintf("'%s' sums to %g", element, e.Sums[element])
	}
	return fmt.Sprintf("abundances are not normalized for the following atoms: %s", strings.Join(parts, ", "))
}

// CheckNormalization verifies that, for every formula element present in
// the table, the element's isotope abundances sum to 1.0 within tolerance.
// Elements missing from the table are skipped; CheckCongruency reports
// those. A tolerance <= 0 uses NormalizationTolerance.
func CheckNormalization(formula AtomCount, table AbundanceTable, tolerance float64) error {
	if tolerance <= 0 {
		tolerance = NormalizationTolerance
	}

	var bad []string
	sums := make(map[string]float64)
	for element := range formula {
		if _, ok := table[element]; !ok {
			continue
		}
		sum := table.AbundanceSum(element)
		if math.Abs(sum-1.0) > tolerance {
			bad = append(bad, element)
			sums[element] = sum
		}
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return &NormalizationError{Elements: bad, Sums: sums}
	}

	return nil
}
