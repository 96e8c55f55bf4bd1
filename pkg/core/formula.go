// Package core provides the formula and abundance models for isotopic
// envelope calculations.
package core

import (
	"fmt"
	"sort"
	"strconv"
)

// AtomCount maps element symbols to the number of atoms of that element in
// an empirical formula. Counts are always >= 1; the mapping is built once by
// ParseFormula and treated as immutable afterwards.
type AtomCount map[string]int

// Elements returns the formula's element symbols in sorted order.
func (f AtomCount) Elements() []string {
	elements := make([]string, 0, len(f))
	for element := range f {
		elements = append(elements, element)
	}
	sort.Strings(elements)
	return elements
}

// TotalAtoms returns the number of atom instances in the formula.
func (f AtomCount) TotalAtoms() int {
	total := 0
	for _, count := range f {
		total += count
	}
	return total
}

// ParseFormula parses an empirical chemical formula into an AtomCount.
// The grammar is a sequence of element-count pairs, where an element is one
// uppercase letter optionally followed by one lowercase letter, and a
// missing count defaults to 1. Repeated mentions of the same element
// accumulate, so "CH3COOH" yields C:2 H:4 O:2. An empty string is a valid
// formula with no atoms.
func ParseFormula(formula string) (AtomCount, error) {
	out := make(AtomCount)

	i := 0
	for i < len(formula) {
		// Element symbol: uppercase letter plus optional lowercase letter
		if formula[i] < 'A' || formula[i] > 'Z' {
			return nil, fmt.Errorf("invalid formula %q: unexpected character %q at position %d", formula, formula[i], i)
		}
		start := i
		i++
		if i < len(formula) && formula[i] >= 'a' && formula[i] <= 'z' {
			i++
		}
		element := formula[start:i]

		// Optional count
		start = i
		for i < len(formula) && formula[i] >= '0' && formula[i] <= '9' {
			i++
		}
		count := 1
		if start != i {
			n, err := strconv.Atoi(formula[start:i])
			if err != nil {
				return nil, fmt.Errorf("invalid formula %q: bad count for element %s: %w", formula, element, err)
			}
			count = n
		}
		if count < 1 {
			return nil, fmt.Errorf("invalid formula %q: element %s has count %d, must be positive", formula, element, count)
		}

		out[element] += count
	}

	return out, nil
}
