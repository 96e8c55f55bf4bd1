// Package envelope expands the isotopomer space of a molecular formula and
// aggregates it into a mass-shift abundance distribution.
package envelope

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ChrisMcGann/isoshift/pkg/core"
)

// IsotopeChoice is one possible identity for a single atom slot: the mass
// number of the chosen isotope, its shift from the monoisotopic mass, and
// its natural abundance.
type IsotopeChoice struct {
	Mass      int
	Shift     int
	Abundance float64
}

// Space is the Cartesian product of per-atom isotope choices. An element
// with count N contributes N slots sharing one choice list. The product is
// never materialized; Iter walks it one isotopomer at a time.
type Space struct {
	slots [][]IsotopeChoice
}

// NewSpace builds the isotopomer space for a formula against an abundance
// table. The formula must be congruent with the table, and every formula
// element must carry at least one isotope. Elements are laid out in sorted
// order, isotopes within an element in mass order, so enumeration order is
// deterministic.
func NewSpace(formula core.AtomCount, table core.AbundanceTable) (*Space, error) {
	if err := core.CheckCongruency(formula, table); err != nil {
		return nil, err
	}

	var slots [][]IsotopeChoice
	for _, element := range formula.Elements() {
		isotopes := table[element]
		if len(isotopes) == 0 {
			return nil, fmt.Errorf("element %s has no isotopes in the abundance table", element)
		}

		masses := make([]int, 0, len(isotopes))
		for mass := range isotopes {
			masses = append(masses, mass)
		}
		sort.Ints(masses)

		choices := make([]IsotopeChoice, 0, len(masses))
		for _, mass := range masses {
			iso := isotopes[mass]
			choices = append(choices, IsotopeChoice{
				Mass:      mass,
				Shift:     iso.Shift,
				Abundance: iso.Abundance,
			})
		}

		// One slot per atom instance, all sharing the same choice list.
		for i := 0; i < formula[element]; i++ {
			slots = append(slots, choices)
		}
	}

	return &Space{slots: slots}, nil
}

// Slots returns the number of atom slots, one per atom instance in the
// formula. This is the length of every isotopomer the space yields.
func (s *Space) Slots() int {
	return len(s.slots)
}

// Size returns the number of isotopomers in the space, the product of
// per-slot choice counts. The count grows exponentially with atom count,
// hence big.Int.
func (s *Space) Size() *big.Int {
	size := big.NewInt(1)
	for _, choices := range s.slots {
		size.Mul(size, big.NewInt(int64(len(choices))))
	}
	return size
}

// Iter returns a cursor positioned before the first isotopomer. Each call
// starts an independent walk from the beginning; a cursor is never rewound.
func (s *Space) Iter() *Cursor {
	return &Cursor{space: s, index: make([]int, len(s.slots))}
}

// Cursor walks the isotopomer space in odometer order: the last slot varies
// fastest. A zero-slot space yields exactly one empty isotopomer. A Cursor
// must not be shared between goroutines.
type Cursor struct {
	space   *Space
	index   []int
	started bool
	done    bool
}

// Next advances to the next isotopomer and copies its choices into buf,
// which must hold at least Slots() entries. It returns false once the
// space is exhausted.
func (c *Cursor) Next(buf []IsotopeChoice) bool {
	if c.done {
		return false
	}

	if !c.started {
		c.started = true
	} else if !c.advance() {
		c.done = true
		return false
	}

	for i, j := range c.index {
		buf[i] = c.space.slots[i][j]
	}
	return true
}

// advance increments the odometer, carrying from the last slot toward the
// first. It reports false when the odometer wraps around to all zeros.
func (c *Cursor) advance() bool {
	for i := len(c.index) - 1; i >= 0; i-- {
		c.index[i]++
		if c.index[i] < len(c.space.slots[i]) {
			return true
		}
		c.index[i] = 0
	}
	return false
}
