package envelope

import (
	"errors"
	"testing"

	"github.com/ChrisMcGann/isoshift/pkg/core"
)

func TestNewSpace(t *testing.T) {
	table := make(core.AbundanceTable)
	table.Add("C", 12, core.Isotope{Shift: 0, Abundance: 0.9893})
	table.Add("C", 13, core.Isotope{Shift: 1, Abundance: 0.0107})
	table.Add("H", 1, core.Isotope{Shift: 0, Abundance: 0.999885})
	table.Add("H", 2, core.Isotope{Shift: 1, Abundance: 0.000115})

	tests := []struct {
		name      string
		formula   core.AtomCount
		wantSlots int
	}{
		{
			name:      "methane",
			formula:   core.AtomCount{"C": 1, "H": 4},
			wantSlots: 5,
		},
		{
			name:      "single atom",
			formula:   core.AtomCount{"C": 1},
			wantSlots: 1,
		},
		{
			name:      "empty formula",
			formula:   core.AtomCount{},
			wantSlots: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space, err := NewSpace(tt.formula, table)
			if err != nil {
				t.Fatalf("NewSpace() error = %v", err)
			}
			if space.Slots() != tt.wantSlots {
				t.Errorf("Slots() = %d, want %d", space.Slots(), tt.wantSlots)
			}
		})
	}
}

func TestNewSpaceMissingElement(t *testing.T) {
	table := make(core.AbundanceTable)
	table.Add("C", 12, core.Isotope{Shift: 0, Abundance: 1.0})

	_, err := NewSpace(core.AtomCount{"C": 1, "O": 2, "N": 1}, table)
	if err == nil {
		t.Fatal("NewSpace() expected error for incongruent table, got nil")
	}

	var missErr *core.MissingAbundanceError
	if !errors.As(err, &missErr) {
		t.Fatalf("NewSpace() error = %v, want *core.MissingAbundanceError", err)
	}
	if len(missErr.Elements) != 2 || missErr.Elements[0] != "N" || missErr.Elements[1] != "O" {
		t.Errorf("Missing elements = %v, want [N O]", missErr.Elements)
	}
}

func TestSpaceSize(t *testing.T) {
	table := make(core.AbundanceTable)
	table.Add("C", 12, core.Isotope{Shift: 0, Abundance: 0.9893})
	table.Add("C", 13, core.Isotope{Shift: 1, Abundance: 0.0107})
	table.Add("H", 1, core.Isotope{Shift: 0, Abundance: 0.999885})
	table.Add("H", 2, core.Isotope{Shift: 1, Abundance: 0.000115})
	table.Add("O", 16, core.Isotope{Shift: 0, Abundance: 0.99757})
	table.Add("O", 17, core.Isotope{Shift: 1, Abundance: 0.00038})
	table.Add("O", 18, core.Isotope{Shift: 2, Abundance: 0.00205})

	tests := []struct {
		name     string
		formula  core.AtomCount
		wantSize string
	}{
		{
			name:     "glucose",
			formula:  core.AtomCount{"C": 6, "H": 12, "O": 6},
			wantSize: "191102976", // 2^6 * 2^12 * 3^6
		},
		{
			name:     "water",
			formula:  core.AtomCount{"H": 2, "O": 1},
			wantSize: "12", // 2^2 * 3
		},
		{
			name:     "empty formula",
			formula:  core.AtomCount{},
			wantSize: "1",
		},
		{
			name:     "large molecule",
			formula:  core.AtomCount{"C": 100, "H": 200},
			wantSize: "2037035976334486086268445688409378161051468393665936250636140449354381299763336706183397376", // 2^300
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space, err := NewSpace(tt.formula, table)
			if err != nil {
				t.Fatalf("NewSpace() error = %v", err)
			}
			if got := space.Size().String(); got != tt.wantSize {
				t.Errorf("Size() = %s, want %s", got, tt.wantSize)
			}
		})
	}
}

func TestCursorEnumeratesWholeSpace(t *testing.T) {
	table := make(core.AbundanceTable)
	table.Add("C", 12, core.Isotope{Shift: 0, Abundance: 0.9893})
	table.Add("C", 13, core.Isotope{Shift: 1, Abundance: 0.0107})
	table.Add("O", 16, core.Isotope{Shift: 0, Abundance: 0.99757})
	table.Add("O", 17, core.Isotope{Shift: 1, Abundance: 0.00038})
	table.Add("O", 18, core.Isotope{Shift: 2, Abundance: 0.00205})

	space, err := NewSpace(core.AtomCount{"C": 3, "O": 2}, table)
	if err != nil {
		t.Fatalf("NewSpace() error = %v", err)
	}

	want := space.Size().Int64() // 2^3 * 3^2 = 72
	buf := make([]IsotopeChoice, space.Slots())

	count := int64(0)
	cur := space.Iter()
	for cur.Next(buf) {
		count++
	}
	if count != want {
		t.Errorf("Cursor yielded %d isotopomers, want %d", count, want)
	}

	// Exhausted cursors stay exhausted
	if cur.Next(buf) {
		t.Error("Next() = true after exhaustion, want false")
	}

	// A fresh cursor walks the space again from the start
	count = 0
	for cur := space.Iter(); cur.Next(buf); {
		count++
	}
	if count != want {
		t.Errorf("Fresh cursor yielded %d isotopomers, want %d", count, want)
	}
}

func TestCursorOrder(t *testing.T) {
	table := make(core.AbundanceTable)
	table.Add("C", 12, core.Isotope{Shift: 0, Abundance: 0.99})
	table.Add("C", 13, core.Isotope{Shift: 1, Abundance: 0.01})

	space, err := NewSpace(core.AtomCount{"C": 2}, table)
	if err != nil {
		t.Fatalf("NewSpace() error = %v", err)
	}

	// Odometer order over two slots of {12, 13}: last slot varies fastest
	wantMasses := [][2]int{{12, 12}, {12, 13}, {13, 12}, {13, 13}}

	buf := make([]IsotopeChoice, 2)
	cur := space.Iter()
	for i, want := range wantMasses {
		if !cur.Next(buf) {
			t.Fatalf("Next() = false at isotopomer %d, want true", i)
		}
		if buf[0].Mass != want[0] || buf[1].Mass != want[1] {
			t.Errorf("Isotopomer %d = (%d, %d), want (%d, %d)", i, buf[0].Mass, buf[1].Mass, want[0], want[1])
		}
	}
	if cur.Next(buf) {
		t.Error("Next() = true past the last isotopomer, want false")
	}
}

func TestCursorEmptySpace(t *testing.T) {
	space, err := NewSpace(core.AtomCount{}, make(core.AbundanceTable))
	if err != nil {
		t.Fatalf("NewSpace() error = %v", err)
	}

	cur := space.Iter()
	if !cur.Next(nil) {
		t.Fatal("Next() = false for empty formula, want one empty isotopomer")
	}
	if cur.Next(nil) {
		t.Error("Next() = true after the single empty isotopomer, want false")
	}
}
