package core

import (
	"reflect"
	"testing"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    AtomCount
		wantErr bool
	}{
		{
			name:    "glucose",
			formula: "C6H12O6",
			want:    AtomCount{"C": 6, "H": 12, "O": 6},
		},
		{
			name:    "methane with implicit count",
			formula: "CH4",
			want:    AtomCount{"C": 1, "H": 4},
		},
		{
			name:    "two-letter elements",
			formula: "NaCl",
			want:    AtomCount{"Na": 1, "Cl": 1},
		},
		{
			name:    "iron oxide",
			formula: "Fe2O3",
			want:    AtomCount{"Fe": 2, "O": 3},
		},
		{
			name:    "repeated elements accumulate",
			formula: "CH3COOH",
			want:    AtomCount{"C": 2, "H": 4, "O": 2},
		},
		{
			name:    "multi-digit count",
			formula: "C100H202",
			want:    AtomCount{"C": 100, "H": 202},
		},
		{
			name:    "empty formula",
			formula: "",
			want:    AtomCount{},
		},
		{
			name:    "lowercase start",
			formula: "c6H12",
			wantErr: true,
		},
		{
			name:    "stray lowercase letter",
			formula: "H2o",
			wantErr: true,
		},
		{
			name:    "zero count",
			formula: "C0H4",
			wantErr: true,
		},
		{
			name:    "garbage character",
			formula: "C6-H12",
			wantErr: true,
		},
		{
			name:    "digit first",
			formula: "6C",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormula(tt.formula)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormula(%q) error = %v, wantErr %v", tt.formula, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFormula(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestElements(t *testing.T) {
	formula := AtomCount{"O": 6, "C": 6, "H": 12}

	got := formula.Elements()
	want := []string{"C", "H", "O"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Elements() = %v, want %v", got, want)
	}
}

func TestTotalAtoms(t *testing.T) {
	tests := []struct {
		name    string
		formula AtomCount
		want    int
	}{
		{"glucose", AtomCount{"C": 6, "H": 12, "O": 6}, 24},
		{"methane", AtomCount{"C": 1, "H": 4}, 5},
		{"empty", AtomCount{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.formula.TotalAtoms(); got != tt.want {
				t.Errorf("TotalAtoms() = %d, want %d", got, tt.want)
			}
		})
	}
}
