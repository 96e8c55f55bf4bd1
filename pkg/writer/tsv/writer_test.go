package tsv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
	"github.com/ChrisMcGann/isoshift/pkg/reader/dist"
)

func TestWriteDistribution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.tsv")

	d := envelope.Distribution{
		{Mass: 17, Shift: 1}: 0.01,
		{Mass: 16, Shift: 0}: 0.99,
	}

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteDistribution(d); err != nil {
		t.Fatalf("WriteDistribution() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := "mass\tshift\tabundance\n" +
		"16\t0\t0.99\n" +
		"17\t1\t0.01\n"
	if string(data) != want {
		t.Errorf("Output = %q, want %q", string(data), want)
	}
}

func TestWriteEmptyDistribution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.tsv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteDistribution(make(envelope.Distribution)); err != nil {
		t.Fatalf("WriteDistribution() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "mass\tshift\tabundance\n" {
		t.Errorf("Output = %q, want header only", string(data))
	}
}

func TestCloseAfterFinalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.tsv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	// A deferred Close after an explicit Finalize must be harmless
	if err := w.Close(); err != nil {
		t.Errorf("Close() after Finalize() error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.tsv")

	want := envelope.Distribution{
		{Mass: 16, Shift: 0}: 0.9893,
		{Mass: 17, Shift: 1}: 0.0107,
		{Mass: 18, Shift: 2}: 1.15e-07,
		{Mass: 19, Shift: 3}: 4.2e-12,
	}

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteDistribution(want); err != nil {
		t.Fatalf("WriteDistribution() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	got, err := dist.Load(f)
	if err != nil {
		t.Fatalf("dist.Load() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("Round-tripped %d entries, want %d", len(got), len(want))
	}
	for key, abundance := range want {
		// The 'g' format guarantees exact float64 round-trips
		if got[key] != abundance {
			t.Errorf("Round-tripped dist[%d, %d] = %g, want %g", key.Mass, key.Shift, got[key], abundance)
		}
	}
}
