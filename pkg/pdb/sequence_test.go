package pdb

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/mini.pdb")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func TestExtractSequence(t *testing.T) {
	fixture := readFixture(t)

	tests := []struct {
		name  string
		chain string
		want  string
	}{
		{"all chains", "", "MKGMXWSG"},
		{"chain A", "A", "MKGMXG"},
		{"chain B", "B", "WS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSequence(strings.NewReader(fixture), Options{Chain: tt.chain})
			if err != nil {
				t.Fatalf("ExtractSequence failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractSequence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSequence_NoResidues(t *testing.T) {
	fixture := readFixture(t)

	// chain C only holds a nucleotide
	_, err := ExtractSequence(strings.NewReader(fixture), Options{Chain: "C"})
	if !errors.Is(err, ErrNoResidues) {
		t.Errorf("Expected ErrNoResidues, got %v", err)
	}

	_, err = ExtractSequence(strings.NewReader("HEADER    EMPTY\nEND\n"), Options{})
	if !errors.Is(err, ErrNoResidues) {
		t.Errorf("Expected ErrNoResidues, got %v", err)
	}
}

func TestExtractSequence_Invalid(t *testing.T) {
	if _, err := ExtractSequence(strings.NewReader(""), Options{Chain: "AB"}); err == nil {
		t.Error("Expected error for multi-character chain")
	}
	if _, err := ExtractSequence(strings.NewReader("ATOM      1 N\n"), Options{}); err == nil {
		t.Error("Expected error for truncated record")
	}
}

func TestReadSequenceFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/x.pdb", []byte(readFixture(t)), 0o644); err != nil {
		t.Fatal(err)
	}

	seq, err := ReadSequenceFile(fs, "/in/x.pdb", Options{Chain: "B"})
	if err != nil {
		t.Fatalf("ReadSequenceFile failed: %v", err)
	}
	if seq != "WS" {
		t.Errorf("got %q, want WS", seq)
	}

	if _, err := ReadSequenceFile(fs, "/in/missing.pdb", Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
