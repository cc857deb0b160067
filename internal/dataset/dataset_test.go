package dataset

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateRowCountAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := Generate(path, 50, 42); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open dataset: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read dataset: %v", err)
	}
	if len(rows) != 51 { // header + 50 events
		t.Fatalf("expected 51 rows, got %d", len(rows))
	}
	for i, col := range Header {
		if rows[0][i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}
	for i, row := range rows[1:] {
		if len(row) != len(Header) {
			t.Fatalf("row %d has %d columns, expected %d", i+1, len(row), len(Header))
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	if err := Generate(first, 200, 7); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	if err := Generate(second, 200, 7); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read first dataset: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second dataset: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed and row count produced different files")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	if err := Generate(first, 100, 1); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	if err := Generate(second, 100, 2); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if bytes.Equal(a, b) {
		t.Error("different seeds produced identical files")
	}
}

func TestGenerateRejectsNonPositiveRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := Generate(path, 0, 42); err == nil {
		t.Error("expected error for zero rows")
	}
	if err := Generate(path, -5, 42); err == nil {
		t.Error("expected error for negative rows")
	}
}
