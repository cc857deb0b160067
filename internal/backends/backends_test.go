package backends

import (
	"bufio"
	"bytes"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/olapbench/olapbench/internal/config"
	"github.com/olapbench/olapbench/internal/dataset"
	"github.com/olapbench/olapbench/internal/registry"
)

var allBackends = []registry.Backend{
	registry.BackendSQLite,
	registry.BackendArrow,
	registry.BackendNative,
}

// runOp executes one (backend, operation) pair against the dataset at
// path and returns the printed output.
func runOp(t *testing.T, path string, backend registry.Backend, op registry.Operation) string {
	t.Helper()

	var buf bytes.Buffer
	cfg := config.Config{DatasetPath: path}
	reg, err := NewRegistry(cfg, &buf)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	fn, err := reg.Resolve(backend, op)
	if err != nil {
		t.Fatalf("failed to resolve %s/%s: %v", backend, op, err)
	}
	if err := fn(); err != nil {
		t.Fatalf("%s/%s failed: %v", backend, op, err)
	}
	return buf.String()
}

func generateDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := dataset.Generate(path, 500, 42); err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}
	return path
}

func TestRegistryCoversEveryPair(t *testing.T) {
	reg, err := NewRegistry(config.Config{DatasetPath: "unused.csv"}, nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	ops := []registry.Operation{
		registry.OpFilterCount,
		registry.OpFilterGroupSum,
		registry.OpGroupConditionalCount,
	}
	for _, backend := range allBackends {
		for _, op := range ops {
			if _, err := reg.Resolve(backend, op); err != nil {
				t.Errorf("missing registration for %s/%s: %v", backend, op, err)
			}
		}
	}
}

func TestFilterCountAgreesAcrossEngines(t *testing.T) {
	path := generateDataset(t)

	outputs := make(map[registry.Backend]string)
	for _, backend := range allBackends {
		outputs[backend] = runOp(t, path, backend, registry.OpFilterCount)
	}

	reference := outputs[registry.BackendNative]
	if !strings.HasPrefix(reference, "purchase_count: ") {
		t.Fatalf("unexpected native output: %q", reference)
	}
	for _, backend := range allBackends {
		if outputs[backend] != reference {
			t.Errorf("%s disagreed: %q vs %q", backend, outputs[backend], reference)
		}
	}
}

func TestFilterGroupSumAgreesAcrossEngines(t *testing.T) {
	path := generateDataset(t)

	// Engines may sum groups in different orders, so compare totals per
	// category under a rounding tolerance instead of raw output.
	totals := make(map[registry.Backend]map[string]float64)
	for _, backend := range allBackends {
		out := runOp(t, path, backend, registry.OpFilterGroupSum)
		totals[backend] = parseTotals(t, out)
	}

	reference := totals[registry.BackendNative]
	if len(reference) == 0 {
		t.Fatal("native engine produced no groups")
	}
	for _, backend := range allBackends {
		got := totals[backend]
		if len(got) != len(reference) {
			t.Errorf("%s has %d groups, expected %d", backend, len(got), len(reference))
			continue
		}
		for category, want := range reference {
			if math.Abs(got[category]-want) > 0.011 {
				t.Errorf("%s disagreed on %s: %.2f vs %.2f", backend, category, got[category], want)
			}
		}
	}
}

func TestGroupConditionalCountAgreesAcrossEngines(t *testing.T) {
	path := generateDataset(t)

	counts := make(map[registry.Backend]map[string]string)
	for _, backend := range allBackends {
		out := runOp(t, path, backend, registry.OpGroupConditionalCount)
		counts[backend] = parseCountLines(t, out)
	}

	reference := counts[registry.BackendNative]
	if len(reference) == 0 {
		t.Fatal("native engine produced no groups")
	}
	for _, backend := range allBackends {
		got := counts[backend]
		if len(got) != len(reference) {
			t.Errorf("%s has %d groups, expected %d", backend, len(got), len(reference))
			continue
		}
		for category, want := range reference {
			if got[category] != want {
				t.Errorf("%s disagreed on %s: %q vs %q", backend, category, got[category], want)
			}
		}
	}
}

// parseTotals decodes "category: total_sales=123.45" lines.
func parseTotals(t *testing.T, out string) map[string]float64 {
	t.Helper()
	totals := make(map[string]float64)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		category, rest, ok := strings.Cut(line, ": total_sales=")
		if !ok {
			t.Fatalf("unparsable group-sum line: %q", line)
		}
		total, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			t.Fatalf("bad total in line %q: %v", line, err)
		}
		totals[category] = total
	}
	return totals
}

// parseCountLines decodes "category: views=... carts=... purchases=..."
// lines into category keyed count strings.
func parseCountLines(t *testing.T, out string) map[string]string {
	t.Helper()
	counts := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		category, rest, ok := strings.Cut(line, ": ")
		if !ok {
			t.Fatalf("unparsable count line: %q", line)
		}
		counts[category] = rest
	}
	return counts
}

func TestMissingDatasetErrors(t *testing.T) {
	cfg := config.Config{DatasetPath: filepath.Join(t.TempDir(), "absent.csv")}
	reg, err := NewRegistry(cfg, nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	for _, backend := range allBackends {
		fn, err := reg.Resolve(backend, registry.OpFilterCount)
		if err != nil {
			t.Fatalf("failed to resolve %s: %v", backend, err)
		}
		if err := fn(); err == nil {
			t.Errorf("%s did not report the missing dataset", backend)
		}
	}
}
