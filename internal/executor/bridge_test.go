package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/olapbench/olapbench/internal/registry"
)

func TestChildInvocationForwardsConfig(t *testing.T) {
	// A parent running with --config must hand the same path to every
	// cold-mode child, or the child resolves a different dataset.
	b := &Bridge{BinPath: "/usr/local/bin/olapbench", ConfigFile: "custom.yaml"}
	cmd := b.command(context.Background(), registry.BackendNative, registry.OpFilterCount)

	argv := strings.Join(cmd.Args, " ")
	for _, want := range []string{
		"measure",
		"--backend native",
		"--operation filter-count",
		"--config custom.yaml",
	} {
		if !strings.Contains(argv, want) {
			t.Errorf("child argv missing %q: %v", want, cmd.Args)
		}
	}
}

func TestChildInvocationWithoutConfig(t *testing.T) {
	b := &Bridge{BinPath: "/usr/local/bin/olapbench"}
	cmd := b.command(context.Background(), registry.BackendSQLite, registry.OpFilterGroupSum)

	argv := strings.Join(cmd.Args, " ")
	if strings.Contains(argv, "--config") {
		t.Errorf("child argv carries --config with no config file set: %v", cmd.Args)
	}
	if !strings.Contains(argv, "--backend sqlite") {
		t.Errorf("child argv missing backend selector: %v", cmd.Args)
	}
}

func TestParseSample(t *testing.T) {
	sample, err := ParseSample("Memory = 12.50 MB, Time = 1.23 s")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sample.ElapsedSeconds != 1.23 {
		t.Errorf("expected elapsed 1.23, got %v", sample.ElapsedSeconds)
	}
	if sample.MemoryDeltaMB != 12.50 {
		t.Errorf("expected memory 12.50, got %v", sample.MemoryDeltaMB)
	}
}

func TestParseSampleNegativeMemory(t *testing.T) {
	// Negative deltas mean memory was freed during execution; they are
	// expected data, not a parse failure.
	sample, err := ParseSample("Memory = -4.75 MB, Time = 0.42 s")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sample.MemoryDeltaMB != -4.75 {
		t.Errorf("expected memory -4.75, got %v", sample.MemoryDeltaMB)
	}
}

func TestParseSampleWithSurroundingOutput(t *testing.T) {
	output := "Run 1/1\npurchase_count: 4821\nMemory = 103.20 MB, Time = 2.05 s\nBenchmark finished: 1 of 1 iterations succeeded\n"
	sample, err := ParseSample(output)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sample.ElapsedSeconds != 2.05 || sample.MemoryDeltaMB != 103.20 {
		t.Errorf("unexpected sample: %+v", sample)
	}
}

func TestParseSampleUnparsable(t *testing.T) {
	sample, err := ParseSample("panic: runtime error: index out of range")
	if err == nil {
		t.Fatal("expected error for unparsable output")
	}

	var unparsable *UnparsableOutputError
	if !errors.As(err, &unparsable) {
		t.Fatalf("expected UnparsableOutputError, got %T: %v", err, err)
	}

	// No sample may be fabricated from unparseable output.
	if sample.ElapsedSeconds != 0 || sample.MemoryDeltaMB != 0 {
		t.Errorf("expected zero sample on parse failure, got %+v", sample)
	}
}
