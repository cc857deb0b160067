package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/olapbench/olapbench/internal/executor"
	"github.com/olapbench/olapbench/internal/registry"
)

var (
	measureBackend   string
	measureOperation string
)

// measureCmd is the child half of the subprocess bridge: it runs the
// executor in hot mode with a single iteration and emits the metrics
// line (`Memory = <float> MB, Time = <float> s`) the parent parses from
// captured output. Hidden because operators use `run` and `compare`.
var measureCmd = &cobra.Command{
	Use:    "measure",
	Hidden: true,
	Short:  "Measure one operation once and print the metrics line",
	RunE:   runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureBackend, "backend", "", "backend to measure")
	measureCmd.Flags().StringVar(&measureOperation, "operation", "", "operation to measure")
	_ = measureCmd.MarkFlagRequired("backend")
	_ = measureCmd.MarkFlagRequired("operation")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	backend, err := registry.ParseBackend(measureBackend)
	if err != nil {
		return err
	}
	op, err := registry.ParseOperation(measureOperation)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// All output goes straight to stdout; the parent captures combined
	// stdout/stderr and pattern-matches the metrics line.
	h, err := buildHarness(cfg, os.Stdout, false)
	if err != nil {
		return err
	}

	// Settle the heap before the single measurement so the memory delta
	// reflects the operation, not startup allocation noise.
	runtime.GC()

	_, err = h.exec.Run(cmd.Context(), backend, op, executor.ModeHot, 1)
	return err
}
