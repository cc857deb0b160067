package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olapbench/olapbench/internal/executor"
	"github.com/olapbench/olapbench/internal/export"
	"github.com/olapbench/olapbench/internal/registry"
	"github.com/olapbench/olapbench/internal/stats"
)

var (
	runBackend   string
	runOperation string
	runMode      string
	runCount     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark one operation on one backend",
	Long: `Run a single benchmark configuration: one backend, one operation,
one isolation mode, N measured iterations.

Raw samples and summary statistics are written to the results directory
under the (backend, operation, mode) key; re-running the same
configuration overwrites the previous record.

Examples:
  # 10 cold runs of the filter-count operation on SQLite
  olapbench run --backend sqlite --operation filter-count --mode cold --runs 10

  # warm in-process runs on the Arrow engine
  olapbench run --backend arrow --operation filter-group-sum --mode warm`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runBackend, "backend", "", "backend to benchmark (sqlite, arrow, native)")
	runCmd.Flags().StringVar(&runOperation, "operation", "", "operation to benchmark (filter-count, filter-group-sum, group-conditional-count)")
	runCmd.Flags().StringVar(&runMode, "mode", "cold", "isolation mode (cold, hot, warm)")
	runCmd.Flags().IntVar(&runCount, "runs", 0, "number of measured iterations (default from config)")
	_ = runCmd.MarkFlagRequired("backend")
	_ = runCmd.MarkFlagRequired("operation")
}

func runRun(cmd *cobra.Command, args []string) error {
	backend, err := registry.ParseBackend(runBackend)
	if err != nil {
		return err
	}
	op, err := registry.ParseOperation(runOperation)
	if err != nil {
		return err
	}
	mode, err := executor.ParseMode(runMode)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runs := runCount
	if runs == 0 {
		runs = cfg.Runs
	}

	h, err := buildHarness(cfg, nil, true)
	if err != nil {
		return err
	}

	result, err := h.exec.Run(cmd.Context(), backend, op, mode, runs)
	if err != nil {
		return err
	}

	stats.Summarize("Elapsed Time (s)", result.Times()).Print(h.out)
	stats.Summarize("Memory Used (MB)", result.Memories()).Print(h.out)

	exporter, err := export.New(cfg.ResultsDir)
	if err != nil {
		return err
	}
	csvPath, err := exporter.Export(result)
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "\nExported: %s\n", csvPath)
	return nil
}
