package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olapbench/olapbench/internal/executor"
	"github.com/olapbench/olapbench/internal/export"
	"github.com/olapbench/olapbench/internal/registry"
	"github.com/olapbench/olapbench/internal/stats"
)

var (
	compareBackends  string
	compareOperation string
	compareMode      string
	compareRuns      int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run one configuration across multiple backends",
	Long: `Fan the same {operation, mode, run count} configuration out across
several backends and print a cross-backend summary.

Each backend's raw samples and summary statistics are exported under its
own (backend, operation, mode) key, then a comparison table of mean
elapsed time and mean memory delta is printed.

Examples:
  # all backends, 10 cold runs each
  olapbench compare --operation filter-count --mode cold --runs 10

  # only the library-backed engines
  olapbench compare --backends sqlite,arrow --operation filter-group-sum --mode hot`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareBackends, "backends", "", "comma-separated backends (default: all)")
	compareCmd.Flags().StringVar(&compareOperation, "operation", "", "operation to benchmark")
	compareCmd.Flags().StringVar(&compareMode, "mode", "cold", "isolation mode (cold, hot, warm)")
	compareCmd.Flags().IntVar(&compareRuns, "runs", 0, "number of measured iterations per backend (default from config)")
	_ = compareCmd.MarkFlagRequired("operation")
}

// backendSummary is one row of the comparison table.
type backendSummary struct {
	backend registry.Backend
	result  *executor.RunResult
	time    stats.Summary
	memory  stats.Summary
}

func runCompare(cmd *cobra.Command, args []string) error {
	op, err := registry.ParseOperation(compareOperation)
	if err != nil {
		return err
	}
	mode, err := executor.ParseMode(compareMode)
	if err != nil {
		return err
	}
	targets, err := parseBackendList(compareBackends)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runs := compareRuns
	if runs == 0 {
		runs = cfg.Runs
	}

	h, err := buildHarness(cfg, nil, true)
	if err != nil {
		return err
	}
	exporter, err := export.New(cfg.ResultsDir)
	if err != nil {
		return err
	}

	summaries := make([]backendSummary, 0, len(targets))
	for _, backend := range targets {
		result, err := h.exec.Run(cmd.Context(), backend, op, mode, runs)
		if err != nil {
			var noSamples *executor.NoSamplesCollectedError
			if errors.As(err, &noSamples) {
				// One backend producing nothing should not sink the whole
				// comparison; the failure is reported in the table footer.
				fmt.Fprintf(h.out, "Warning: %v\n", err)
				continue
			}
			return err
		}

		if _, err := exporter.Export(result); err != nil {
			return err
		}

		summaries = append(summaries, backendSummary{
			backend: backend,
			result:  result,
			time:    stats.Summarize("Elapsed Time (s)", result.Times()),
			memory:  stats.Summarize("Memory Used (MB)", result.Memories()),
		})
	}

	if len(summaries) == 0 {
		return fmt.Errorf("comparison collected no samples from any backend")
	}

	printComparison(h, op, mode, runs, targets, summaries)
	return nil
}

func printComparison(h *harness, op registry.Operation, mode executor.Mode, runs int, targets []registry.Backend, summaries []backendSummary) {
	fmt.Fprintf(h.out, "\n=== COMPARISON: %s (%s mode, %d runs) ===\n\n", op, mode, runs)
	fmt.Fprintf(h.out, "%-10s  %-14s  %-14s  %-10s\n", "Backend", "Mean Time (s)", "Mean Mem (MB)", "Succeeded")
	fmt.Fprintf(h.out, "%s\n", strings.Repeat("-", 56))
	for _, s := range summaries {
		fmt.Fprintf(h.out, "%-10s  %-14.2f  %-14.2f  %d/%d\n",
			s.backend, s.time.Mean, s.memory.Mean, s.result.Succeeded(), s.result.Requested)
	}
	if len(summaries) < len(targets) {
		fmt.Fprintf(h.out, "\n%d of %d backends collected no samples; see warnings above.\n",
			len(targets)-len(summaries), len(targets))
	}
}

// parseBackendList parses a comma-separated backend selector; an empty
// selector means every backend.
func parseBackendList(s string) ([]registry.Backend, error) {
	if strings.TrimSpace(s) == "" {
		return registry.AllBackends(), nil
	}
	var out []registry.Backend
	for _, name := range strings.Split(s, ",") {
		b, err := registry.ParseBackend(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
