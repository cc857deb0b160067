// Command olapbench benchmarks equivalent analytical operations across
// interchangeable data-processing backends and compares their execution
// time and memory footprint.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/olapbench/olapbench/internal/backends"
	"github.com/olapbench/olapbench/internal/config"
	"github.com/olapbench/olapbench/internal/executor"
	"github.com/olapbench/olapbench/internal/iox"
	"github.com/olapbench/olapbench/internal/probe"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "olapbench",
	Short: "Benchmark analytical operations across data-processing backends",
	Long: `olapbench measures execution time and resident-memory deltas of
equivalent analytical operations (filtering, grouping, aggregation)
across interchangeable backends: an in-memory SQLite engine, an Arrow
columnar engine, and a dependency-free native CSV scan.

Runs execute under one of three isolation modes:

  cold  - a fresh process per iteration, no shared state or warm caches
  hot   - repeated in-process iterations, caches allowed to build up
  warm  - hot preceded by untimed warmup iterations

Raw samples and summary statistics are exported per
(backend, operation, mode) key for cross-backend comparison.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: olapbench.yaml in the working directory)")
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

// harness bundles the wired-up components one benchmark command needs.
type harness struct {
	cfg  config.Config
	sink *iox.Sink
	out  io.Writer
	exec *executor.Executor
}

// buildHarness wires sink, registry, probe, bridge, and executor against
// the resolved configuration. out receives all console output; when
// teeLog is set it is duplicated into the run log under the results dir.
func buildHarness(cfg config.Config, out io.Writer, teeLog bool) (*harness, error) {
	if out == nil {
		out = os.Stdout
	}
	if teeLog {
		logOut, err := iox.RunLog(cfg.ResultsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		out = logOut
	}

	sink := iox.NewSink(out)
	reg, err := backends.NewRegistry(cfg, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to build operation registry: %w", err)
	}

	p, err := probe.New()
	if err != nil {
		return nil, err
	}

	bin, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate own binary for cold runs: %w", err)
	}
	bridge := &executor.Bridge{BinPath: bin, ConfigFile: cfgFile, Timeout: cfg.SubprocessTimeout}

	exec, err := executor.New(reg, p, sink, out, bridge, cfg.WarmupRuns)
	if err != nil {
		return nil, err
	}

	return &harness{cfg: cfg, sink: sink, out: out, exec: exec}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
