// Package export persists benchmark results in durable, appendable,
// human-inspectable form: one CSV of raw per-run samples plus a JSON
// sidecar with summary statistics, per (backend, operation, mode) key.
//
// Export is overwrite-by-key: files are created with truncation, so
// re-running the same configuration produces a fresh, complete record
// rather than a mixture of old and new samples.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/olapbench/olapbench/internal/executor"
	"github.com/olapbench/olapbench/internal/probe"
	"github.com/olapbench/olapbench/internal/stats"
)

// SystemInfo captures host details for reproducibility.
type SystemInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	GoVersion string `json:"go_version"`
	Hostname  string `json:"hostname,omitempty"`
}

// GetSystemInfo captures current system information.
func GetSystemInfo() SystemInfo {
	info := SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	return info
}

// Record is the exported JSON document for one benchmark invocation.
type Record struct {
	Backend     string               `json:"backend"`
	Operation   string               `json:"operation"`
	Mode        string               `json:"mode"`
	Requested   int                  `json:"requested_runs"`
	Succeeded   int                  `json:"succeeded_runs"`
	State       string               `json:"state"`
	GeneratedAt time.Time            `json:"generated_at"`
	System      SystemInfo           `json:"system_info"`
	Samples     []probe.MetricSample `json:"samples"`
	TimeStats   stats.Summary        `json:"time_stats"`
	MemoryStats stats.Summary        `json:"memory_stats"`
	Failures    []string             `json:"failures,omitempty"`
}

// Exporter writes result records under a single destination directory.
// The destination is only ever written by the orchestrating process,
// after a run completes; there are no concurrent writers.
type Exporter struct {
	dir string
}

// New returns an exporter rooted at dir, creating it if needed.
func New(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// Key returns the record key for a result: "<backend>_<operation>_<mode>".
func Key(res *executor.RunResult) string {
	return fmt.Sprintf("%s_%s_%s", res.Backend, res.Operation, res.Mode)
}

// Export writes the raw CSV and the JSON summary for one run result and
// returns the CSV path. Summary statistics are derived here from the
// result, independently for the time and memory series.
func (e *Exporter) Export(res *executor.RunResult) (string, error) {
	csvPath := filepath.Join(e.dir, Key(res)+".csv")
	if err := e.writeCSV(csvPath, res); err != nil {
		return "", fmt.Errorf("failed to export CSV: %w", err)
	}

	jsonPath := filepath.Join(e.dir, Key(res)+".json")
	if err := e.writeJSON(jsonPath, res); err != nil {
		return "", fmt.Errorf("failed to export JSON: %w", err)
	}
	return csvPath, nil
}

// writeCSV writes one row per successful iteration, in execution order.
func (e *Exporter) writeCSV(path string, res *executor.RunResult) error {
	f, err := os.Create(path) // truncates: overwrite-by-key
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"backend", "operation", "mode", "run", "memory_mb", "time_s"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, sample := range res.Samples {
		row := []string{
			string(res.Backend),
			string(res.Operation),
			string(res.Mode),
			strconv.Itoa(i + 1),
			strconv.FormatFloat(sample.MemoryDeltaMB, 'f', 4, 64),
			strconv.FormatFloat(sample.ElapsedSeconds, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *Exporter) writeJSON(path string, res *executor.RunResult) error {
	record := Record{
		Backend:     string(res.Backend),
		Operation:   string(res.Operation),
		Mode:        string(res.Mode),
		Requested:   res.Requested,
		Succeeded:   res.Succeeded(),
		State:       res.State.String(),
		GeneratedAt: time.Now().UTC(),
		System:      GetSystemInfo(),
		Samples:     res.Samples,
		TimeStats:   stats.Summarize("Elapsed Time (s)", res.Times()),
		MemoryStats: stats.Summarize("Memory Used (MB)", res.Memories()),
	}
	for _, failure := range res.Failures {
		record.Failures = append(record.Failures,
			fmt.Sprintf("run %d: %v", failure.Run, failure.Err))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}
