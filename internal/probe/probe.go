// Package probe measures wall-clock time and resident-memory delta
// around the execution of a single callable.
package probe

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/olapbench/olapbench/internal/registry"
)

// MetricSample is one measurement of a single callable invocation.
//
// MemoryDeltaMB is signed: a negative delta means the process released
// more memory during the call than it allocated (garbage collection,
// buffer release). That is valid data, not an error, and is never
// clamped to zero.
type MetricSample struct {
	ElapsedSeconds float64 `json:"time_s"`
	MemoryDeltaMB  float64 `json:"memory_mb"`
}

// Probe measures callables against the current process.
type Probe struct {
	proc *process.Process
}

// New returns a probe bound to the calling process.
func New() (*Probe, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to attach to own process: %w", err)
	}
	return &Probe{proc: proc}, nil
}

// MemoryUsageMB returns the current resident set size in megabytes.
func (p *Probe) MemoryUsageMB() (float64, error) {
	info, err := p.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read process memory: %w", err)
	}
	return float64(info.RSS) / (1024 * 1024), nil
}

// Measure records a monotonic timestamp and the process RSS immediately
// before invoking fn, runs fn to completion, then records both again.
//
// If fn fails, no sample is produced and the error is returned
// unmodified; the probe neither suppresses nor re-wraps callable errors.
func (p *Probe) Measure(fn registry.OpFunc) (MetricSample, error) {
	memBefore, err := p.MemoryUsageMB()
	if err != nil {
		return MetricSample{}, err
	}
	start := time.Now()

	if err := fn(); err != nil {
		return MetricSample{}, err
	}

	elapsed := time.Since(start).Seconds()
	memAfter, err := p.MemoryUsageMB()
	if err != nil {
		return MetricSample{}, err
	}

	return MetricSample{
		ElapsedSeconds: elapsed,
		MemoryDeltaMB:  memAfter - memBefore,
	}, nil
}
