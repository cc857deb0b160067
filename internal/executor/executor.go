// Package executor runs one registered operation N times under a chosen
// isolation mode and collects the raw sample of (time, memory) pairs.
//
// Iterations are strictly sequential: running repetitions concurrently
// would contaminate the memory and time measurements of sibling
// iterations. Samples are stored in invocation order, which downstream
// span/variance computation and export depend on.
package executor

import (
	"context"
	"fmt"
	"io"

	"github.com/olapbench/olapbench/internal/iox"
	"github.com/olapbench/olapbench/internal/probe"
	"github.com/olapbench/olapbench/internal/registry"
)

// Mode selects the isolation strategy for a run.
type Mode string

const (
	// ModeCold spawns a fresh process per iteration. Every repetition is
	// fully independent: no shared state, no warm caches, by construction.
	// Warmup does not apply to cold mode.
	ModeCold Mode = "cold"

	// ModeHot loops in-process with no warmup, so later iterations may
	// benefit from caches primed by earlier ones.
	ModeHot Mode = "hot"

	// ModeWarm is hot preceded by a configurable number of untimed
	// warmup invocations that prime internal caches before measurement.
	ModeWarm Mode = "warm"
)

// ParseMode validates a mode name supplied on the command line.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeCold, ModeHot, ModeWarm:
		return Mode(name), nil
	}
	return "", fmt.Errorf("unknown mode %q (valid: cold, hot, warm)", name)
}

// State is the executor's position in its run lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning

	// StateCompleted means every requested iteration produced a sample.
	StateCompleted

	// StatePartiallyFailed means at least one iteration failed and was
	// skipped, but at least one sample was still collected.
	StatePartiallyFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StatePartiallyFailed:
		return "partially-failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FailedIteration records one skipped repetition.
type FailedIteration struct {
	Run int
	Err error
}

// RunResult is the raw outcome of one benchmark invocation. Samples are
// in execution order and contain only successful iterations; the sample
// set is never padded for failures.
type RunResult struct {
	Backend   registry.Backend
	Operation registry.Operation
	Mode      Mode
	Requested int
	Samples   []probe.MetricSample
	Failures  []FailedIteration
	State     State
}

// Succeeded returns how many of the requested iterations produced a sample.
func (r *RunResult) Succeeded() int { return len(r.Samples) }

// Times returns the elapsed-seconds series in execution order.
func (r *RunResult) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.ElapsedSeconds
	}
	return out
}

// Memories returns the memory-delta series in execution order.
func (r *RunResult) Memories() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.MemoryDeltaMB
	}
	return out
}

// Isolator runs one fully isolated repetition of an operation. The
// production implementation is Bridge; tests substitute their own.
type Isolator interface {
	RunIsolated(ctx context.Context, backend registry.Backend, op registry.Operation) (probe.MetricSample, error)
}

// Executor drives benchmark runs. Construct with New.
type Executor struct {
	reg    *registry.Registry
	probe  *probe.Probe
	sink   *iox.Sink
	out    io.Writer
	bridge Isolator
	warmup int
}

// New builds an executor.
//
// sink is the output target backend operations print through; it is
// silenced during warmup. out receives the executor's own progress and
// warning lines. bridge may be nil if cold mode is never used. warmup is
// the untimed invocation count for warm mode.
func New(reg *registry.Registry, p *probe.Probe, sink *iox.Sink, out io.Writer, bridge Isolator, warmup int) (*Executor, error) {
	if reg == nil {
		return nil, fmt.Errorf("executor requires a registry")
	}
	if p == nil {
		return nil, fmt.Errorf("executor requires a probe")
	}
	if sink == nil {
		sink = iox.NewSink(io.Discard)
	}
	if out == nil {
		out = io.Discard
	}
	if warmup < 0 {
		return nil, fmt.Errorf("warmup count must not be negative, got %d", warmup)
	}
	return &Executor{reg: reg, probe: p, sink: sink, out: out, bridge: bridge, warmup: warmup}, nil
}

// Run executes the operation runs times under the given mode.
//
// Configuration failures (unknown pair, missing bridge, bad run count)
// abort immediately before any sample is taken. Iteration failures are
// logged, skipped, and never retried; if every iteration fails the run
// fails with NoSamplesCollectedError.
func (e *Executor) Run(ctx context.Context, backend registry.Backend, op registry.Operation, mode Mode, runs int) (*RunResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("run count must be positive, got %d", runs)
	}

	// Resolve up front so a misconfigured pair aborts the whole run.
	fn, err := e.reg.Resolve(backend, op)
	if err != nil {
		return nil, err
	}
	if mode == ModeCold && e.bridge == nil {
		return nil, fmt.Errorf("cold mode requires a subprocess bridge")
	}

	result := &RunResult{
		Backend:   backend,
		Operation: op,
		Mode:      mode,
		Requested: runs,
		Samples:   make([]probe.MetricSample, 0, runs),
		State:     StateRunning,
	}

	fmt.Fprintf(e.out, "Benchmark for %s with %s started (%s)\n", op, backend, mode)

	if mode == ModeWarm && e.warmup > 0 {
		e.runWarmup(fn)
	}

	for i := 1; i <= runs; i++ {
		fmt.Fprintf(e.out, "------------------------------------------------\n")
		fmt.Fprintf(e.out, "Run %d/%d\n", i, runs)

		var sample probe.MetricSample
		var runErr error
		if mode == ModeCold {
			sample, runErr = e.bridge.RunIsolated(ctx, backend, op)
		} else {
			sample, runErr = e.measureInProcess(fn)
			if runErr != nil {
				runErr = &OperationExecutionError{Backend: backend, Operation: op, Run: i, Err: runErr}
			}
		}

		if runErr != nil {
			fmt.Fprintf(e.out, "Warning: run %d/%d failed: %v\n", i, runs, runErr)
			result.Failures = append(result.Failures, FailedIteration{Run: i, Err: runErr})
			continue
		}

		fmt.Fprintf(e.out, "Memory = %.2f MB, Time = %.2f s\n", sample.MemoryDeltaMB, sample.ElapsedSeconds)
		result.Samples = append(result.Samples, sample)
	}

	fmt.Fprintf(e.out, "------------------------------------------------\n")
	fmt.Fprintf(e.out, "Benchmark finished: %d of %d iterations succeeded\n", result.Succeeded(), runs)

	if result.Succeeded() == 0 {
		return nil, &NoSamplesCollectedError{Backend: backend, Operation: op, Requested: runs}
	}

	if len(result.Failures) > 0 {
		result.State = StatePartiallyFailed
	} else {
		result.State = StateCompleted
	}
	return result, nil
}

// runWarmup executes the untimed warmup invocations with the sink
// silenced. Warmup errors are ignored, matching measured-run semantics
// where a failed invocation is skipped rather than aborting.
func (e *Executor) runWarmup(fn registry.OpFunc) {
	fmt.Fprintf(e.out, "Running %d warmup runs (results ignored)...\n", e.warmup)
	restore := e.sink.Silence()
	defer restore()

	for i := 0; i < e.warmup; i++ {
		_ = fn()
	}
	fmt.Fprintf(e.out, "Warmup complete. Starting measured runs.\n")
}

// measureInProcess runs one hot iteration through the probe.
func (e *Executor) measureInProcess(fn registry.OpFunc) (probe.MetricSample, error) {
	return e.probe.Measure(fn)
}
