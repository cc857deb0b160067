package executor

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/olapbench/olapbench/internal/probe"
	"github.com/olapbench/olapbench/internal/registry"
)

// metricsLine matches the fixed line format the measure child emits:
//
//	Memory = <float> MB, Time = <float> s
//
// The memory value may be negative; elapsed time may not.
var metricsLine = regexp.MustCompile(`Memory\s*=\s*(-?[0-9.]+)\s*MB.*?Time\s*=\s*([0-9.]+)\s*s`)

// Bridge launches one fresh process per cold-mode iteration and parses
// a single MetricSample back from its combined output. Each child is a
// blocking spawn-and-wait with a bounded timeout; no children overlap.
type Bridge struct {
	// BinPath is the harness binary to re-invoke, normally os.Executable().
	BinPath string

	// ConfigFile is the parent's --config path, forwarded to every child
	// so it resolves the same dataset and results configuration. Empty
	// means the child uses the default config search.
	ConfigFile string

	// Timeout bounds each child. On expiry the child is forcibly killed
	// and the iteration reported as a SubprocessFailureError.
	Timeout time.Duration
}

// command builds the child invocation for one cold iteration.
func (b *Bridge) command(ctx context.Context, backend registry.Backend, op registry.Operation) *exec.Cmd {
	args := []string{"measure",
		"--backend", string(backend),
		"--operation", string(op),
	}
	if b.ConfigFile != "" {
		args = append(args, "--config", b.ConfigFile)
	}
	return exec.CommandContext(ctx, b.BinPath, args...)
}

// RunIsolated spawns `<bin> measure --backend B --operation OP`
// (plus `--config` when the parent ran with one), waits for it to exit,
// and parses its metrics line.
//
// A non-zero exit yields a SubprocessFailureError; a clean exit without
// a parseable metrics line yields an UnparsableOutputError. A sample is
// never fabricated from unparseable output.
func (b *Bridge) RunIsolated(ctx context.Context, backend registry.Backend, op registry.Operation) (probe.MetricSample, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	output, err := b.command(ctx, backend, op).CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		return probe.MetricSample{}, &SubprocessFailureError{
			Backend:   backend,
			Operation: op,
			Output:    string(output),
			Err:       err,
		}
	}

	return ParseSample(string(output))
}

// ParseSample extracts the first metrics line from captured subprocess
// output. It fails with UnparsableOutputError when no line matches.
func ParseSample(output string) (probe.MetricSample, error) {
	m := metricsLine.FindStringSubmatch(output)
	if m == nil {
		return probe.MetricSample{}, &UnparsableOutputError{Output: output}
	}

	mem, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return probe.MetricSample{}, &UnparsableOutputError{Output: output}
	}
	elapsed, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return probe.MetricSample{}, &UnparsableOutputError{Output: output}
	}

	return probe.MetricSample{ElapsedSeconds: elapsed, MemoryDeltaMB: mem}, nil
}
