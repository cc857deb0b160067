package executor

import (
	"fmt"

	"github.com/olapbench/olapbench/internal/registry"
)

// OperationExecutionError reports that one iteration's backend call
// failed. It is recovered locally: the iteration is skipped and the run
// continues.
type OperationExecutionError struct {
	Backend   registry.Backend
	Operation registry.Operation
	Run       int
	Err       error
}

func (e *OperationExecutionError) Error() string {
	return fmt.Sprintf("operation %s/%s failed on run %d: %v", e.Backend, e.Operation, e.Run, e.Err)
}

func (e *OperationExecutionError) Unwrap() error { return e.Err }

// SubprocessFailureError reports that a cold-mode child process exited
// non-zero (including forced termination on timeout). The operation
// itself failed inside the child.
type SubprocessFailureError struct {
	Backend   registry.Backend
	Operation registry.Operation
	Output    string
	Err       error
}

func (e *SubprocessFailureError) Error() string {
	return fmt.Sprintf("subprocess for %s/%s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *SubprocessFailureError) Unwrap() error { return e.Err }

// UnparsableOutputError reports that a cold-mode child exited cleanly
// but its output contained no metrics line. This is an instrumentation
// or format break, not an operation failure, which is why it is a
// distinct type from SubprocessFailureError.
type UnparsableOutputError struct {
	Output string
}

func (e *UnparsableOutputError) Error() string {
	return "no metrics line found in subprocess output"
}

// NoSamplesCollectedError reports that every requested iteration failed
// and the run produced nothing to aggregate. It is fatal: the caller
// exits non-zero.
type NoSamplesCollectedError struct {
	Backend   registry.Backend
	Operation registry.Operation
	Requested int
}

func (e *NoSamplesCollectedError) Error() string {
	return fmt.Sprintf("no samples collected for %s/%s: all %d iterations failed",
		e.Backend, e.Operation, e.Requested)
}
