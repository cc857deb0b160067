// Package registry maps (backend, operation) pairs to the concrete
// callables that execute one analytical task against the dataset.
//
// The mapping is built once at startup and validated at registration
// time, so a misconfigured pair fails before any measurement starts
// rather than in the middle of a benchmark run.
package registry

import (
	"fmt"
	"sort"
)

// Backend identifies one of the interchangeable data-processing engines.
type Backend string

const (
	// BackendSQLite loads the dataset into an in-memory SQLite table and
	// queries it with SQL.
	BackendSQLite Backend = "sqlite"

	// BackendArrow reads the dataset into Arrow columnar records and
	// evaluates the operation over typed column arrays.
	BackendArrow Backend = "arrow"

	// BackendNative is the dependency-free baseline: a streaming CSV scan
	// with hand-rolled filtering and grouping.
	BackendNative Backend = "native"
)

// AllBackends returns every backend the harness knows about, in a fixed
// presentation order.
func AllBackends() []Backend {
	return []Backend{BackendSQLite, BackendArrow, BackendNative}
}

// ParseBackend validates a backend name supplied on the command line.
func ParseBackend(name string) (Backend, error) {
	for _, b := range AllBackends() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (valid: sqlite, arrow, native)", name)
}

// Operation identifies one analytical task. Every backend implements the
// same operation set so results are directly comparable.
type Operation string

const (
	// OpFilterCount filters for purchase events and counts the rows.
	OpFilterCount Operation = "filter-count"

	// OpFilterGroupSum filters for purchase events, groups by category,
	// and sums total sales per category.
	OpFilterGroupSum Operation = "filter-group-sum"

	// OpGroupConditionalCount groups by category and counts views, carts,
	// and purchases within each group.
	OpGroupConditionalCount Operation = "group-conditional-count"
)

// AllOperations returns every registered operation name.
func AllOperations() []Operation {
	return []Operation{OpFilterCount, OpFilterGroupSum, OpGroupConditionalCount}
}

// ParseOperation validates an operation name supplied on the command line.
func ParseOperation(name string) (Operation, error) {
	for _, op := range AllOperations() {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q (valid: filter-count, filter-group-sum, group-conditional-count)", name)
}

// OpFunc is a zero-argument callable performing one analytical operation
// against the configured dataset. It may print diagnostic output to the
// harness sink; any returned error is surfaced by the executor as an
// operation execution failure.
type OpFunc func() error

// UnknownOperationError reports a (backend, operation) pair that was
// never registered. It is a configuration failure: the whole run aborts
// before any sample is taken.
type UnknownOperationError struct {
	Backend   Backend
	Operation Operation
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("no operation registered for backend %q, operation %q", e.Backend, e.Operation)
}

type opKey struct {
	backend   Backend
	operation Operation
}

// Registry holds the dispatch table. It is populated during construction
// and never mutated afterwards; Resolve is safe for concurrent use once
// registration is complete.
type Registry struct {
	ops map[opKey]OpFunc
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{ops: make(map[opKey]OpFunc)}
}

// Register adds a callable for the given pair. Registration fails on a
// nil callable or a duplicate pair so wiring mistakes surface at startup.
func (r *Registry) Register(b Backend, op Operation, fn OpFunc) error {
	if fn == nil {
		return fmt.Errorf("nil callable for backend %q, operation %q", b, op)
	}
	key := opKey{backend: b, operation: op}
	if _, exists := r.ops[key]; exists {
		return fmt.Errorf("duplicate registration for backend %q, operation %q", b, op)
	}
	r.ops[key] = fn
	return nil
}

// Resolve returns the callable for the given pair, or an
// UnknownOperationError if the pair was never registered.
func (r *Registry) Resolve(b Backend, op Operation) (OpFunc, error) {
	fn, ok := r.ops[opKey{backend: b, operation: op}]
	if !ok {
		return nil, &UnknownOperationError{Backend: b, Operation: op}
	}
	return fn, nil
}

// Registered returns the registered pairs as "backend/operation" strings,
// sorted for stable display in help and error output.
func (r *Registry) Registered() []string {
	pairs := make([]string, 0, len(r.ops))
	for key := range r.ops {
		pairs = append(pairs, fmt.Sprintf("%s/%s", key.backend, key.operation))
	}
	sort.Strings(pairs)
	return pairs
}
