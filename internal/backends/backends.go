// Package backends implements the interchangeable data-processing
// engines the harness measures. Each engine exposes the same operation
// set over the same CSV dataset so results are directly comparable:
//
//   - sqlite: in-memory SQLite table queried with SQL
//   - arrow:  Arrow columnar records with typed column evaluation
//   - native: streaming CSV scan with hand-rolled grouping
//
// Engines are thin leaves. They print their results through the harness
// output sink and return an error on any environment problem; the
// measurement around them lives in internal/probe and internal/executor.
package backends

import (
	"io"

	"github.com/olapbench/olapbench/internal/config"
	"github.com/olapbench/olapbench/internal/registry"
)

// engine registers its operation callables into the dispatch table.
type engine interface {
	register(reg *registry.Registry) error
}

// NewRegistry builds the complete dispatch table over the configured
// dataset. Diagnostic output from operations goes to out.
func NewRegistry(cfg config.Config, out io.Writer) (*registry.Registry, error) {
	if out == nil {
		out = io.Discard
	}

	reg := registry.New()
	engines := []engine{
		&sqliteEngine{datasetPath: cfg.DatasetPath, out: out},
		&arrowEngine{datasetPath: cfg.DatasetPath, out: out},
		&nativeEngine{datasetPath: cfg.DatasetPath, out: out},
	}
	for _, e := range engines {
		if err := e.register(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Dataset column order shared by every engine. The generator in
// internal/dataset writes exactly this header.
const (
	colEventTime = iota
	colEventType
	colProductID
	colCategoryID
	colCategoryCode
	colBrand
	colPrice
	colUserID
	colUserSession
	columnCount
)
